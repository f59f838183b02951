package dto

import (
	"strings"
	"time"

	uModel "schoolku_backend/internals/features/users/user/model"
)

/* =======================================================
   RESPONSE DTO
   ======================================================= */

type UserResponse struct {
	ID             uint       `json:"id"`
	Email          string     `json:"email"`
	UserName       string     `json:"username"`
	Role           string     `json:"role"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	FullName       string     `json:"full_name"`
	Phone          *string    `json:"phone,omitempty"`
	Address        *string    `json:"address,omitempty"`
	DateOfBirth    *string    `json:"date_of_birth,omitempty"`
	Gender         *string    `json:"gender,omitempty"`
	ProfilePicture *string    `json:"profile_picture,omitempty"`
	SchoolID       *uint      `json:"school_id,omitempty"`
	IsActive       bool       `json:"is_active"`
	EmailVerified  bool       `json:"email_verified"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func FromModel(u *uModel.UserModel) UserResponse {
	resp := UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		UserName:       u.UserName,
		Role:           u.Role,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		FullName:       u.FullName(),
		Phone:          u.Phone,
		Address:        u.Address,
		Gender:         u.Gender,
		ProfilePicture: u.ProfilePicture,
		SchoolID:       u.SchoolID,
		IsActive:       u.IsActive,
		EmailVerified:  u.EmailVerified,
		LastLogin:      u.LastLogin,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
	if u.DateOfBirth != nil {
		d := u.DateOfBirth.Format("2006-01-02")
		resp.DateOfBirth = &d
	}
	return resp
}

func FromModels(users []uModel.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, FromModel(&users[i]))
	}
	return out
}

/* =======================================================
   REQUEST DTOs
   ======================================================= */

// CreateUserRequest — create by admin (POST /admin/schools/:id/users).
type CreateUserRequest struct {
	Email     string  `json:"email" validate:"required,email,max=120"`
	UserName  string  `json:"username" validate:"required,min=3,max=80"`
	Password  string  `json:"password" validate:"required,min=8"`
	Role      string  `json:"role" validate:"required,oneof=super_admin school_admin principal director teacher student"`
	FirstName string  `json:"first_name" validate:"required,max=50"`
	LastName  string  `json:"last_name" validate:"required,max=50"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	Gender    *string `json:"gender,omitempty"`
	SchoolID  *uint   `json:"school_id,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

func (r *CreateUserRequest) Normalize() {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.UserName = strings.TrimSpace(r.UserName)
	r.Role = strings.TrimSpace(strings.ToLower(r.Role))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

func (r *CreateUserRequest) ToModel() *uModel.UserModel {
	m := &uModel.UserModel{
		Email:     r.Email,
		UserName:  r.UserName,
		Role:      r.Role,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Address:   r.Address,
		Gender:    r.Gender,
		SchoolID:  r.SchoolID,
		IsActive:  true,
	}
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
	return m
}

// UpdateUserRequest — partial update; pointer fields distinguish omitted from
// null. Only this allow-list ever reaches the model: arbitrary payload keys
// are dropped on unmarshal.
type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email,max=120"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=50"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=50"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
	Role      *string `json:"role,omitempty" validate:"omitempty,oneof=super_admin school_admin principal director teacher student"`
}

func (r *UpdateUserRequest) Normalize() {
	if r.Email != nil {
		v := strings.TrimSpace(strings.ToLower(*r.Email))
		r.Email = &v
	}
	if r.Role != nil {
		v := strings.TrimSpace(strings.ToLower(*r.Role))
		r.Role = &v
	}
}

// ApplyToModel merges only the fields present in the request. Role is applied
// by the controller after the escalation check, never here.
func (r *UpdateUserRequest) ApplyToModel(m *uModel.UserModel) {
	if r.Email != nil {
		m.Email = *r.Email
	}
	if r.FirstName != nil {
		m.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		m.LastName = *r.LastName
	}
	if r.Phone != nil {
		m.Phone = r.Phone
	}
	if r.Address != nil {
		m.Address = r.Address
	}
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
}

// UpdateProfileRequest — self-service profile update, narrower allow-list.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=50"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=50"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	Gender    *string `json:"gender,omitempty"`
	Password  *string `json:"password,omitempty" validate:"omitempty,min=8"`
}

func (r *UpdateProfileRequest) ApplyToModel(m *uModel.UserModel) {
	if r.FirstName != nil {
		m.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		m.LastName = *r.LastName
	}
	if r.Phone != nil {
		m.Phone = r.Phone
	}
	if r.Address != nil {
		m.Address = r.Address
	}
	if r.Gender != nil {
		m.Gender = r.Gender
	}
}
