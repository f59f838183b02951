package dto

import (
	"strings"

	userModel "schoolku_backend/internals/features/users/user/model"
)

// RegisterRequest — self-service signup. super_admin can never be created
// here; the role defaults to student when omitted.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=120"`
	UserName  string `json:"username" validate:"required,min=3,max=80"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"omitempty,oneof=school_admin principal director teacher student"`
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`

	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	Gender   *string `json:"gender,omitempty"`
	SchoolID uint    `json:"school_id" validate:"required"`
}

func (r *RegisterRequest) Normalize() {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.UserName = strings.TrimSpace(r.UserName)
	r.Role = strings.TrimSpace(strings.ToLower(r.Role))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	if r.Role == "" {
		r.Role = "student"
	}
}

func (r *RegisterRequest) ToModel() *userModel.UserModel {
	schoolID := r.SchoolID
	return &userModel.UserModel{
		Email:     r.Email,
		UserName:  r.UserName,
		Role:      r.Role,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Address:   r.Address,
		Gender:    r.Gender,
		SchoolID:  &schoolID,
		IsActive:  true,
	}
}

// LoginRequest accepts either the email or the username as identifier.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Identifier = strings.TrimSpace(strings.ToLower(r.Identifier))
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}
