package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"schoolku_backend/internals/access"
	"schoolku_backend/internals/constants"
	schoolModel "schoolku_backend/internals/features/school/schools/model"
)

// UserModel merepresentasikan tabel users di database.
// school_id nullable hanya untuk super_admin; role lain wajib punya sekolah
// (dicek saat create, bukan retroaktif). school_id tidak pernah berubah
// setelah create.
type UserModel struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Email        string  `gorm:"size:120;uniqueIndex;not null" json:"email"`
	UserName     string  `gorm:"size:80;uniqueIndex;not null" json:"username"`
	PasswordHash string  `gorm:"size:128;not null" json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	FirstName    string  `gorm:"size:50;not null" json:"first_name"`
	LastName     string  `gorm:"size:50;not null" json:"last_name"`
	Phone        *string `gorm:"size:20" json:"phone,omitempty"`
	Address      *string `gorm:"type:text" json:"address,omitempty"`
	DateOfBirth  *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Gender       *string    `gorm:"size:10" json:"gender,omitempty"`
	ProfilePicture *string  `gorm:"size:255" json:"profile_picture,omitempty"`

	SchoolID *uint `gorm:"index" json:"school_id,omitempty"`
	// RESTRICT: the store refuses to delete a school that still has users,
	// independent of any pre-check in the handler.
	School *schoolModel.SchoolModel `gorm:"foreignKey:SchoolID;constraint:OnDelete:RESTRICT" json:"-"`

	IsActive      bool       `gorm:"not null;default:true" json:"is_active"`
	EmailVerified bool       `gorm:"not null;default:false" json:"email_verified"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Identity projects the row into the access-policy actor value.
func (u *UserModel) Identity() access.Identity {
	return access.Identity{UserID: u.ID, Role: u.Role, SchoolID: u.SchoolID}
}

func (u *UserModel) IsSuperAdmin() bool {
	return u.Role == constants.RoleSuperAdmin
}

func (u *UserModel) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *UserModel) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

func (u UserModel) GetID() uint { return u.ID }
