package model

import (
	"time"

	"gorm.io/gorm"

	helper "schoolku_backend/internals/helpers"
)

// SchoolModel is the tenant root: every other record hangs off schools.id.
type SchoolModel struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	Name       string  `gorm:"size:200;not null" json:"name"`
	Code       string  `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Address    *string `gorm:"type:text" json:"address,omitempty"`
	City       *string `gorm:"size:100" json:"city,omitempty"`
	State      *string `gorm:"size:100" json:"state,omitempty"`
	Country    *string `gorm:"size:100" json:"country,omitempty"`
	PostalCode *string `gorm:"size:20" json:"postal_code,omitempty"`
	Phone      *string `gorm:"size:20" json:"phone,omitempty"`
	Email      *string `gorm:"size:120" json:"email,omitempty"`
	Website    *string `gorm:"size:200" json:"website,omitempty"`

	// Konfigurasi akademik
	AcademicYear     string `gorm:"size:20;not null;default:'2025-2026'" json:"academic_year"`
	SemesterSystem   bool   `gorm:"not null;default:true" json:"semester_system"`
	GradingSystem    string `gorm:"size:50;not null;default:'percentage'" json:"grading_system"`
	AttendanceSystem string `gorm:"size:50;not null;default:'daily'" json:"attendance_system"`

	// Branding
	LogoURL        *string `gorm:"size:500" json:"logo_url,omitempty"`
	PrimaryColor   string  `gorm:"size:7;not null;default:'#1976d2'" json:"primary_color"`
	SecondaryColor string  `gorm:"size:7;not null;default:'#dc004e'" json:"secondary_color"`

	// Limits & notifikasi
	MaxStudentsPerClass      int  `gorm:"not null;default:40" json:"max_students_per_class"`
	MaxTeachersPerSubject    int  `gorm:"not null;default:3" json:"max_teachers_per_subject"`
	EnableSMSNotifications   bool `gorm:"not null;default:false" json:"enable_sms_notifications"`
	EnableEmailNotifications bool `gorm:"not null;default:true" json:"enable_email_notifications"`

	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SchoolModel) TableName() string {
	return "schools"
}

// BeforeCreate generates a 6-char code when none was supplied. Uniqueness is
// still owned by the DB index; a collision surfaces as Conflict.
func (s *SchoolModel) BeforeCreate(tx *gorm.DB) error {
	if s.Code == "" {
		s.Code = helper.RandomCode(6)
	}
	return nil
}

func (s SchoolModel) GetID() uint { return s.ID }
