package model

import (
	"time"

	"gorm.io/gorm"

	helper "schoolku_backend/internals/helpers"
)

// StudentModel holds academic info; the account itself lives in users.
// school_id is assigned from the caller's tenant at create and never changes.
type StudentModel struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	StudentID     string    `gorm:"size:20;uniqueIndex;not null" json:"student_id"`
	AdmissionDate time.Time `gorm:"type:date;not null" json:"admission_date"`

	CurrentClassID *uint `gorm:"index" json:"current_class_id,omitempty"`

	ParentName        *string `gorm:"size:100" json:"parent_name,omitempty"`
	ParentPhone       *string `gorm:"size:20" json:"parent_phone,omitempty"`
	ParentEmail       *string `gorm:"size:120" json:"parent_email,omitempty"`
	EmergencyContact  *string `gorm:"size:20" json:"emergency_contact,omitempty"`
	BloodGroup        *string `gorm:"size:5" json:"blood_group,omitempty"`
	MedicalConditions *string `gorm:"type:text" json:"medical_conditions,omitempty"`
	PreviousSchool    *string `gorm:"size:200" json:"previous_school,omitempty"`
	AcademicYear      *string `gorm:"size:10" json:"academic_year,omitempty"`

	// active, inactive, graduated, transferred
	Status string `gorm:"size:20;not null;default:'active'" json:"status"`

	SchoolID uint `gorm:"index;not null" json:"school_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StudentModel) TableName() string {
	return "students"
}

func (s *StudentModel) BeforeCreate(tx *gorm.DB) error {
	if s.StudentID == "" {
		s.StudentID = helper.YearCode("STU", helper.RandomCode(4))
	}
	return nil
}

func (s StudentModel) GetID() uint { return s.ID }
