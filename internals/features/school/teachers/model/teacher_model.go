package model

import (
	"time"

	"gorm.io/gorm"

	helper "schoolku_backend/internals/helpers"
)

type TeacherModel struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	TeacherID  string    `gorm:"size:20;uniqueIndex;not null" json:"teacher_id"`
	EmployeeID string    `gorm:"size:20;uniqueIndex;not null" json:"employee_id"`
	HireDate   time.Time `gorm:"type:date;not null" json:"hire_date"`

	Department      *string  `gorm:"size:100" json:"department,omitempty"`
	Designation     *string  `gorm:"size:100" json:"designation,omitempty"`
	Qualification   *string  `gorm:"size:200" json:"qualification,omitempty"`
	ExperienceYears *int     `json:"experience_years,omitempty"`
	Salary          *float64 `gorm:"type:numeric(10,2)" json:"salary,omitempty"`
	Specialization  *string  `gorm:"size:200" json:"specialization,omitempty"`
	OfficeLocation  *string  `gorm:"size:100" json:"office_location,omitempty"`
	OfficeHours     *string  `gorm:"size:100" json:"office_hours,omitempty"`

	// active, inactive, on_leave, retired
	Status string `gorm:"size:20;not null;default:'active'" json:"status"`

	SchoolID uint `gorm:"index;not null" json:"school_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TeacherModel) TableName() string {
	return "teachers"
}

func (t *TeacherModel) BeforeCreate(tx *gorm.DB) error {
	if t.TeacherID == "" {
		t.TeacherID = helper.YearCode("TCH", helper.RandomCode(4))
	}
	if t.EmployeeID == "" {
		t.EmployeeID = helper.YearCode("EMP", helper.RandomDigits(4))
	}
	return nil
}

func (t TeacherModel) GetID() uint { return t.ID }
