package model

import (
	"strings"
	"time"

	"gorm.io/gorm"

	helper "schoolku_backend/internals/helpers"
)

type SubjectModel struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:100;index;not null" json:"name"`
	Code        string  `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Description *string `gorm:"type:text" json:"description,omitempty"`

	ClassID   uint `gorm:"index;not null" json:"class_id"`
	TeacherID uint `gorm:"index;not null" json:"teacher_id"`

	Credits      int     `gorm:"not null;default:1" json:"credits"`
	HoursPerWeek int     `gorm:"not null;default:5" json:"hours_per_week"`
	Syllabus     *string `gorm:"type:text" json:"syllabus,omitempty"`
	Books        *string `gorm:"type:text" json:"books,omitempty"`

	// active, inactive, completed
	Status string `gorm:"size:20;not null;default:'active'" json:"status"`

	SchoolID uint `gorm:"index;not null" json:"school_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SubjectModel) TableName() string {
	return "subjects"
}

// BeforeCreate derives a code like MAT482 from the name when none given.
func (s *SubjectModel) BeforeCreate(tx *gorm.DB) error {
	if s.Code == "" {
		prefix := "SUB"
		if name := strings.TrimSpace(s.Name); name != "" {
			if len(name) > 3 {
				name = name[:3]
			}
			prefix = strings.ToUpper(name)
		}
		s.Code = prefix + helper.RandomDigits(3)
	}
	return nil
}

func (s SubjectModel) GetID() uint { return s.ID }
