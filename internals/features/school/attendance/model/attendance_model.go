package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusExcused = "excused"
)

// AttendanceModel — satu baris per (student, class, subject, date). Composite
// unique index menutup race antar request paralel; pre-check saja tidak cukup.
type AttendanceModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"index;not null;uniqueIndex:uniq_attendance" json:"student_id"`
	ClassID   uint      `gorm:"index;not null;uniqueIndex:uniq_attendance" json:"class_id"`
	SubjectID uint      `gorm:"index;not null;uniqueIndex:uniq_attendance" json:"subject_id"`
	TeacherID uint      `gorm:"index;not null" json:"teacher_id"`
	Date      time.Time `gorm:"type:date;index;not null;uniqueIndex:uniq_attendance" json:"date"`

	Status  string  `gorm:"size:20;not null;default:'present'" json:"status"`
	TimeIn  *string `gorm:"size:8" json:"time_in,omitempty"`  // "HH:MM"
	TimeOut *string `gorm:"size:8" json:"time_out,omitempty"` // "HH:MM"
	Remarks *string `gorm:"type:text" json:"remarks,omitempty"`

	SchoolID uint `gorm:"index;not null" json:"school_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AttendanceModel) TableName() string {
	return "attendance"
}

func (a *AttendanceModel) BeforeCreate(tx *gorm.DB) error {
	if a.Date.IsZero() {
		a.Date = time.Now().UTC().Truncate(24 * time.Hour)
	}
	return nil
}

func (a *AttendanceModel) IsPresent() bool { return a.Status == StatusPresent }
func (a *AttendanceModel) IsAbsent() bool  { return a.Status == StatusAbsent }
func (a *AttendanceModel) IsLate() bool    { return a.Status == StatusLate }
func (a *AttendanceModel) IsExcused() bool { return a.Status == StatusExcused }

func (a *AttendanceModel) StatusColor() string {
	switch a.Status {
	case StatusPresent:
		return "green"
	case StatusAbsent:
		return "red"
	case StatusLate:
		return "orange"
	case StatusExcused:
		return "blue"
	}
	return "gray"
}

// Summary is the on-read aggregate; never persisted.
type Summary struct {
	TotalRecords         int64   `json:"total_records"`
	Present              int64   `json:"present"`
	Absent               int64   `json:"absent"`
	Late                 int64   `json:"late"`
	Excused              int64   `json:"excused"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}

func (a AttendanceModel) GetID() uint { return a.ID }
