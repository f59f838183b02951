package model

import (
	"math"
	"time"

	"gorm.io/gorm"
)

type GradeModel struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	StudentID uint `gorm:"index;not null" json:"student_id"`
	ClassID   uint `gorm:"index;not null" json:"class_id"`
	SubjectID uint `gorm:"index;not null" json:"subject_id"`
	TeacherID uint `gorm:"index;not null" json:"teacher_id"`

	AssignmentName string `gorm:"size:200;not null" json:"assignment_name"`
	// quiz, test, exam, project, homework
	AssignmentType string `gorm:"size:50;not null" json:"assignment_type"`

	Score    float64 `gorm:"type:numeric(5,2);not null" json:"score"`
	MaxScore float64 `gorm:"type:numeric(5,2);not null;default:100" json:"max_score"`
	// Derived from score/max_score on every save; never written directly.
	Percentage  float64 `gorm:"type:numeric(5,2)" json:"percentage"`
	LetterGrade string  `gorm:"size:5" json:"letter_grade"`

	Remarks       *string    `gorm:"type:text" json:"remarks,omitempty"`
	DateAssigned  time.Time  `gorm:"type:date;not null" json:"date_assigned"`
	DueDate       *time.Time `gorm:"type:date" json:"due_date,omitempty"`
	SubmittedDate *time.Time `gorm:"type:date" json:"submitted_date,omitempty"`

	// pending, graded, late, excused
	Status string `gorm:"size:20;not null;default:'graded'" json:"status"`

	SchoolID uint `gorm:"index;not null" json:"school_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (GradeModel) TableName() string {
	return "grades"
}

// BeforeSave keeps the derived fields in sync for create and for any update
// that touches score/max_score.
func (g *GradeModel) BeforeSave(tx *gorm.DB) error {
	if g.DateAssigned.IsZero() {
		g.DateAssigned = time.Now().UTC().Truncate(24 * time.Hour)
	}
	g.Recalculate()
	return nil
}

// Recalculate derives percentage (2 decimals) and the letter grade.
func (g *GradeModel) Recalculate() {
	if g.MaxScore <= 0 {
		g.Percentage = 0
		g.LetterGrade = "F"
		return
	}
	g.Percentage = math.Round(g.Score/g.MaxScore*100*100) / 100
	switch {
	case g.Percentage >= 90:
		g.LetterGrade = "A"
	case g.Percentage >= 80:
		g.LetterGrade = "B"
	case g.Percentage >= 70:
		g.LetterGrade = "C"
	case g.Percentage >= 60:
		g.LetterGrade = "D"
	default:
		g.LetterGrade = "F"
	}
}

func (g *GradeModel) GradePoint() float64 {
	switch g.LetterGrade {
	case "A":
		return 4.0
	case "B":
		return 3.0
	case "C":
		return 2.0
	case "D":
		return 1.0
	}
	return 0.0
}

func (g *GradeModel) IsPassing() bool {
	return g.LetterGrade != "F"
}

func (g *GradeModel) PerformanceLevel() string {
	switch {
	case g.Percentage >= 90:
		return "Excellent"
	case g.Percentage >= 80:
		return "Good"
	case g.Percentage >= 70:
		return "Satisfactory"
	case g.Percentage >= 60:
		return "Needs Improvement"
	}
	return "Failing"
}

func (g *GradeModel) IsLate() bool {
	if g.DueDate == nil || g.SubmittedDate == nil {
		return false
	}
	return g.SubmittedDate.After(*g.DueDate)
}

func (g GradeModel) GetID() uint { return g.ID }
