package dto

import (
	"strings"
	"time"

	gradeModel "schoolku_backend/internals/features/school/grades/model"
	"schoolku_backend/internals/helpers/apperr"
)

const dateLayout = "2006-01-02"

// CreateGradeRequest — percentage and letter grade are derived server-side
// and never accepted from the client.
type CreateGradeRequest struct {
	StudentID uint `json:"student_id" validate:"required"`
	ClassID   uint `json:"class_id" validate:"required"`
	SubjectID uint `json:"subject_id" validate:"required"`
	TeacherID uint `json:"teacher_id" validate:"required"`

	AssignmentName string `json:"assignment_name" validate:"required,max=200"`
	AssignmentType string `json:"assignment_type" validate:"required,oneof=quiz test exam project homework"`

	Score    float64  `json:"score" validate:"min=0"`
	MaxScore *float64 `json:"max_score,omitempty" validate:"omitempty,gt=0"`

	Remarks       *string `json:"remarks,omitempty"`
	DateAssigned  string  `json:"date_assigned" validate:"omitempty"`
	DueDate       *string `json:"due_date,omitempty"`
	SubmittedDate *string `json:"submitted_date,omitempty"`

	SchoolID *uint `json:"school_id,omitempty"`
}

func parseDate(value, field string) (time.Time, error) {
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperr.New(apperr.Validation, field+" must be YYYY-MM-DD")
	}
	return d, nil
}

func (r *CreateGradeRequest) ToModel(schoolID uint) (*gradeModel.GradeModel, error) {
	m := &gradeModel.GradeModel{
		StudentID:      r.StudentID,
		ClassID:        r.ClassID,
		SubjectID:      r.SubjectID,
		TeacherID:      r.TeacherID,
		AssignmentName: strings.TrimSpace(r.AssignmentName),
		AssignmentType: r.AssignmentType,
		Score:          r.Score,
		MaxScore:       100,
		Remarks:        r.Remarks,
		Status:         "graded",
		SchoolID:       schoolID,
	}
	if r.MaxScore != nil {
		m.MaxScore = *r.MaxScore
	}
	if r.Score > m.MaxScore {
		return nil, apperr.New(apperr.Validation, "score cannot exceed max_score")
	}
	if r.DateAssigned != "" {
		d, err := parseDate(r.DateAssigned, "date_assigned")
		if err != nil {
			return nil, err
		}
		m.DateAssigned = d
	}
	if r.DueDate != nil {
		d, err := parseDate(*r.DueDate, "due_date")
		if err != nil {
			return nil, err
		}
		m.DueDate = &d
	}
	if r.SubmittedDate != nil {
		d, err := parseDate(*r.SubmittedDate, "submitted_date")
		if err != nil {
			return nil, err
		}
		m.SubmittedDate = &d
	}
	return m, nil
}

// UpdateGradeRequest — a score change recomputes percentage and letter grade
// on save.
type UpdateGradeRequest struct {
	AssignmentName *string  `json:"assignment_name,omitempty" validate:"omitempty,max=200"`
	AssignmentType *string  `json:"assignment_type,omitempty" validate:"omitempty,oneof=quiz test exam project homework"`
	Score          *float64 `json:"score,omitempty" validate:"omitempty,min=0"`
	MaxScore       *float64 `json:"max_score,omitempty" validate:"omitempty,gt=0"`
	Remarks        *string  `json:"remarks,omitempty"`
	DueDate        *string  `json:"due_date,omitempty"`
	SubmittedDate  *string  `json:"submitted_date,omitempty"`
	Status         *string  `json:"status,omitempty" validate:"omitempty,oneof=pending graded late excused"`
}

func (r *UpdateGradeRequest) ApplyToModel(m *gradeModel.GradeModel) error {
	if r.AssignmentName != nil {
		m.AssignmentName = strings.TrimSpace(*r.AssignmentName)
	}
	if r.AssignmentType != nil {
		m.AssignmentType = *r.AssignmentType
	}
	if r.Score != nil {
		m.Score = *r.Score
	}
	if r.MaxScore != nil {
		m.MaxScore = *r.MaxScore
	}
	if m.Score > m.MaxScore {
		return apperr.New(apperr.Validation, "score cannot exceed max_score")
	}
	if r.Remarks != nil {
		m.Remarks = r.Remarks
	}
	if r.DueDate != nil {
		d, err := parseDate(*r.DueDate, "due_date")
		if err != nil {
			return err
		}
		m.DueDate = &d
	}
	if r.SubmittedDate != nil {
		d, err := parseDate(*r.SubmittedDate, "submitted_date")
		if err != nil {
			return err
		}
		m.SubmittedDate = &d
	}
	if r.Status != nil {
		m.Status = *r.Status
	}
	return nil
}
