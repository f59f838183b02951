package dto

import (
	"time"

	attendanceModel "schoolku_backend/internals/features/school/attendance/model"
	"schoolku_backend/internals/helpers/apperr"
)

const dateLayout = "2006-01-02"

// CreateAttendanceRequest — one row per (student, class, subject, date).
// Duplicates are rejected by the composite unique index, not a pre-check.
type CreateAttendanceRequest struct {
	StudentID uint   `json:"student_id" validate:"required"`
	ClassID   uint   `json:"class_id" validate:"required"`
	SubjectID uint   `json:"subject_id" validate:"required"`
	TeacherID uint   `json:"teacher_id" validate:"required"`
	Date      string `json:"date" validate:"omitempty"`

	Status  string  `json:"status" validate:"omitempty,oneof=present absent late excused"`
	TimeIn  *string `json:"time_in,omitempty" validate:"omitempty,len=5"`
	TimeOut *string `json:"time_out,omitempty" validate:"omitempty,len=5"`
	Remarks *string `json:"remarks,omitempty"`

	SchoolID *uint `json:"school_id,omitempty"`
}

func (r *CreateAttendanceRequest) ToModel(schoolID uint) (*attendanceModel.AttendanceModel, error) {
	m := &attendanceModel.AttendanceModel{
		StudentID: r.StudentID,
		ClassID:   r.ClassID,
		SubjectID: r.SubjectID,
		TeacherID: r.TeacherID,
		Status:    attendanceModel.StatusPresent,
		TimeIn:    r.TimeIn,
		TimeOut:   r.TimeOut,
		Remarks:   r.Remarks,
		SchoolID:  schoolID,
	}
	if r.Status != "" {
		m.Status = r.Status
	}
	if r.Date != "" {
		d, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			return nil, apperr.New(apperr.Validation, "date must be YYYY-MM-DD")
		}
		m.Date = d
	}
	return m, nil
}

// UpdateAttendanceRequest — the identifying tuple is immutable; only the
// observation itself can change.
type UpdateAttendanceRequest struct {
	Status  *string `json:"status,omitempty" validate:"omitempty,oneof=present absent late excused"`
	TimeIn  *string `json:"time_in,omitempty" validate:"omitempty,len=5"`
	TimeOut *string `json:"time_out,omitempty" validate:"omitempty,len=5"`
	Remarks *string `json:"remarks,omitempty"`
}

func (r *UpdateAttendanceRequest) ApplyToModel(m *attendanceModel.AttendanceModel) {
	if r.Status != nil {
		m.Status = *r.Status
	}
	if r.TimeIn != nil {
		m.TimeIn = r.TimeIn
	}
	if r.TimeOut != nil {
		m.TimeOut = r.TimeOut
	}
	if r.Remarks != nil {
		m.Remarks = r.Remarks
	}
}
