package dto

import (
	"strings"

	"gorm.io/datatypes"

	classModel "schoolku_backend/internals/features/school/classes/model"
)

// CreateClassRequest — one class+section per academic year.
type CreateClassRequest struct {
	Name         string `json:"name" validate:"required,max=50"`
	Section      string `json:"section" validate:"required,max=10"`
	AcademicYear string `json:"academic_year" validate:"required,max=10"`

	Capacity       *int           `json:"capacity,omitempty" validate:"omitempty,min=1"`
	ClassTeacherID *uint          `json:"class_teacher_id,omitempty"`
	RoomNumber     *string        `json:"room_number,omitempty"`
	Schedule       datatypes.JSON `json:"schedule,omitempty"`
	Description    *string        `json:"description,omitempty"`

	SchoolID *uint `json:"school_id,omitempty"`
}

func (r *CreateClassRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Section = strings.ToUpper(strings.TrimSpace(r.Section))
	r.AcademicYear = strings.TrimSpace(r.AcademicYear)
}

func (r *CreateClassRequest) ToModel(schoolID uint) *classModel.ClassModel {
	m := &classModel.ClassModel{
		Name:           r.Name,
		Section:        r.Section,
		AcademicYear:   r.AcademicYear,
		Capacity:       40,
		ClassTeacherID: r.ClassTeacherID,
		RoomNumber:     r.RoomNumber,
		Schedule:       r.Schedule,
		Description:    r.Description,
		Status:         "active",
		SchoolID:       schoolID,
	}
	if r.Capacity != nil {
		m.Capacity = *r.Capacity
	}
	return m
}

// UpdateClassRequest — partial update. current_strength is derived from
// student membership and never writable here.
type UpdateClassRequest struct {
	Name           *string        `json:"name,omitempty" validate:"omitempty,max=50"`
	Section        *string        `json:"section,omitempty" validate:"omitempty,max=10"`
	AcademicYear   *string        `json:"academic_year,omitempty" validate:"omitempty,max=10"`
	Capacity       *int           `json:"capacity,omitempty" validate:"omitempty,min=1"`
	ClassTeacherID *uint          `json:"class_teacher_id,omitempty"`
	RoomNumber     *string        `json:"room_number,omitempty"`
	Schedule       datatypes.JSON `json:"schedule,omitempty"`
	Description    *string        `json:"description,omitempty"`
	Status         *string        `json:"status,omitempty" validate:"omitempty,oneof=active inactive completed"`
}

func (r *UpdateClassRequest) ApplyToModel(m *classModel.ClassModel) {
	if r.Name != nil {
		m.Name = strings.TrimSpace(*r.Name)
	}
	if r.Section != nil {
		m.Section = strings.ToUpper(strings.TrimSpace(*r.Section))
	}
	if r.AcademicYear != nil {
		m.AcademicYear = *r.AcademicYear
	}
	if r.Capacity != nil {
		m.Capacity = *r.Capacity
	}
	if r.ClassTeacherID != nil {
		m.ClassTeacherID = r.ClassTeacherID
	}
	if r.RoomNumber != nil {
		m.RoomNumber = r.RoomNumber
	}
	if len(r.Schedule) > 0 {
		m.Schedule = r.Schedule
	}
	if r.Description != nil {
		m.Description = r.Description
	}
	if r.Status != nil {
		m.Status = *r.Status
	}
}
