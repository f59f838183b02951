package dto

import (
	"strings"

	subjectModel "schoolku_backend/internals/features/school/subjects/model"
)

// CreateSubjectRequest — a subject binds one class to one teacher. Code is
// optional; the model derives one from the name when omitted.
type CreateSubjectRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Code        string  `json:"code" validate:"omitempty,max=20"`
	Description *string `json:"description,omitempty"`

	ClassID   uint `json:"class_id" validate:"required"`
	TeacherID uint `json:"teacher_id" validate:"required"`

	Credits      *int    `json:"credits,omitempty" validate:"omitempty,min=1"`
	HoursPerWeek *int    `json:"hours_per_week,omitempty" validate:"omitempty,min=1"`
	Syllabus     *string `json:"syllabus,omitempty"`
	Books        *string `json:"books,omitempty"`

	SchoolID *uint `json:"school_id,omitempty"`
}

func (r *CreateSubjectRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
}

func (r *CreateSubjectRequest) ToModel(schoolID uint) *subjectModel.SubjectModel {
	m := &subjectModel.SubjectModel{
		Name:         r.Name,
		Code:         r.Code,
		Description:  r.Description,
		ClassID:      r.ClassID,
		TeacherID:    r.TeacherID,
		Credits:      1,
		HoursPerWeek: 5,
		Syllabus:     r.Syllabus,
		Books:        r.Books,
		Status:       "active",
		SchoolID:     schoolID,
	}
	if r.Credits != nil {
		m.Credits = *r.Credits
	}
	if r.HoursPerWeek != nil {
		m.HoursPerWeek = *r.HoursPerWeek
	}
	return m
}

// UpdateSubjectRequest — partial update; class binding is immutable, the
// teacher can be reassigned.
type UpdateSubjectRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Description  *string `json:"description,omitempty"`
	TeacherID    *uint   `json:"teacher_id,omitempty"`
	Credits      *int    `json:"credits,omitempty" validate:"omitempty,min=1"`
	HoursPerWeek *int    `json:"hours_per_week,omitempty" validate:"omitempty,min=1"`
	Syllabus     *string `json:"syllabus,omitempty"`
	Books        *string `json:"books,omitempty"`
	Status       *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive completed"`
}

func (r *UpdateSubjectRequest) ApplyToModel(m *subjectModel.SubjectModel) {
	if r.Name != nil {
		m.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		m.Description = r.Description
	}
	if r.TeacherID != nil {
		m.TeacherID = *r.TeacherID
	}
	if r.Credits != nil {
		m.Credits = *r.Credits
	}
	if r.HoursPerWeek != nil {
		m.HoursPerWeek = *r.HoursPerWeek
	}
	if r.Syllabus != nil {
		m.Syllabus = r.Syllabus
	}
	if r.Books != nil {
		m.Books = r.Books
	}
	if r.Status != nil {
		m.Status = *r.Status
	}
}
