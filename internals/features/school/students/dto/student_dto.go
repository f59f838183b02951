package dto

import (
	"time"

	studentModel "schoolku_backend/internals/features/school/students/model"
	"schoolku_backend/internals/helpers/apperr"
)

const dateLayout = "2006-01-02"

// CreateStudentRequest — the account (user_id) must already exist in the
// tenant with the student role. school_id in the body is only honored for
// super admins; everyone else gets their own tenant stamped on.
type CreateStudentRequest struct {
	UserID        uint   `json:"user_id" validate:"required"`
	StudentID     string `json:"student_id" validate:"omitempty,max=20"`
	AdmissionDate string `json:"admission_date" validate:"required"`

	CurrentClassID *uint `json:"current_class_id,omitempty"`

	ParentName        *string `json:"parent_name,omitempty"`
	ParentPhone       *string `json:"parent_phone,omitempty"`
	ParentEmail       *string `json:"parent_email,omitempty" validate:"omitempty,email"`
	EmergencyContact  *string `json:"emergency_contact,omitempty"`
	BloodGroup        *string `json:"blood_group,omitempty"`
	MedicalConditions *string `json:"medical_conditions,omitempty"`
	PreviousSchool    *string `json:"previous_school,omitempty"`
	AcademicYear      *string `json:"academic_year,omitempty"`

	SchoolID *uint `json:"school_id,omitempty"`
}

func (r *CreateStudentRequest) ToModel(schoolID uint) (*studentModel.StudentModel, error) {
	admission, err := time.Parse(dateLayout, r.AdmissionDate)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "admission_date must be YYYY-MM-DD")
	}
	return &studentModel.StudentModel{
		UserID:            r.UserID,
		StudentID:         r.StudentID,
		AdmissionDate:     admission,
		CurrentClassID:    r.CurrentClassID,
		ParentName:        r.ParentName,
		ParentPhone:       r.ParentPhone,
		ParentEmail:       r.ParentEmail,
		EmergencyContact:  r.EmergencyContact,
		BloodGroup:        r.BloodGroup,
		MedicalConditions: r.MedicalConditions,
		PreviousSchool:    r.PreviousSchool,
		AcademicYear:      r.AcademicYear,
		Status:            "active",
		SchoolID:          schoolID,
	}, nil
}

// UpdateStudentRequest — partial update. user_id, student_id and school_id
// are immutable after create and deliberately absent here.
type UpdateStudentRequest struct {
	CurrentClassID    *uint   `json:"current_class_id,omitempty"`
	ParentName        *string `json:"parent_name,omitempty"`
	ParentPhone       *string `json:"parent_phone,omitempty"`
	ParentEmail       *string `json:"parent_email,omitempty" validate:"omitempty,email"`
	EmergencyContact  *string `json:"emergency_contact,omitempty"`
	BloodGroup        *string `json:"blood_group,omitempty"`
	MedicalConditions *string `json:"medical_conditions,omitempty"`
	PreviousSchool    *string `json:"previous_school,omitempty"`
	AcademicYear      *string `json:"academic_year,omitempty"`
	Status            *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive graduated transferred"`
}

func (r *UpdateStudentRequest) ApplyToModel(m *studentModel.StudentModel) {
	if r.CurrentClassID != nil {
		m.CurrentClassID = r.CurrentClassID
	}
	if r.ParentName != nil {
		m.ParentName = r.ParentName
	}
	if r.ParentPhone != nil {
		m.ParentPhone = r.ParentPhone
	}
	if r.ParentEmail != nil {
		m.ParentEmail = r.ParentEmail
	}
	if r.EmergencyContact != nil {
		m.EmergencyContact = r.EmergencyContact
	}
	if r.BloodGroup != nil {
		m.BloodGroup = r.BloodGroup
	}
	if r.MedicalConditions != nil {
		m.MedicalConditions = r.MedicalConditions
	}
	if r.PreviousSchool != nil {
		m.PreviousSchool = r.PreviousSchool
	}
	if r.AcademicYear != nil {
		m.AcademicYear = r.AcademicYear
	}
	if r.Status != nil {
		m.Status = *r.Status
	}
}
