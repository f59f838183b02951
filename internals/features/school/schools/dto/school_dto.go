package dto

import (
	"strings"

	schoolModel "schoolku_backend/internals/features/school/schools/model"
)

// CreateSchoolRequest — super admin only. Code is optional; the model
// generates one when omitted.
type CreateSchoolRequest struct {
	Name       string  `json:"name" validate:"required,max=200"`
	Code       string  `json:"code" validate:"omitempty,max=20"`
	Address    *string `json:"address,omitempty"`
	City       *string `json:"city,omitempty"`
	State      *string `json:"state,omitempty"`
	Country    *string `json:"country,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Website    *string `json:"website,omitempty"`

	AcademicYear *string `json:"academic_year,omitempty" validate:"omitempty,max=20"`
}

func (r *CreateSchoolRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
}

func (r *CreateSchoolRequest) ToModel() *schoolModel.SchoolModel {
	m := &schoolModel.SchoolModel{
		Name:       r.Name,
		Code:       r.Code,
		Address:    r.Address,
		City:       r.City,
		State:      r.State,
		Country:    r.Country,
		PostalCode: r.PostalCode,
		Phone:      r.Phone,
		Email:      r.Email,
		Website:    r.Website,
		IsActive:   true,
	}
	if r.AcademicYear != nil {
		m.AcademicYear = *r.AcademicYear
	}
	return m
}

// UpdateSchoolRequest — partial update. Code is deliberately absent: it is
// the external identifier and never changes after create.
type UpdateSchoolRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Address    *string `json:"address,omitempty"`
	City       *string `json:"city,omitempty"`
	State      *string `json:"state,omitempty"`
	Country    *string `json:"country,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Website    *string `json:"website,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

func (r *UpdateSchoolRequest) ApplyToModel(m *schoolModel.SchoolModel) {
	if r.Name != nil {
		m.Name = strings.TrimSpace(*r.Name)
	}
	if r.Address != nil {
		m.Address = r.Address
	}
	if r.City != nil {
		m.City = r.City
	}
	if r.State != nil {
		m.State = r.State
	}
	if r.Country != nil {
		m.Country = r.Country
	}
	if r.PostalCode != nil {
		m.PostalCode = r.PostalCode
	}
	if r.Phone != nil {
		m.Phone = r.Phone
	}
	if r.Email != nil {
		m.Email = r.Email
	}
	if r.Website != nil {
		m.Website = r.Website
	}
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
}

// UpdateConfigRequest — academic/branding/limit knobs, admin-level.
type UpdateConfigRequest struct {
	AcademicYear     *string `json:"academic_year,omitempty" validate:"omitempty,max=20"`
	SemesterSystem   *bool   `json:"semester_system,omitempty"`
	GradingSystem    *string `json:"grading_system,omitempty" validate:"omitempty,max=50"`
	AttendanceSystem *string `json:"attendance_system,omitempty" validate:"omitempty,max=50"`

	LogoURL        *string `json:"logo_url,omitempty"`
	PrimaryColor   *string `json:"primary_color,omitempty" validate:"omitempty,len=7"`
	SecondaryColor *string `json:"secondary_color,omitempty" validate:"omitempty,len=7"`

	MaxStudentsPerClass      *int  `json:"max_students_per_class,omitempty" validate:"omitempty,min=1"`
	MaxTeachersPerSubject    *int  `json:"max_teachers_per_subject,omitempty" validate:"omitempty,min=1"`
	EnableSMSNotifications   *bool `json:"enable_sms_notifications,omitempty"`
	EnableEmailNotifications *bool `json:"enable_email_notifications,omitempty"`
}

func (r *UpdateConfigRequest) ApplyToModel(m *schoolModel.SchoolModel) {
	if r.AcademicYear != nil {
		m.AcademicYear = *r.AcademicYear
	}
	if r.SemesterSystem != nil {
		m.SemesterSystem = *r.SemesterSystem
	}
	if r.GradingSystem != nil {
		m.GradingSystem = *r.GradingSystem
	}
	if r.AttendanceSystem != nil {
		m.AttendanceSystem = *r.AttendanceSystem
	}
	if r.LogoURL != nil {
		m.LogoURL = r.LogoURL
	}
	if r.PrimaryColor != nil {
		m.PrimaryColor = *r.PrimaryColor
	}
	if r.SecondaryColor != nil {
		m.SecondaryColor = *r.SecondaryColor
	}
	if r.MaxStudentsPerClass != nil {
		m.MaxStudentsPerClass = *r.MaxStudentsPerClass
	}
	if r.MaxTeachersPerSubject != nil {
		m.MaxTeachersPerSubject = *r.MaxTeachersPerSubject
	}
	if r.EnableSMSNotifications != nil {
		m.EnableSMSNotifications = *r.EnableSMSNotifications
	}
	if r.EnableEmailNotifications != nil {
		m.EnableEmailNotifications = *r.EnableEmailNotifications
	}
}

// ConfigResponse is the trimmed config view of a school.
type ConfigResponse struct {
	AcademicYear     string `json:"academic_year"`
	SemesterSystem   bool   `json:"semester_system"`
	GradingSystem    string `json:"grading_system"`
	AttendanceSystem string `json:"attendance_system"`

	LogoURL        *string `json:"logo_url,omitempty"`
	PrimaryColor   string  `json:"primary_color"`
	SecondaryColor string  `json:"secondary_color"`

	MaxStudentsPerClass      int  `json:"max_students_per_class"`
	MaxTeachersPerSubject    int  `json:"max_teachers_per_subject"`
	EnableSMSNotifications   bool `json:"enable_sms_notifications"`
	EnableEmailNotifications bool `json:"enable_email_notifications"`
}

func ConfigFromModel(m *schoolModel.SchoolModel) ConfigResponse {
	return ConfigResponse{
		AcademicYear:             m.AcademicYear,
		SemesterSystem:           m.SemesterSystem,
		GradingSystem:            m.GradingSystem,
		AttendanceSystem:         m.AttendanceSystem,
		LogoURL:                  m.LogoURL,
		PrimaryColor:             m.PrimaryColor,
		SecondaryColor:           m.SecondaryColor,
		MaxStudentsPerClass:      m.MaxStudentsPerClass,
		MaxTeachersPerSubject:    m.MaxTeachersPerSubject,
		EnableSMSNotifications:   m.EnableSMSNotifications,
		EnableEmailNotifications: m.EnableEmailNotifications,
	}
}
