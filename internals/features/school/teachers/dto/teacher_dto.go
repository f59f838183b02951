package dto

import (
	"time"

	teacherModel "schoolku_backend/internals/features/school/teachers/model"
	"schoolku_backend/internals/helpers/apperr"
)

const dateLayout = "2006-01-02"

// CreateTeacherRequest — employment profile for an existing teacher account.
type CreateTeacherRequest struct {
	UserID     uint   `json:"user_id" validate:"required"`
	TeacherID  string `json:"teacher_id" validate:"omitempty,max=20"`
	EmployeeID string `json:"employee_id" validate:"omitempty,max=20"`
	HireDate   string `json:"hire_date" validate:"required"`

	Department      *string  `json:"department,omitempty"`
	Designation     *string  `json:"designation,omitempty"`
	Qualification   *string  `json:"qualification,omitempty"`
	ExperienceYears *int     `json:"experience_years,omitempty" validate:"omitempty,min=0"`
	Salary          *float64 `json:"salary,omitempty" validate:"omitempty,min=0"`
	Specialization  *string  `json:"specialization,omitempty"`
	OfficeLocation  *string  `json:"office_location,omitempty"`
	OfficeHours     *string  `json:"office_hours,omitempty"`

	SchoolID *uint `json:"school_id,omitempty"`
}

func (r *CreateTeacherRequest) ToModel(schoolID uint) (*teacherModel.TeacherModel, error) {
	hired, err := time.Parse(dateLayout, r.HireDate)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "hire_date must be YYYY-MM-DD")
	}
	return &teacherModel.TeacherModel{
		UserID:          r.UserID,
		TeacherID:       r.TeacherID,
		EmployeeID:      r.EmployeeID,
		HireDate:        hired,
		Department:      r.Department,
		Designation:     r.Designation,
		Qualification:   r.Qualification,
		ExperienceYears: r.ExperienceYears,
		Salary:          r.Salary,
		Specialization:  r.Specialization,
		OfficeLocation:  r.OfficeLocation,
		OfficeHours:     r.OfficeHours,
		Status:          "active",
		SchoolID:        schoolID,
	}, nil
}

// UpdateTeacherRequest — partial update of the employment profile.
type UpdateTeacherRequest struct {
	Department      *string  `json:"department,omitempty"`
	Designation     *string  `json:"designation,omitempty"`
	Qualification   *string  `json:"qualification,omitempty"`
	ExperienceYears *int     `json:"experience_years,omitempty" validate:"omitempty,min=0"`
	Salary          *float64 `json:"salary,omitempty" validate:"omitempty,min=0"`
	Specialization  *string  `json:"specialization,omitempty"`
	OfficeLocation  *string  `json:"office_location,omitempty"`
	OfficeHours     *string  `json:"office_hours,omitempty"`
	Status          *string  `json:"status,omitempty" validate:"omitempty,oneof=active inactive on_leave retired"`
}

func (r *UpdateTeacherRequest) ApplyToModel(m *teacherModel.TeacherModel) {
	if r.Department != nil {
		m.Department = r.Department
	}
	if r.Designation != nil {
		m.Designation = r.Designation
	}
	if r.Qualification != nil {
		m.Qualification = r.Qualification
	}
	if r.ExperienceYears != nil {
		m.ExperienceYears = r.ExperienceYears
	}
	if r.Salary != nil {
		m.Salary = r.Salary
	}
	if r.Specialization != nil {
		m.Specialization = r.Specialization
	}
	if r.OfficeLocation != nil {
		m.OfficeLocation = r.OfficeLocation
	}
	if r.OfficeHours != nil {
		m.OfficeHours = r.OfficeHours
	}
	if r.Status != nil {
		m.Status = *r.Status
	}
}
