package model

import (
	"time"

	"gorm.io/datatypes"
)

// ClassModel — kelas + section per tahun ajaran. current_strength dihitung
// ulang dari membership students.current_class_id, bukan sumber kebenaran.
type ClassModel struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:50;index;not null" json:"name"`
	Section      string `gorm:"size:10;not null" json:"section"`
	AcademicYear string `gorm:"size:10;not null" json:"academic_year"`

	Capacity        int `gorm:"not null;default:40" json:"capacity"`
	CurrentStrength int `gorm:"not null;default:0" json:"current_strength"`

	ClassTeacherID *uint          `gorm:"index" json:"class_teacher_id,omitempty"`
	RoomNumber     *string        `gorm:"size:20" json:"room_number,omitempty"`
	Schedule       datatypes.JSON `json:"schedule,omitempty"`
	Description    *string        `gorm:"type:text" json:"description,omitempty"`

	// active, inactive, completed
	Status string `gorm:"size:20;not null;default:'active'" json:"status"`

	SchoolID uint `gorm:"index;not null" json:"school_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ClassModel) TableName() string {
	return "classes"
}

func (c *ClassModel) FullName() string {
	return c.Name + "-" + c.Section
}

func (c *ClassModel) AvailableSeats() int {
	if seats := c.Capacity - c.CurrentStrength; seats > 0 {
		return seats
	}
	return 0
}

func (c *ClassModel) IsFull() bool {
	return c.CurrentStrength >= c.Capacity
}

func (c *ClassModel) CanEnrollStudent() bool {
	return !c.IsFull() && c.Status == "active"
}

func (c ClassModel) GetID() uint { return c.ID }
