package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Department is an organizational unit
type Department struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:150;not null;uniqueIndex:uk_departments_name" json:"name"`
	Slug      string    `gorm:"size:170;not null;uniqueIndex:uk_departments_slug" json:"slug"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for Department
func (Department) TableName() string {
	return "departments"
}

// Role is a job title within a department
type Role struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:150;not null" json:"title"`
	Slug      string    `gorm:"size:170;not null;uniqueIndex:uk_roles_slug" json:"slug"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for Role
func (Role) TableName() string {
	return "roles"
}

// Staff is an employee of the utility. A staff member is active while
// ExitDate is null. Bulk upserts key on (district, full_name, hire_date).
type Staff struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uk_staff_uuid" json:"uuid"`
	FullName     string           `gorm:"size:255;not null;uniqueIndex:uk_staff_district_name_hire" json:"full_name"`
	Email        *string          `gorm:"size:255" json:"email,omitempty"`
	Phone        *string          `gorm:"size:30" json:"phone,omitempty"`
	Gender       string           `gorm:"size:10;not null" json:"gender"`
	BirthDate    *time.Time       `gorm:"type:date" json:"birth_date,omitempty"`
	Salary       decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"salary"`
	HireDate     time.Time        `gorm:"type:date;not null;uniqueIndex:uk_staff_district_name_hire" json:"hire_date"`
	ExitDate     *time.Time       `gorm:"type:date;index:idx_staff_exit_date" json:"exit_date,omitempty"`
	Grade        string           `gorm:"size:50" json:"grade"`
	RoleID       *uint            `gorm:"index:idx_staff_role_id" json:"role_id,omitempty"`
	Role         *Role            `gorm:"foreignKey:RoleID;references:ID" json:"role,omitempty"`
	DepartmentID *uint            `gorm:"index:idx_staff_department_id" json:"department_id,omitempty"`
	Department   *Department      `gorm:"foreignKey:DepartmentID;references:ID" json:"department,omitempty"`
	DistrictID   uint             `gorm:"not null;index:idx_staff_district_id;uniqueIndex:uk_staff_district_name_hire" json:"district_id"`
	District     BusinessDistrict `gorm:"foreignKey:DistrictID;references:ID" json:"district,omitempty"`
	StateID      uint             `gorm:"not null;index:idx_staff_state_id" json:"state_id"`
	State        State            `gorm:"foreignKey:StateID;references:ID" json:"state,omitempty"`
	CreatedAt    time.Time        `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for Staff
func (Staff) TableName() string {
	return "staff"
}

// IsActive reports whether the staff member has not exited
func (s Staff) IsActive() bool {
	return s.ExitDate == nil
}

// StaffFilter defines lookup criteria for staff
type StaffFilter struct {
	DistrictID   *uint
	StateID      *uint
	DepartmentID *uint
	RoleID       *uint
	Gender       *string
	ActiveOnly   bool
}
