package dto

// StaffSummaryResponse is the HR composition summary
type StaffSummaryResponse struct {
	TotalStaff   int64        `json:"total_staff"`
	ActiveStaff  int64        `json:"active_staff"`
	ExitedStaff  int64        `json:"exited_staff"`
	SalaryBill   float64      `json:"salary_bill"`
	ByGender     []LabelCount `json:"by_gender"`
	ByDepartment []LabelCount `json:"by_department"`
	ByState      []LabelCount `json:"by_state"`
}

// StaffStateOverviewRow is one state of the staff-per-state overview
type StaffStateOverviewRow struct {
	State       string  `json:"state"`
	Slug        string  `json:"slug"`
	TotalStaff  int64   `json:"total_staff"`
	ActiveStaff int64   `json:"active_staff"`
	SalaryBill  float64 `json:"salary_bill"`
}

// StaffStateOverviewResponse lists staff composition per state
type StaffStateOverviewResponse struct {
	States []StaffStateOverviewRow `json:"states"`
}

// StaffRow is one employee in a staff listing
type StaffRow struct {
	ID         uint    `json:"id"`
	UUID       string  `json:"uuid"`
	FullName   string  `json:"full_name"`
	Email      string  `json:"email,omitempty"`
	Phone      string  `json:"phone,omitempty"`
	Gender     string  `json:"gender"`
	Salary     float64 `json:"salary"`
	HireDate   string  `json:"hire_date"`
	ExitDate   string  `json:"exit_date,omitempty"`
	Grade      string  `json:"grade,omitempty"`
	Role       string  `json:"role,omitempty"`
	Department string  `json:"department,omitempty"`
	District   string  `json:"district"`
	IsActive   bool    `json:"is_active"`
}

// StaffStateResponse lists the staff of one state
type StaffStateResponse struct {
	State string     `json:"state"`
	Slug  string     `json:"slug"`
	Total int64      `json:"total"`
	Staff []StaffRow `json:"staff"`
}

// StaffCompositeKey is the natural key used by the bulk staff operations
type StaffCompositeKey struct {
	District string `json:"district" validate:"required"`
	FullName string `json:"full_name" validate:"required"`
	HireDate string `json:"hire_date" validate:"required"`
}

// BulkStaffItem is one staff record of a bulk request. HireDate accepts
// ISO-8601 with an optional time part; the time part is discarded.
type BulkStaffItem struct {
	FullName     string             `json:"full_name" validate:"required,max=255"`
	Email        *string            `json:"email,omitempty" validate:"omitempty,email"`
	Phone        *string            `json:"phone,omitempty" validate:"omitempty,max=30"`
	Gender       string             `json:"gender" validate:"required,max=10"`
	BirthDate    *string            `json:"birth_date,omitempty"`
	Salary       float64            `json:"salary" validate:"omitempty,min=0"`
	HireDate     string             `json:"hire_date" validate:"required"`
	ExitDate     *string            `json:"exit_date,omitempty"`
	Grade        string             `json:"grade,omitempty" validate:"omitempty,max=50"`
	Role         string             `json:"role,omitempty"`
	Department   string             `json:"department,omitempty"`
	District     string             `json:"district" validate:"required"`
	CompositeKey *StaffCompositeKey `json:"_composite_key,omitempty"`
}

// BulkStaffRequest is the body of the bulk staff endpoints
type BulkStaffRequest struct {
	Staff []BulkStaffItem `json:"staff" validate:"required,min=1,dive"`
}

// BulkStaffItemError records why one item of a bulk request was skipped
type BulkStaffItemError struct {
	Index   int    `json:"index"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

// BulkStaffResponse reports the outcome of a bulk staff operation
type BulkStaffResponse struct {
	Created      int                  `json:"created"`
	Updated      int                  `json:"updated"`
	Deleted      int                  `json:"deleted"`
	Errors       int                  `json:"errors"`
	ErrorDetails []BulkStaffItemError `json:"error_details,omitempty"`
}
