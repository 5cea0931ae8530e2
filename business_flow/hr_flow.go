package businessflow

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/powergridhq/disco-analytics/app/dto"
	"github.com/powergridhq/disco-analytics/models"
	"github.com/powergridhq/disco-analytics/repository"
	"github.com/powergridhq/disco-analytics/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// HRFlow serves staff composition metrics and the bulk staff operations
type HRFlow interface {
	Summary(ctx context.Context) (*dto.StaffSummaryResponse, error)
	StateOverview(ctx context.Context) (*dto.StaffStateOverviewResponse, error)
	StaffOfState(ctx context.Context, stateKey string) (*dto.StaffStateResponse, error)
	BulkUpsert(ctx context.Context, req *dto.BulkStaffRequest) (*dto.BulkStaffResponse, error)
	BulkDelete(ctx context.Context, req *dto.BulkStaffRequest) (*dto.BulkStaffResponse, error)
	ExportXLSX(ctx context.Context) ([]byte, error)
}

// HRFlowImpl implements the HR reporting and bulk upsert logic. Bulk items
// are keyed by (district, full_name, hire_date); a failing item is recorded
// and the rest of the batch continues.
type HRFlowImpl struct {
	db           *gorm.DB
	staffRepo    repository.StaffRepository
	locationRepo repository.LocationRepository
}

// NewHRFlow creates a new HR flow
func NewHRFlow(db *gorm.DB, staffRepo repository.StaffRepository, locationRepo repository.LocationRepository) HRFlow {
	return &HRFlowImpl{
		db:           db,
		staffRepo:    staffRepo,
		locationRepo: locationRepo,
	}
}

// Summary returns headcount, salary bill and composition breakdowns
func (f *HRFlowImpl) Summary(ctx context.Context) (*dto.StaffSummaryResponse, error) {
	all := models.StaffFilter{}
	active := models.StaffFilter{ActiveOnly: true}

	total, err := f.staffRepo.CountByFilter(ctx, all)
	if err != nil {
		return nil, NewBusinessError("STAFF_COUNT_FAILED", "Failed to count staff", err)
	}
	activeCount, err := f.staffRepo.CountByFilter(ctx, active)
	if err != nil {
		return nil, NewBusinessError("STAFF_COUNT_FAILED", "Failed to count staff", err)
	}
	salaries, err := f.staffRepo.SumSalaries(ctx, active)
	if err != nil {
		return nil, NewBusinessError("STAFF_SUM_FAILED", "Failed to sum salaries", err)
	}
	byGender, err := f.staffRepo.CountByGender(ctx, active)
	if err != nil {
		return nil, NewBusinessError("STAFF_COUNT_FAILED", "Failed to count staff by gender", err)
	}
	byDepartment, err := f.staffRepo.CountByDepartment(ctx, active)
	if err != nil {
		return nil, NewBusinessError("STAFF_COUNT_FAILED", "Failed to count staff by department", err)
	}
	byState, err := f.staffRepo.CountByState(ctx, active)
	if err != nil {
		return nil, NewBusinessError("STAFF_COUNT_FAILED", "Failed to count staff by state", err)
	}

	return &dto.StaffSummaryResponse{
		TotalStaff:   total,
		ActiveStaff:  activeCount,
		ExitedStaff:  total - activeCount,
		SalaryBill:   utils.Round2Float(salaries),
		ByGender:     toLabelCounts(byGender),
		ByDepartment: toLabelCounts(byDepartment),
		ByState:      toLabelCounts(byState),
	}, nil
}

func toLabelCounts(rows []repository.StaffCountRow) []dto.LabelCount {
	out := make([]dto.LabelCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.LabelCount{Label: row.Label, Count: row.Count})
	}
	return out
}

// StateOverview returns per-state headcount and salary bill
func (f *HRFlowImpl) StateOverview(ctx context.Context) (*dto.StaffStateOverviewResponse, error) {
	states, err := f.locationRepo.ListStates(ctx)
	if err != nil {
		return nil, NewBusinessError("STATE_LIST_FAILED", "Failed to list states", err)
	}

	rows := make([]dto.StaffStateOverviewRow, 0, len(states))
	for _, state := range states {
		filter := models.StaffFilter{StateID: &state.ID}
		total, err := f.staffRepo.CountByFilter(ctx, filter)
		if err != nil {
			return nil, NewBusinessError("STAFF_COUNT_FAILED", "Failed to count staff", err)
		}
		activeFilter := models.StaffFilter{StateID: &state.ID, ActiveOnly: true}
		active, err := f.staffRepo.CountByFilter(ctx, activeFilter)
		if err != nil {
			return nil, NewBusinessError("STAFF_COUNT_FAILED", "Failed to count staff", err)
		}
		salaries, err := f.staffRepo.SumSalaries(ctx, activeFilter)
		if err != nil {
			return nil, NewBusinessError("STAFF_SUM_FAILED", "Failed to sum salaries", err)
		}
		rows = append(rows, dto.StaffStateOverviewRow{
			State:       state.Name,
			Slug:        state.Slug,
			TotalStaff:  total,
			ActiveStaff: active,
			SalaryBill:  utils.Round2Float(salaries),
		})
	}

	return &dto.StaffStateOverviewResponse{States: rows}, nil
}

// StaffOfState lists the staff of one state
func (f *HRFlowImpl) StaffOfState(ctx context.Context, stateKey string) (*dto.StaffStateResponse, error) {
	if stateKey == "" {
		return nil, NewBusinessError("INVALID_STATE", "Invalid state", ErrStateRequired)
	}
	state, err := f.locationRepo.StateByNameOrSlug(ctx, stateKey)
	if err != nil {
		return nil, NewBusinessError("STATE_LOOKUP_FAILED", "Failed to lookup state", err)
	}
	if state == nil {
		return nil, NewBusinessError("INVALID_STATE", "Invalid state", ErrStateNotFound)
	}

	filter := models.StaffFilter{StateID: &state.ID}
	staff, err := f.staffRepo.ListByFilter(ctx, filter, 0, 0)
	if err != nil {
		return nil, NewBusinessError("STAFF_LIST_FAILED", "Failed to list staff", err)
	}
	total, err := f.staffRepo.CountByFilter(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("STAFF_COUNT_FAILED", "Failed to count staff", err)
	}

	rows := make([]dto.StaffRow, 0, len(staff))
	for _, s := range staff {
		rows = append(rows, toStaffRow(s))
	}

	return &dto.StaffStateResponse{
		State: state.Name,
		Slug:  state.Slug,
		Total: total,
		Staff: rows,
	}, nil
}

func toStaffRow(s *models.Staff) dto.StaffRow {
	row := dto.StaffRow{
		ID:       s.ID,
		UUID:     s.UUID.String(),
		FullName: s.FullName,
		Gender:   s.Gender,
		Salary:   utils.Round2Float(s.Salary),
		HireDate: s.HireDate.Format(utils.DateLayout),
		Grade:    s.Grade,
		District: s.District.Name,
		IsActive: s.IsActive(),
	}
	if s.Email != nil {
		row.Email = *s.Email
	}
	if s.Phone != nil {
		row.Phone = *s.Phone
	}
	if s.ExitDate != nil {
		row.ExitDate = s.ExitDate.Format(utils.DateLayout)
	}
	if s.Role != nil {
		row.Role = s.Role.Title
	}
	if s.Department != nil {
		row.Department = s.Department.Name
	}
	return row
}

// parseDate accepts YYYY-MM-DD or full RFC3339 timestamps; any time
// component is truncated to the date.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(utils.DateLayout, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return utils.DateOnly(t.UTC()), nil
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// BulkUpsert creates or updates staff keyed by (district, full_name, hire_date)
func (f *HRFlowImpl) BulkUpsert(ctx context.Context, req *dto.BulkStaffRequest) (*dto.BulkStaffResponse, error) {
	resp := &dto.BulkStaffResponse{}
	for i, item := range req.Staff {
		created, err := f.upsertOne(ctx, item)
		if err != nil {
			resp.Errors++
			resp.ErrorDetails = append(resp.ErrorDetails, dto.BulkStaffItemError{
				Index:   i,
				Name:    item.FullName,
				Message: err.Error(),
			})
			continue
		}
		if created {
			resp.Created++
		} else {
			resp.Updated++
		}
	}
	return resp, nil
}

func (f *HRFlowImpl) upsertOne(ctx context.Context, item dto.BulkStaffItem) (created bool, err error) {
	district, err := f.locationRepo.DistrictByNameOrSlug(ctx, item.District)
	if err != nil {
		return false, err
	}
	if district == nil {
		return false, fmt.Errorf("unknown district %q", item.District)
	}
	hireDate, err := parseDate(item.HireDate)
	if err != nil {
		return false, err
	}

	// The lookup key defaults to the item's own fields; the override locates
	// a record whose key is about to change.
	lookupDistrictID, lookupName, lookupHire := district.ID, item.FullName, hireDate
	if item.CompositeKey != nil {
		keyDistrict, err := f.locationRepo.DistrictByNameOrSlug(ctx, item.CompositeKey.District)
		if err != nil {
			return false, err
		}
		if keyDistrict == nil {
			return false, fmt.Errorf("unknown district %q", item.CompositeKey.District)
		}
		keyHire, err := parseDate(item.CompositeKey.HireDate)
		if err != nil {
			return false, err
		}
		lookupDistrictID, lookupName, lookupHire = keyDistrict.ID, item.CompositeKey.FullName, keyHire
	}

	existing, err := f.staffRepo.ByCompositeKey(ctx, lookupDistrictID, lookupName, lookupHire)
	if err != nil {
		return false, err
	}

	staff := existing
	if staff == nil {
		staff = &models.Staff{UUID: uuid.New()}
	}

	staff.FullName = item.FullName
	staff.HireDate = hireDate
	staff.DistrictID = district.ID
	staff.StateID = district.StateID
	staff.Gender = item.Gender
	staff.Salary = decimal.NewFromFloat(item.Salary)
	staff.Grade = item.Grade
	staff.Email = item.Email
	staff.Phone = item.Phone
	if item.BirthDate != nil {
		if bd, err := parseDate(*item.BirthDate); err == nil {
			staff.BirthDate = &bd
		}
	}
	if item.ExitDate != nil {
		if ed, err := parseDate(*item.ExitDate); err == nil {
			staff.ExitDate = &ed
		}
	} else {
		staff.ExitDate = nil
	}
	if item.Role != "" {
		role, err := f.roleBySlug(ctx, item.Role)
		if err != nil {
			return false, err
		}
		staff.RoleID = &role.ID
	}
	if item.Department != "" {
		dept, err := f.departmentBySlug(ctx, item.Department)
		if err != nil {
			return false, err
		}
		staff.DepartmentID = &dept.ID
	}

	if existing == nil {
		return true, f.staffRepo.Save(ctx, staff)
	}
	return false, f.staffRepo.Update(ctx, staff)
}

func (f *HRFlowImpl) roleBySlug(ctx context.Context, name string) (*models.Role, error) {
	role := models.Role{Title: name, Slug: utils.Slugify(name)}
	err := f.db.WithContext(ctx).
		Where(models.Role{Slug: role.Slug}).
		FirstOrCreate(&role).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve role %q: %w", name, err)
	}
	return &role, nil
}

func (f *HRFlowImpl) departmentBySlug(ctx context.Context, name string) (*models.Department, error) {
	dept := models.Department{Name: name, Slug: utils.Slugify(name)}
	err := f.db.WithContext(ctx).
		Where(models.Department{Slug: dept.Slug}).
		FirstOrCreate(&dept).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve department %q: %w", name, err)
	}
	return &dept, nil
}

// BulkDelete removes staff by their composite key
func (f *HRFlowImpl) BulkDelete(ctx context.Context, req *dto.BulkStaffRequest) (*dto.BulkStaffResponse, error) {
	resp := &dto.BulkStaffResponse{}
	for i, item := range req.Staff {
		districtKey := item.District
		nameKey := item.FullName
		hireKey := item.HireDate
		if item.CompositeKey != nil {
			districtKey = item.CompositeKey.District
			nameKey = item.CompositeKey.FullName
			hireKey = item.CompositeKey.HireDate
		}

		fail := func(err error) {
			resp.Errors++
			resp.ErrorDetails = append(resp.ErrorDetails, dto.BulkStaffItemError{
				Index:   i,
				Name:    nameKey,
				Message: err.Error(),
			})
		}

		district, err := f.locationRepo.DistrictByNameOrSlug(ctx, districtKey)
		if err != nil {
			fail(err)
			continue
		}
		if district == nil {
			fail(fmt.Errorf("unknown district %q", districtKey))
			continue
		}
		hireDate, err := parseDate(hireKey)
		if err != nil {
			fail(err)
			continue
		}

		removed, err := f.staffRepo.DeleteByCompositeKey(ctx, district.ID, nameKey, hireDate)
		if err != nil {
			fail(err)
			continue
		}
		resp.Deleted += int(removed)
	}
	return resp, nil
}

// ExportXLSX writes the full staff roster to an xlsx workbook
func (f *HRFlowImpl) ExportXLSX(ctx context.Context) ([]byte, error) {
	staff, err := f.staffRepo.ListByFilter(ctx, models.StaffFilter{}, 0, 0)
	if err != nil {
		return nil, NewBusinessError("STAFF_LIST_FAILED", "Failed to list staff", err)
	}

	wb := excelize.NewFile()
	defer wb.Close()

	const sheet = "Staff"
	wb.SetSheetName(wb.GetSheetName(0), sheet)

	headers := []string{"Full Name", "Gender", "District", "Department", "Role", "Grade", "Salary", "Hire Date", "Exit Date", "Active"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := wb.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write export header: %w", err)
		}
	}

	for rowIdx, s := range staff {
		row := toStaffRow(s)
		values := []any{
			row.FullName, row.Gender, row.District, row.Department, row.Role,
			row.Grade, row.Salary, row.HireDate, row.ExitDate, row.IsActive,
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := wb.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write export row: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize export: %w", err)
	}
	return buf.Bytes(), nil
}
