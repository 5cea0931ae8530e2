package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/powergridhq/disco-analytics/models"
	"gorm.io/gorm"
)

// StaffRepositoryImpl implements StaffRepository
type StaffRepositoryImpl struct {
	*BaseRepository[models.Staff]
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &StaffRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Staff](db),
	}
}

func (r *StaffRepositoryImpl) applyFilter(db *gorm.DB, filter models.StaffFilter) *gorm.DB {
	query := db.Model(&models.Staff{})
	if filter.StateID != nil {
		query = query.Where("staff.state_id = ?", *filter.StateID)
	}
	if filter.DistrictID != nil {
		query = query.Where("staff.district_id = ?", *filter.DistrictID)
	}
	if filter.DepartmentID != nil {
		query = query.Where("staff.department_id = ?", *filter.DepartmentID)
	}
	if filter.RoleID != nil {
		query = query.Where("staff.role_id = ?", *filter.RoleID)
	}
	if filter.Gender != nil {
		query = query.Where("staff.gender = ?", *filter.Gender)
	}
	if filter.ActiveOnly {
		query = query.Where("staff.exit_date IS NULL")
	}
	return query
}

// ByCompositeKey finds a staff row by its natural key
func (r *StaffRepositoryImpl) ByCompositeKey(ctx context.Context, districtID uint, fullName string, hireDate time.Time) (*models.Staff, error) {
	db := r.getDB(ctx)
	var staff models.Staff
	err := db.Where("district_id = ? AND full_name = ? AND hire_date = ?", districtID, fullName, hireDate).
		First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

// ListByFilter returns staff matching the filter with preloaded relations
func (r *StaffRepositoryImpl) ListByFilter(ctx context.Context, filter models.StaffFilter, limit, offset int) ([]*models.Staff, error) {
	query := r.applyFilter(r.getDB(ctx), filter).
		Preload("District").
		Preload("Department").
		Preload("Role").
		Order("staff.full_name")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var staff []*models.Staff
	if err := query.Find(&staff).Error; err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}

// CountByFilter counts staff matching the filter
func (r *StaffRepositoryImpl) CountByFilter(ctx context.Context, filter models.StaffFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.getDB(ctx), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count staff: %w", err)
	}
	return count, nil
}

// CountByGender groups matching staff by gender
func (r *StaffRepositoryImpl) CountByGender(ctx context.Context, filter models.StaffFilter) ([]StaffCountRow, error) {
	var rows []StaffCountRow
	err := r.applyFilter(r.getDB(ctx), filter).
		Select("staff.gender AS label, COUNT(*) AS count").
		Group("staff.gender").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count staff by gender: %w", err)
	}
	return rows, nil
}

// CountByDepartment groups matching staff by department name
func (r *StaffRepositoryImpl) CountByDepartment(ctx context.Context, filter models.StaffFilter) ([]StaffCountRow, error) {
	var rows []StaffCountRow
	err := r.applyFilter(r.getDB(ctx), filter).
		Joins("LEFT JOIN departments ON departments.id = staff.department_id").
		Select("COALESCE(departments.name, 'Unassigned') AS label, COUNT(*) AS count").
		Group("departments.name").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count staff by department: %w", err)
	}
	return rows, nil
}

// CountByState groups matching staff by state
func (r *StaffRepositoryImpl) CountByState(ctx context.Context, filter models.StaffFilter) ([]StaffCountRow, error) {
	var rows []StaffCountRow
	err := r.applyFilter(r.getDB(ctx), filter).
		Joins("JOIN states ON states.id = staff.state_id").
		Select("states.name AS label, COUNT(*) AS count").
		Group("states.name").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count staff by state: %w", err)
	}
	return rows, nil
}

// SumSalaries totals the monthly salaries of matching staff
func (r *StaffRepositoryImpl) SumSalaries(ctx context.Context, filter models.StaffFilter) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.applyFilter(r.getDB(ctx), filter).
		Select("COALESCE(SUM(staff.salary), 0) AS total").
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum salaries: %w", err)
	}
	return result.Total, nil
}

// DeleteByCompositeKey removes the staff row matching the natural key.
// Returns the number of rows removed.
func (r *StaffRepositoryImpl) DeleteByCompositeKey(ctx context.Context, districtID uint, fullName string, hireDate time.Time) (int64, error) {
	db := r.getDB(ctx)
	result := db.Where("district_id = ? AND full_name = ? AND hire_date = ?", districtID, fullName, hireDate).
		Delete(&models.Staff{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete staff: %w", result.Error)
	}
	return result.RowsAffected, nil
}
