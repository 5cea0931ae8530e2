package repository

import (
	"context"
	"fmt"

	"github.com/powergridhq/disco-analytics/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseRepositoryImpl implements ExpenseRepository
type ExpenseRepositoryImpl struct {
	*BaseRepository[models.Expense]
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &ExpenseRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Expense](db),
	}
}

func sideColumn(side models.ExpenseSide) string {
	if side == models.ExpenseSideDebit {
		return "debit"
	}
	return "credit"
}

// SumBySide sums one ledger side over the window, optionally restricted to
// specific districts. Nil districtIDs means all districts.
func (r *ExpenseRepositoryImpl) SumBySide(ctx context.Context, districtIDs []uint, window models.Window, side models.ExpenseSide) (decimal.Decimal, error) {
	query := r.getDB(ctx).Model(&models.Expense{}).
		Where("date >= ? AND date < ?", window.Start, window.End)
	if districtIDs != nil {
		if len(districtIDs) == 0 {
			return decimal.Zero, nil
		}
		query = query.Where("district_id IN ?", districtIDs)
	}

	var row struct{ Total decimal.Decimal }
	err := query.Select(fmt.Sprintf("COALESCE(SUM(%s), 0) AS total", sideColumn(side))).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expenses: %w", err)
	}
	return row.Total, nil
}

// BreakdownByCategory sums one ledger side per OPEX category over the window.
// Uncategorized lines are reported under "Uncategorized".
func (r *ExpenseRepositoryImpl) BreakdownByCategory(ctx context.Context, districtIDs []uint, window models.Window, side models.ExpenseSide) ([]CategoryAmountRow, error) {
	query := r.getDB(ctx).Model(&models.Expense{}).
		Joins("LEFT JOIN expense_categories ON expense_categories.id = expenses.opex_category_id").
		Where("expenses.date >= ? AND expenses.date < ?", window.Start, window.End)
	if districtIDs != nil {
		if len(districtIDs) == 0 {
			return nil, nil
		}
		query = query.Where("expenses.district_id IN ?", districtIDs)
	}

	var rows []CategoryAmountRow
	err := query.Select(fmt.Sprintf(
		"COALESCE(expense_categories.name, 'Uncategorized') AS category, "+
			"COALESCE(expense_categories.is_special, false) AS is_special, "+
			"COALESCE(SUM(expenses.%s), 0) AS amount", sideColumn(side))).
		Group("expense_categories.name, expense_categories.is_special").
		Order("amount DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to break down expenses by category: %w", err)
	}
	return rows, nil
}
