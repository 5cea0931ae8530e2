package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategory groups expenses for the OPEX breakdown. Special categories
// are reported in their own section of the financial overview.
type ExpenseCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:150;not null;uniqueIndex:uk_expense_categories_name" json:"name"`
	IsSpecial bool      `gorm:"not null;default:false" json:"is_special"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for ExpenseCategory
func (ExpenseCategory) TableName() string {
	return "expense_categories"
}

// GLBreakdown is a general-ledger breakdown label attached to expenses
type GLBreakdown struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:150;not null;uniqueIndex:uk_gl_breakdowns_name" json:"name"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for GLBreakdown
func (GLBreakdown) TableName() string {
	return "gl_breakdowns"
}

// Expense is one ledger line for a business district. Credit is an outflow
// (OPEX); debit is an inflow from headquarters.
type Expense struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	DistrictID      uint             `gorm:"not null;index:idx_expenses_district_id" json:"district_id"`
	District        BusinessDistrict `gorm:"foreignKey:DistrictID;references:ID;constraint:OnDelete:CASCADE" json:"district,omitempty"`
	Date            time.Time        `gorm:"type:date;not null;index:idx_expenses_date" json:"date"`
	Purpose         string           `gorm:"size:500" json:"purpose"`
	Payee           string           `gorm:"size:255" json:"payee"`
	GLAccountNumber string           `gorm:"size:50;index:idx_expenses_gl_account_number" json:"gl_account_number"`
	GLBreakdownID   *uint            `gorm:"index:idx_expenses_gl_breakdown_id" json:"gl_breakdown_id,omitempty"`
	GLBreakdown     *GLBreakdown     `gorm:"foreignKey:GLBreakdownID;references:ID" json:"gl_breakdown,omitempty"`
	OpexCategoryID  *uint            `gorm:"index:idx_expenses_opex_category_id" json:"opex_category_id,omitempty"`
	OpexCategory    *ExpenseCategory `gorm:"foreignKey:OpexCategoryID;references:ID" json:"opex_category,omitempty"`
	Debit           decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"debit"`
	Credit          decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"credit"`
	CreatedAt       time.Time        `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for Expense
func (Expense) TableName() string {
	return "expenses"
}

// ExpenseSide selects which side of the ledger an aggregation sums
type ExpenseSide string

const (
	ExpenseSideCredit ExpenseSide = "credit"
	ExpenseSideDebit  ExpenseSide = "debit"
)

// Valid checks if the expense side is valid
func (s ExpenseSide) Valid() bool {
	return s == ExpenseSideCredit || s == ExpenseSideDebit
}
