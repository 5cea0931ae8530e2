package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesRepresentative is a field agent responsible for billing and
// collections on a set of distribution transformers. Duplicate reps with the
// same name may exist after a legacy import; see the merge flow.
type SalesRepresentative struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null;index:idx_sales_representatives_name" json:"name"`
	Slug      string    `gorm:"size:280;not null;uniqueIndex:uk_sales_representatives_slug" json:"slug"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_sales_representatives_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	AssignedTransformers []DistributionTransformer `gorm:"many2many:sales_rep_transformers" json:"assigned_transformers,omitempty"`
}

// TableName returns the table name for SalesRepresentative
func (SalesRepresentative) TableName() string {
	return "sales_representatives"
}

// MonthlyCommercialSummary aggregates one sales representative's commercial
// counters for a calendar month. Month is always the first day of the month.
type MonthlyCommercialSummary struct {
	ID                 uint                `gorm:"primaryKey" json:"id"`
	SalesRepID         uint                `gorm:"not null;index:idx_monthly_commercial_summaries_sales_rep_id;uniqueIndex:uk_monthly_commercial_summaries_rep_month" json:"sales_rep_id"`
	SalesRep           SalesRepresentative `gorm:"foreignKey:SalesRepID;references:ID" json:"sales_rep,omitempty"`
	Month              time.Time           `gorm:"type:date;not null;index:idx_monthly_commercial_summaries_month;uniqueIndex:uk_monthly_commercial_summaries_rep_month" json:"month"`
	CustomersBilled    int64               `gorm:"not null;default:0" json:"customers_billed"`
	CustomersResponded int64               `gorm:"not null;default:0" json:"customers_responded"`
	RevenueBilled      decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0" json:"revenue_billed"`
	RevenueCollected   decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0" json:"revenue_collected"`
	CreatedAt          time.Time           `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt          time.Time           `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for MonthlyCommercialSummary
func (MonthlyCommercialSummary) TableName() string {
	return "monthly_commercial_summaries"
}

// SalesRepPerformance is a monthly performance snapshot for one representative
type SalesRepPerformance struct {
	ID                     uint                `gorm:"primaryKey" json:"id"`
	SalesRepID             uint                `gorm:"not null;index:idx_sales_rep_performances_sales_rep_id" json:"sales_rep_id"`
	SalesRep               SalesRepresentative `gorm:"foreignKey:SalesRepID;references:ID" json:"sales_rep,omitempty"`
	Month                  time.Time           `gorm:"type:date;not null;index:idx_sales_rep_performances_month" json:"month"`
	OutstandingBilled      decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0" json:"outstanding_billed"`
	CurrentBilled          decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0" json:"current_billed"`
	Collections            decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0" json:"collections"`
	DailyRunRate           decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0" json:"daily_run_rate"`
	CollectionsOutstanding decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0" json:"collections_on_outstanding"`
	ActiveAccounts         int64               `gorm:"not null;default:0" json:"active_accounts"`
	SuspendedAccounts      int64               `gorm:"not null;default:0" json:"suspended_accounts"`
	CreatedAt              time.Time           `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt              time.Time           `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for SalesRepPerformance
func (SalesRepPerformance) TableName() string {
	return "sales_rep_performances"
}
