package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CollectionType represents the payment channel of a daily collection
type CollectionType string

const (
	CollectionTypePrepaid  CollectionType = "Prepaid"
	CollectionTypePostpaid CollectionType = "Postpaid"
)

// String returns the string representation of the collection type
func (c CollectionType) String() string {
	return string(c)
}

// Valid checks if the collection type is valid
func (c CollectionType) Valid() bool {
	switch c {
	case CollectionTypePrepaid, CollectionTypePostpaid:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for CollectionType
func (c *CollectionType) Scan(value any) error {
	if value == nil {
		*c = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*c = CollectionType(v)
	case []byte:
		*c = CollectionType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CollectionType", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for CollectionType
func (c CollectionType) Value() (driver.Value, error) {
	return string(c), nil
}

// DailyRevenueCollected records money collected against a feeder on one day
type DailyRevenueCollected struct {
	ID         uint                 `gorm:"primaryKey" json:"id"`
	FeederID   uint                 `gorm:"not null;index:idx_daily_revenue_collected_feeder_id;uniqueIndex:uk_daily_revenue_collected_feeder_date" json:"feeder_id"`
	Feeder     Feeder               `gorm:"foreignKey:FeederID;references:ID;constraint:OnDelete:CASCADE" json:"feeder,omitempty"`
	SalesRepID *uint                `gorm:"index:idx_daily_revenue_collected_sales_rep_id" json:"sales_rep_id,omitempty"`
	SalesRep   *SalesRepresentative `gorm:"foreignKey:SalesRepID;references:ID" json:"sales_rep,omitempty"`
	Date       time.Time            `gorm:"type:date;not null;index:idx_daily_revenue_collected_date;uniqueIndex:uk_daily_revenue_collected_feeder_date" json:"date"`
	Amount     decimal.Decimal      `gorm:"type:decimal(12,2);not null;default:0" json:"amount"`
	CreatedAt  time.Time            `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt  time.Time            `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for DailyRevenueCollected
func (DailyRevenueCollected) TableName() string {
	return "daily_revenue_collected"
}

// MonthlyRevenueBilled records the revenue billed on a feeder for a calendar
// month. Month is always the first day of the month.
type MonthlyRevenueBilled struct {
	ID         uint                 `gorm:"primaryKey" json:"id"`
	FeederID   uint                 `gorm:"not null;index:idx_monthly_revenue_billed_feeder_id;uniqueIndex:uk_monthly_revenue_billed_feeder_month" json:"feeder_id"`
	Feeder     Feeder               `gorm:"foreignKey:FeederID;references:ID;constraint:OnDelete:CASCADE" json:"feeder,omitempty"`
	SalesRepID *uint                `gorm:"index:idx_monthly_revenue_billed_sales_rep_id" json:"sales_rep_id,omitempty"`
	SalesRep   *SalesRepresentative `gorm:"foreignKey:SalesRepID;references:ID" json:"sales_rep,omitempty"`
	Month      time.Time            `gorm:"type:date;not null;index:idx_monthly_revenue_billed_month;uniqueIndex:uk_monthly_revenue_billed_feeder_month" json:"month"`
	Amount     decimal.Decimal      `gorm:"type:decimal(12,2);not null;default:0" json:"amount"`
	CreatedAt  time.Time            `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt  time.Time            `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for MonthlyRevenueBilled
func (MonthlyRevenueBilled) TableName() string {
	return "monthly_revenue_billed"
}

// MonthlyCustomerStats records per-feeder customer counters for a calendar month.
// CustomerResponseCount never exceeds CustomersBilled.
type MonthlyCustomerStats struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	FeederID              uint      `gorm:"not null;index:idx_monthly_customer_stats_feeder_id;uniqueIndex:uk_monthly_customer_stats_feeder_month" json:"feeder_id"`
	Feeder                Feeder    `gorm:"foreignKey:FeederID;references:ID;constraint:OnDelete:CASCADE" json:"feeder,omitempty"`
	Month                 time.Time `gorm:"type:date;not null;index:idx_monthly_customer_stats_month;uniqueIndex:uk_monthly_customer_stats_feeder_month" json:"month"`
	CustomerCount         int64     `gorm:"not null;default:0" json:"customer_count"`
	CustomersBilled       int64     `gorm:"not null;default:0" json:"customers_billed"`
	CustomerResponseCount int64     `gorm:"not null;default:0" json:"customer_response_count"`
	CreatedAt             time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt             time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for MonthlyCustomerStats
func (MonthlyCustomerStats) TableName() string {
	return "monthly_customer_stats"
}

// DailyCollection records an individual day's collections attributed to a
// feeder or a sales representative, optionally down to a transformer.
type DailyCollection struct {
	ID            uint                     `gorm:"primaryKey" json:"id"`
	FeederID      *uint                    `gorm:"index:idx_daily_collections_feeder_id" json:"feeder_id,omitempty"`
	Feeder        *Feeder                  `gorm:"foreignKey:FeederID;references:ID;constraint:OnDelete:CASCADE" json:"feeder,omitempty"`
	SalesRepID    *uint                    `gorm:"index:idx_daily_collections_sales_rep_id" json:"sales_rep_id,omitempty"`
	SalesRep      *SalesRepresentative     `gorm:"foreignKey:SalesRepID;references:ID" json:"sales_rep,omitempty"`
	TransformerID *uint                    `gorm:"index:idx_daily_collections_transformer_id" json:"transformer_id,omitempty"`
	Transformer   *DistributionTransformer `gorm:"foreignKey:TransformerID;references:ID" json:"transformer,omitempty"`
	Date          time.Time                `gorm:"type:date;not null;index:idx_daily_collections_date" json:"date"`
	Amount        decimal.Decimal          `gorm:"type:decimal(12,2);not null;default:0" json:"amount"`
	Type          CollectionType           `gorm:"size:20;not null;default:'Postpaid';index:idx_daily_collections_type" json:"collection_type"`
	VendorName    *string                  `gorm:"size:255" json:"vendor_name,omitempty"`
	CreatedAt     time.Time                `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt     time.Time                `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for DailyCollection
func (DailyCollection) TableName() string {
	return "daily_collections"
}
