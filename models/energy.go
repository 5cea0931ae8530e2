package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyEnergyDelivered records energy pushed through a feeder on one day, in MWh
type DailyEnergyDelivered struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	FeederID  uint            `gorm:"not null;index:idx_daily_energy_delivered_feeder_id;uniqueIndex:uk_daily_energy_delivered_feeder_date" json:"feeder_id"`
	Feeder    Feeder          `gorm:"foreignKey:FeederID;references:ID;constraint:OnDelete:CASCADE" json:"feeder,omitempty"`
	Date      time.Time       `gorm:"type:date;not null;index:idx_daily_energy_delivered_date;uniqueIndex:uk_daily_energy_delivered_feeder_date" json:"date"`
	EnergyMWh decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"energy_mwh"`
	CreatedAt time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for DailyEnergyDelivered
func (DailyEnergyDelivered) TableName() string {
	return "daily_energy_delivered"
}

// MonthlyEnergyBilled records the energy billed on a feeder for a calendar
// month. Month is always the first day of the month.
type MonthlyEnergyBilled struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	FeederID  uint            `gorm:"not null;index:idx_monthly_energy_billed_feeder_id;uniqueIndex:uk_monthly_energy_billed_feeder_month" json:"feeder_id"`
	Feeder    Feeder          `gorm:"foreignKey:FeederID;references:ID;constraint:OnDelete:CASCADE" json:"feeder,omitempty"`
	Month     time.Time       `gorm:"type:date;not null;index:idx_monthly_energy_billed_month;uniqueIndex:uk_monthly_energy_billed_feeder_month" json:"month"`
	EnergyMWh decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"energy_mwh"`
	CreatedAt time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for MonthlyEnergyBilled
func (MonthlyEnergyBilled) TableName() string {
	return "monthly_energy_billed"
}

// FeederEnergyDaily is the materialized one-row-per-(feeder,date) rollup of
// DailyEnergyDelivered, rebuilt by the materializer.
type FeederEnergyDaily struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	FeederID  uint            `gorm:"not null;uniqueIndex:uk_feeder_energy_daily_feeder_date" json:"feeder_id"`
	Feeder    Feeder          `gorm:"foreignKey:FeederID;references:ID;constraint:OnDelete:CASCADE" json:"feeder,omitempty"`
	Date      time.Time       `gorm:"type:date;not null;index:idx_feeder_energy_daily_date;uniqueIndex:uk_feeder_energy_daily_feeder_date" json:"date"`
	EnergyMWh decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"energy_mwh"`
	CreatedAt time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for FeederEnergyDaily
func (FeederEnergyDaily) TableName() string {
	return "feeder_energy_daily"
}

// FeederEnergyMonthly is the materialized monthly rollup of FeederEnergyDaily.
// Period is always the first day of the month.
type FeederEnergyMonthly struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	FeederID  uint            `gorm:"not null;uniqueIndex:uk_feeder_energy_monthly_feeder_period" json:"feeder_id"`
	Feeder    Feeder          `gorm:"foreignKey:FeederID;references:ID;constraint:OnDelete:CASCADE" json:"feeder,omitempty"`
	Period    time.Time       `gorm:"type:date;not null;index:idx_feeder_energy_monthly_period;uniqueIndex:uk_feeder_energy_monthly_feeder_period" json:"period"`
	EnergyMWh decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"energy_mwh"`
	CreatedAt time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for FeederEnergyMonthly
func (FeederEnergyMonthly) TableName() string {
	return "feeder_energy_monthly"
}
