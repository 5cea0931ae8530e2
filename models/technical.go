package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InterruptionType classifies the cause of a feeder outage
type InterruptionType string

const (
	InterruptionTypeEarthFault      InterruptionType = "earth_fault"
	InterruptionTypeOverCurrent     InterruptionType = "over_current"
	InterruptionTypePlannedOutage   InterruptionType = "planned_outage"
	InterruptionTypeLoadShedding    InterruptionType = "load_shedding"
	InterruptionTypeUpstreamFailure InterruptionType = "upstream_failure"
	InterruptionTypeOther           InterruptionType = "other"
)

// String returns the string representation of the interruption type
func (t InterruptionType) String() string {
	return string(t)
}

// Valid checks if the interruption type is valid
func (t InterruptionType) Valid() bool {
	switch t {
	case InterruptionTypeEarthFault, InterruptionTypeOverCurrent,
		InterruptionTypePlannedOutage, InterruptionTypeLoadShedding,
		InterruptionTypeUpstreamFailure, InterruptionTypeOther:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for InterruptionType
func (t *InterruptionType) Scan(value any) error {
	if value == nil {
		*t = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = InterruptionType(v)
	case []byte:
		*t = InterruptionType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into InterruptionType", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for InterruptionType
func (t InterruptionType) Value() (driver.Value, error) {
	return string(t), nil
}

// HourlyLoad records the load on a feeder at one hour of one day, in MW
type HourlyLoad struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	FeederID  uint            `gorm:"not null;index:idx_hourly_loads_feeder_id;uniqueIndex:uk_hourly_loads_feeder_date_hour" json:"feeder_id"`
	Feeder    Feeder          `gorm:"foreignKey:FeederID;references:ID;constraint:OnDelete:CASCADE" json:"feeder,omitempty"`
	Date      time.Time       `gorm:"type:date;not null;index:idx_hourly_loads_date;uniqueIndex:uk_hourly_loads_feeder_date_hour" json:"date"`
	Hour      int             `gorm:"not null;check:hour >= 0 AND hour <= 23;uniqueIndex:uk_hourly_loads_feeder_date_hour" json:"hour"`
	LoadMW    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"load_mw"`
	CreatedAt time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for HourlyLoad
func (HourlyLoad) TableName() string {
	return "hourly_loads"
}

// FeederInterruption records a single outage on a feeder. RestoredAt is nil
// while the fault is still open; an open fault contributes zero duration.
type FeederInterruption struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	FeederID   uint             `gorm:"not null;index:idx_feeder_interruptions_feeder_id;uniqueIndex:uk_feeder_interruptions_feeder_occurred_type" json:"feeder_id"`
	Feeder     Feeder           `gorm:"foreignKey:FeederID;references:ID;constraint:OnDelete:CASCADE" json:"feeder,omitempty"`
	Type       InterruptionType `gorm:"size:30;not null;index:idx_feeder_interruptions_type;uniqueIndex:uk_feeder_interruptions_feeder_occurred_type" json:"interruption_type"`
	OccurredAt time.Time        `gorm:"not null;index:idx_feeder_interruptions_occurred_at;uniqueIndex:uk_feeder_interruptions_feeder_occurred_type" json:"occurred_at"`
	RestoredAt *time.Time       `json:"restored_at,omitempty"`
	CreatedAt  time.Time        `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt  time.Time        `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for FeederInterruption
func (FeederInterruption) TableName() string {
	return "feeder_interruptions"
}

// DurationHours returns the outage duration in hours, zero while unrestored
func (i FeederInterruption) DurationHours() float64 {
	if i.RestoredAt == nil {
		return 0
	}
	return i.RestoredAt.Sub(i.OccurredAt).Hours()
}

// DailyHoursOfSupply records how many hours a feeder was energized on one day
type DailyHoursOfSupply struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	FeederID      uint            `gorm:"not null;index:idx_daily_hours_of_supply_feeder_id;uniqueIndex:uk_daily_hours_of_supply_feeder_date" json:"feeder_id"`
	Feeder        Feeder          `gorm:"foreignKey:FeederID;references:ID;constraint:OnDelete:CASCADE" json:"feeder,omitempty"`
	Date          time.Time       `gorm:"type:date;not null;index:idx_daily_hours_of_supply_date;uniqueIndex:uk_daily_hours_of_supply_feeder_date" json:"date"`
	HoursSupplied decimal.Decimal `gorm:"type:decimal(4,2);not null;default:0;check:hours_supplied >= 0 AND hours_supplied <= 24" json:"hours_supplied"`
	CreatedAt     time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for DailyHoursOfSupply
func (DailyHoursOfSupply) TableName() string {
	return "daily_hours_of_supply"
}
