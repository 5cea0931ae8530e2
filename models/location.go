// Package models contains the GORM data model for the distribution analytics service
package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// VoltageLevel represents the voltage class of a feeder
type VoltageLevel string

const (
	VoltageLevel11KV VoltageLevel = "11kv"
	VoltageLevel33KV VoltageLevel = "33kv"
)

// String returns the string representation of the voltage level
func (v VoltageLevel) String() string {
	return string(v)
}

// Valid checks if the voltage level is valid
func (v VoltageLevel) Valid() bool {
	switch v {
	case VoltageLevel11KV, VoltageLevel33KV:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for VoltageLevel
func (v *VoltageLevel) Scan(value any) error {
	if value == nil {
		*v = ""
		return nil
	}
	switch s := value.(type) {
	case string:
		*v = VoltageLevel(s)
	case []byte:
		*v = VoltageLevel(string(s))
	default:
		return fmt.Errorf("cannot scan %T into VoltageLevel", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for VoltageLevel
func (v VoltageLevel) Value() (driver.Value, error) {
	return string(v), nil
}

// State is the root of the location hierarchy
type State struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex:uk_states_name" json:"name"`
	Slug      string    `gorm:"size:120;not null;uniqueIndex:uk_states_slug" json:"slug"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	BusinessDistricts []BusinessDistrict `gorm:"foreignKey:StateID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for State
func (State) TableName() string {
	return "states"
}

// BusinessDistrict is an operational area within a state
type BusinessDistrict struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex:uk_business_districts_name_state" json:"name"`
	Slug      string    `gorm:"size:120;not null;index:idx_business_districts_slug" json:"slug"`
	StateID   uint      `gorm:"not null;index:idx_business_districts_state_id;uniqueIndex:uk_business_districts_name_state" json:"state_id"`
	State     State     `gorm:"foreignKey:StateID;references:ID" json:"state,omitempty"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	InjectionSubstations []InjectionSubstation `gorm:"foreignKey:DistrictID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for BusinessDistrict
func (BusinessDistrict) TableName() string {
	return "business_districts"
}

// InjectionSubstation steps transmission voltage down to distribution voltage
type InjectionSubstation struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	Name       string           `gorm:"size:100;not null;uniqueIndex:uk_injection_substations_name_district" json:"name"`
	Slug       string           `gorm:"size:120;not null;index:idx_injection_substations_slug" json:"slug"`
	DistrictID uint             `gorm:"not null;index:idx_injection_substations_district_id;uniqueIndex:uk_injection_substations_name_district" json:"district_id"`
	District   BusinessDistrict `gorm:"foreignKey:DistrictID;references:ID" json:"district,omitempty"`
	CreatedAt  time.Time        `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt  time.Time        `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	Feeders []Feeder `gorm:"foreignKey:SubstationID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for InjectionSubstation
func (InjectionSubstation) TableName() string {
	return "injection_substations"
}

// Band is a regulatory service-quality tier
type Band struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;not null;uniqueIndex:uk_bands_name" json:"name"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for Band
func (Band) TableName() string {
	return "bands"
}

// Feeder is an 11kV or 33kV distribution line emanating from an injection substation.
// BusinessDistrictID is denormalized from the substation's district so fact queries
// can scope by district without a double join.
type Feeder struct {
	ID                 uint                `gorm:"primaryKey" json:"id"`
	Name               string              `gorm:"size:100;not null;uniqueIndex:uk_feeders_name_substation" json:"name"`
	Slug               string              `gorm:"size:120;not null;index:idx_feeders_slug" json:"slug"`
	SubstationID       uint                `gorm:"not null;index:idx_feeders_substation_id;uniqueIndex:uk_feeders_name_substation" json:"substation_id"`
	Substation         InjectionSubstation `gorm:"foreignKey:SubstationID;references:ID" json:"substation,omitempty"`
	BusinessDistrictID uint                `gorm:"not null;index:idx_feeders_business_district_id" json:"business_district_id"`
	BusinessDistrict   BusinessDistrict    `gorm:"foreignKey:BusinessDistrictID;references:ID" json:"business_district,omitempty"`
	VoltageLevel       VoltageLevel        `gorm:"size:10;not null;default:'11kv'" json:"voltage_level"`
	BandID             *uint               `gorm:"index:idx_feeders_band_id" json:"band_id,omitempty"`
	Band               *Band               `gorm:"foreignKey:BandID;references:ID;constraint:OnDelete:SET NULL" json:"band,omitempty"`
	CreatedAt          time.Time           `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt          time.Time           `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	Transformers []DistributionTransformer `gorm:"foreignKey:FeederID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for Feeder
func (Feeder) TableName() string {
	return "feeders"
}

// DistributionTransformer is the leaf of the location hierarchy
type DistributionTransformer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex:uk_distribution_transformers_name_feeder" json:"name"`
	Slug      string    `gorm:"size:120;not null;index:idx_distribution_transformers_slug" json:"slug"`
	FeederID  uint      `gorm:"not null;index:idx_distribution_transformers_feeder_id;uniqueIndex:uk_distribution_transformers_name_feeder" json:"feeder_id"`
	Feeder    Feeder    `gorm:"foreignKey:FeederID;references:ID" json:"feeder,omitempty"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for DistributionTransformer
func (DistributionTransformer) TableName() string {
	return "distribution_transformers"
}

// LocationFilter carries the caller's geographic selectors. Only the most
// specific one is honoured when the feeder scope is resolved; Band always
// intersects the result.
type LocationFilter struct {
	State            string
	District         string
	BusinessDistrict string
	Substation       string
	Feeder           string
	Transformer      string
	Band             string
}

// IsZero reports whether no geographic selector was supplied
func (f LocationFilter) IsZero() bool {
	return f.State == "" && f.District == "" && f.BusinessDistrict == "" &&
		f.Substation == "" && f.Feeder == "" && f.Transformer == "" && f.Band == ""
}
