package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// CustomerCategory represents how a customer is billed
type CustomerCategory string

const (
	CustomerCategoryPrepaid   CustomerCategory = "Prepaid"
	CustomerCategoryPostpaid  CustomerCategory = "Postpaid"
	CustomerCategoryUnmetered CustomerCategory = "Unmetered"
)

// String returns the string representation of the category
func (c CustomerCategory) String() string {
	return string(c)
}

// Valid checks if the category is valid
func (c CustomerCategory) Valid() bool {
	switch c {
	case CustomerCategoryPrepaid, CustomerCategoryPostpaid, CustomerCategoryUnmetered:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for CustomerCategory
func (c *CustomerCategory) Scan(value any) error {
	if value == nil {
		*c = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*c = CustomerCategory(v)
	case []byte:
		*c = CustomerCategory(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CustomerCategory", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for CustomerCategory
func (c CustomerCategory) Value() (driver.Value, error) {
	return string(c), nil
}

// MeteringType represents the metering arrangement of a customer
type MeteringType string

const (
	MeteringTypeMD1   MeteringType = "MD1"
	MeteringTypeMD2   MeteringType = "MD2"
	MeteringTypeNonMD MeteringType = "Non-MD"
)

// String returns the string representation of the metering type
func (m MeteringType) String() string {
	return string(m)
}

// Valid checks if the metering type is valid
func (m MeteringType) Valid() bool {
	switch m {
	case MeteringTypeMD1, MeteringTypeMD2, MeteringTypeNonMD:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for MeteringType
func (m *MeteringType) Scan(value any) error {
	if value == nil {
		*m = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*m = MeteringType(v)
	case []byte:
		*m = MeteringType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into MeteringType", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for MeteringType
func (m MeteringType) Value() (driver.Value, error) {
	return string(m), nil
}

// Customer is an electricity consumer attached to a distribution transformer.
// The transformer reference is protected: a transformer with customers cannot
// be deleted.
type Customer struct {
	ID            uint                    `gorm:"primaryKey" json:"id"`
	Name          string                  `gorm:"size:255;not null" json:"name"`
	Category      CustomerCategory        `gorm:"size:20;not null;default:'Postpaid';index:idx_customers_category" json:"category"`
	MeteringType  MeteringType            `gorm:"size:10;not null;default:'Non-MD'" json:"metering_type"`
	BandID        *uint                   `gorm:"index:idx_customers_band_id" json:"band_id,omitempty"`
	Band          *Band                   `gorm:"foreignKey:BandID;references:ID;constraint:OnDelete:SET NULL" json:"band,omitempty"`
	TransformerID uint                    `gorm:"not null;index:idx_customers_transformer_id" json:"transformer_id"`
	Transformer   DistributionTransformer `gorm:"foreignKey:TransformerID;references:ID;constraint:OnDelete:RESTRICT" json:"transformer,omitempty"`
	JoinedDate    time.Time               `gorm:"type:date;not null" json:"joined_date"`
	CreatedAt     time.Time               `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt     time.Time               `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for Customer
func (Customer) TableName() string {
	return "customers"
}

// CustomerFilter defines lookup criteria for customers
type CustomerFilter struct {
	Name          *string
	Category      *CustomerCategory
	MeteringType  *MeteringType
	TransformerID *uint
	BandID        *uint
}
