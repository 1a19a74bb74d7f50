package models

import (
	"abs/src/types"

	"github.com/shopspring/decimal"
)

// User is the read side of the external identity system: the auth middleware
// loads this row from the parsed token, the core never mutates it.
type User struct {
	ID       uint    `gorm:"primarykey" json:"id"`
	Name     string  `json:"name,omitempty"`
	Email    string  `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	Phone    *string `gorm:"size:50" json:"phone,omitempty"`
	Role     string  `gorm:"size:20;default:'customer'" json:"role,omitempty"`
	VendorID *uint   `json:"vendor_id,omitempty"`

	Bookings []Booking `gorm:"foreignKey:user_id" json:"bookings,omitempty"`

	types.Timestamps
}

type Vendor struct {
	ID             uint             `gorm:"primarykey" json:"id"`
	UserID         uint             `json:"user_id,omitempty"`
	BusinessName   string           `gorm:"size:255" json:"business_name,omitempty"`
	ContactEmail   string           `gorm:"size:255" json:"contact_email,omitempty"`
	CommissionRate *decimal.Decimal `gorm:"type:decimal(5,2)" json:"commission_rate,omitempty"`
	IsVerified     bool             `gorm:"default:false" json:"is_verified"`

	Activities []Activity `gorm:"foreignKey:vendor_id" json:"activities,omitempty"`
	Bookings   []Booking  `gorm:"foreignKey:vendor_id" json:"bookings,omitempty"`

	types.Timestamps
}
