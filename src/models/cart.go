package models

import (
	"abs/src/types"

	"github.com/shopspring/decimal"
)

// CartItem is a session-scoped snapshot of a prospective booking. Price is
// resolved at add/update time and never re-resolved afterwards.
type CartItem struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	SessionID   string     `gorm:"size:255;index:idx_cart_session" json:"-"`
	ActivityID  uint       `json:"activity_id,omitempty"`
	BookingDate types.Date `gorm:"type:date" json:"booking_date"`
	BookingTime *string    `gorm:"size:5" json:"booking_time,omitempty"`
	Adults      int        `gorm:"default:1" json:"adults"`
	Children    int        `gorm:"default:0" json:"children"`

	Price decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`

	PricingTierID   *uint         `json:"pricing_tier_id,omitempty"`
	TimeSlotID      *uint         `json:"time_slot_id,omitempty"`
	AddOnIDs        *types.IDList `gorm:"type:text" json:"add_on_ids,omitempty"`
	AddOnQuantities *types.QtyMap `gorm:"type:text" json:"add_on_quantities,omitempty"`

	Activity *Activity `gorm:"foreignKey:activity_id" json:"activity,omitempty"`

	types.Timestamps
}
