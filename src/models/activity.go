package models

import (
	"abs/src/types"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Activity struct {
	ID                    uint             `gorm:"primarykey" json:"id"`
	VendorID              uint             `json:"vendor_id,omitempty"`
	Title                 string           `gorm:"size:500" json:"title,omitempty"`
	Slug                  string           `gorm:"size:500;uniqueIndex" json:"slug,omitempty"`
	Description           *string          `json:"description,omitempty"`
	PriceAdult            decimal.Decimal  `gorm:"type:decimal(10,2)" json:"price_adult"`
	PriceChild            *decimal.Decimal `gorm:"type:decimal(10,2)" json:"price_child,omitempty"`
	PriceCurrency         string           `gorm:"size:3;default:'EUR'" json:"price_currency,omitempty"`
	DurationMinutes       int              `json:"duration_minutes,omitempty"`
	MaxGroupSize          int              `json:"max_group_size,omitempty"`
	InstantConfirmation   bool             `gorm:"default:true" json:"instant_confirmation"`
	FreeCancellationHours int              `gorm:"default:24" json:"free_cancellation_hours"`
	IsActive              bool             `gorm:"default:true" json:"is_active"`
	TotalBookings         int              `gorm:"default:0" json:"total_bookings"`

	Vendor       *Vendor       `gorm:"foreignKey:vendor_id" json:"vendor,omitempty"`
	PricingTiers []PricingTier `gorm:"foreignKey:activity_id" json:"pricing_tiers,omitempty"`
	TimeSlots    []TimeSlot    `gorm:"foreignKey:activity_id" json:"time_slots,omitempty"`
	AddOns       []AddOn       `gorm:"foreignKey:activity_id" json:"add_ons,omitempty"`

	types.Timestamps
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.Slug == "" {
		a.Slug = slug.Make(a.Title)
	}
	return nil
}

// ChildPrice returns the activity's child price, zero when it has none.
func (a *Activity) ChildPrice() decimal.Decimal {
	if a.PriceChild == nil {
		return decimal.Zero
	}
	return *a.PriceChild
}

type PricingTier struct {
	ID          uint             `gorm:"primarykey" json:"id"`
	ActivityID  uint             `json:"activity_id,omitempty"`
	TierName    string           `gorm:"size:100" json:"tier_name,omitempty"`
	PriceAdult  decimal.Decimal  `gorm:"type:decimal(10,2)" json:"price_adult"`
	PriceChild  *decimal.Decimal `gorm:"type:decimal(10,2)" json:"price_child,omitempty"`
	IsActive    bool             `gorm:"default:true" json:"is_active"`
	DisplayOrder int             `gorm:"default:0" json:"display_order,omitempty"`

	types.Timestamps
}

type TimeSlot struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	ActivityID      uint            `json:"activity_id,omitempty"`
	StartTime       string          `gorm:"size:5" json:"start_time,omitempty"`
	Capacity        int             `json:"capacity,omitempty"`
	IsAvailable     bool            `gorm:"default:true" json:"is_available"`
	PriceAdjustment decimal.Decimal `gorm:"type:decimal(10,2)" json:"price_adjustment"`

	types.Timestamps
}

type AddOn struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	ActivityID uint            `json:"activity_id,omitempty"`
	Name       string          `gorm:"size:255" json:"name,omitempty"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	IsOptional bool            `gorm:"default:true" json:"is_optional"`

	types.Timestamps
}

// Availability is an explicit per-date capacity record. Dates without a row
// fall back to a synthesized default computed from the activity itself.
type Availability struct {
	ID             uint             `gorm:"primarykey" json:"id"`
	ActivityID     uint             `gorm:"index:idx_availability,unique" json:"activity_id,omitempty"`
	Date           types.Date       `gorm:"type:date;index:idx_availability,unique" json:"date"`
	StartTime      *string          `gorm:"size:5;index:idx_availability,unique" json:"start_time,omitempty"`
	EndTime        *string          `gorm:"size:5" json:"end_time,omitempty"`
	SpotsAvailable int              `json:"spots_available"`
	SpotsTotal     int              `json:"spots_total"`
	PriceAdult     *decimal.Decimal `gorm:"type:decimal(10,2)" json:"price_adult,omitempty"`
	PriceChild     *decimal.Decimal `gorm:"type:decimal(10,2)" json:"price_child,omitempty"`
	IsAvailable    bool             `gorm:"default:true" json:"is_available"`

	types.Timestamps
}
