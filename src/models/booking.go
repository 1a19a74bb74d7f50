package models

import (
	"abs/src/types"
	"time"

	"github.com/shopspring/decimal"
)

type Booking struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	BookingRef string `gorm:"size:20;uniqueIndex" json:"booking_ref"`
	UserID     *uint  `json:"user_id,omitempty"`
	ActivityID uint   `json:"activity_id,omitempty"`
	// VendorID is denormalized from the activity at creation time so vendor
	// queries never need a join through activities.
	VendorID uint `gorm:"index:idx_vendor_bookings" json:"vendor_id,omitempty"`

	BookingDate       types.Date `gorm:"type:date;index:idx_vendor_bookings" json:"booking_date"`
	BookingTime       *string    `gorm:"size:5" json:"booking_time,omitempty"`
	Adults            int        `gorm:"default:1" json:"adults"`
	Children          int        `gorm:"default:0" json:"children"`
	TotalParticipants int        `json:"total_participants"`

	PricePerAdult *decimal.Decimal `gorm:"type:decimal(10,2)" json:"price_per_adult,omitempty"`
	PricePerChild *decimal.Decimal `gorm:"type:decimal(10,2)" json:"price_per_child,omitempty"`
	TotalPrice    decimal.Decimal  `gorm:"type:decimal(10,2)" json:"total_price"`
	Currency      string           `gorm:"size:3;default:'EUR'" json:"currency,omitempty"`

	Status types.BookingStatus `gorm:"size:30;index:idx_user_bookings" json:"status,omitempty"`

	CustomerName        *string `gorm:"size:255" json:"customer_name,omitempty"`
	CustomerEmail       *string `gorm:"size:255" json:"customer_email,omitempty"`
	CustomerPhone       *string `gorm:"size:50" json:"customer_phone,omitempty"`
	SpecialRequirements *string `json:"special_requirements,omitempty"`

	// RejectionReason doubles as the vendor cancellation reason.
	RejectionReason *string `json:"rejection_reason,omitempty"`

	ConfirmedAt      *time.Time `json:"confirmed_at,omitempty"`
	VendorApprovedAt *time.Time `json:"vendor_approved_at,omitempty"`
	VendorRejectedAt *time.Time `json:"vendor_rejected_at,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`

	Activity *Activity `gorm:"foreignKey:activity_id" json:"activity,omitempty"`
	User     *User     `gorm:"foreignKey:user_id" json:"user,omitempty"`

	types.Timestamps
}

func (b *Booking) APIResponse() types.APIResponseBooking {
	res := types.APIResponseBooking{
		ID:                  b.ID,
		BookingRef:          b.BookingRef,
		ActivityID:          b.ActivityID,
		VendorID:            b.VendorID,
		BookingDate:         b.BookingDate,
		BookingTime:         b.BookingTime,
		Adults:              b.Adults,
		Children:            b.Children,
		TotalParticipants:   b.TotalParticipants,
		TotalPrice:          b.TotalPrice.StringFixed(2),
		Currency:            b.Currency,
		Status:              b.Status,
		CustomerName:        b.CustomerName,
		CustomerEmail:       b.CustomerEmail,
		CustomerPhone:       b.CustomerPhone,
		SpecialRequirements: b.SpecialRequirements,
		RejectionReason:     b.RejectionReason,
		CreatedAt:           b.CreatedAt,
		ConfirmedAt:         b.ConfirmedAt,
		VendorApprovedAt:    b.VendorApprovedAt,
		VendorRejectedAt:    b.VendorRejectedAt,
		CancelledAt:         b.CancelledAt,
		CompletedAt:         b.CompletedAt,
	}
	if b.PricePerAdult != nil {
		res.PricePerAdult = b.PricePerAdult.StringFixed(2)
	}
	if b.PricePerChild != nil {
		res.PricePerChild = b.PricePerChild.StringFixed(2)
	}
	return res
}
