package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

const DateFormat = "2006-01-02"
const TimeOfDayFormat = "15:04"

// Date is a calendar date without a time-of-day component. It stores as a SQL
// DATE column and marshals as "YYYY-MM-DD".
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), now.Month(), now.Day())
}

func (d Date) String() string {
	return d.Time.Format(DateFormat)
}

func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

func (d *Date) Scan(value any) error {
	switch v := value.(type) {
	case time.Time:
		d.Time = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	case nil:
		d.Time = time.Time{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into Date", value)
}

func (d *Date) scanString(s string) error {
	if len(s) > len(DateFormat) {
		s = s[:len(DateFormat)]
	}
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IDList and QtyMap serialize the cart's add-on selection as JSON text
// columns keyed by add-on id.
type IDList []uint

func (a IDList) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}

func (a *IDList) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("type assertion to []byte failed")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, a)
}

type QtyMap map[uint]int

func (a QtyMap) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}

func (a *QtyMap) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("type assertion to []byte failed")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, a)
}

type Claims struct {
	Email    string `json:"email"`
	Role     string `json:"role"`
	VendorID uint   `json:"vendor_id,omitempty"`
	jwt.RegisteredClaims
}

type BookingStatus string

const (
	BOOKING_PENDING                 BookingStatus = "pending"
	BOOKING_PENDING_VENDOR_APPROVAL BookingStatus = "pending_vendor_approval"
	BOOKING_CONFIRMED               BookingStatus = "confirmed"
	BOOKING_REJECTED                BookingStatus = "rejected"
	BOOKING_CANCELLED               BookingStatus = "cancelled"
	BOOKING_COMPLETED               BookingStatus = "completed"
)

// Terminal reports whether no further transition may leave this status.
func (s BookingStatus) Terminal() bool {
	switch s {
	case BOOKING_REJECTED, BOOKING_CANCELLED, BOOKING_COMPLETED:
		return true
	}
	return false
}

const (
	ROLE_CUSTOMER = "customer"
	ROLE_VENDOR   = "vendor"
	ROLE_ADMIN    = "admin"
)

type CreateBookingRequestBody struct {
	ActivityID          uint    `json:"activity_id" binding:"required"`
	BookingDate         string  `json:"booking_date" binding:"required,bookabledate"`
	BookingTime         *string `json:"booking_time,omitempty" binding:"omitempty,timeofday"`
	Adults              int     `json:"adults" binding:"required,min=1"`
	Children            int     `json:"children,omitempty" binding:"omitempty,min=0"`
	CustomerName        *string `json:"customer_name,omitempty"`
	CustomerEmail       *string `json:"customer_email,omitempty" binding:"omitempty,email"`
	CustomerPhone       *string `json:"customer_phone,omitempty"`
	SpecialRequirements *string `json:"special_requirements,omitempty"`
}

type AddToCartRequestBody struct {
	ActivityID      uint    `json:"activity_id" binding:"required"`
	BookingDate     string  `json:"booking_date" binding:"required,bookabledate"`
	BookingTime     *string `json:"booking_time,omitempty" binding:"omitempty,timeofday"`
	Adults          int     `json:"adults" binding:"required,min=1"`
	Children        int     `json:"children,omitempty" binding:"omitempty,min=0"`
	PricingTierID   *uint   `json:"pricing_tier_id,omitempty"`
	TimeSlotID      *uint   `json:"time_slot_id,omitempty"`
	AddOnIDs        []uint  `json:"add_on_ids,omitempty"`
	AddOnQuantities QtyMap  `json:"add_on_quantities,omitempty"`
}

type RejectBookingRequestBody struct {
	Reason string `json:"reason" binding:"required"`
}

type CancelBookingRequestBody struct {
	Reason string `json:"reason" binding:"required"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type BookingRefParams struct {
	Ref string `uri:"ref" binding:"required,len=10"`
}

type AvailabilityQuery struct {
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date" binding:"required"`
}

type PageQuery struct {
	Page    int `form:"page,default=1" binding:"omitempty,min=1"`
	PerPage int `form:"per_page,default=20" binding:"omitempty,min=1,max=100"`
}

func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.PerPage
}

type APIResponseBooking struct {
	ID                  uint          `json:"id,omitempty"`
	BookingRef          string        `json:"booking_ref"`
	ActivityID          uint          `json:"activity_id"`
	VendorID            uint          `json:"vendor_id,omitempty"`
	BookingDate         Date          `json:"booking_date"`
	BookingTime         *string       `json:"booking_time,omitempty"`
	Adults              int           `json:"adults"`
	Children            int           `json:"children"`
	TotalParticipants   int           `json:"total_participants"`
	PricePerAdult       string        `json:"price_per_adult,omitempty"`
	PricePerChild       string        `json:"price_per_child,omitempty"`
	TotalPrice          string        `json:"total_price"`
	Currency            string        `json:"currency"`
	Status              BookingStatus `json:"status"`
	CustomerName        *string       `json:"customer_name,omitempty"`
	CustomerEmail       *string       `json:"customer_email,omitempty"`
	CustomerPhone       *string       `json:"customer_phone,omitempty"`
	SpecialRequirements *string       `json:"special_requirements,omitempty"`
	RejectionReason     *string       `json:"rejection_reason,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
	ConfirmedAt         *time.Time    `json:"confirmed_at,omitempty"`
	VendorApprovedAt    *time.Time    `json:"vendor_approved_at,omitempty"`
	VendorRejectedAt    *time.Time    `json:"vendor_rejected_at,omitempty"`
	CancelledAt         *time.Time    `json:"cancelled_at,omitempty"`
	CompletedAt         *time.Time    `json:"completed_at,omitempty"`
}

type APIResponseAvailability struct {
	ID             uint    `json:"id"`
	Date           Date    `json:"date"`
	StartTime      *string `json:"start_time,omitempty"`
	EndTime        *string `json:"end_time,omitempty"`
	SpotsAvailable int     `json:"spots_available"`
	SpotsTotal     int     `json:"spots_total"`
	PriceAdult     string  `json:"price_adult"`
	PriceChild     string  `json:"price_child,omitempty"`
	IsAvailable    bool    `json:"is_available"`
}

type CartTotals struct {
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
}
