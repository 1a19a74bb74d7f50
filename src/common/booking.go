package common

import (
	"abs/src/config"
	"abs/src/models"
	"abs/src/models/scopes"
	"abs/src/types"
	"abs/src/utils"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxRefAttempts = 5

// lockForUpdate row-locks the query on engines that support it. SQLite has no
// FOR UPDATE; its single-writer model serializes the transactions anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// BookingService owns the booking state machine: creation, vendor approval,
// rejection, cancellation from either side, and check-in. Every transition is
// a locked read-then-conditional-write, so of two concurrent transitions on
// the same booking exactly one succeeds and the other observes ConflictError.
type BookingService struct {
	DB     *gorm.DB
	Config config.Settings

	// Now and NewRef are swappable in tests.
	Now    func() time.Time
	NewRef func() (string, error)
}

func NewBookingService(db *gorm.DB, cfg config.Settings) *BookingService {
	return &BookingService{DB: db, Config: cfg, Now: time.Now, NewRef: utils.GenerateBookingRef}
}

// Create converts a booking request into a persisted Booking. Guests are
// allowed: user may be nil. Tier/slot/add-on pricing is the cart's job; this
// path prices from the activity's current base prices only.
func (s *BookingService) Create(body types.CreateBookingRequestBody, user *models.User) (*models.Booking, error) {
	bookingDate, err := types.ParseDate(body.BookingDate)
	if err != nil {
		return nil, &ValidationError{Msg: "invalid booking_date"}
	}
	if bookingDate.Before(types.Today()) {
		return nil, &ValidationError{Msg: "cannot book for past dates"}
	}
	if body.Adults < 1 {
		return nil, &ValidationError{Msg: "at least one adult is required"}
	}

	var booking *models.Booking
	for attempt := 0; attempt < maxRefAttempts; attempt++ {
		ref, err := s.NewRef()
		if err != nil {
			return nil, err
		}
		err = s.DB.Transaction(func(tx *gorm.DB) error {
			var activity models.Activity
			if err := tx.
				Scopes(scopes.WithID(body.ActivityID), scopes.ActiveOnly).
				First(&activity).
				Error; err != nil {
				return ErrNotFound
			}

			totalPrice := ResolvePrice(&activity, nil, nil, body.Adults, body.Children)

			status := types.BOOKING_PENDING_VENDOR_APPROVAL
			if activity.InstantConfirmation {
				status = types.BOOKING_CONFIRMED
			}

			currency := activity.PriceCurrency
			if currency == "" {
				currency = s.Config.DefaultCurrency
			}

			contact := resolveContact(body, user)
			priceAdult := activity.PriceAdult
			b := models.Booking{
				BookingRef:          ref,
				ActivityID:          activity.ID,
				VendorID:            activity.VendorID,
				BookingDate:         bookingDate,
				BookingTime:         body.BookingTime,
				Adults:              body.Adults,
				Children:            body.Children,
				TotalParticipants:   body.Adults + body.Children,
				PricePerAdult:       &priceAdult,
				PricePerChild:       activity.PriceChild,
				TotalPrice:          totalPrice,
				Currency:            currency,
				Status:              status,
				CustomerName:        contact.Name,
				CustomerEmail:       contact.Email,
				CustomerPhone:       contact.Phone,
				SpecialRequirements: body.SpecialRequirements,
			}
			if user != nil {
				b.UserID = &user.ID
			}
			if status == types.BOOKING_CONFIRMED {
				now := s.Now().UTC()
				b.ConfirmedAt = &now
			}
			if err := tx.Create(&b).Error; err != nil {
				return err
			}
			// Same transaction as the insert so a ref-collision retry can not
			// double-count.
			if err := tx.
				Model(&models.Activity{}).
				Scopes(scopes.WithID(activity.ID)).
				UpdateColumn("total_bookings", gorm.Expr("total_bookings + 1")).
				Error; err != nil {
				return err
			}
			booking = &b
			return nil
		})
		if err == nil {
			return booking, nil
		}
		if isUniqueViolation(err) {
			log.Printf("booking_ref collision on %s, retrying (%d/%d)\n", ref, attempt+1, maxRefAttempts)
			continue
		}
		return nil, err
	}
	return nil, &ConflictError{Msg: "could not generate a unique booking reference"}
}

// GetByRef looks a booking up by its reference. Guests may fetch any booking
// by ref (the ref is the capability); authenticated callers only see their
// own unless they are admins.
func (s *BookingService) GetByRef(ref string, user *models.User) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.
		Where(&models.Booking{BookingRef: ref}).
		Preload("Activity").
		First(&booking).
		Error; err != nil {
		return nil, ErrNotFound
	}
	if user != nil && user.Role != types.ROLE_ADMIN {
		if booking.UserID == nil || *booking.UserID != user.ID {
			return nil, &AuthorizationError{Msg: "not authorized to view this booking"}
		}
	}
	return &booking, nil
}

type BookingListFilters struct {
	Status       *types.BookingStatus
	BookingDate  *types.Date
	UpcomingOnly bool
	PastOnly     bool
	Page         types.PageQuery
}

func (s *BookingService) ListForUser(userID uint, filters BookingListFilters) ([]models.Booking, int64, error) {
	q := s.DB.Model(&models.Booking{}).Where("user_id = ?", userID)
	q = applyBookingFilters(q, filters)
	return paginateBookings(q, filters.Page)
}

func (s *BookingService) ListForVendor(vendorID uint, filters BookingListFilters) ([]models.Booking, int64, error) {
	q := s.DB.Model(&models.Booking{}).Where("vendor_id = ?", vendorID)
	q = applyBookingFilters(q, filters)
	return paginateBookings(q, filters.Page)
}

// CancelByCustomer cancels the caller's own booking, subject to the
// activity's free-cancellation window. Terminal bookings stay terminal.
func (s *BookingService) CancelByCustomer(ref string, userID uint) (*models.Booking, error) {
	var booking *models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := lockForUpdate(tx).
			Where(&models.Booking{BookingRef: ref}).
			Where("user_id = ?", userID).
			First(&b).
			Error; err != nil {
			return ErrNotFound
		}
		if b.Status.Terminal() {
			return &ConflictError{Msg: fmt.Sprintf("cannot cancel %s booking", b.Status)}
		}

		var activity models.Activity
		if err := tx.Scopes(scopes.WithID(b.ActivityID)).First(&activity).Error; err != nil {
			return ErrNotFound
		}
		window := s.cancellationWindow(&activity)
		if hoursUntil(b.BookingDate, b.BookingTime, s.Now()) < float64(window) {
			return &CancellationWindowError{Hours: window}
		}

		now := s.Now().UTC()
		b.Status = types.BOOKING_CANCELLED
		b.CancelledAt = &now
		if err := tx.Save(&b).Error; err != nil {
			return err
		}
		booking = &b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Approve moves a booking from pending vendor approval to confirmed.
func (s *BookingService) Approve(bookingID, vendorID uint) (*models.Booking, error) {
	return s.transition(bookingID, vendorID, func(b *models.Booking) error {
		if b.Status != types.BOOKING_PENDING_VENDOR_APPROVAL {
			return &ConflictError{Msg: "can only approve bookings pending vendor approval"}
		}
		now := s.Now().UTC()
		b.Status = types.BOOKING_CONFIRMED
		b.ConfirmedAt = &now
		b.VendorApprovedAt = &now
		return nil
	})
}

// Reject declines a pending booking. A reason is mandatory.
func (s *BookingService) Reject(bookingID, vendorID uint, reason string) (*models.Booking, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, &ValidationError{Msg: "rejection reason is required"}
	}
	return s.transition(bookingID, vendorID, func(b *models.Booking) error {
		if b.Status != types.BOOKING_PENDING_VENDOR_APPROVAL {
			return &ConflictError{Msg: "can only reject bookings pending vendor approval"}
		}
		now := s.Now().UTC()
		b.Status = types.BOOKING_REJECTED
		b.RejectionReason = &reason
		b.VendorRejectedAt = &now
		return nil
	})
}

// CancelByVendor cancels any non-terminal booking on the vendor's side. The
// reason lands in rejection_reason.
func (s *BookingService) CancelByVendor(bookingID, vendorID uint, reason string) (*models.Booking, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, &ValidationError{Msg: "cancellation reason is required"}
	}
	return s.transition(bookingID, vendorID, func(b *models.Booking) error {
		if b.Status.Terminal() {
			return &ConflictError{Msg: fmt.Sprintf("cannot cancel %s booking", b.Status)}
		}
		now := s.Now().UTC()
		b.Status = types.BOOKING_CANCELLED
		b.RejectionReason = &reason
		b.CancelledAt = &now
		return nil
	})
}

// Checkin marks a confirmed booking completed.
func (s *BookingService) Checkin(bookingID, vendorID uint) (*models.Booking, error) {
	return s.transition(bookingID, vendorID, func(b *models.Booking) error {
		if b.Status != types.BOOKING_CONFIRMED {
			return &ConflictError{Msg: "can only check in confirmed bookings"}
		}
		now := s.Now().UTC()
		b.Status = types.BOOKING_COMPLETED
		b.CompletedAt = &now
		return nil
	})
}

// transition runs one locked read-then-conditional-write for a vendor-owned
// booking. The SELECT ... FOR UPDATE makes concurrent transitions serialize;
// the precondition check inside apply turns the loser into a ConflictError.
func (s *BookingService) transition(bookingID, vendorID uint, apply func(b *models.Booking) error) (*models.Booking, error) {
	var booking *models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := lockForUpdate(tx).
			Scopes(scopes.WithID(bookingID)).
			Where("vendor_id = ?", vendorID).
			First(&b).
			Error; err != nil {
			return ErrNotFound
		}
		if err := apply(&b); err != nil {
			return err
		}
		if err := tx.Save(&b).Error; err != nil {
			return err
		}
		booking = &b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) cancellationWindow(activity *models.Activity) int {
	if activity.FreeCancellationHours > 0 {
		return activity.FreeCancellationHours
	}
	return s.Config.FreeCancellationHours
}

type effectiveContact struct {
	Name  *string
	Email *string
	Phone *string
}

// resolveContact is the single place where guest contact fields fall back to
// the authenticated identity's profile. Each field resolves independently.
func resolveContact(body types.CreateBookingRequestBody, user *models.User) effectiveContact {
	c := effectiveContact{
		Name:  body.CustomerName,
		Email: body.CustomerEmail,
		Phone: body.CustomerPhone,
	}
	if user == nil {
		return c
	}
	if c.Name == nil && user.Name != "" {
		name := user.Name
		c.Name = &name
	}
	if c.Email == nil && user.Email != "" {
		email := user.Email
		c.Email = &email
	}
	if c.Phone == nil {
		c.Phone = user.Phone
	}
	return c
}

// hoursUntil measures the time remaining until the scheduled activity start.
// A booking without a time-of-day counts from midnight.
func hoursUntil(date types.Date, timeOfDay *string, now time.Time) float64 {
	start := date.Time
	if timeOfDay != nil {
		if t, err := time.Parse(types.TimeOfDayFormat, *timeOfDay); err == nil {
			start = start.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
		}
	}
	return start.Sub(now.UTC()).Hours()
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

func applyBookingFilters(q *gorm.DB, filters BookingListFilters) *gorm.DB {
	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	if filters.BookingDate != nil {
		q = q.Where("booking_date = ?", *filters.BookingDate)
	}
	today := types.Today()
	if filters.UpcomingOnly {
		q = q.Where("booking_date >= ?", today)
	} else if filters.PastOnly {
		q = q.Where("booking_date < ?", today)
	}
	return q
}

func paginateBookings(q *gorm.DB, page types.PageQuery) ([]models.Booking, int64, error) {
	if page.Page < 1 {
		page.Page = 1
	}
	if page.PerPage < 1 {
		page.PerPage = 20
	}
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var bookings []models.Booking
	err := q.
		Order("booking_date DESC, created_at DESC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&bookings).
		Error
	return bookings, total, err
}
