package common

import (
	"abs/src/config"
	"abs/src/models"
	"abs/src/models/scopes"
	"abs/src/types"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartService is the session-scoped holding area for prospective bookings.
// Items are keyed by (session, activity, date, time): adding the same key
// twice overwrites quantities and price instead of duplicating the row.
type CartService struct {
	DB     *gorm.DB
	Config config.Settings
}

func NewCartService(db *gorm.DB, cfg config.Settings) *CartService {
	return &CartService{DB: db, Config: cfg}
}

func (s *CartService) AddOrUpdate(sessionID string, body types.AddToCartRequestBody) (*models.CartItem, error) {
	bookingDate, err := types.ParseDate(body.BookingDate)
	if err != nil {
		return nil, &ValidationError{Msg: "invalid booking_date"}
	}
	if bookingDate.Before(types.Today()) {
		return nil, &ValidationError{Msg: "cannot book for past dates"}
	}

	var item *models.CartItem
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var activity models.Activity
		if err := tx.
			Scopes(scopes.WithID(body.ActivityID), scopes.ActiveOnly).
			First(&activity).
			Error; err != nil {
			return ErrNotFound
		}

		inputs, err := LoadPricingInputs(tx, activity.ID, body.PricingTierID, body.TimeSlotID, body.AddOnIDs)
		if err != nil {
			return err
		}
		price := ResolvePrice(&activity, inputs, body.AddOnQuantities, body.Adults, body.Children)

		existing, err := s.findExisting(tx, sessionID, body.ActivityID, bookingDate, body.BookingTime)
		if err != nil {
			return err
		}
		if existing != nil {
			s.applySelection(existing, body, bookingDate, price)
			if err := tx.Save(existing).Error; err != nil {
				return err
			}
			item = existing
			return nil
		}

		created := &models.CartItem{SessionID: sessionID}
		s.applySelection(created, body, bookingDate, price)
		if err := tx.Create(created).Error; err != nil {
			return err
		}
		item = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem re-resolves the price for an existing item in place; unlike
// AddOrUpdate it addresses the row by id, so it can also move the item to a
// different date or time.
func (s *CartService) UpdateItem(sessionID string, itemID uint, body types.AddToCartRequestBody) (*models.CartItem, error) {
	bookingDate, err := types.ParseDate(body.BookingDate)
	if err != nil {
		return nil, &ValidationError{Msg: "invalid booking_date"}
	}

	var item *models.CartItem
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.CartItem
		if err := tx.
			Scopes(scopes.WithID(itemID), scopes.WithSession(sessionID)).
			First(&existing).
			Error; err != nil {
			return ErrNotFound
		}

		var activity models.Activity
		if err := tx.Scopes(scopes.WithID(existing.ActivityID)).First(&activity).Error; err != nil {
			return ErrNotFound
		}

		inputs, err := LoadPricingInputs(tx, activity.ID, body.PricingTierID, body.TimeSlotID, body.AddOnIDs)
		if err != nil {
			return err
		}
		price := ResolvePrice(&activity, inputs, body.AddOnQuantities, body.Adults, body.Children)

		s.applySelection(&existing, body, bookingDate, price)
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		item = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CartService) Items(sessionID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := s.DB.
		Scopes(scopes.WithSession(sessionID)).
		Preload("Activity").
		Order("created_at DESC").
		Find(&items).
		Error
	return items, err
}

func (s *CartService) Remove(sessionID string, itemID uint) error {
	res := s.DB.
		Scopes(scopes.WithID(itemID), scopes.WithSession(sessionID)).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CartService) Clear(sessionID string) error {
	return s.DB.
		Scopes(scopes.WithSession(sessionID)).
		Delete(&models.CartItem{}).
		Error
}

// Totals sums the stored price snapshots. It deliberately does not re-resolve
// pricing: the cart reflects prices at add time, not live activity changes.
func (s *CartService) Totals(sessionID string) (*types.CartTotals, error) {
	var items []models.CartItem
	if err := s.DB.Scopes(scopes.WithSession(sessionID)).Find(&items).Error; err != nil {
		return nil, err
	}
	totals := &types.CartTotals{
		Total:    decimal.Zero,
		Currency: s.Config.DefaultCurrency,
	}
	for _, item := range items {
		totals.Total = totals.Total.Add(item.Price)
		totals.ItemCount++
	}
	return totals, nil
}

// RemoveStale purges cart rows older than the retention window. Carts have no
// expiry of their own; the scheduler calls this daily.
func (s *CartService) RemoveStale(now time.Time) (int64, error) {
	cutoff := now.AddDate(0, 0, -s.Config.CartRetentionDays)
	res := s.DB.
		Where("created_at < ?", cutoff).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("Removed %d stale cart items older than %s\n", res.RowsAffected, cutoff)
	}
	return res.RowsAffected, nil
}

func (s *CartService) applySelection(item *models.CartItem, body types.AddToCartRequestBody, date types.Date, price decimal.Decimal) {
	item.ActivityID = body.ActivityID
	item.BookingDate = date
	item.BookingTime = body.BookingTime
	item.Adults = body.Adults
	item.Children = body.Children
	item.Price = price
	item.PricingTierID = body.PricingTierID
	item.TimeSlotID = body.TimeSlotID
	item.AddOnIDs = nil
	item.AddOnQuantities = nil
	if len(body.AddOnIDs) > 0 {
		ids := types.IDList(body.AddOnIDs)
		item.AddOnIDs = &ids
	}
	if len(body.AddOnQuantities) > 0 {
		qty := body.AddOnQuantities
		item.AddOnQuantities = &qty
	}
}

func (s *CartService) findExisting(tx *gorm.DB, sessionID string, activityID uint, date types.Date, bookingTime *string) (*models.CartItem, error) {
	q := tx.
		Scopes(scopes.WithSession(sessionID)).
		Where("activity_id = ?", activityID).
		Where("booking_date = ?", date)
	if bookingTime == nil {
		q = q.Where("booking_time IS NULL")
	} else {
		q = q.Where("booking_time = ?", *bookingTime)
	}
	var existing models.CartItem
	if err := q.First(&existing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &existing, nil
}
