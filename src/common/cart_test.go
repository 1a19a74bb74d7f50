package common

import (
	"abs/src/models"
	"abs/src/types"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestCartService(conn *gorm.DB) *CartService {
	return NewCartService(conn, testSettings())
}

func addToCartRequest(activityID uint) types.AddToCartRequestBody {
	return types.AddToCartRequestBody{
		ActivityID:  activityID,
		BookingDate: types.Today().AddDays(7).String(),
		Adults:      2,
		Children:    1,
	}
}

func TestAddToCartSnapshotsPrice(t *testing.T) {
	conn := openTestDB(t)
	activity := seedActivity(t, conn, nil)
	svc := newTestCartService(conn)

	item, err := svc.AddOrUpdate("session-a", addToCartRequest(activity.ID))
	require.NoError(t, err)
	assert.Equal(t, "125.00", item.Price.StringFixed(2))

	// Raising the activity price must not touch the stored snapshot.
	require.NoError(t, conn.Model(&models.Activity{}).
		Where("id = ?", activity.ID).
		Update("price_adult", dec("80.00")).Error)

	items, err := svc.Items("session-a")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "125.00", items[0].Price.StringFixed(2))
}

func TestAddToCartIsIdempotentPerSlot(t *testing.T) {
	conn := openTestDB(t)
	activity := seedActivity(t, conn, nil)
	svc := newTestCartService(conn)

	body := addToCartRequest(activity.ID)
	first, err := svc.AddOrUpdate("session-a", body)
	require.NoError(t, err)

	body.Adults = 4
	body.Children = 0
	second, err := svc.AddOrUpdate("session-a", body)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "200.00", second.Price.StringFixed(2))

	items, err := svc.Items("session-a")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	// A different time-of-day is a different slot.
	body.BookingTime = strPtr("14:00")
	third, err := svc.AddOrUpdate("session-a", body)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)

	// So is another session.
	_, err = svc.AddOrUpdate("session-b", addToCartRequest(activity.ID))
	require.NoError(t, err)
	items, err = svc.Items("session-a")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestAddToCartWithSelections(t *testing.T) {
	conn := openTestDB(t)
	activity := seedActivity(t, conn, nil)
	tier := models.PricingTier{ActivityID: activity.ID, TierName: "vip", PriceAdult: dec("60.00"), IsActive: true}
	require.NoError(t, conn.Create(&tier).Error)
	slot := models.TimeSlot{ActivityID: activity.ID, StartTime: "14:00", PriceAdjustment: dec("5.00")}
	require.NoError(t, conn.Create(&slot).Error)
	addOn := models.AddOn{ActivityID: activity.ID, Name: "Photos", Price: dec("12.50")}
	require.NoError(t, conn.Create(&addOn).Error)
	svc := newTestCartService(conn)

	body := addToCartRequest(activity.ID)
	body.Adults = 2
	body.Children = 0
	body.PricingTierID = &tier.ID
	body.TimeSlotID = &slot.ID
	body.AddOnIDs = []uint{addOn.ID}
	body.AddOnQuantities = types.QtyMap{addOn.ID: 2}

	// (60+5)*2 + 12.50*2
	item, err := svc.AddOrUpdate("session-a", body)
	require.NoError(t, err)
	assert.Equal(t, "155.00", item.Price.StringFixed(2))
	require.NotNil(t, item.AddOnQuantities)
	assert.Equal(t, 2, (*item.AddOnQuantities)[addOn.ID])
}

func TestUpdateCartItemReprices(t *testing.T) {
	conn := openTestDB(t)
	activity := seedActivity(t, conn, nil)
	svc := newTestCartService(conn)

	item, err := svc.AddOrUpdate("session-a", addToCartRequest(activity.ID))
	require.NoError(t, err)

	body := addToCartRequest(activity.ID)
	body.Adults = 1
	body.Children = 0
	updated, err := svc.UpdateItem("session-a", item.ID, body)
	require.NoError(t, err)
	assert.Equal(t, item.ID, updated.ID)
	assert.Equal(t, "50.00", updated.Price.StringFixed(2))

	_, err = svc.UpdateItem("other-session", item.ID, body)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveAndClearCart(t *testing.T) {
	conn := openTestDB(t)
	activity := seedActivity(t, conn, nil)
	svc := newTestCartService(conn)

	item, err := svc.AddOrUpdate("session-a", addToCartRequest(activity.ID))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Remove("other-session", item.ID), ErrNotFound)
	require.NoError(t, svc.Remove("session-a", item.ID))
	assert.ErrorIs(t, svc.Remove("session-a", item.ID), ErrNotFound)

	_, err = svc.AddOrUpdate("session-a", addToCartRequest(activity.ID))
	require.NoError(t, err)
	require.NoError(t, svc.Clear("session-a"))
	items, err := svc.Items("session-a")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartTotalsSumSnapshots(t *testing.T) {
	conn := openTestDB(t)
	activity := seedActivity(t, conn, nil)
	other := seedActivity(t, conn, func(a *models.Activity) {
		a.Title = "Cliff Walk"
		a.PriceAdult = dec("30.00")
	})
	svc := newTestCartService(conn)

	_, err := svc.AddOrUpdate("session-a", addToCartRequest(activity.ID))
	require.NoError(t, err)
	body := addToCartRequest(other.ID)
	body.Children = 0
	_, err = svc.AddOrUpdate("session-a", body)
	require.NoError(t, err)

	totals, err := svc.Totals("session-a")
	require.NoError(t, err)
	assert.Equal(t, 2, totals.ItemCount)
	assert.Equal(t, "185.00", totals.Total.StringFixed(2))
	assert.Equal(t, "EUR", totals.Currency)

	empty, err := svc.Totals("fresh-session")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.ItemCount)
	assert.True(t, empty.Total.IsZero())
}

func TestRemoveStaleCartItems(t *testing.T) {
	conn := openTestDB(t)
	activity := seedActivity(t, conn, nil)
	svc := newTestCartService(conn)

	_, err := svc.AddOrUpdate("session-a", addToCartRequest(activity.ID))
	require.NoError(t, err)

	removed, err := svc.RemoveStale(time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 0, removed)

	// Pretend the retention window has elapsed.
	removed, err = svc.RemoveStale(time.Now().AddDate(0, 0, testSettings().CartRetentionDays+1))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
}
