package common

import (
	"abs/src/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PricingInputs holds the rows a price resolution may reference. The loader
// only returns rows owned by the target activity, so a stale client id for a
// tier, slot or add-on simply degrades to "absent" rather than failing the
// request.
type PricingInputs struct {
	Tier   *models.PricingTier
	Slot   *models.TimeSlot
	AddOns []models.AddOn
}

// LoadPricingInputs fetches the selected tier, time slot and add-ons belonging
// to the activity. Ids belonging to other activities are dropped here, which
// is what makes ResolvePrice safe against stale carts.
func LoadPricingInputs(tx *gorm.DB, activityID uint, tierID, slotID *uint, addOnIDs []uint) (*PricingInputs, error) {
	in := &PricingInputs{}
	if tierID != nil {
		var tier models.PricingTier
		err := tx.
			Where(&models.PricingTier{ID: *tierID, ActivityID: activityID}).
			First(&tier).
			Error
		if err == nil {
			in.Tier = &tier
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}
	if slotID != nil {
		var slot models.TimeSlot
		err := tx.
			Where(&models.TimeSlot{ID: *slotID, ActivityID: activityID}).
			First(&slot).
			Error
		if err == nil {
			in.Slot = &slot
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}
	if len(addOnIDs) > 0 {
		if err := tx.
			Where("id IN (?)", addOnIDs).
			Where(&models.AddOn{ActivityID: activityID}).
			Find(&in.AddOns).
			Error; err != nil {
			return nil, err
		}
	}
	return in, nil
}

// ResolvePrice computes the total for a booking configuration. It is a pure
// function over its inputs: the same activity, selections and counts always
// produce the same total, which is what lets the cart snapshot and the
// at-booking-time price be compared safely.
//
// Order matters: the tier replaces the base prices, the slot adjustment is
// then added to both legs, participants multiply, add-ons sum on top.
// Rounding to two decimals happens once, at the end.
func ResolvePrice(activity *models.Activity, in *PricingInputs, quantities map[uint]int, adults, children int) decimal.Decimal {
	baseAdult := activity.PriceAdult
	baseChild := activity.ChildPrice()

	if in != nil && in.Tier != nil && in.Tier.IsActive && in.Tier.ActivityID == activity.ID {
		baseAdult = in.Tier.PriceAdult
		// A tier without a child price keeps the activity's child price.
		if in.Tier.PriceChild != nil {
			baseChild = *in.Tier.PriceChild
		}
	}

	if in != nil && in.Slot != nil && in.Slot.ActivityID == activity.ID && !in.Slot.PriceAdjustment.IsZero() {
		baseAdult = baseAdult.Add(in.Slot.PriceAdjustment)
		baseChild = baseChild.Add(in.Slot.PriceAdjustment)
	}

	total := baseAdult.Mul(decimal.NewFromInt(int64(adults))).
		Add(baseChild.Mul(decimal.NewFromInt(int64(children))))

	if in != nil {
		for _, addOn := range in.AddOns {
			if addOn.ActivityID != activity.ID {
				continue
			}
			qty := quantities[addOn.ID]
			if qty <= 0 {
				continue
			}
			total = total.Add(addOn.Price.Mul(decimal.NewFromInt(int64(qty))))
		}
	}

	return total.Round(2)
}
