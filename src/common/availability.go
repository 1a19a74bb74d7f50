package common

import (
	"abs/src/config"
	"abs/src/models"
	"abs/src/models/scopes"
	"abs/src/types"
	"time"

	"gorm.io/gorm"
)

// AvailabilityService answers "when can this activity be booked" over a date
// range. Explicit availability rows win; dates without one get a synthesized
// default derived from the activity itself. Availability is read-only here:
// bookings never decrement spots.
type AvailabilityService struct {
	DB     *gorm.DB
	Config config.Settings

	Now func() time.Time
}

func NewAvailabilityService(db *gorm.DB, cfg config.Settings) *AvailabilityService {
	return &AvailabilityService{DB: db, Config: cfg, Now: time.Now}
}

const maxAvailabilityRangeDays = 90

// GetRange returns availability entries for [start, end] inclusive, ordered
// by date then start time. When the vendor published any explicit rows in the
// range those rows are the whole answer; defaults are synthesized only for a
// range with no explicit rows at all. Synthesized entries carry id 0.
func (s *AvailabilityService) GetRange(activityID uint, start, end types.Date) ([]types.APIResponseAvailability, error) {
	if end.Before(start) {
		return nil, &ValidationError{Msg: "end_date must not be before start_date"}
	}
	if end.Time.Sub(start.Time) > maxAvailabilityRangeDays*24*time.Hour {
		return nil, &ValidationError{Msg: "date range too large"}
	}

	var activity models.Activity
	if err := s.DB.
		Scopes(scopes.WithID(activityID), scopes.ActiveOnly).
		First(&activity).
		Error; err != nil {
		return nil, ErrNotFound
	}

	var rows []models.Availability
	if err := s.DB.
		Where("activity_id = ?", activityID).
		Where("date >= ? AND date <= ?", start, end).
		Where("is_available = ?", true).
		Order("date ASC, start_time ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	if len(rows) > 0 {
		out := make([]types.APIResponseAvailability, 0, len(rows))
		for _, row := range rows {
			out = append(out, s.entryFromRow(&activity, row))
		}
		return out, nil
	}

	now := s.Now().UTC()
	today := types.NewDate(now.Year(), now.Month(), now.Day())

	out := []types.APIResponseAvailability{}
	for d := start; !end.Before(d); d = d.AddDays(1) {
		if d.Before(today) {
			continue
		}
		out = append(out, s.synthesize(&activity, d))
	}
	return out, nil
}

func (s *AvailabilityService) entryFromRow(activity *models.Activity, row models.Availability) types.APIResponseAvailability {
	priceAdult := activity.PriceAdult
	if row.PriceAdult != nil {
		priceAdult = *row.PriceAdult
	}
	priceChild := activity.ChildPrice()
	if row.PriceChild != nil {
		priceChild = *row.PriceChild
	}
	return types.APIResponseAvailability{
		ID:             row.ID,
		Date:           row.Date,
		StartTime:      row.StartTime,
		EndTime:        row.EndTime,
		SpotsAvailable: row.SpotsAvailable,
		SpotsTotal:     row.SpotsTotal,
		PriceAdult:     priceAdult.StringFixed(2),
		PriceChild:     priceChild.StringFixed(2),
		IsAvailable:    row.IsAvailable && row.SpotsAvailable > 0,
	}
}

// synthesize builds the default entry for a date with no explicit row. Id 0
// marks it as computed rather than stored.
func (s *AvailabilityService) synthesize(activity *models.Activity, d types.Date) types.APIResponseAvailability {
	spots := activity.MaxGroupSize
	if spots <= 0 {
		spots = s.Config.DefaultMaxGroupSize
	}
	return types.APIResponseAvailability{
		ID:             0,
		Date:           d,
		SpotsAvailable: spots,
		SpotsTotal:     spots,
		PriceAdult:     activity.PriceAdult.StringFixed(2),
		PriceChild:     activity.ChildPrice().StringFixed(2),
		IsAvailable:    true,
	}
}
