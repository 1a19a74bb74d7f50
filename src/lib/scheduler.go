package lib

import (
	"abs/src/common"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartScheduler runs the background jobs, currently just the nightly sweep
// of abandoned carts. The returned scheduler should be shut down on exit.
func StartScheduler(carts *common.CartService) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	_, err = scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		gocron.NewTask(func() {
			if _, err := carts.RemoveStale(time.Now()); err != nil {
				log.Printf("stale cart sweep failed: %s\n", err)
			}
		}),
	)
	if err != nil {
		return nil, err
	}
	scheduler.Start()
	return scheduler, nil
}
