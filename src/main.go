package main

import (
	"abs/src/common"
	"abs/src/config"
	"abs/src/db"
	"abs/src/lib"
	"abs/src/models"
	"abs/src/types"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

var bookableDate validator.Func = func(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	date, err := types.ParseDate(value)
	if err != nil {
		return false
	}
	return !date.Before(types.Today())
}

var timeOfDay validator.Func = func(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := time.Parse(types.TimeOfDayFormat, value)
	return err == nil
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("bookabledate", bookableDate)
		v.RegisterValidation("timeofday", timeOfDay)
	}
}

func autoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.User{},
		&models.Vendor{},
		&models.Activity{},
		&models.PricingTier{},
		&models.TimeSlot{},
		&models.AddOn{},
		&models.Availability{},
		&models.CartItem{},
		&models.Booking{},
	)
}

func setupRouter() *gin.Engine {
	registerValidators()

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{os.Getenv("CORS_ORIGIN")},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Session-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Session-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	settings := config.GetSettings()
	conn := db.GetDb()
	carts := common.NewCartService(conn, settings)
	bookings := common.NewBookingService(conn, settings)
	availability := common.NewAvailabilityService(conn, settings)

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.String(200, "ok")
	})

	apiv1 := router.Group("/api/v1")
	activityHandlers(apiv1, availability)
	cartHandlers(apiv1, carts)
	bookingHandlers(apiv1, bookings)
	vendorHandlers(apiv1, bookings)

	return router
}

func main() {
	if err := godotenv.Load(".env.local"); err != nil {
		log.Println("no .env.local file, relying on the environment")
	}

	conn := db.GetDb()
	if err := autoMigrate(conn); err != nil {
		log.Fatalf("migration failed: %s", err)
	}

	router := setupRouter()

	settings := config.GetSettings()
	scheduler, err := lib.StartScheduler(common.NewCartService(db.GetDb(), settings))
	if err != nil {
		log.Fatalf("scheduler failed to start: %s", err)
	}
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			log.Printf("scheduler shutdown: %s\n", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server exited: %s", err)
	}
}
