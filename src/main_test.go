package main

import (
	"abs/src/db"
	"abs/src/models"
	"abs/src/types"
	"abs/src/utils"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type APITestSuite struct {
	suite.Suite
	router *gin.Engine

	vendorToken string
	userToken   string
	activity    models.Activity
}

func (s *APITestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "api-test-secret")
	os.Setenv("CORS_ORIGIN", "http://localhost:3000")

	conn, err := gorm.Open(sqlite.Open("file:apitest?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)
	sqlDB, err := conn.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	db.NewDB(conn)
	s.Require().NoError(autoMigrate(conn))

	s.router = setupRouter()
	s.seed(conn)
}

func (s *APITestSuite) seed(conn *gorm.DB) {
	vendor := models.Vendor{BusinessName: "Wild Atlantic Tours"}
	s.Require().NoError(conn.Create(&vendor).Error)

	vendorUser := models.User{
		Name:     "Vendor Vera",
		Email:    "vera@example.com",
		Role:     types.ROLE_VENDOR,
		VendorID: &vendor.ID,
	}
	s.Require().NoError(conn.Create(&vendorUser).Error)
	customer := models.User{Name: "Customer Cal", Email: "cal@example.com"}
	s.Require().NoError(conn.Create(&customer).Error)

	token, err := utils.GenerateJWT(vendorUser.Email, vendorUser.Role, vendor.ID)
	s.Require().NoError(err)
	s.vendorToken = token
	token, err = utils.GenerateJWT(customer.Email, customer.Role, 0)
	s.Require().NoError(err)
	s.userToken = token

	priceChild := decimal.RequireFromString("25.00")
	s.activity = models.Activity{
		VendorID:              vendor.ID,
		Title:                 "Sea Cave Kayaking",
		PriceAdult:            decimal.RequireFromString("50.00"),
		PriceChild:            &priceChild,
		PriceCurrency:         "EUR",
		MaxGroupSize:          12,
		InstantConfirmation:   false,
		FreeCancellationHours: 24,
		IsActive:              true,
	}
	// GORM substitutes the `default:true` tag value for the zero-valued
	// InstantConfirmation on struct-based Create, so re-assert it afterwards.
	s.Require().NoError(conn.Create(&s.activity).Error)
	s.Require().NoError(conn.Model(&s.activity).
		UpdateColumns(map[string]interface{}{"instant_confirmation": false}).Error)
	s.activity.InstantConfirmation = false
}

func (s *APITestSuite) request(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APITestSuite) bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func (s *APITestSuite) TestHealthz() {
	w := s.request(http.MethodGet, "/healthz", nil, nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *APITestSuite) TestActivityEndpoints() {
	w := s.request(http.MethodGet, "/api/v1/activities/", nil, nil)
	s.Equal(http.StatusOK, w.Code)
	s.GreaterOrEqual(len(gjson.Get(w.Body.String(), "data").Array()), 1)

	slug := gjson.Get(w.Body.String(), "data.0.slug").String()
	s.Equal("sea-cave-kayaking", slug)

	w = s.request(http.MethodGet, "/api/v1/activities/"+slug, nil, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("Sea Cave Kayaking", gjson.Get(w.Body.String(), "data.title").String())

	w = s.request(http.MethodGet, "/api/v1/activities/no-such-tour", nil, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APITestSuite) TestAvailabilityEndpoint() {
	start := types.Today().AddDays(1)
	path := fmt.Sprintf("/api/v1/activities/sea-cave-kayaking/availability?start_date=%s&end_date=%s", start, start.AddDays(2))
	w := s.request(http.MethodGet, path, nil, nil)
	s.Equal(http.StatusOK, w.Code)
	entries := gjson.Get(w.Body.String(), "data").Array()
	s.Len(entries, 3)
	s.EqualValues(12, entries[0].Get("spots_total").Int())

	w = s.request(http.MethodGet, "/api/v1/activities/sea-cave-kayaking/availability?start_date=bogus&end_date=bogus", nil, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APITestSuite) TestCartFlow() {
	body := gin.H{
		"activity_id":  s.activity.ID,
		"booking_date": types.Today().AddDays(5).String(),
		"adults":       2,
		"children":     1,
	}
	w := s.request(http.MethodPost, "/api/v1/cart/add", body, nil)
	s.Equal(http.StatusCreated, w.Code)
	session := w.Header().Get("X-Session-ID")
	s.NotEmpty(session)

	// Same slot again replaces instead of duplicating.
	w = s.request(http.MethodPost, "/api/v1/cart/add", body, map[string]string{"X-Session-ID": session})
	s.Equal(http.StatusCreated, w.Code)
	s.Equal(session, w.Header().Get("X-Session-ID"))

	w = s.request(http.MethodGet, "/api/v1/cart/", nil, map[string]string{"X-Session-ID": session})
	s.Equal(http.StatusOK, w.Code)
	s.Len(gjson.Get(w.Body.String(), "data").Array(), 1)

	w = s.request(http.MethodGet, "/api/v1/cart/total", nil, map[string]string{"X-Session-ID": session})
	s.Equal(http.StatusOK, w.Code)
	s.Equal(int64(1), gjson.Get(w.Body.String(), "data.item_count").Int())
	s.Equal("125", gjson.Get(w.Body.String(), "data.total").String())

	itemID := s.cartItemID(session)
	w = s.request(http.MethodDelete, fmt.Sprintf("/api/v1/cart/%d", itemID), nil, map[string]string{"X-Session-ID": session})
	s.Equal(http.StatusNoContent, w.Code)
}

func (s *APITestSuite) cartItemID(session string) int64 {
	w := s.request(http.MethodGet, "/api/v1/cart/", nil, map[string]string{"X-Session-ID": session})
	s.Require().Equal(http.StatusOK, w.Code)
	return gjson.Get(w.Body.String(), "data.0.id").Int()
}

func (s *APITestSuite) TestGuestBookingLifecycle() {
	body := gin.H{
		"activity_id":    s.activity.ID,
		"booking_date":   types.Today().AddDays(5).String(),
		"adults":         2,
		"customer_name":  "Guest Gwen",
		"customer_email": "gwen@example.com",
	}
	w := s.request(http.MethodPost, "/api/v1/bookings/", body, nil)
	s.Require().Equal(http.StatusCreated, w.Code)

	ref := gjson.Get(w.Body.String(), "data.booking_ref").String()
	s.Len(ref, 10)
	s.Equal("100.00", gjson.Get(w.Body.String(), "data.total_price").String())
	s.Equal("pending_vendor_approval", gjson.Get(w.Body.String(), "data.status").String())

	// Guests retrieve by ref without a token.
	w = s.request(http.MethodGet, "/api/v1/bookings/"+ref, nil, nil)
	s.Equal(http.StatusOK, w.Code)

	id := gjson.Get(w.Body.String(), "data.id").Int()
	w = s.request(http.MethodPatch, fmt.Sprintf("/api/v1/vendor/bookings/%d/approve", id), nil, s.bearer(s.vendorToken))
	s.Equal(http.StatusOK, w.Code)
	s.Equal("confirmed", gjson.Get(w.Body.String(), "data.status").String())

	// Already approved, a reject must conflict.
	w = s.request(http.MethodPatch, fmt.Sprintf("/api/v1/vendor/bookings/%d/reject", id), gin.H{"reason": "full"}, s.bearer(s.vendorToken))
	s.Equal(http.StatusConflict, w.Code)
}

func (s *APITestSuite) TestBookingValidation() {
	w := s.request(http.MethodPost, "/api/v1/bookings/", gin.H{
		"activity_id":  s.activity.ID,
		"booking_date": "2020-01-01",
		"adults":       1,
	}, nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.request(http.MethodPost, "/api/v1/bookings/", gin.H{
		"activity_id":  s.activity.ID,
		"booking_date": types.Today().AddDays(5).String(),
		"adults":       1,
		"booking_time": "25:99",
	}, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APITestSuite) TestAuthBoundaries() {
	w := s.request(http.MethodGet, "/api/v1/bookings/my", nil, nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.request(http.MethodGet, "/api/v1/bookings/my", nil, s.bearer(s.userToken))
	s.Equal(http.StatusOK, w.Code)

	// Customers cannot reach the vendor surface.
	w = s.request(http.MethodGet, "/api/v1/vendor/bookings", nil, s.bearer(s.userToken))
	s.Equal(http.StatusForbidden, w.Code)

	w = s.request(http.MethodGet, "/api/v1/vendor/bookings", nil, s.bearer(s.vendorToken))
	s.Equal(http.StatusOK, w.Code)
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
