package main

import (
	"abs/src/common"
	"abs/src/middlewares"
	"abs/src/models"
	"abs/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

func bookingResponses(bookings []models.Booking) []types.APIResponseBooking {
	out := make([]types.APIResponseBooking, 0, len(bookings))
	for i := range bookings {
		out = append(out, bookings[i].APIResponse())
	}
	return out
}

func listFilters(ctx *gin.Context) (common.BookingListFilters, error) {
	var filters common.BookingListFilters
	var page types.PageQuery
	if err := ctx.ShouldBindQuery(&page); err != nil {
		return filters, err
	}
	filters.Page = page
	if v := ctx.Query("status"); v != "" {
		status := types.BookingStatus(v)
		filters.Status = &status
	}
	if v := ctx.Query("date"); v != "" {
		date, err := types.ParseDate(v)
		if err != nil {
			return filters, err
		}
		filters.BookingDate = &date
	}
	switch ctx.Query("when") {
	case "upcoming":
		filters.UpcomingOnly = true
	case "past":
		filters.PastOnly = true
	}
	return filters, nil
}

func bookingHandlers(g *gin.RouterGroup, bookings *common.BookingService) {
	bookingGroup := g.Group("/bookings")
	{
		bookingGroup.POST("/", middlewares.OptionalAuthMiddleware(), func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			booking, err := bookings.Create(body, middlewares.CurrentUser(ctx))
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": booking.APIResponse()})
		})
		bookingGroup.GET("/my", middlewares.AuthMiddleware(), func(ctx *gin.Context) {
			filters, err := listFilters(ctx)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			list, total, err := bookings.ListForUser(ctx.GetUint("id"), filters)
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookingResponses(list), "total": total})
		})
		bookingGroup.GET("/:ref", middlewares.OptionalAuthMiddleware(), func(ctx *gin.Context) {
			var params types.BookingRefParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			booking, err := bookings.GetByRef(params.Ref, middlewares.CurrentUser(ctx))
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking.APIResponse()})
		})
		bookingGroup.PUT("/:ref/cancel", middlewares.AuthMiddleware(), func(ctx *gin.Context) {
			var params types.BookingRefParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			booking, err := bookings.CancelByCustomer(params.Ref, ctx.GetUint("id"))
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking.APIResponse()})
		})
	}
}
