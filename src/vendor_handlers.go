package main

import (
	"abs/src/common"
	"abs/src/middlewares"
	"abs/src/models"
	"abs/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

func vendorID(ctx *gin.Context) uint {
	return ctx.GetUint("vendor")
}

func vendorHandlers(g *gin.RouterGroup, bookings *common.BookingService) {
	vendorGroup := g.Group("/vendor", middlewares.AuthMiddleware(), middlewares.RequireRole(types.ROLE_VENDOR))
	{
		vendorGroup.GET("/bookings", func(ctx *gin.Context) {
			filters, err := listFilters(ctx)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			list, total, err := bookings.ListForVendor(vendorID(ctx), filters)
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookingResponses(list), "total": total})
		})
		vendorGroup.PATCH("/bookings/:id/approve", func(ctx *gin.Context) {
			transition(ctx, func(id uint) (*models.Booking, error) {
				return bookings.Approve(id, vendorID(ctx))
			})
		})
		vendorGroup.PATCH("/bookings/:id/reject", func(ctx *gin.Context) {
			var body types.RejectBookingRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			transition(ctx, func(id uint) (*models.Booking, error) {
				return bookings.Reject(id, vendorID(ctx), body.Reason)
			})
		})
		vendorGroup.POST("/bookings/:id/cancel", func(ctx *gin.Context) {
			var body types.CancelBookingRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			transition(ctx, func(id uint) (*models.Booking, error) {
				return bookings.CancelByVendor(id, vendorID(ctx), body.Reason)
			})
		})
		vendorGroup.PUT("/bookings/:id/checkin", func(ctx *gin.Context) {
			transition(ctx, func(id uint) (*models.Booking, error) {
				return bookings.Checkin(id, vendorID(ctx))
			})
		})
	}
}

// transition binds the :id param, runs one state change and writes the
// uniform response shape.
func transition(ctx *gin.Context, apply func(id uint) (*models.Booking, error)) {
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	booking, err := apply(params.ID)
	if err != nil {
		ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": booking.APIResponse()})
}
