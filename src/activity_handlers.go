package main

import (
	"abs/src/common"
	"abs/src/db"
	"abs/src/lib"
	"abs/src/models"
	"abs/src/models/scopes"
	"abs/src/types"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type activitySlugParams struct {
	Slug string `uri:"slug" binding:"required"`
}

const availabilityCacheTTL = 60 * time.Second

func activityHandlers(g *gin.RouterGroup, availability *common.AvailabilityService) {
	activityGroup := g.Group("/activities")
	{
		activityGroup.GET("/", func(ctx *gin.Context) {
			var page types.PageQuery
			if err := ctx.ShouldBindQuery(&page); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			conn := db.GetDb()
			var activities []models.Activity
			if err := conn.
				Scopes(scopes.ActiveOnly).
				Order("total_bookings DESC").
				Offset(page.Offset()).
				Limit(page.PerPage).
				Find(&activities).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": activities})
		})
		activityGroup.GET("/:slug", func(ctx *gin.Context) {
			activity, ok := activityBySlug(ctx)
			if !ok {
				return
			}
			conn := db.GetDb()
			conn.Where("activity_id = ?", activity.ID).Order("display_order ASC").Find(&activity.PricingTiers)
			conn.Where("activity_id = ?", activity.ID).Order("start_time ASC").Find(&activity.TimeSlots)
			conn.Where("activity_id = ?", activity.ID).Find(&activity.AddOns)
			ctx.JSON(http.StatusOK, gin.H{"data": activity})
		})
		activityGroup.GET("/:slug/availability", func(ctx *gin.Context) {
			activity, ok := activityBySlug(ctx)
			if !ok {
				return
			}
			var query types.AvailabilityQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			start, err := types.ParseDate(query.StartDate)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
				return
			}
			end, err := types.ParseDate(query.EndDate)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
				return
			}

			cacheKey := fmt.Sprintf("availability:%d:%s:%s", activity.ID, start, end)
			if cached, ok := availabilityFromCache(ctx, cacheKey); ok {
				ctx.JSON(http.StatusOK, gin.H{"data": cached})
				return
			}

			entries, err := availability.GetRange(activity.ID, start, end)
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			cacheAvailability(ctx, cacheKey, entries)
			ctx.JSON(http.StatusOK, gin.H{"data": entries})
		})
	}
}

func activityBySlug(ctx *gin.Context) (*models.Activity, bool) {
	var params activitySlugParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	conn := db.GetDb()
	var activity models.Activity
	if err := conn.
		Where(&models.Activity{Slug: params.Slug}).
		Scopes(scopes.ActiveOnly).
		First(&activity).
		Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "activity not found"})
		return nil, false
	}
	return &activity, true
}

func availabilityFromCache(ctx *gin.Context, key string) ([]types.APIResponseAvailability, bool) {
	client := lib.GetRedisClient()
	if client == nil {
		return nil, false
	}
	raw, err := client.Get(ctx.Request.Context(), key).Result()
	if err != nil {
		return nil, false
	}
	var entries []types.APIResponseAvailability
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func cacheAvailability(ctx *gin.Context, key string, entries []types.APIResponseAvailability) {
	client := lib.GetRedisClient()
	if client == nil {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	client.Set(ctx.Request.Context(), key, raw, availabilityCacheTTL)
}
