package main

import (
	"abs/src/common"
	"abs/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionHeader = "X-Session-ID"

// sessionID returns the caller's cart session, minting one for first-time
// callers. The id is always echoed back so the client can persist it.
func sessionID(ctx *gin.Context) string {
	sid := ctx.GetHeader(sessionHeader)
	if sid == "" {
		sid = uuid.NewString()
	}
	ctx.Header(sessionHeader, sid)
	return sid
}

func cartHandlers(g *gin.RouterGroup, carts *common.CartService) {
	cartGroup := g.Group("/cart")
	{
		cartGroup.GET("/", func(ctx *gin.Context) {
			items, err := carts.Items(sessionID(ctx))
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": items})
		})
		cartGroup.POST("/add", func(ctx *gin.Context) {
			var body types.AddToCartRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			item, err := carts.AddOrUpdate(sessionID(ctx), body)
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": item})
		})
		cartGroup.PUT("/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.AddToCartRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			item, err := carts.UpdateItem(sessionID(ctx), params.ID, body)
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": item})
		})
		cartGroup.DELETE("/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := carts.Remove(sessionID(ctx), params.ID); err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
		cartGroup.DELETE("/", func(ctx *gin.Context) {
			if err := carts.Clear(sessionID(ctx)); err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
		cartGroup.GET("/total", func(ctx *gin.Context) {
			totals, err := carts.Totals(sessionID(ctx))
			if err != nil {
				ctx.JSON(common.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": totals})
		})
	}
}
