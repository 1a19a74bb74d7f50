package middlewares

import (
	"abs/src/db"
	"abs/src/models"
	"abs/src/utils"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func bearerToken(ctx *gin.Context) (string, bool) {
	header := ctx.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

func loadUser(ctx *gin.Context, token string) (*models.User, bool) {
	claims, err := utils.ParseJWT(token)
	if err != nil {
		return nil, false
	}
	conn := db.GetDb()
	var user models.User
	if err := conn.Where(&models.User{Email: claims.Email}).First(&user).Error; err != nil {
		return nil, false
	}
	ctx.Set("id", user.ID)
	ctx.Set("email", user.Email)
	ctx.Set("role", user.Role)
	ctx.Set("user", &user)
	if user.VendorID != nil {
		ctx.Set("vendor", *user.VendorID)
	}
	return &user, true
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, ok := bearerToken(ctx)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			return
		}
		if _, ok := loadUser(ctx, token); !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization token"})
			return
		}
		ctx.Next()
	}
}

// OptionalAuthMiddleware attaches the user when a valid token is present but
// lets anonymous requests through. Booking creation and lookup accept guests.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token, ok := bearerToken(ctx); ok {
			loadUser(ctx, token)
		}
		ctx.Next()
	}
}

func RequireRole(role string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.GetString("role") != role {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		ctx.Next()
	}
}

// CurrentUser returns the user attached by the auth middlewares, nil for
// anonymous requests.
func CurrentUser(ctx *gin.Context) *models.User {
	if v, ok := ctx.Get("user"); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
