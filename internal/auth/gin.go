package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const RestaurantHeader = "X-Restaurant-ID"

// GinMiddleware aborts with 401 when no tenant can be resolved.
func (v *Verifier) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, err := v.Resolve(c.GetHeader("Authorization"), c.GetHeader(RestaurantHeader))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Request = c.Request.WithContext(WithRestaurantID(c.Request.Context(), restaurantID))
		c.Next()
	}
}
