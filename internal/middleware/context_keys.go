package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the authenticated user's id in the Gin
// context.
const userIDKey = contextKey("userID")

// GetUserIDFromContext retrieves the authenticated user id from the Gin
// context. It returns the id and a boolean indicating whether it was found.
func GetUserIDFromContext(c *gin.Context) (int64, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		return 0, false
	}
	userID, ok := userIDVal.(int64)
	if !ok {
		return 0, false
	}
	return userID, true
}
