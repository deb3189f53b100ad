package v1

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/eventhive/ticketing-api/internal/api/handler/v1/response"
	"github.com/eventhive/ticketing-api/internal/api/middleware"
)

func getUserIDFromContext(ctx *gin.Context) (uint, *response.Err) {
	value, exists := ctx.Get(middleware.ContextKeyUserID)
	if !exists {
		return 0, response.ErrUnauthorized("user not authenticated")
	}

	userID, ok := value.(uint)
	if !ok || userID == 0 {
		return 0, response.ErrInternalServerError(errors.New("malformed user id in context"))
	}

	return userID, nil
}

func getUserEmailFromContext(ctx *gin.Context) string {
	value, exists := ctx.Get(middleware.ContextKeyUserEmail)
	if !exists {
		return ""
	}

	email, _ := value.(string)

	return email
}
