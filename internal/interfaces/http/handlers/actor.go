package handlers

import (
	"github.com/gin-gonic/gin"

	"learnhub/internal/application/subscription/usecases"
	"learnhub/internal/shared/authorization"
	"learnhub/internal/shared/constants"
)

// ActorFromContext reads the caller set by the auth middleware. ok is false
// when the request is unauthenticated.
func ActorFromContext(c *gin.Context) (usecases.Actor, bool) {
	userID := c.GetUint(constants.ContextKeyUserID)
	if userID == 0 {
		return usecases.Actor{}, false
	}
	return usecases.Actor{
		UserID:  userID,
		IsAdmin: authorization.CurrentUserRole(c).IsAdmin(),
	}, true
}
