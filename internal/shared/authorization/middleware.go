package authorization

import (
	"github.com/gin-gonic/gin"

	"learnhub/internal/shared/constants"
	"learnhub/internal/shared/errors"
	"learnhub/internal/shared/utils"
)

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ParseUserRole(c.GetString(constants.ContextKeyUserRole)).IsAdmin() {
			utils.ErrorResponseWithError(c, errors.NewForbiddenError("admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUserRole reads the role set by the auth middleware.
func CurrentUserRole(c *gin.Context) UserRole {
	return ParseUserRole(c.GetString(constants.ContextKeyUserRole))
}
