package utils

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"learnhub/internal/shared/constants"
	"learnhub/internal/shared/errors"
	"learnhub/internal/shared/id"
)

type Pagination struct {
	Page     int
	PageSize int
}

// NormalizePagination clamps page to >= 1 and pageSize to 1..MaxPageSize,
// substituting defaults for non-positive values.
func NormalizePagination(page, pageSize int) Pagination {
	if page < 1 {
		page = constants.DefaultPage
	}
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}
	return Pagination{Page: page, PageSize: pageSize}
}

func ParsePagination(c *gin.Context) Pagination {
	return NormalizePagination(queryInt(c, "page"), queryInt(c, "page_size"))
}

func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

// ParseUintParam parses a positive numeric path parameter.
func ParseUintParam(c *gin.Context, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, errors.NewValidationError(fmt.Sprintf("invalid %s", name))
	}
	return uint(n), nil
}

// ParseSIDParam validates a prefixed public ID from the path.
func ParseSIDParam(c *gin.Context, name, prefix string) (string, error) {
	sid := c.Param(name)
	if err := id.ValidatePrefix(sid, prefix); err != nil {
		return "", errors.NewValidationError(fmt.Sprintf("invalid %s, expected %s_xxxxx", name, prefix))
	}
	return sid, nil
}
