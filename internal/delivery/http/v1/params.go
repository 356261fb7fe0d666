package v1

import (
	"strconv"

	"agroskills-platform/internal/domain"
	"agroskills-platform/pkg/apperror"

	"github.com/gin-gonic/gin"
)

func currentUser(c *gin.Context) (id, role string) {
	return c.GetString(string(domain.KeyUserID)), c.GetString(string(domain.KeyUserRole))
}

// pathID parses a positive numeric path parameter. On failure it records a
// 400 on the context and returns false.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.Error(apperror.BadRequest("Invalid " + name))
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	if v, err := strconv.Atoi(c.Query(name)); err == nil {
		return v
	}
	return fallback
}

// bindJSON decodes the body and records a 400 when it is malformed.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return false
	}
	return true
}
