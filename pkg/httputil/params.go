package httputil

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dental-api/pkg/errors"
)

// ParamID parses the positive integer path parameter name.
func ParamID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Validation("invalid request", name+" must be a positive integer")
	}
	return id, nil
}

// BindJSON decodes the request body into obj. Field level rules are checked by the
// services, so only malformed JSON fails here.
func BindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return errors.Validation("invalid request body", err.Error())
	}
	return nil
}
