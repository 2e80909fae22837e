package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/styleswipe-backend/internal/http/response"
)

// bindJSON decodes the body into dst and answers 400 when it is not valid
// JSON. An empty body decodes as the zero value.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return false
	}
	return true
}

// parseID reads a uuid from a request field and answers 422 when it is
// missing or malformed.
func parseID(c *gin.Context, raw, code, field string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusUnprocessableEntity, code, errors.New(field+" must be a valid id"))
		return uuid.Nil, false
	}
	return id, true
}
