package middleware

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	ierr "github.com/guardianapis/product-switch/internal/errors"
	"github.com/guardianapis/product-switch/internal/logger"
)

// ErrorHandler converts errors attached to the gin context into the
// standard response envelope. Validation errors surface their hint to the
// client; internal errors carry no hint and fall back to a generic message
// while the full error is logged.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := ierr.HTTPStatusFromErr(err)

		if status >= 500 {
			log.Errorw("request failed",
				"path", c.Request.URL.Path,
				"status", status,
				"error", err,
			)
		} else {
			log.Warnw("request rejected",
				"path", c.Request.URL.Path,
				"status", status,
				"error", err,
			)
		}

		response := ierr.ErrorResponse{
			Success: false,
			Error: ierr.ErrorDetail{
				Display: displayMessage(err),
				Details: safeDetails(err),
			},
		}

		c.JSON(status, response)
	}
}

func displayMessage(err error) string {
	if hints := errors.GetAllHints(err); len(hints) > 0 {
		// GetAllHints is post-order traversal; first non-empty wins.
		for _, hint := range hints {
			if hint = strings.TrimSpace(hint); hint != "" {
				return hint
			}
		}
	}
	return "An unexpected error occurred"
}

func safeDetails(err error) map[string]any {
	for _, detail := range errors.GetAllSafeDetails(err) {
		for _, payload := range detail.SafeDetails {
			marker := "__json__:"
			if !strings.HasPrefix(payload, marker) {
				continue
			}
			var details map[string]any
			if jsonErr := json.Unmarshal([]byte(strings.TrimPrefix(payload, marker)), &details); jsonErr == nil {
				return details
			}
		}
	}
	return nil
}
