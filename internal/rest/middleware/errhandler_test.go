package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	ierr "github.com/guardianapis/product-switch/internal/errors"
	"github.com/guardianapis/product-switch/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveWithError(t *testing.T, err error) (*httptest.ResponseRecorder, ierr.ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(ErrorHandler(logger.NewNopLogger()))
	r.GET("/fail", func(c *gin.Context) {
		c.Error(err)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	var body ierr.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestErrorHandlerValidationShowsHint(t *testing.T) {
	w, body := serveWithError(t, ierr.NewError("amount 10 below catalog price 120").
		WithHint("The new amount must be at least 120 GBP").
		Mark(ierr.ErrValidation))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "The new amount must be at least 120 GBP", body.Error.Display)
}

func TestErrorHandlerSystemHidesInternals(t *testing.T) {
	w, body := serveWithError(t, ierr.NewError("catalog and subscription diverged").
		Mark(ierr.ErrSystem))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "An unexpected error occurred", body.Error.Display)
	assert.NotContains(t, w.Body.String(), "diverged")
}

func TestErrorHandlerExposesReportableDetails(t *testing.T) {
	w, body := serveWithError(t, ierr.NewError("ambiguous current product").
		WithHint("The subscription contains more than one current product").
		WithReportableDetails(map[string]any{"count": 2}).
		Mark(ierr.ErrValidation))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, body.Error.Details)
	assert.EqualValues(t, 2, body.Error.Details["count"])
}

func TestErrorHandlerMapsNotFound(t *testing.T) {
	w, _ := serveWithError(t, ierr.NewError("subscription A-X not found").
		WithHint("Subscription not found").
		Mark(ierr.ErrNotFound))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
