package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guardianapis/product-switch/internal/api/dto"
	ierr "github.com/guardianapis/product-switch/internal/errors"
	"github.com/guardianapis/product-switch/internal/logger"
	"github.com/guardianapis/product-switch/internal/service"
)

type SwitchHandler struct {
	service service.ProductSwitchService
	log     *logger.Logger
}

func NewSwitchHandler(service service.ProductSwitchService, log *logger.Logger) *SwitchHandler {
	return &SwitchHandler{
		service: service,
		log:     log,
	}
}

// @Summary Switch a subscription's product
// @Description Preview or execute a switch of the subscription's current plan to a target product
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param subscriptionNumber path string true "Subscription number"
// @Param request body dto.SwitchRequest true "Switch request"
// @Success 200 {object} dto.PreviewResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /subscriptions/{subscriptionNumber}/switch [post]
func (h *SwitchHandler) SwitchProduct(c *gin.Context) {
	subscriptionNumber := c.Param("subscriptionNumber")
	if subscriptionNumber == "" {
		c.Error(ierr.NewError("subscription number is required").
			WithHint("Subscription number is required").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.SwitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if req.Preview {
		resp, err := h.service.Preview(c.Request.Context(), subscriptionNumber, &req)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	resp, err := h.service.Switch(c.Request.Context(), subscriptionNumber, &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
