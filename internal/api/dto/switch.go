package dto

import (
	ierr "github.com/guardianapis/product-switch/internal/errors"
	"github.com/guardianapis/product-switch/internal/types"
	"github.com/guardianapis/product-switch/internal/validator"
	"github.com/shopspring/decimal"
)

// SwitchRequest is the body of a switch call. Preview selects between
// quoting the switch and executing it.
type SwitchRequest struct {
	TargetProduct string           `json:"targetProduct" validate:"required"`
	Mode          types.SwitchMode `json:"mode" validate:"required"`
	NewAmount     *decimal.Decimal `json:"newAmount,omitempty"`
	CsrUserID     string           `json:"csrUserId,omitempty"`
	CaseID        string           `json:"caseId,omitempty"`
	Preview       bool             `json:"preview"`
}

func (r *SwitchRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.TargetProductKey().Validate(); err != nil {
		return err
	}
	if err := r.Mode.Validate(); err != nil {
		return err
	}
	if r.Mode == types.SwitchModePriceOverride && r.NewAmount == nil {
		return ierr.NewError("newAmount is required for a price override").
			WithHint("Provide the new amount when overriding the price").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *SwitchRequest) TargetProductKey() types.ProductKey {
	return types.ProductKey(r.TargetProduct)
}

// PreviewResponse is the normalized quote for a previewed switch.
type PreviewResponse struct {
	AmountPayableToday   decimal.Decimal   `json:"amountPayableToday"`
	ProratedRefundAmount decimal.Decimal   `json:"proratedRefundAmount"`
	TargetCatalogPrice   decimal.Decimal   `json:"targetCatalogPrice"`
	NextPaymentDate      types.Date        `json:"nextPaymentDate"`
	Discount             *DiscountResponse `json:"discount,omitempty"`
}

type DiscountResponse struct {
	DiscountedPrice    decimal.Decimal       `json:"discountedPrice"`
	UpToPeriods        int                   `json:"upToPeriods"`
	UpToPeriodsType    types.UpToPeriodsType `json:"upToPeriodsType"`
	DiscountPercentage decimal.Decimal       `json:"discountPercentage"`
}

// SwitchResponse acknowledges an executed switch.
type SwitchResponse struct {
	Message string `json:"message"`
}
