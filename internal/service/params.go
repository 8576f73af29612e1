package service

import (
	"github.com/guardianapis/product-switch/internal/billing"
	"github.com/guardianapis/product-switch/internal/config"
	"github.com/guardianapis/product-switch/internal/domain/productswitch"
	"github.com/guardianapis/product-switch/internal/logger"
	"github.com/guardianapis/product-switch/internal/notification"
	"github.com/guardianapis/product-switch/internal/types"
)

// ServiceParams bundles the shared dependencies injected into services.
type ServiceParams struct {
	Logger    *logger.Logger
	Config    *config.Configuration
	Billing   billing.Client
	Catalog   CatalogService
	Publisher notification.Publisher
	Registry  *productswitch.Registry
}

func NewServiceParams(
	log *logger.Logger,
	cfg *config.Configuration,
	billingClient billing.Client,
	catalogService CatalogService,
	publisher notification.Publisher,
	registry *productswitch.Registry,
) ServiceParams {
	return ServiceParams{
		Logger:    log,
		Config:    cfg,
		Billing:   billingClient,
		Catalog:   catalogService,
		Publisher: publisher,
		Registry:  registry,
	}
}

// NewRegistry builds the switch registry from the configured discount
// identity.
func NewRegistry(cfg *config.Configuration) *productswitch.Registry {
	return productswitch.NewRegistry(SaveDiscountFromConfig(cfg))
}

// SaveDiscountFromConfig converts the per-stage discount config record
// into the domain discount.
func SaveDiscountFromConfig(cfg *config.Configuration) productswitch.Discount {
	return productswitch.Discount{
		ProductRatePlanID:       cfg.SaveDiscount.ProductRatePlanID,
		ProductRatePlanChargeID: cfg.SaveDiscount.ProductRatePlanChargeID,
		Percentage:              cfg.SaveDiscount.Percentage,
		UpToPeriods:             cfg.SaveDiscount.UpToPeriods,
		UpToPeriodsType:         types.UpToPeriodsType(cfg.SaveDiscount.UpToPeriodsType),
	}
}
