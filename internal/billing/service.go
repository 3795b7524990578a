package billing

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cartboost/cartboost-backend/internal/plans"
	"github.com/cartboost/cartboost-backend/internal/shops"
	"github.com/cartboost/cartboost-backend/pkg/config"
	"github.com/cartboost/cartboost-backend/pkg/db/models"
	"github.com/cartboost/cartboost-backend/pkg/enums"
	pkgerrors "github.com/cartboost/cartboost-backend/pkg/errors"
	"github.com/cartboost/cartboost-backend/pkg/logger"
	"github.com/cartboost/cartboost-backend/pkg/shopify"
)

// Service manages the shop's recurring subscription with the platform's
// billing API. The persisted tier on the shop row is a display cache that
// this service keeps in sync; gating always re-derives from live charges.
type Service interface {
	Upgrade(ctx context.Context, shop *models.Shop) (UpgradeResult, error)
	Confirm(ctx context.Context, shop *models.Shop, chargeID uint64) error
	Cancel(ctx context.Context, shop *models.Shop) error
	GetStatus(ctx context.Context, shop *models.Shop) (Status, error)
}

// ServiceParams groups dependencies for the billing service.
type ServiceParams struct {
	BillingAPI shopify.BillingAPI
	ShopRepo   *shops.Repository
	Plans      *plans.Deriver
	Config     config.BillingConfig
	BaseURL    string
	Logger     *logger.Logger
}

type service struct {
	billingAPI shopify.BillingAPI
	shopRepo   *shops.Repository
	plans      *plans.Deriver
	cfg        config.BillingConfig
	baseURL    string
	log        *logger.Logger
}

// NewService builds a billing service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.BillingAPI == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "billing api is required")
	}
	if params.ShopRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop repo is required")
	}
	if params.Plans == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan deriver is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		billingAPI: params.BillingAPI,
		shopRepo:   params.ShopRepo,
		plans:      params.Plans,
		cfg:        params.Config,
		baseURL:    strings.TrimRight(params.BaseURL, "/"),
		log:        params.Logger,
	}, nil
}

// Upgrade creates a pending recurring charge and returns the confirmation URL
// the merchant must visit to approve it. Rejects when the shop already holds
// an active paid charge.
func (s *service) Upgrade(ctx context.Context, shop *models.Shop) (UpgradeResult, error) {
	if shop == nil {
		return UpgradeResult{}, pkgerrors.New(pkgerrors.CodeValidation, "shop is required")
	}

	tier, err := s.plans.DeriveTier(ctx, shop)
	if err != nil {
		return UpgradeResult{}, err
	}
	if tier.IsPaid() {
		return UpgradeResult{}, pkgerrors.New(pkgerrors.CodeConflict, "shop already has an active subscription")
	}

	price, err := decimal.NewFromString(s.cfg.PricePro)
	if err != nil {
		return UpgradeResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse configured plan price")
	}

	charge, err := s.billingAPI.CreateRecurringCharge(ctx, shop.Domain, shop.AccessToken, shopify.RecurringChargeParams{
		Name:      s.cfg.ChargeName,
		Price:     price,
		ReturnURL: s.baseURL + s.cfg.ReturnPath,
		Test:      s.cfg.Test,
	})
	if err != nil {
		return UpgradeResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create recurring charge")
	}

	s.log.Info(s.log.WithShopDomain(ctx, shop.Domain), "recurring charge created, awaiting merchant approval")
	return UpgradeResult{ConfirmationURL: charge.ConfirmationURL, ChargeID: charge.ID}, nil
}

// Confirm is called after the merchant approves the charge. It verifies the
// charge went active on the platform side before promoting the shop's plan.
func (s *service) Confirm(ctx context.Context, shop *models.Shop, chargeID uint64) error {
	if shop == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "shop is required")
	}
	if chargeID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "charge id is required")
	}

	charge, err := s.findCharge(ctx, shop, chargeID)
	if err != nil {
		return err
	}
	if charge.Status != shopify.ChargeStatusActive {
		return pkgerrors.New(pkgerrors.CodeConflict, "charge is not active")
	}

	if err := s.shopRepo.UpdatePlan(ctx, shop.ID, enums.PlanTierPro, enums.BillingStatusActive); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shop plan")
	}
	s.log.Info(s.log.WithShopDomain(ctx, shop.Domain), "subscription activated")
	return nil
}

// Cancel revokes the shop's active charge and drops the plan back to free.
// A shop with no active charge only has its cached tier corrected.
func (s *service) Cancel(ctx context.Context, shop *models.Shop) error {
	if shop == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "shop is required")
	}

	charges, err := s.billingAPI.ListRecurringCharges(ctx, shop.Domain, shop.AccessToken)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recurring charges")
	}
	for _, charge := range charges {
		if charge.Status != shopify.ChargeStatusActive {
			continue
		}
		if err := s.billingAPI.CancelRecurringCharge(ctx, shop.Domain, shop.AccessToken, charge.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel recurring charge")
		}
	}

	if err := s.shopRepo.UpdatePlan(ctx, shop.ID, enums.PlanTierFree, enums.BillingStatusCancelled); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shop plan")
	}
	s.log.Info(s.log.WithShopDomain(ctx, shop.Domain), "subscription cancelled")
	return nil
}

// GetStatus reports the live tier plus plan display data for the admin.
func (s *service) GetStatus(ctx context.Context, shop *models.Shop) (Status, error) {
	if shop == nil {
		return Status{}, pkgerrors.New(pkgerrors.CodeValidation, "shop is required")
	}

	tier, err := s.plans.DeriveTier(ctx, shop)
	if err != nil {
		return Status{}, err
	}

	status := shop.BillingStatus
	if tier.IsPaid() && status != enums.BillingStatusActive {
		status = enums.BillingStatusActive
	}

	return Status{
		Tier:          tier,
		TierName:      tier.DisplayName(),
		BillingStatus: status,
		ChargeName:    s.cfg.ChargeName,
		Price:         s.cfg.PricePro,
		MaxRules:      plans.LimitsFor(tier).MaxRules,
	}, nil
}

func (s *service) findCharge(ctx context.Context, shop *models.Shop, chargeID uint64) (shopify.RecurringCharge, error) {
	charges, err := s.billingAPI.ListRecurringCharges(ctx, shop.Domain, shop.AccessToken)
	if err != nil {
		return shopify.RecurringCharge{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recurring charges")
	}
	for _, charge := range charges {
		if charge.ID == chargeID {
			return charge, nil
		}
	}
	return shopify.RecurringCharge{}, pkgerrors.New(pkgerrors.CodeNotFound, "charge not found")
}
