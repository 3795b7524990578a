package shops

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cartboost/cartboost-backend/pkg/db/models"
	pkgerrors "github.com/cartboost/cartboost-backend/pkg/errors"
)

// ShippingBarSettings is the storefront-facing free-shipping configuration.
type ShippingBarSettings struct {
	Enabled   bool            `json:"enabled"`
	Threshold decimal.Decimal `json:"threshold"`
	Currency  string          `json:"currency"`
}

// Service exposes shop lifecycle and settings operations.
type Service interface {
	InstallOrLogin(ctx context.Context, domain, accessToken string) (*models.Shop, error)
	GetByDomain(ctx context.Context, domain string) (*models.Shop, error)
	GetShippingBar(ctx context.Context, domain string) (ShippingBarSettings, error)
	UpdateShippingBar(ctx context.Context, shopID uuid.UUID, settings ShippingBarSettings) error
	Uninstall(ctx context.Context, domain string) error
}

// ServiceParams groups dependencies for the shop service.
type ServiceParams struct {
	ShopRepo *Repository
}

type service struct {
	shopRepo *Repository
}

// NewService builds a shop service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ShopRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop repo is required")
	}
	return &service{shopRepo: params.ShopRepo}, nil
}

// InstallOrLogin upserts the tenant row: first authenticated access creates
// it, later logins refresh the credential.
func (s *service) InstallOrLogin(ctx context.Context, domain, accessToken string) (*models.Shop, error) {
	domain = NormalizeDomain(domain)
	if domain == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop domain is required")
	}
	if strings.TrimSpace(accessToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "access token is required")
	}

	shop := &models.Shop{
		ID:          uuid.New(),
		Domain:      domain,
		AccessToken: accessToken,
		IsActive:    true,
		InstalledAt: time.Now().UTC(),
	}
	if err := s.shopRepo.Upsert(ctx, shop); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert shop")
	}
	return s.GetByDomain(ctx, domain)
}

// GetByDomain loads the shop or reports not-found.
func (s *service) GetByDomain(ctx context.Context, domain string) (*models.Shop, error) {
	domain = NormalizeDomain(domain)
	if domain == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop domain is required")
	}
	shop, err := s.shopRepo.FindByDomain(ctx, domain)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop")
	}
	return shop, nil
}

// GetShippingBar returns the shipping bar settings for the storefront widget.
func (s *service) GetShippingBar(ctx context.Context, domain string) (ShippingBarSettings, error) {
	shop, err := s.GetByDomain(ctx, domain)
	if err != nil {
		return ShippingBarSettings{}, err
	}
	return ShippingBarSettings{
		Enabled:   shop.ShippingBarEnabled,
		Threshold: shop.ShippingBarThreshold,
		Currency:  shop.CurrencyCode,
	}, nil
}

// UpdateShippingBar persists new shipping bar settings for the shop.
func (s *service) UpdateShippingBar(ctx context.Context, shopID uuid.UUID, settings ShippingBarSettings) error {
	if shopID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "shop id is required")
	}
	if settings.Threshold.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "threshold must not be negative")
	}
	currency := strings.ToUpper(strings.TrimSpace(settings.Currency))
	if currency == "" {
		currency = "USD"
	}
	if err := s.shopRepo.UpdateShippingBar(ctx, shopID, settings.Enabled, settings.Threshold, currency); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shipping bar")
	}
	return nil
}

// Uninstall marks the shop uninstalled without purging its data.
func (s *service) Uninstall(ctx context.Context, domain string) error {
	domain = NormalizeDomain(domain)
	if domain == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "shop domain is required")
	}
	if err := s.shopRepo.MarkUninstalled(ctx, domain); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark shop uninstalled")
	}
	return nil
}

// NormalizeDomain lowercases and trims a myshopify domain.
func NormalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}
