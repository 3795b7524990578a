package rules

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cartboost/cartboost-backend/internal/matcher"
	"github.com/cartboost/cartboost-backend/internal/plans"
	"github.com/cartboost/cartboost-backend/pkg/db/models"
	"github.com/cartboost/cartboost-backend/pkg/enums"
	pkgerrors "github.com/cartboost/cartboost-backend/pkg/errors"
	"github.com/cartboost/cartboost-backend/pkg/logger"
	"github.com/cartboost/cartboost-backend/pkg/shopify"
)

// Service exposes rule management for the admin surface and the enabled rule
// set consumed by the storefront matcher.
type Service interface {
	Create(ctx context.Context, shop *models.Shop, input CreateRuleInput) (models.Rule, error)
	Get(ctx context.Context, shopID, ruleID uuid.UUID) (models.Rule, error)
	List(ctx context.Context, shopID uuid.UUID, params ListRulesParams) ([]models.Rule, error)
	Update(ctx context.Context, shop *models.Shop, ruleID uuid.UUID, input UpdateRuleInput) (models.Rule, error)
	SetEnabled(ctx context.Context, shop *models.Shop, ruleID uuid.UUID, enabled bool) (models.Rule, error)
	Delete(ctx context.Context, shopID, ruleID uuid.UUID) error
	EnabledForShop(ctx context.Context, shopID uuid.UUID) ([]models.Rule, error)
}

// ServiceParams groups dependencies for the rule service.
type ServiceParams struct {
	RuleRepo   *Repository
	ProductAPI shopify.ProductAPI
	Plans      *plans.Deriver
	Logger     *logger.Logger
}

type service struct {
	ruleRepo   *Repository
	productAPI shopify.ProductAPI
	plans      *plans.Deriver
	log        *logger.Logger
}

// NewService builds a rule service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.RuleRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rule repo is required")
	}
	if params.ProductAPI == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product api is required")
	}
	if params.Plans == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan deriver is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		ruleRepo:   params.RuleRepo,
		productAPI: params.ProductAPI,
		plans:      params.Plans,
		log:        params.Logger,
	}, nil
}

// Create validates the input, enforces the plan's active-rule ceiling, captures
// a display snapshot of the upsell product, and persists the rule enabled.
func (s *service) Create(ctx context.Context, shop *models.Shop, input CreateRuleInput) (models.Rule, error) {
	if shop == nil {
		return models.Rule{}, pkgerrors.New(pkgerrors.CodeValidation, "shop is required")
	}

	rule := models.Rule{
		ID:              uuid.New(),
		ShopID:          shop.ID,
		Name:            strings.TrimSpace(input.Name),
		IsEnabled:       true,
		TriggerType:     input.TriggerType,
		UpsellProductID: matcher.NormalizeProductID(input.UpsellProductID),
		UpsellVariantID: strings.TrimSpace(input.UpsellVariantID),
		Priority:        input.Priority,
	}
	applyTrigger(&rule, input.TriggerType, input.TriggerProductID, input.TriggerCollectionID)

	if err := validateRule(&rule); err != nil {
		return models.Rule{}, err
	}
	if err := s.checkRuleQuota(ctx, shop); err != nil {
		return models.Rule{}, err
	}

	s.refreshSnapshot(ctx, shop, &rule)

	if err := s.ruleRepo.Create(ctx, &rule); err != nil {
		return models.Rule{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create rule")
	}
	return rule, nil
}

// Get loads one rule, treating another tenant's rule as missing.
func (s *service) Get(ctx context.Context, shopID, ruleID uuid.UUID) (models.Rule, error) {
	rule, err := s.ruleRepo.FindByID(ctx, shopID, ruleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Rule{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "rule not found")
		}
		return models.Rule{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rule")
	}
	return rule, nil
}

// List returns the shop's rules filtered for the admin screen.
func (s *service) List(ctx context.Context, shopID uuid.UUID, params ListRulesParams) ([]models.Rule, error) {
	rules, err := s.ruleRepo.List(ctx, shopID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rules")
	}
	return rules, nil
}

// Update applies the provided edits. The upsell snapshot is refreshed only
// when the upsell product actually changed; other edits keep the captured
// display data as-is.
func (s *service) Update(ctx context.Context, shop *models.Shop, ruleID uuid.UUID, input UpdateRuleInput) (models.Rule, error) {
	if shop == nil {
		return models.Rule{}, pkgerrors.New(pkgerrors.CodeValidation, "shop is required")
	}

	rule, err := s.Get(ctx, shop.ID, ruleID)
	if err != nil {
		return models.Rule{}, err
	}

	previousUpsell := rule.UpsellProductID

	if input.Name != nil {
		rule.Name = strings.TrimSpace(*input.Name)
	}
	if input.Priority != nil {
		rule.Priority = *input.Priority
	}
	if input.TriggerType != nil {
		triggerProduct := valueOrEmpty(input.TriggerProductID)
		triggerCollection := valueOrEmpty(input.TriggerCollectionID)
		applyTrigger(&rule, *input.TriggerType, triggerProduct, triggerCollection)
		rule.TriggerType = *input.TriggerType
	} else {
		if input.TriggerProductID != nil {
			normalized := matcher.NormalizeProductID(*input.TriggerProductID)
			rule.TriggerProductID = &normalized
		}
		if input.TriggerCollectionID != nil {
			trimmed := strings.TrimSpace(*input.TriggerCollectionID)
			rule.TriggerCollectionID = &trimmed
		}
	}
	if input.UpsellProductID != nil {
		rule.UpsellProductID = matcher.NormalizeProductID(*input.UpsellProductID)
	}
	if input.UpsellVariantID != nil {
		rule.UpsellVariantID = strings.TrimSpace(*input.UpsellVariantID)
	}

	if err := validateRule(&rule); err != nil {
		return models.Rule{}, err
	}

	if rule.UpsellProductID != previousUpsell {
		rule.UpsellTitle = ""
		rule.UpsellImage = nil
		rule.UpsellPrice = decimal.Zero
		rule.UpsellCompareAtPrice = nil
		s.refreshSnapshot(ctx, shop, &rule)
	}

	if err := s.ruleRepo.Update(ctx, &rule); err != nil {
		return models.Rule{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update rule")
	}
	return rule, nil
}

// SetEnabled toggles a rule. Enabling goes through the same quota gate as
// creation so a downgraded shop can't re-activate rules past its ceiling.
func (s *service) SetEnabled(ctx context.Context, shop *models.Shop, ruleID uuid.UUID, enabled bool) (models.Rule, error) {
	if shop == nil {
		return models.Rule{}, pkgerrors.New(pkgerrors.CodeValidation, "shop is required")
	}

	rule, err := s.Get(ctx, shop.ID, ruleID)
	if err != nil {
		return models.Rule{}, err
	}
	if rule.IsEnabled == enabled {
		return rule, nil
	}

	if enabled {
		if err := s.checkRuleQuota(ctx, shop); err != nil {
			return models.Rule{}, err
		}
	}

	if err := s.ruleRepo.SetEnabled(ctx, shop.ID, ruleID, enabled); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Rule{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "rule not found")
		}
		return models.Rule{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle rule")
	}
	rule.IsEnabled = enabled
	return rule, nil
}

// Delete removes a rule; its analytics rows go with it via the FK cascade.
func (s *service) Delete(ctx context.Context, shopID, ruleID uuid.UUID) error {
	if err := s.ruleRepo.Delete(ctx, shopID, ruleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "rule not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete rule")
	}
	return nil
}

// EnabledForShop returns the enabled rules in evaluation order for matching.
func (s *service) EnabledForShop(ctx context.Context, shopID uuid.UUID) ([]models.Rule, error) {
	rules, err := s.ruleRepo.ListEnabledOrdered(ctx, shopID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list enabled rules")
	}
	return rules, nil
}

// checkRuleQuota derives the live tier and rejects with a plan-limit error
// when the shop is already at its active-rule ceiling.
func (s *service) checkRuleQuota(ctx context.Context, shop *models.Shop) error {
	tier, err := s.plans.DeriveTier(ctx, shop)
	if err != nil {
		return err
	}
	count, err := s.ruleRepo.CountEnabled(ctx, shop.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count enabled rules")
	}
	decision := plans.CanCreateRule(tier, int(count))
	if !decision.Allowed {
		return pkgerrors.New(pkgerrors.CodePlanLimit, decision.Reason).
			WithDetails(map[string]any{"plan": tier.String(), "active_rules": count})
	}
	return nil
}

// refreshSnapshot captures the upsell product's display data. Lookup failures
// degrade to an empty snapshot; the storefront formatter substitutes
// placeholders, so a flaky platform API never blocks rule management.
func (s *service) refreshSnapshot(ctx context.Context, shop *models.Shop, rule *models.Rule) {
	productID, err := strconv.ParseInt(rule.UpsellProductID, 10, 64)
	if err != nil {
		s.log.Warn(s.log.WithShopDomain(ctx, shop.Domain), "upsell product id is not numeric, skipping snapshot")
		return
	}

	snapshot, err := s.productAPI.GetProduct(ctx, shop.Domain, shop.AccessToken, productID)
	if err != nil || snapshot == nil {
		s.log.Warn(s.log.WithShopDomain(ctx, shop.Domain), "upsell snapshot fetch failed")
		return
	}

	rule.UpsellTitle = snapshot.Title
	rule.UpsellImage = snapshot.Image
	rule.UpsellPrice = snapshot.Price
	rule.UpsellCompareAtPrice = snapshot.CompareAtPrice
	if rule.UpsellVariantID == "" && snapshot.VariantID != 0 {
		rule.UpsellVariantID = strconv.FormatInt(snapshot.VariantID, 10)
	}
}

// applyTrigger sets the trigger reference matching the type and clears the
// other so the row always satisfies the exclusivity constraint.
func applyTrigger(rule *models.Rule, triggerType enums.TriggerType, productID, collectionID string) {
	switch triggerType {
	case enums.TriggerTypeProduct:
		normalized := matcher.NormalizeProductID(productID)
		rule.TriggerProductID = &normalized
		rule.TriggerCollectionID = nil
	case enums.TriggerTypeCollection:
		trimmed := strings.TrimSpace(collectionID)
		rule.TriggerCollectionID = &trimmed
		rule.TriggerProductID = nil
	}
}

func validateRule(rule *models.Rule) error {
	if rule.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "rule name is required")
	}
	if !rule.TriggerType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "trigger type must be product or collection")
	}
	if rule.UpsellProductID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "upsell product is required")
	}

	switch rule.TriggerType {
	case enums.TriggerTypeProduct:
		if rule.TriggerProductID == nil || *rule.TriggerProductID == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "product trigger requires a trigger product")
		}
		if *rule.TriggerProductID == rule.UpsellProductID {
			return pkgerrors.New(pkgerrors.CodeValidation, "upsell product must differ from the trigger product")
		}
	case enums.TriggerTypeCollection:
		if rule.TriggerCollectionID == nil || *rule.TriggerCollectionID == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "collection trigger requires a trigger collection")
		}
	}
	return nil
}

func valueOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
