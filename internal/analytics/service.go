package analytics

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cartboost/cartboost-backend/internal/rules"
	"github.com/cartboost/cartboost-backend/internal/shops"
	"github.com/cartboost/cartboost-backend/pkg/db/models"
	"github.com/cartboost/cartboost-backend/pkg/enums"
	pkgerrors "github.com/cartboost/cartboost-backend/pkg/errors"
	"github.com/cartboost/cartboost-backend/pkg/logger"
	"github.com/cartboost/cartboost-backend/pkg/metrics"
)

// defaultSummaryWindow bounds a summary request that names no range.
const defaultSummaryWindow = 30 * 24 * time.Hour

// Service records storefront events and produces the admin analytics report.
type Service interface {
	Track(ctx context.Context, input TrackInput) (TrackResult, error)
	Summarize(ctx context.Context, shopID uuid.UUID, params SummaryParams) (Summary, error)
	ListRecent(ctx context.Context, shopID uuid.UUID, params SummaryParams, limit int) ([]EventDTO, error)
}

// ServiceParams groups dependencies for the analytics service.
type ServiceParams struct {
	EventRepo *Repository
	RuleRepo  *rules.Repository
	ShopSvc   shops.Service
	Metrics   *metrics.StorefrontMetrics
	Logger    *logger.Logger
}

type service struct {
	eventRepo *Repository
	ruleRepo  *rules.Repository
	shopSvc   shops.Service
	metrics   *metrics.StorefrontMetrics
	log       *logger.Logger
}

// NewService builds an analytics service with the required dependencies.
// Metrics may be nil in tests.
func NewService(params ServiceParams) (Service, error) {
	if params.EventRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event repo is required")
	}
	if params.RuleRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rule repo is required")
	}
	if params.ShopSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop service is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		eventRepo: params.EventRepo,
		ruleRepo:  params.RuleRepo,
		shopSvc:   params.ShopSvc,
		metrics:   params.Metrics,
		log:       params.Logger,
	}, nil
}

// Track validates and records one event. Impressions carrying a session id
// are deduplicated per (rule, session): the first write wins, later ones
// report a duplicate instead of inserting. The check-then-insert race is
// closed by the partial unique index, whose violation is also a duplicate.
func (s *service) Track(ctx context.Context, input TrackInput) (TrackResult, error) {
	if !input.EventType.IsValid() {
		return TrackResult{}, pkgerrors.New(pkgerrors.CodeValidation, "event type must be impression or conversion")
	}
	if input.RuleID == uuid.Nil {
		return TrackResult{}, pkgerrors.New(pkgerrors.CodeValidation, "rule id is required")
	}

	shop, err := s.shopSvc.GetByDomain(ctx, input.ShopDomain)
	if err != nil {
		return TrackResult{}, err
	}
	ctx = s.log.WithShopDomain(ctx, shop.Domain)

	// A rule id from another shop (or a deleted rule) is a 404, not a write.
	if _, err := s.ruleRepo.FindByID(ctx, shop.ID, input.RuleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TrackResult{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "rule not found")
		}
		return TrackResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rule")
	}

	sessionID := strings.TrimSpace(input.SessionID)
	if input.EventType == enums.EventTypeImpression && sessionID != "" {
		seen, err := s.eventRepo.HasImpression(ctx, input.RuleID, sessionID)
		if err != nil {
			return TrackResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check impression dedup")
		}
		if seen {
			s.metrics.IncDeduped()
			return TrackResult{Tracked: false, Reason: ReasonDuplicate}, nil
		}
	}

	event := models.AnalyticsEvent{
		ID:        uuid.New(),
		ShopID:    shop.ID,
		RuleID:    input.RuleID,
		EventType: input.EventType,
	}
	if token := strings.TrimSpace(input.CartToken); token != "" {
		event.CartToken = &token
	}
	if sessionID != "" {
		event.SessionID = &sessionID
	}
	if input.EventType == enums.EventTypeConversion {
		event.ProductPrice = input.ProductPrice
	}

	if err := s.eventRepo.Insert(ctx, &event); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			s.metrics.IncDeduped()
			return TrackResult{Tracked: false, Reason: ReasonDuplicate}, nil
		}
		return TrackResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert event")
	}

	s.metrics.IncTracked(input.EventType.String())
	return TrackResult{Tracked: true}, nil
}

// Summarize builds the shop's analytics report for the window, defaulting to
// the trailing 30 days.
func (s *service) Summarize(ctx context.Context, shopID uuid.UUID, params SummaryParams) (Summary, error) {
	if shopID == uuid.Nil {
		return Summary{}, pkgerrors.New(pkgerrors.CodeValidation, "shop id is required")
	}

	to := params.To
	if to.IsZero() {
		to = time.Now().UTC()
	}
	from := params.From
	if from.IsZero() {
		from = to.Add(-defaultSummaryWindow)
	}
	if !from.Before(to) {
		return Summary{}, pkgerrors.New(pkgerrors.CodeValidation, "date range start must precede its end")
	}

	rows, err := s.eventRepo.Aggregate(ctx, shopID, from, to)
	if err != nil {
		return Summary{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate events")
	}
	return buildSummary(rows), nil
}

// ListRecent returns the shop's newest raw events for the admin activity
// feed, bounded the same way as Summarize.
func (s *service) ListRecent(ctx context.Context, shopID uuid.UUID, params SummaryParams, limit int) ([]EventDTO, error) {
	if shopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop id is required")
	}
	if limit <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "limit must be positive")
	}

	to := params.To
	if to.IsZero() {
		to = time.Now().UTC()
	}
	from := params.From
	if from.IsZero() {
		from = to.Add(-defaultSummaryWindow)
	}
	if !from.Before(to) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range start must precede its end")
	}

	events, err := s.eventRepo.ListByShop(ctx, shopID, from, to, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list events")
	}
	dtos := make([]EventDTO, 0, len(events))
	for _, event := range events {
		dtos = append(dtos, toEventDTO(event))
	}
	return dtos, nil
}
