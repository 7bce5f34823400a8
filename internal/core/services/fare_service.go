package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nucash/nucash_backend/internal/apperrors"
	"github.com/nucash/nucash_backend/internal/core/domain"
	portsrepo "github.com/nucash/nucash_backend/internal/core/ports/repositories"
	portssvc "github.com/nucash/nucash_backend/internal/core/ports/services"
	"github.com/nucash/nucash_backend/internal/dto"
	"github.com/nucash/nucash_backend/internal/middleware"
)

// fareService administers the global fare settings row and per-route fares.
type fareService struct {
	fareRepo portsrepo.FareRepositoryFacade
	cfg      PaymentConfig
}

// NewFareService creates a new FareService.
func NewFareService(fareRepo portsrepo.FareRepositoryFacade, cfg PaymentConfig) portssvc.FareSvcFacade {
	return &fareService{fareRepo: fareRepo, cfg: cfg}
}

// Ensure fareService implements the portssvc.FareSvcFacade interface
var _ portssvc.FareSvcFacade = (*fareService)(nil)

// GetSettings returns the global fare settings, synthesizing the deployment
// defaults when no row has been written yet.
func (s *fareService) GetSettings(ctx context.Context) (*domain.FareSettings, error) {
	settings, err := s.fareRepo.GetSettings(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.FareSettings{
				CurrentFare:   s.cfg.DefaultFare,
				NegativeLimit: s.cfg.DefaultNegativeLimit,
			}, nil
		}
		return nil, err
	}
	return settings, nil
}

// UpdateSettings applies a partial update to the global fare settings.
func (s *fareService) UpdateSettings(ctx context.Context, req dto.UpdateFareSettingsRequest, userID string) (*domain.FareSettings, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	if req.CurrentFare != nil {
		if !req.CurrentFare.IsPositive() {
			return nil, fmt.Errorf("%w: current fare must be positive", apperrors.ErrValidation)
		}
		settings.CurrentFare = *req.CurrentFare
	}
	if req.NegativeLimit != nil {
		if req.NegativeLimit.IsPositive() {
			return nil, fmt.Errorf("%w: negative limit must be zero or negative", apperrors.ErrValidation)
		}
		settings.NegativeLimit = *req.NegativeLimit
	}

	settings.LastUpdatedAt = time.Now().UTC()
	settings.LastUpdatedBy = userID

	if err := s.fareRepo.SaveSettings(ctx, *settings); err != nil {
		return nil, err
	}

	logger.Info("Fare settings updated",
		slog.String("current_fare", settings.CurrentFare.String()),
		slog.String("negative_limit", settings.NegativeLimit.String()),
		slog.String("user_id", userID))
	return settings, nil
}

// GetRoute retrieves a shuttle route and its fare override.
func (s *fareService) GetRoute(ctx context.Context, routeID string) (*domain.ShuttleRoute, error) {
	return s.fareRepo.FindRouteByID(ctx, routeID)
}

// UpsertRoute creates or updates a shuttle route fare override.
func (s *fareService) UpsertRoute(ctx context.Context, routeID string, req dto.UpsertRouteRequest, userID string) (*domain.ShuttleRoute, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Fare.IsPositive() {
		return nil, fmt.Errorf("%w: route fare must be positive", apperrors.ErrValidation)
	}

	route := domain.ShuttleRoute{
		RouteID:       routeID,
		Name:          req.Name,
		Fare:          req.Fare,
		LastUpdatedAt: time.Now().UTC(),
		LastUpdatedBy: userID,
	}

	if err := s.fareRepo.UpsertRoute(ctx, route); err != nil {
		return nil, err
	}

	logger.Info("Route fare upserted",
		slog.String("route_id", routeID),
		slog.String("fare", req.Fare.String()))
	return &route, nil
}
