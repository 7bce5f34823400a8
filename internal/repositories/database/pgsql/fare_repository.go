package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nucash/nucash_backend/internal/apperrors"
	"github.com/nucash/nucash_backend/internal/core/domain"
	portsrepo "github.com/nucash/nucash_backend/internal/core/ports/repositories"
)

type PgxFareRepository struct {
	BaseRepository
}

// newPgxFareRepository creates a new repository for fare settings and routes.
func newPgxFareRepository(pool *pgxpool.Pool) portsrepo.FareRepositoryFacade {
	return &PgxFareRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxFareRepository implements portsrepo.FareRepositoryFacade
var _ portsrepo.FareRepositoryFacade = (*PgxFareRepository)(nil)

// GetSettings reads the single global fare settings row.
func (r *PgxFareRepository) GetSettings(ctx context.Context) (*domain.FareSettings, error) {
	query := `
		SELECT current_fare, negative_limit, last_updated_at, last_updated_by
		FROM fare_settings
		WHERE id = 1;
	`
	var s domain.FareSettings
	err := r.Pool.QueryRow(ctx, query).Scan(
		&s.CurrentFare,
		&s.NegativeLimit,
		&s.LastUpdatedAt,
		&s.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read fare settings: %w", err)
	}
	return &s, nil
}

// SaveSettings upserts the global fare settings row.
func (r *PgxFareRepository) SaveSettings(ctx context.Context, settings domain.FareSettings) error {
	query := `
		INSERT INTO fare_settings (id, current_fare, negative_limit, last_updated_at, last_updated_by)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET current_fare = EXCLUDED.current_fare,
		    negative_limit = EXCLUDED.negative_limit,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		settings.CurrentFare,
		settings.NegativeLimit,
		settings.LastUpdatedAt,
		settings.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save fare settings: %w", err)
	}
	return nil
}

// FindRouteByID retrieves a shuttle route and its fare.
func (r *PgxFareRepository) FindRouteByID(ctx context.Context, routeID string) (*domain.ShuttleRoute, error) {
	query := `
		SELECT route_id, name, fare, last_updated_at, last_updated_by
		FROM shuttle_routes
		WHERE route_id = $1;
	`
	var route domain.ShuttleRoute
	err := r.Pool.QueryRow(ctx, query, routeID).Scan(
		&route.RouteID,
		&route.Name,
		&route.Fare,
		&route.LastUpdatedAt,
		&route.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find route %s: %w", routeID, err)
	}
	return &route, nil
}

// UpsertRoute creates or updates a shuttle route fare.
func (r *PgxFareRepository) UpsertRoute(ctx context.Context, route domain.ShuttleRoute) error {
	query := `
		INSERT INTO shuttle_routes (route_id, name, fare, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (route_id) DO UPDATE
		SET name = EXCLUDED.name,
		    fare = EXCLUDED.fare,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		route.RouteID,
		route.Name,
		route.Fare,
		route.LastUpdatedAt,
		route.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert route %s: %w", route.RouteID, err)
	}
	return nil
}
