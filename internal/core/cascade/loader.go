// Package cascade keeps the place and location option lists in sync with
// upstream filter selections, restricted by the session scope.
package cascade

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mealdesk/canteen-api/internal/api/metrics"
	"github.com/mealdesk/canteen-api/internal/core/domain"
)

// ErrSuperseded is returned when a newer load for the same dimension was
// issued while this one was in flight; the stale result must be discarded.
var ErrSuperseded = errors.New("cascade request superseded")

// PlaceFetcher lists the places belonging to a company.
type PlaceFetcher interface {
	ListPlacesByCompany(ctx context.Context, companyID string) ([]domain.Place, error)
}

// LocationFetcher lists the locations belonging to a single place.
type LocationFetcher interface {
	ListLocationsByPlace(ctx context.Context, placeID string) ([]domain.Location, error)
}

// Loader resolves dependent option lists for one cascade owner (one user
// session). Each load claims a monotonically increasing token per dimension;
// a result whose token is no longer the latest is discarded, so a later user
// action always wins over a slower-resolving earlier request.
type Loader struct {
	places    PlaceFetcher
	locations LocationFetcher
	log       zerolog.Logger

	placeSeq    atomic.Uint64
	locationSeq atomic.Uint64
}

func NewLoader(places PlaceFetcher, locations LocationFetcher, log zerolog.Logger) *Loader {
	return &Loader{places: places, locations: locations, log: log}
}

// LoadPlaces fetches the place options for companyID and intersects them with
// the scope's assigned places when the role restricts places. An assigned
// place missing from the backend result is silently dropped, not synthesized.
func (l *Loader) LoadPlaces(ctx context.Context, scope domain.Scope, companyID string) ([]domain.Place, error) {
	token := l.placeSeq.Add(1)

	places, err := l.places.ListPlacesByCompany(ctx, companyID)
	if err != nil {
		metrics.CascadeFetchTotal.WithLabelValues("places", "error").Inc()
		// A stale error must not surface for a selection the client has
		// already abandoned.
		if l.placeSeq.Load() != token {
			metrics.CascadeSupersededTotal.WithLabelValues("places").Inc()
			return nil, ErrSuperseded
		}
		return nil, err
	}
	if l.placeSeq.Load() != token {
		metrics.CascadeSupersededTotal.WithLabelValues("places").Inc()
		return nil, ErrSuperseded
	}
	metrics.CascadeFetchTotal.WithLabelValues("places", "ok").Inc()

	if !scope.RestrictsPlaces() {
		return places, nil
	}
	allowed := make(map[string]struct{}, len(scope.AllowedPlaceIDs))
	for _, id := range scope.AllowedPlaceIDs {
		allowed[id] = struct{}{}
	}
	filtered := make([]domain.Place, 0, len(places))
	for _, p := range places {
		if _, ok := allowed[p.ID]; ok {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// LoadLocations fetches locations for every selected place concurrently,
// flattens the results in place order, de-duplicates by location id (first
// occurrence wins), and intersects with the scope's assigned locations when
// the role restricts them. A failing individual fetch contributes an empty
// list rather than aborting the merge.
func (l *Loader) LoadLocations(ctx context.Context, scope domain.Scope, placeIDs []string) ([]domain.Location, error) {
	token := l.locationSeq.Add(1)

	results := make([][]domain.Location, len(placeIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i, placeID := range placeIDs {
		i, placeID := i, placeID
		g.Go(func() error {
			locs, err := l.locations.ListLocationsByPlace(gctx, placeID)
			if err != nil {
				metrics.CascadeFetchTotal.WithLabelValues("locations", "error").Inc()
				l.log.Warn().Err(err).Str("place_id", placeID).Msg("location fetch failed, contributing empty list")
				return nil
			}
			metrics.CascadeFetchTotal.WithLabelValues("locations", "ok").Inc()
			results[i] = locs
			return nil
		})
	}
	_ = g.Wait()

	if l.locationSeq.Load() != token {
		metrics.CascadeSupersededTotal.WithLabelValues("locations").Inc()
		return nil, ErrSuperseded
	}

	seen := make(map[string]struct{})
	merged := make([]domain.Location, 0)
	for _, locs := range results {
		for _, loc := range locs {
			if _, dup := seen[loc.ID]; dup {
				continue
			}
			seen[loc.ID] = struct{}{}
			merged = append(merged, loc)
		}
	}

	if !scope.RestrictsLocations() {
		return merged, nil
	}
	allowed := make(map[string]struct{}, len(scope.AllowedLocationIDs))
	for _, id := range scope.AllowedLocationIDs {
		allowed[id] = struct{}{}
	}
	filtered := make([]domain.Location, 0, len(merged))
	for _, loc := range merged {
		if _, ok := allowed[loc.ID]; ok {
			filtered = append(filtered, loc)
		}
	}
	return filtered, nil
}
