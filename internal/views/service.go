// Package views turns API payloads into cached, render-ready view models.
package views

import (
	"context"
	"fmt"
	"time"

	"github.com/optionslab/optionslab-client/internal/apiclient"
	"github.com/optionslab/optionslab-client/internal/normalize"
	"github.com/optionslab/optionslab-client/internal/query"
)

// API is the subset of the REST client the views read from.
type API interface {
	GetUserSimulations(ctx context.Context, userID string) ([]apiclient.RawSimulation, error)
	GetUserSimulationStatistics(ctx context.Context, userID string) (*apiclient.RawStatistics, error)
	GetMarketAssets(ctx context.Context) ([]apiclient.RawAsset, error)
	GetStrategies(ctx context.Context) ([]apiclient.Strategy, error)
}

// TTLs sets cache lifetimes per payload. Zero keeps entries until invalidated.
type TTLs struct {
	Statistics  time.Duration
	Simulations time.Duration
	Strategies  time.Duration
	Assets      time.Duration
}

type Service struct {
	api        API
	cache      *query.Cache
	normalizer *normalize.Normalizer
	ttl        TTLs
}

func NewService(api API, cache *query.Cache, n *normalize.Normalizer, ttl TTLs) *Service {
	if cache == nil {
		cache = query.New()
	}
	if n == nil {
		n = normalize.New()
	}
	return &Service{api: api, cache: cache, normalizer: n, ttl: ttl}
}

func (s *Service) Cache() *query.Cache { return s.cache }

func statsKey(userID string) string       { return "stats/" + userID }
func simulationsKey(userID string) string { return "simulations/" + userID }

const (
	assetsKey     = "assets"
	strategiesKey = "strategies"
)

func (s *Service) rawSimulations(ctx context.Context, userID string) ([]apiclient.RawSimulation, error) {
	return query.Fetch(ctx, s.cache, simulationsKey(userID), s.ttl.Simulations,
		func(ctx context.Context) ([]apiclient.RawSimulation, error) {
			raws, err := s.api.GetUserSimulations(ctx, userID)
			if err != nil {
				return nil, fmt.Errorf("views: simulations for %s: %w", userID, err)
			}
			return raws, nil
		})
}

// Simulations returns the user's normalized simulations in API order.
func (s *Service) Simulations(ctx context.Context, userID string) ([]normalize.SimulationRecord, error) {
	raws, err := s.rawSimulations(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.normalizer.Simulations(raws), nil
}

func (s *Service) Statistics(ctx context.Context, userID string) (normalize.SimulationStatistics, error) {
	return query.Fetch(ctx, s.cache, statsKey(userID), s.ttl.Statistics,
		func(ctx context.Context) (normalize.SimulationStatistics, error) {
			raw, err := s.api.GetUserSimulationStatistics(ctx, userID)
			if err != nil {
				return normalize.SimulationStatistics{}, fmt.Errorf("views: statistics for %s: %w", userID, err)
			}
			return s.normalizer.Statistics(raw), nil
		})
}

// RecentSimulations shares the simulations cache entry.
func (s *Service) RecentSimulations(ctx context.Context, userID string, limit int, since time.Time) ([]normalize.RecentSimulation, error) {
	raws, err := s.rawSimulations(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.normalizer.Recent(raws, limit, since), nil
}

func (s *Service) MarketAssets(ctx context.Context) ([]normalize.MarketAsset, error) {
	return query.Fetch(ctx, s.cache, assetsKey, s.ttl.Assets,
		func(ctx context.Context) ([]normalize.MarketAsset, error) {
			raws, err := s.api.GetMarketAssets(ctx)
			if err != nil {
				return nil, fmt.Errorf("views: market assets: %w", err)
			}
			return s.normalizer.Assets(raws), nil
		})
}

// Strategies returns the server-side strategy list, never nil.
func (s *Service) Strategies(ctx context.Context) ([]apiclient.Strategy, error) {
	return query.Fetch(ctx, s.cache, strategiesKey, s.ttl.Strategies,
		func(ctx context.Context) ([]apiclient.Strategy, error) {
			list, err := s.api.GetStrategies(ctx)
			if err != nil {
				return nil, fmt.Errorf("views: strategies: %w", err)
			}
			if list == nil {
				list = []apiclient.Strategy{}
			}
			return list, nil
		})
}

// InvalidateUser drops every cached payload belonging to userID.
func (s *Service) InvalidateUser(userID string) int {
	return s.cache.Invalidate(statsKey(userID)) + s.cache.Invalidate(simulationsKey(userID))
}
