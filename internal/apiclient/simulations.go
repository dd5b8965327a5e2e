package apiclient

import (
	"context"
	"net/http"
)

func (c *Client) GetSimulations(ctx context.Context) ([]RawSimulation, error) {
	var out []RawSimulation
	if err := c.do(ctx, call{method: http.MethodGet, path: "/simulations", result: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetSimulation(ctx context.Context, id string) (*RawSimulation, error) {
	var out RawSimulation
	err := c.do(ctx, call{
		method:     http.MethodGet,
		path:       "/simulations/{id}",
		pathParams: map[string]string{"id": id},
		result:     &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateSimulation(ctx context.Context, in NewSimulation) (*RawSimulation, error) {
	var out RawSimulation
	if err := c.do(ctx, call{method: http.MethodPost, path: "/simulations", body: in, result: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSimulation(ctx context.Context, id string) error {
	return c.do(ctx, call{
		method:     http.MethodDelete,
		path:       "/simulations/{id}",
		pathParams: map[string]string{"id": id},
	})
}

// GetUserSimulations lists every simulation owned by userID.
func (c *Client) GetUserSimulations(ctx context.Context, userID string) ([]RawSimulation, error) {
	var out []RawSimulation
	err := c.do(ctx, call{
		method:     http.MethodGet,
		path:       "/simulations/user/{userId}",
		pathParams: map[string]string{"userId": userID},
		result:     &out,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetUserSimulationStatistics returns the aggregate statistics for userID.
func (c *Client) GetUserSimulationStatistics(ctx context.Context, userID string) (*RawStatistics, error) {
	var out RawStatistics
	err := c.do(ctx, call{
		method:     http.MethodGet,
		path:       "/simulations/user/{userId}/statistics",
		pathParams: map[string]string{"userId": userID},
		result:     &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
