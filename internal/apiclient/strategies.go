package apiclient

import (
	"context"
	"net/http"
)

func (c *Client) GetStrategies(ctx context.Context) ([]Strategy, error) {
	var out []Strategy
	if err := c.do(ctx, call{method: http.MethodGet, path: "/strategies", result: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetStrategy(ctx context.Context, id string) (*Strategy, error) {
	var out Strategy
	err := c.do(ctx, call{
		method:     http.MethodGet,
		path:       "/strategies/{id}",
		pathParams: map[string]string{"id": id},
		result:     &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
