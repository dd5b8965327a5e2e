package apiclient

import (
	"context"
	"net/http"
)

func (c *Client) GetMarketAssets(ctx context.Context) ([]RawAsset, error) {
	var out []RawAsset
	if err := c.do(ctx, call{method: http.MethodGet, path: "/market/assets", result: &out}); err != nil {
		return nil, err
	}
	return out, nil
}
