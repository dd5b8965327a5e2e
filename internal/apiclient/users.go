package apiclient

import (
	"context"
	"net/http"
)

func (c *Client) GetUserProfile(ctx context.Context, userID string) (*UserProfile, error) {
	var out UserProfile
	err := c.do(ctx, call{
		method:     http.MethodGet,
		path:       "/users/{userId}/profile",
		pathParams: map[string]string{"userId": userID},
		result:     &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUserProfile(ctx context.Context, userID string, in ProfileUpdate) (*UserProfile, error) {
	var out UserProfile
	err := c.do(ctx, call{
		method:     http.MethodPut,
		path:       "/users/{userId}/profile",
		pathParams: map[string]string{"userId": userID},
		body:       in,
		result:     &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UserExists asks whether an account with userID exists.
func (c *Client) UserExists(ctx context.Context, userID string) (bool, error) {
	var out struct {
		Exists bool `json:"exists"`
	}
	err := c.do(ctx, call{
		method:     http.MethodGet,
		path:       "/users/{userId}/exists",
		pathParams: map[string]string{"userId": userID},
		result:     &out,
	})
	if err != nil {
		return false, err
	}
	return out.Exists, nil
}
