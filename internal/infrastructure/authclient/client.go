package authclient

import (
	"context"
	"fmt"

	"likedao_wallet/internal/app/port"
	"likedao_wallet/internal/infrastructure/httpclient"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Client ends the authenticated session on the auth server.
type Client struct {
	http   *httpclient.JSONClient
	logger *zap.Logger
}

// NewClient creates a new auth client.
func NewClient(http *httpclient.JSONClient, logger *zap.Logger) *Client {
	return &Client{http: http, logger: logger.Named("AuthClient")}
}

var _ port.AuthClient = (*Client)(nil)

// Logout implements port.AuthClient. Logging out without a session is not an error.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.http.PostJSON(ctx, "/logout", nil, nil); err != nil {
		if httpclient.IsStatus(err, fasthttp.StatusUnauthorized) {
			c.logger.Debug("No session to logout")
			return nil
		}
		return fmt.Errorf("failed to logout: %w", err)
	}
	c.logger.Debug("Logged out")
	return nil
}
