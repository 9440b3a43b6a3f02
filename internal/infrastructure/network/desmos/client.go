package desmos

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"likedao_wallet/internal/app/port"
	"likedao_wallet/internal/domain/entity"
	"likedao_wallet/internal/infrastructure/httpclient"

	"go.uber.org/zap"
)

type profileResponse struct {
	Profile struct {
		Account struct {
			Address string `json:"address"`
		} `json:"account"`
		DTag     string `json:"dtag"`
		Nickname string `json:"nickname"`
		Bio      string `json:"bio"`
		Pictures struct {
			Profile string `json:"profile"`
			Cover   string `json:"cover"`
		} `json:"pictures"`
		CreationDate string `json:"creation_date"`
	} `json:"profile"`
}

// Client implements port.ProfileQueryClient against the Desmos profiles REST module.
type Client struct {
	http   *httpclient.JSONClient
	logger *zap.Logger
}

// NewClient creates a new Desmos profile client.
func NewClient(http *httpclient.JSONClient, logger *zap.Logger) *Client {
	return &Client{http: http, logger: logger.Named("DesmosClient")}
}

var _ port.ProfileQueryClient = (*Client)(nil)

// GetProfile returns the profile of a desmos address, or nil when it has none.
func (c *Client) GetProfile(ctx context.Context, address string) (*entity.Profile, error) {
	var resp profileResponse
	if err := c.http.GetJSON(ctx, "/desmos/profiles/v3/profiles/"+url.PathEscape(address), &resp); err != nil {
		if httpclient.IsNotFound(err) {
			c.logger.Debug("No profile found", zap.String("address", address))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query profile of %s: %w", address, err)
	}

	p := resp.Profile
	profile := &entity.Profile{
		Address:        p.Account.Address,
		DTag:           p.DTag,
		Nickname:       p.Nickname,
		Bio:            p.Bio,
		ProfilePicture: p.Pictures.Profile,
		CoverPicture:   p.Pictures.Cover,
	}
	if profile.Address == "" {
		profile.Address = address
	}
	if p.CreationDate != "" {
		created, err := time.Parse(time.RFC3339Nano, p.CreationDate)
		if err != nil {
			c.logger.Warn("Failed to parse profile creation date", zap.String("address", address), zap.String("value", p.CreationDate), zap.Error(err))
		} else {
			profile.CreationDate = created
		}
	}
	return profile, nil
}
