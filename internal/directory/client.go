// Package directory talks to the club/member directory gateway. The gateway
// is the source of truth for club categories and membership; the events
// service never caches its answers across requests.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/Clubs-Council-IIITH/events/internal/models"
	"github.com/Clubs-Council-IIITH/events/pkg/config"
	appErrors "github.com/Clubs-Council-IIITH/events/pkg/errors"
)

// Club is a directory record for an organizing body.
type Club struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Email    string              `json:"email"`
	Category models.ClubCategory `json:"category"`
}

// Member is a directory record for a club member.
type Member struct {
	ID     string `json:"id"`
	ClubID string `json:"clubId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Client is an HTTP adapter over the directory gateway.
type Client struct {
	baseURL string
	secret  string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient constructs the gateway client.
func NewClient(cfg config.DirectoryConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		secret:  cfg.InterServiceSecret,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// GetClub resolves a club by id. A missing club is ErrNotFound; any gateway
// failure is ErrExternal so callers can abort mutations cleanly.
func (c *Client) GetClub(ctx context.Context, clubID string) (*Club, error) {
	var club Club
	if err := c.get(ctx, "/clubs/"+url.PathEscape(clubID), &club); err != nil {
		return nil, err
	}
	return &club, nil
}

// GetMember resolves a member within a club, used to validate points of
// contact before a submission is accepted.
func (c *Client) GetMember(ctx context.Context, clubID, userID string) (*Member, error) {
	path := "/clubs/" + url.PathEscape(clubID) + "/members/" + url.PathEscape(userID)
	var member Member
	if err := c.get(ctx, path, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (c *Client) get(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return appErrors.Wrap(appErrors.ErrExternal, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.secret != "" {
		req.Header.Set("Authorization", "Secret "+c.secret)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("directory request failed", zap.String("path", path), zap.Error(err))
		return appErrors.Wrap(appErrors.ErrExternal, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return appErrors.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return appErrors.Clone(appErrors.ErrExternal, fmt.Sprintf("directory gateway returned %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return appErrors.Wrap(appErrors.ErrExternal, err)
	}
	return nil
}
