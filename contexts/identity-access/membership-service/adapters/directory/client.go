package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"
)

const handshakeInterval = 5 * time.Second

type memberResponse struct {
	ID    string   `json:"id"`
	Roles []string `json:"roles"`
}

// Client talks to the external membership directory over REST.
// It reports not-ready until the startup handshake succeeds, so role
// checks fail closed instead of hitting an uninitialized connection.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
	ready   atomic.Bool
}

func New(baseURL string, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Start runs the handshake in the background until it succeeds or ctx is
// cancelled. Safe to call once at bootstrap.
func (c *Client) Start(ctx context.Context, guildID string) {
	go func() {
		ticker := time.NewTicker(handshakeInterval)
		defer ticker.Stop()
		for {
			if err := c.handshake(ctx, guildID); err == nil {
				c.ready.Store(true)
				c.logger.Info("membership directory connected",
					"event", "directory_ready",
					"module", "identity-access/membership-service",
					"layer", "adapter",
					"guild_id", guildID,
				)
				return
			} else {
				c.logger.Warn("membership directory handshake failed",
					"event", "directory_handshake_failed",
					"module", "identity-access/membership-service",
					"layer", "adapter",
					"guild_id", guildID,
					"error", err.Error(),
				)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func (c *Client) Ready() bool {
	return c.ready.Load()
}

func (c *Client) HasRole(ctx context.Context, guildID string, principalID string, roleID string) (bool, error) {
	if c.baseURL == "" {
		return false, errors.New("directory base url not configured")
	}

	endpoint := fmt.Sprintf("%s/guilds/%s/members/%s",
		c.baseURL, url.PathEscape(guildID), url.PathEscape(principalID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		// Not a member of the community: no roles.
		return false, nil
	default:
		return false, fmt.Errorf("directory member lookup: unexpected status %d", resp.StatusCode)
	}

	var member memberResponse
	if err := json.NewDecoder(resp.Body).Decode(&member); err != nil {
		return false, err
	}
	for _, id := range member.Roles {
		if id == roleID {
			return true, nil
		}
	}
	return false, nil
}

func (c *Client) handshake(ctx context.Context, guildID string) error {
	if c.baseURL == "" {
		return errors.New("directory base url not configured")
	}

	endpoint := fmt.Sprintf("%s/guilds/%s", c.baseURL, url.PathEscape(guildID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("directory handshake: unexpected status %d", resp.StatusCode)
	}
	return nil
}
