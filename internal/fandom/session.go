package fandom

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	loginBackoff = 10 * time.Second
	// The platform treats the token as effectively non-expiring, so the
	// cookie gets a horizon far beyond any realistic process lifetime.
	cookieMaxAge = 100 * 365 * 24 * time.Hour
)

// Login authenticates against the platform, installs the long-lived
// session cookie into the shared jar and verifies the session with a
// whoami call.
func (c *Client) Login(ctx context.Context) error {
	form := url.Values{
		"username": {c.username},
		"password": {c.password},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.servicesURL+"/mobile-fandom-app/fandom-auth/login",
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var auth struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.doJSON(req, &auth); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if auth.AccessToken == "" {
		return errors.New("login: empty access token")
	}

	if c.jar != nil {
		base, err := url.Parse(c.wikiURL)
		if err != nil {
			return fmt.Errorf("parse wiki url: %w", err)
		}
		c.jar.SetCookies(base, []*http.Cookie{{
			Name:    "access_token",
			Value:   auth.AccessToken,
			Domain:  "." + c.domain,
			Path:    "/",
			Expires: time.Now().Add(cookieMaxAge),
		}})
	}

	req, err = http.NewRequestWithContext(ctx, http.MethodGet, c.servicesURL+"/whoami", nil)
	if err != nil {
		return fmt.Errorf("create whoami request: %w", err)
	}
	var who struct {
		UserID any `json:"userId"`
	}
	if err := c.doJSON(req, &who); err != nil {
		return fmt.Errorf("whoami: %w", err)
	}

	c.log.Info("authenticated", "user_id", who.UserID, "wiki", c.wikiURL)
	return nil
}

// EnsureSession logs in, retrying on a fixed backoff until it succeeds
// or the context is cancelled. There is no fallback path: the process
// can do nothing useful without a session, so this never gives up on
// its own.
func (c *Client) EnsureSession(ctx context.Context) error {
	return retry.Do(ctx, retry.NewConstant(loginBackoff), func(ctx context.Context) error {
		if err := c.Login(ctx); err != nil {
			c.log.Warn("login failed, will retry", "backoff", loginBackoff, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}
