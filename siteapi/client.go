package siteapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Francisco1000/wp-calypso/updates"
)

// Client talks to the site management REST API: it lists the updatable
// components of a site, starts updates, and polls update statuses.
type Client struct {
	baseURL    string
	siteID     string
	authToken  string
	httpClient *http.Client
}

func NewClient(baseURL, siteID, authToken string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("site URL is required")
	}
	if siteID == "" {
		return nil, fmt.Errorf("site ID is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid site URL: %w", err)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		siteID:     siteID,
		authToken:  authToken,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// SiteID returns the identifier of the managed site.
func (c *Client) SiteID() string {
	return c.siteID
}

type pluginPayload struct {
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	Version string `json:"version"`
	Update  struct {
		NewVersion string `json:"new_version"`
	} `json:"update"`
}

type themePayload struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
	Update  struct {
		NewVersion string `json:"new_version"`
	} `json:"update"`
}

type corePayload struct {
	Version string `json:"version"`
	Update  struct {
		NewVersion string `json:"new_version"`
	} `json:"update"`
}

// FetchItems returns the candidate item set of the site: the core
// pseudo-item (when a core update is available) followed by plugins and
// themes with pending updates. Statuses are left at their zero value;
// ApplyStatuses merges in the polled statuses afterwards.
func (c *Client) FetchItems(ctx context.Context) ([]updates.Item, error) {
	var items []updates.Item

	var cp corePayload
	if err := c.get(ctx, fmt.Sprintf("/sites/%s/core", c.siteID), &cp); err != nil {
		return nil, fmt.Errorf("failed to fetch core version: %w", err)
	}
	if cp.Update.NewVersion != "" && cp.Update.NewVersion != cp.Version {
		items = append(items, updates.Item{
			Slug:       "wordpress",
			Type:       updates.TypeCore,
			Name:       "WordPress",
			Version:    cp.Version,
			NewVersion: cp.Update.NewVersion,
		})
	}

	var plugins struct {
		Plugins []pluginPayload `json:"plugins"`
	}
	if err := c.get(ctx, fmt.Sprintf("/sites/%s/plugins", c.siteID), &plugins); err != nil {
		return nil, fmt.Errorf("failed to fetch plugins: %w", err)
	}
	for _, p := range plugins.Plugins {
		if p.Update.NewVersion == "" {
			continue
		}
		items = append(items, updates.Item{
			Slug:       p.Slug,
			Type:       updates.TypePlugin,
			Name:       p.Name,
			Version:    p.Version,
			NewVersion: p.Update.NewVersion,
		})
	}

	var themes struct {
		Themes []themePayload `json:"themes"`
	}
	if err := c.get(ctx, fmt.Sprintf("/sites/%s/themes", c.siteID), &themes); err != nil {
		return nil, fmt.Errorf("failed to fetch themes: %w", err)
	}
	for _, t := range themes.Themes {
		if t.Update.NewVersion == "" {
			continue
		}
		items = append(items, updates.Item{
			Slug:       t.ID,
			Type:       updates.TypeTheme,
			Name:       t.Name,
			Version:    t.Version,
			NewVersion: t.Update.NewVersion,
		})
	}

	return items, nil
}

// StartUpdate issues the update request for an item. Plugin, theme and
// core each have their own endpoint; completion is observed through
// status polling, never through this response.
func (c *Client) StartUpdate(ctx context.Context, item updates.Item) error {
	var path string
	switch item.Type {
	case updates.TypePlugin:
		path = fmt.Sprintf("/sites/%s/updates/plugin/%s", c.siteID, url.PathEscape(item.Slug))
	case updates.TypeTheme:
		path = fmt.Sprintf("/sites/%s/updates/theme/%s", c.siteID, url.PathEscape(item.Slug))
	case updates.TypeCore:
		path = fmt.Sprintf("/sites/%s/updates/core", c.siteID)
	default:
		return fmt.Errorf("unknown item type: %s", item.Type)
	}

	body, err := json.Marshal(map[string]string{"from": item.From})
	if err != nil {
		return fmt.Errorf("failed to encode update request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("update request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("update request returned status %d", resp.StatusCode)
	}
	return nil
}

// FetchStatuses polls the raw update statuses of the site, keyed by the
// status-key scheme of the API (see StatusKey).
func (c *Client) FetchStatuses(ctx context.Context) (map[string]RawStatus, error) {
	var payload struct {
		Statuses map[string]RawStatus `json:"statuses"`
	}
	if err := c.get(ctx, fmt.Sprintf("/sites/%s/updates/status", c.siteID), &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch update statuses: %w", err)
	}
	return payload.Statuses, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (c *Client) authorize(req *http.Request) {
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
}
