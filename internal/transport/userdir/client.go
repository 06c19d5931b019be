package userdir

import (
	"context"
	"encoding/json"
	"errors"
	"eventplanner/internal/application/entity"
	"eventplanner/pkg/httpclient"
	"eventplanner/pkg/validator"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

var ErrUserNotFound = errors.New("user not found in directory")

// Client справочник пользователей: GET {baseURL}/{id} -> {"id": "...", "name": "..."}
type Client struct {
	baseURL string
	http    httpclient.HTTPClient
	logger  *zap.SugaredLogger
}

func NewClient(baseURL string, hc httpclient.HTTPClient, logger *zap.SugaredLogger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		logger:  logger,
	}
}

func (c *Client) GetUser(ctx context.Context, id string) (*entity.User, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("build user directory request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("user directory request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, ErrUserNotFound
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("user directory: unexpected status %d", resp.StatusCode)
	}

	var u entity.User
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&u); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", id, err)
	}
	if u.ID == "" {
		u.ID = id
	}
	if err := validator.Validate.Struct(&u); err != nil {
		return nil, fmt.Errorf("invalid user %s from directory: %w", id, err)
	}
	u.UpdatedAt = time.Now().UTC()

	c.logger.Debugf("[user: %s] resolved from directory", id)
	return &u, nil
}
