package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const DefaultURL = "https://api.monkeytype.com/users/profile"

var (
	// ErrNoData is matched by every failed fetch.
	ErrNoData = errors.New("no profile data")
	// ErrRejected means the service refused the credential (401/403).
	ErrRejected = fmt.Errorf("%w: credential rejected", ErrNoData)
	// ErrUnavailable covers transport errors, timeouts and other statuses.
	ErrUnavailable = fmt.Errorf("%w: profile service unavailable", ErrNoData)
)

// Profile is the subset of the MonkeyType profile the bot uses.
type Profile struct {
	Name           string
	StreakDays     int
	CompletedTests int
	AvgWPM         float64
}

type profileResponse struct {
	Data struct {
		Name   string `json:"name"`
		Streak struct {
			Days int `json:"days"`
		} `json:"streak"`
		TypingStats struct {
			CompletedTests int     `json:"completedTests"`
			AvgWPM         float64 `json:"avgWpm"`
		} `json:"typingStats"`
	} `json:"data"`
}

// Client fetches profiles from the MonkeyType API.
type Client struct {
	url        string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates a client for the given endpoint. timeout bounds each request.
func NewClient(url string, timeout time.Duration, log *zap.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// FetchProfile reads the profile authenticated by credential. It makes a
// single attempt; failures wrap ErrRejected or ErrUnavailable.
func (c *Client) FetchProfile(ctx context.Context, credential string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Authorization", "ApeKey "+credential)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "monkeytype-streak-notifier/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("profile request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		_, _ = io.Copy(io.Discard, resp.Body)
		c.log.Debug("profile credential rejected", zap.Int("status", resp.StatusCode))
		return nil, ErrRejected
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		c.log.Debug("profile unexpected status", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	p := &Profile{
		Name:           body.Data.Name,
		StreakDays:     body.Data.Streak.Days,
		CompletedTests: body.Data.TypingStats.CompletedTests,
		AvgWPM:         body.Data.TypingStats.AvgWPM,
	}
	if p.Name == "" {
		p.Name = "Unknown"
	}
	return p, nil
}
