package wordpress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/souravdas/ragchat/internal/domain"
)

// Client fetches published content from a WordPress REST endpoint.
// Requests use HTTP Basic auth with application-password credentials.
type Client struct {
	username string
	password string
	timeout  time.Duration
	client   *http.Client
}

// NewClient creates a new WordPress API client
func NewClient(username, password string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 600 * time.Second
	}
	return &Client{
		username: username,
		password: password,
		timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
	}
}

// FetchJSON sends a single authenticated GET to apiURL and returns the
// decoded JSON body. One attempt only, no retries.
func (c *Client) FetchJSON(ctx context.Context, apiURL string) (any, error) {
	log.Info().Str("url", apiURL).Msg("Fetching data from WordPress API")

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			log.Error().Dur("timeout", c.timeout).Msg("WordPress API call timed out")
			return nil, &domain.TimeoutError{Timeout: c.timeout}
		}
		log.Error().Err(err).Str("url", apiURL).Msg("WordPress API call failed")
		return nil, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		log.Error().
			Int("status", resp.StatusCode).
			Str("body", truncate(string(body), 512)).
			Msg("WordPress API returned error status")
		return nil, &domain.RemoteAPIError{Status: resp.StatusCode, Body: string(body)}
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode API response: %w", err)
	}

	log.Info().Int("status", resp.StatusCode).Msg("WordPress API response received")
	return payload, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// ExtractText flattens a WordPress API payload into plain text. Post lists
// and single posts expose their body under content.rendered; plain objects
// may carry a top-level content string. Anything else is re-encoded as JSON
// so the caller always gets text back.
func ExtractText(payload any) string {
	var parts []string
	collectContent(payload, &parts)
	if len(parts) > 0 {
		return strings.Join(parts, "\n\n")
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(raw)
}

func collectContent(node any, parts *[]string) {
	switch v := node.(type) {
	case []any:
		for _, item := range v {
			collectContent(item, parts)
		}
	case map[string]any:
		content, ok := v["content"]
		if !ok {
			return
		}
		switch c := content.(type) {
		case string:
			if c != "" {
				*parts = append(*parts, c)
			}
		case map[string]any:
			if rendered, ok := c["rendered"].(string); ok && rendered != "" {
				*parts = append(*parts, rendered)
			}
		}
	}
}
