package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"tontonin/internal/httputil"
)

// DefaultEndpoint is the public gtx translation endpoint.
const DefaultEndpoint = "https://translate.googleapis.com/translate_a/single"

// GoogleClient talks to a gtx-style endpoint. The response is a nested JSON
// array whose first element lists [translated, original, ...] segments.
type GoogleClient struct {
	endpoint string
	client   *http.Client
}

// NewGoogleClient creates a client for endpoint.
func NewGoogleClient(endpoint string, client *http.Client) *GoogleClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &GoogleClient{endpoint: endpoint, client: client}
}

// Translate translates text from one language to another.
func (g *GoogleClient) Translate(ctx context.Context, text, from, to string) (string, error) {
	u := httputil.WithQuery(g.endpoint, url.Values{
		"client": {"gtx"},
		"sl":     {from},
		"tl":     {to},
		"dt":     {"t"},
		"q":      {text},
	})

	body, err := httputil.GetBody(ctx, g.client, u, "application/json")
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	return parseGTX(body)
}

func parseGTX(body []byte) (string, error) {
	var raw []any
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("parsing translation: %w", err)
	}
	if len(raw) == 0 {
		return "", errors.New("empty translation response")
	}

	segments, ok := raw[0].([]any)
	if !ok {
		return "", errors.New("unexpected translation response shape")
	}

	var b strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			b.WriteString(s)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("translation response had no text")
	}
	return b.String(), nil
}
