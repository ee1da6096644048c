package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	toolcore "github.com/kaiwa-ai/kaiwa/internal/tool"
)

func init() {
	toolcore.RegisterBuiltin("fetch_web_page", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		timeout := options.FetchTimeout
		if timeout <= 0 {
			timeout = toolcore.DefaultFetchTimeout
		}
		client := options.HTTPClient
		if client == nil {
			client = &http.Client{Timeout: timeout}
		}
		userAgent := strings.TrimSpace(options.FetchUserAgent)
		if userAgent == "" {
			userAgent = "kaiwa/1.0"
		}
		return &FetchWebPageTool{
			Client:         client,
			UserAgent:      userAgent,
			MaxBytes:       options.FetchMaxBytes,
			DefaultTimeout: timeout,
		}, nil
	})
}

// FetchWebPageTool retrieves the text content of a URL.
type FetchWebPageTool struct {
	Client         *http.Client
	UserAgent      string
	MaxBytes       int
	DefaultTimeout time.Duration
}

type fetchWebPageInput struct {
	URL            string `json:"url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

func (t *FetchWebPageTool) Name() string { return "fetch_web_page" }

func (t *FetchWebPageTool) Description() string {
	return "Fetches the text content of a given URL. Requires user approval."
}

func (t *FetchWebPageTool) Risk() toolcore.RiskLevel { return toolcore.RiskHigh }

func (t *FetchWebPageTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"description": "The URL to fetch (must include http:// or https://).",
			},
			"timeout_seconds": map[string]interface{}{
				"type":        "integer",
				"description": "Optional timeout in seconds.",
				"default":     10,
			},
		},
		"required": []string{"url"},
	}
}

func (t *FetchWebPageTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var args fetchWebPageInput
	if err := json.Unmarshal(input, &args); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if !strings.HasPrefix(args.URL, "http://") && !strings.HasPrefix(args.URL, "https://") {
		return nil, fmt.Errorf("URL must start with http:// or https://")
	}

	timeout := t.DefaultTimeout
	if args.TimeoutSeconds > 0 {
		timeout = time.Duration(args.TimeoutSeconds) * time.Second
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, args.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	req.Header.Set("User-Agent", t.UserAgent)

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if t.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, int64(t.MaxBytes))
	}
	content, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("fetch failed reading body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch failed: %s returned status %d", args.URL, resp.StatusCode)
	}

	return json.Marshal(map[string]interface{}{
		"content":     string(content),
		"status_code": resp.StatusCode,
	})
}
