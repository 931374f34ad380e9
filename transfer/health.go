package transfer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/chroma-ai/chroma-web/tool"
)

// ProbeBackend checks that base answers HTTP at all. Any status below 500 counts as up.
func ProbeBackend(ctx context.Context, client *http.Client, base string) error {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid backend URL %q", base)
	}
	if client == nil {
		client = tool.GetHttpClient()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create probe request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close response body: %v", err)
		}
	}()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("backend unhealthy: %s", resp.Status)
	}
	return nil
}
