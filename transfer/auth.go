package transfer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/chroma-ai/chroma-web/tool"
	"github.com/chroma-ai/chroma-web/types"
)

const (
	MsgLoginFailed  = "Login failed. Please check your credentials."
	MsgSignupFailed = "Signup failed. Please try again."
	MsgAuthNetwork  = "An unexpected error occurred. Please try again."
)

// AuthClient talks to the login/signup backend.
type AuthClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewAuthClient(base string, client *http.Client) *AuthClient {
	if client == nil {
		client = tool.GetHttpClient()
	}
	return &AuthClient{BaseURL: base, HTTP: client}
}

// Login posts credentials to /login. Any 2xx is a success.
func (c *AuthClient) Login(ctx context.Context, req types.LoginRequest) (*types.AuthResponse, error) {
	target, err := tool.BuildLoginURL(c.BaseURL)
	if err != nil {
		tool.DefaultLogger.Errorf("[Auth] %v", err)
		return nil, &types.AuthError{Reason: MsgAuthNetwork}
	}
	return c.post(ctx, target, req, MsgLoginFailed)
}

// Signup posts a new account to /signup. Any 2xx is a success.
func (c *AuthClient) Signup(ctx context.Context, req types.SignupRequest) (*types.AuthResponse, error) {
	target, err := tool.BuildSignupURL(c.BaseURL)
	if err != nil {
		tool.DefaultLogger.Errorf("[Auth] %v", err)
		return nil, &types.AuthError{Reason: MsgAuthNetwork}
	}
	return c.post(ctx, target, req, MsgSignupFailed)
}

func (c *AuthClient) post(ctx context.Context, target string, body any, fallback string) (*types.AuthResponse, error) {
	payload, err := sonic.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal auth request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		tool.DefaultLogger.Errorf("[Auth] request to %s failed: %v", target, err)
		return nil, &types.AuthError{Reason: MsgAuthNetwork}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			tool.DefaultLogger.Errorf("[Auth] failed to close response body: %v", err)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		tool.DefaultLogger.Errorf("[Auth] failed to read response body: %v", err)
		return nil, &types.AuthError{Reason: MsgAuthNetwork}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var ae types.AuthError
		if err := sonic.Unmarshal(data, &ae); err != nil || ae.Reason == "" {
			ae.Reason = fallback
		}
		tool.DefaultLogger.Warnf("[Auth] %s returned %d: %s", target, resp.StatusCode, ae.Reason)
		return nil, &ae
	}

	var result types.AuthResponse
	if len(data) > 0 {
		if err := sonic.Unmarshal(data, &result); err != nil {
			// the body is informational only; a 2xx stays a success
			tool.DefaultLogger.Debugf("[Auth] unparsable success body from %s: %v", target, err)
		}
	}
	return &result, nil
}
