package transfer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/chroma-ai/chroma-web/tool"
	"github.com/chroma-ai/chroma-web/types"
)

const (
	MsgNoResponse   = "No response from server. Please check your network connection or if the server is running."
	MsgSetupFailed  = "An unexpected error occurred while setting up the request."
	MsgUnknownError = "An unknown error occurred during colorization."
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// fieldOrder is the order the parameter fields are written after the image.
var fieldOrder = []string{
	types.FieldModelChoice,
	types.FieldDetailEnhancement,
	types.FieldIntensity,
	types.FieldHueShift,
	types.FieldSaturationScale,
	types.FieldAutoColorCorrect,
}

// ColorizeClient posts colorization jobs to the backend.
type ColorizeClient struct {
	BaseURL string
	HTTP    *http.Client
}

// NewColorizeClient returns a client for base. A nil client uses tool.GetHttpClient().
func NewColorizeClient(base string, client *http.Client) *ColorizeClient {
	if client == nil {
		client = tool.GetHttpClient()
	}
	return &ColorizeClient{BaseURL: base, HTTP: client}
}

// Colorize sends one multipart request, never retried. Every failure is normalized into a
// *types.ColorizeError.
func (c *ColorizeClient) Colorize(ctx context.Context, payload *types.ColorizePayload) (*types.ColorizeResponse, *types.ColorizeError) {
	req, err := c.newRequest(ctx, payload)
	if err != nil {
		tool.DefaultLogger.Errorf("[Colorize] request setup failed: %v", err)
		return nil, &types.ColorizeError{Reason: MsgSetupFailed}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		tool.DefaultLogger.Errorf("[Colorize] no response from %s: %v", req.URL.Redacted(), err)
		return nil, &types.ColorizeError{Reason: MsgNoResponse}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			tool.DefaultLogger.Errorf("[Colorize] failed to close response body: %v", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		tool.DefaultLogger.Errorf("[Colorize] failed to read response body: %v", err)
		return nil, &types.ColorizeError{Reason: MsgNoResponse}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeColorizeError(resp.StatusCode, body)
	}

	var result types.ColorizeResponse
	if err := sonic.Unmarshal(body, &result); err != nil {
		tool.DefaultLogger.Errorf("[Colorize] failed to parse response: %v", err)
		return nil, &types.ColorizeError{Reason: MsgUnknownError}
	}
	if result.Warning != "" {
		tool.DefaultLogger.Warnf("[Colorize] backend warning: %s", result.Warning)
	}
	tool.DefaultLogger.Infof("[Colorize] done: %s", result.ColorizedImageUrl)
	return &result, nil
}

// decodeColorizeError keeps the server's `{error, warning}` body as is.
func decodeColorizeError(status int, body []byte) *types.ColorizeError {
	var ce types.ColorizeError
	if err := sonic.Unmarshal(body, &ce); err != nil {
		tool.DefaultLogger.Errorf("[Colorize] status %d with non-JSON body", status)
		return &types.ColorizeError{Reason: "Server responded with status " + strconv.Itoa(status)}
	}
	tool.DefaultLogger.Errorf("[Colorize] status %d: %s", status, ce.Reason)
	if ce.Warning != "" {
		tool.DefaultLogger.Warnf("[Colorize] backend warning: %s", ce.Warning)
	}
	return &ce
}

func (c *ColorizeClient) newRequest(ctx context.Context, payload *types.ColorizePayload) (*http.Request, error) {
	if payload == nil || len(payload.Data) == 0 {
		return nil, fmt.Errorf("empty payload")
	}
	target, err := tool.BuildColorizeURL(c.BaseURL)
	if err != nil {
		return nil, err
	}
	body, contentType, err := encodeMultipart(payload)
	if err != nil {
		return nil, fmt.Errorf("encode multipart: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func encodeMultipart(payload *types.ColorizePayload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, types.FieldImageFile, quoteEscaper.Replace(payload.FileName)))
	mimeType := payload.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	h.Set("Content-Type", mimeType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(payload.Data); err != nil {
		return nil, "", err
	}

	for _, name := range fieldOrder {
		v, ok := payload.Fields[name]
		if !ok {
			continue
		}
		if err := w.WriteField(name, v); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
