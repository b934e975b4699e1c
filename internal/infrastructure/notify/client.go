// Package notify renders and delivers order notification emails through Resend.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/alexanderovie/integrity/internal/application"
	"github.com/alexanderovie/integrity/internal/config"
	"github.com/alexanderovie/integrity/internal/domain"
)

type ResendClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewResendClient(cfg config.NotifyConfig) *ResendClient {
	return &ResendClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout:   cfg.ConnTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

var _ application.NotificationSender = (*ResendClient)(nil)

// Send delivers msg once and returns the provider's message id.
func (c *ResendClient) Send(ctx context.Context, msg application.Message) (string, error) {
	if c.apiKey == "" {
		return "", domain.NewConfigurationError("RESEND_API_KEY")
	}
	if msg.From == "" {
		return "", domain.NewConfigurationError("FROM_EMAIL")
	}

	req := emailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	}

	url := fmt.Sprintf("%s/emails", c.baseURL)
	resp, err := sendRequest[emailRequest, emailResponse](c, ctx, http.MethodPost, url, &req, msg.IdempotencyKey)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

func sendRequest[Req any, Resp any](c *ResendClient, ctx context.Context, method, url string, reqBody *Req, idempotencyKey string) (*Resp, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		var errResp providerErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.Message == "" {
			return nil, fmt.Errorf("email provider returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, &ProviderError{
			Name:       errResp.Name,
			Message:    errResp.Message,
			StatusCode: resp.StatusCode,
		}
	}

	var out Resp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}

	return &out, nil
}
