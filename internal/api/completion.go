package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/groqchat/internal/errors"
	"github.com/diogo/groqchat/internal/models"
)

// JSON paths into the completion response
const (
	PathContent      = "choices.0.message.content"
	PathFinishReason = "choices.0.finish_reason"
	PathID           = "id"
	PathModel        = "model"
	PathUsage        = "usage"
	PathErrorMessage = "error.message"
)

// maxErrorBody caps the error body kept for diagnostics
const maxErrorBody = 4096

// Complete sends the transcript to the completions endpoint and returns the
// parsed reply. It makes exactly one attempt and never retries.
func (c *Client) Complete(ctx context.Context, creq CompletionRequest) (*models.Completion, error) {
	if strings.TrimSpace(creq.Credential) == "" {
		return nil, apierrors.ErrMissingCredential
	}
	if len(creq.Turns) == 0 {
		return nil, fmt.Errorf("transcript cannot be empty")
	}
	if err := creq.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request config: %w", err)
	}

	payload, err := json.Marshal(models.NewChatRequest(creq.Turns, creq.Config))
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(creq.Credential))

	log := c.logger.With().
		Str("model", creq.Config.Model).
		Int("turns", len(creq.Turns)).
		Logger()
	log.Debug().
		Float64("temperature", creq.Config.Temperature).
		Int("max_tokens", creq.Config.MaxTokens).
		Msg("completion request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = c.transportError(ctx, err)
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("completion transport failed")
		return nil, err
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := readBody(resp, maxErrorBody)
		apiErr := apierrors.NewAPIErrorWithBody(resp.StatusCode, c.endpoint, parseErrorMessage(body), string(body))
		log.Warn().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("completion rejected")
		return nil, apiErr
	}

	body, err := readBody(resp, -1)
	if err != nil {
		err = c.transportError(ctx, err)
		log.Error().Err(err).Msg("failed to read completion body")
		return nil, err
	}

	completion, err := parseCompletion(body)
	if err != nil {
		log.Error().Err(err).Int("bytes", len(body)).Msg("malformed completion body")
		return nil, err
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Str("finish_reason", completion.FinishReason).
		Int("total_tokens", completion.Usage.TotalTokens).
		Msg("completion received")

	return completion, nil
}

// readBody reads at most limit bytes of the response body; limit < 0 reads all
func readBody(resp *http.Response, limit int64) ([]byte, error) {
	if resp.Body == nil {
		return nil, nil
	}
	var r io.Reader = resp.Body
	if limit >= 0 {
		r = io.LimitReader(resp.Body, limit)
	}
	return io.ReadAll(r)
}

// transportError classifies a failure that happened before a full response
// was read
func (c *Client) transportError(ctx context.Context, err error) error {
	if isTimeout(err) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apierrors.NewTimeoutError(fmt.Sprintf("no response from %s within %s", c.endpoint, c.timeout))
	}
	return apierrors.NewNetworkErrorWithEndpoint("chat completion", c.endpoint, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	// tls-client flattens some transport errors into strings
	msg := err.Error()
	return strings.Contains(msg, "Client.Timeout") || strings.Contains(msg, "deadline exceeded")
}

// parseErrorMessage extracts the server's human-readable error text
func parseErrorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	return strings.TrimSpace(gjson.GetBytes(body, PathErrorMessage).String())
}

// parseCompletion extracts the first choice of a completion response
func parseCompletion(body []byte) (*models.Completion, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, apierrors.NewParseError("empty response body", "")
	}
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response body is not valid JSON", "")
	}

	content := gjson.GetBytes(body, PathContent)
	if !content.Exists() {
		return nil, apierrors.NewNoContentError("response has no completion choice", PathContent)
	}
	if content.Type != gjson.String {
		return nil, apierrors.NewParseError("completion content is not text", PathContent)
	}
	if strings.TrimSpace(content.String()) == "" {
		return nil, apierrors.NewNoContentError("completion content is empty", PathContent)
	}

	usage := gjson.GetBytes(body, PathUsage)
	return &models.Completion{
		ID:           gjson.GetBytes(body, PathID).String(),
		Model:        gjson.GetBytes(body, PathModel).String(),
		Content:      content.String(),
		FinishReason: gjson.GetBytes(body, PathFinishReason).String(),
		Usage: models.Usage{
			PromptTokens:     int(usage.Get("prompt_tokens").Int()),
			CompletionTokens: int(usage.Get("completion_tokens").Int()),
			TotalTokens:      int(usage.Get("total_tokens").Int()),
		},
	}, nil
}
