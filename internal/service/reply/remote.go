package reply

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// QueryRequest is the body sent to the question-answering service.
type QueryRequest struct {
	Question string `json:"question"`
}

// QueryResponse is the body expected back. Response must be present.
type QueryResponse struct {
	Response *string `json:"response"`
}

// Remote delegates every question to an external service over HTTP.
// One attempt is made per question; there is no retry.
type Remote struct {
	httpClient *resty.Client
	log        zerolog.Logger
}

// NewRemote creates a Resty-backed resolver for baseURL.
func NewRemote(baseURL string, timeout time.Duration, log zerolog.Logger) *Remote {
	return &Remote{
		httpClient: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json").
			SetTimeout(timeout),
		log: log.With().Str("component", "reply.remote").Logger(),
	}
}

// Ask posts question to /query. Every failure wraps ErrReplyUnavailable.
func (r *Remote) Ask(ctx context.Context, question string) (string, error) {
	resp, err := r.httpClient.R().
		SetContext(ctx).
		SetBody(QueryRequest{Question: question}).
		Post("/query")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReplyUnavailable, err)
	}

	if status := resp.StatusCode(); status < 200 || status > 299 {
		return "", fmt.Errorf("%w: status %d", ErrReplyUnavailable, status)
	}

	var payload QueryResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrReplyUnavailable, err)
	}
	if payload.Response == nil {
		return "", fmt.Errorf("%w: response field missing", ErrReplyUnavailable)
	}
	if strings.TrimSpace(*payload.Response) == "" {
		return "", fmt.Errorf("%w: empty response", ErrReplyUnavailable)
	}

	return *payload.Response, nil
}

// Resolve returns the service's answer, or FallbackText when it cannot be reached.
func (r *Remote) Resolve(ctx context.Context, req Request) string {
	answer, err := r.Ask(ctx, req.Text)
	if err != nil {
		r.log.Warn().Err(err).Msg("assistant service unreachable, using fallback")
		return FallbackText
	}
	return answer
}
