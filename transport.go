package leebox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/palemoky/leebox/internal/apperrors"
)

const (
	headerAPIKey    = "X-Api-Key"
	headerRequestID = "X-Request-Id"
)

type request struct {
	method    string
	path      string // escaped, relative to the session address
	query     url.Values
	body      any // JSON encoded when non-nil
	secretKey string
}

func roomPath(roomID string, elems ...string) string {
	p := "/" + url.PathEscape(roomID)
	for _, e := range elems {
		p += "/" + url.PathEscape(e)
	}
	return p
}

func timeoutQuery(seconds int) url.Values {
	return url.Values{"timeoutSeconds": {strconv.Itoa(seconds)}}
}

// do performs one round trip and returns the response body of a 2xx answer.
func (s *Session) do(ctx context.Context, req request) ([]byte, error) {
	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", req.path, err)
		}
		body = bytes.NewReader(data)
	}

	endpoint := s.Address() + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", req.method, req.path, err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	httpReq.Header.Set(headerRequestID, requestID)
	if req.secretKey != "" {
		httpReq.Header.Set(headerAPIKey, req.secretKey)
	}

	start := time.Now()
	resp, err := s.client.Do(httpReq)
	if err != nil {
		s.log.Debug("request failed", "method", req.method, "path", req.path, "request_id", requestID, "err", err)
		return nil, &apperrors.TransportError{Method: req.method, Path: req.path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	s.log.Debug("request",
		"method", req.method,
		"path", req.path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start).Round(time.Millisecond),
		"request_id", requestID,
	)
	if err != nil {
		return nil, &apperrors.TransportError{Method: req.method, Path: req.path, Err: err}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, apperrors.NewHTTPError(req.method, req.path, resp.StatusCode, data)
	}
	return data, nil
}

// doJSON decodes the response into out. An empty body leaves out untouched.
func (s *Session) doJSON(ctx context.Context, req request, out any) error {
	data, err := s.do(ctx, req)
	if err != nil {
		return err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.method, req.path, err)
	}
	return nil
}

// decodeAnswer unwraps a single-player answer. The service answers with a JSON
// string; anything else is returned as sent.
func decodeAnswer(data []byte) string {
	data = bytes.TrimSpace(data)
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s
	}
	return string(data)
}
