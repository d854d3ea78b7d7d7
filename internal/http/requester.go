// Package http performs authenticated, retried requests against the Untappd
// API and turns response envelopes into values or classified errors.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/untappd/internal/constants"
	"github.com/fivetwenty-io/untappd/pkg/untappd"
)

// Static errors for err113 compliance.
var (
	ErrUnsupportedMethod = errors.New("unsupported HTTP method")
	ErrNoCredentials     = errors.New("no credential source configured")
)

// CredentialSource yields the credentials attached to each request.
type CredentialSource interface {
	Credentials() untappd.Credentials
}

// Requester performs authenticated HTTP calls with bounded retry.
type Requester struct {
	client       *retryablehttp.Client
	credentials  CredentialSource
	logger       untappd.Logger
	interceptors *untappd.InterceptorChain
	userAgent    string
	debug        bool
	attempts     int
	retryWait    time.Duration
	timeout      time.Duration
}

// Option configures a Requester.
type Option func(*Requester)

// WithLogger sets the logger.
func WithLogger(logger untappd.Logger) Option {
	return func(r *Requester) {
		r.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(r *Requester) {
		r.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(r *Requester) {
		r.userAgent = userAgent
	}
}

// WithRetryConfig sets the total number of attempts and the pause between them.
func WithRetryConfig(attempts int, wait time.Duration) Option {
	return func(r *Requester) {
		if attempts > 0 {
			r.attempts = attempts
		}

		if wait >= 0 {
			r.retryWait = wait
		}
	}
}

// WithTimeout bounds each attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Requester) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithInterceptors runs chain around every request.
func WithInterceptors(chain *untappd.InterceptorChain) Option {
	return func(r *Requester) {
		r.interceptors = chain
	}
}

// NewRequester creates a requester reading credentials from credentials.
func NewRequester(credentials CredentialSource, opts ...Option) *Requester {
	requester := &Requester{
		credentials: credentials,
		attempts:    constants.DefaultRequestAttempts,
		retryWait:   constants.DefaultRetryWait,
		timeout:     constants.DefaultHTTPTimeout,
	}

	for _, opt := range opts {
		opt(requester)
	}

	requester.client = requester.newRetryClient()

	return requester
}

// Attempts returns the number of tries per request.
func (r *Requester) Attempts() int {
	return r.attempts
}

// RetryWait returns the pause between two tries.
func (r *Requester) RetryWait() time.Duration {
	return r.retryWait
}

func (r *Requester) newRetryClient() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = r.timeout
	client.RetryMax = r.attempts - 1
	client.RetryWaitMin = r.retryWait
	client.RetryWaitMax = r.retryWait
	client.Backoff = fixedBackoff
	client.CheckRetry = r.checkRetry
	client.RequestLogHook = recordAttempt
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	// retryablehttp logs to stderr unless told otherwise.
	client.Logger = nil
	if r.logger != nil {
		client.Logger = &leveledLogger{logger: r.logger}
	}

	return client
}

// fixedBackoff waits the same amount before every retry.
func fixedBackoff(minWait, _ time.Duration, _ int, _ *nethttp.Response) time.Duration {
	return minWait
}

// Get issues a GET with payload as query parameters.
func (r *Requester) Get(ctx context.Context, rawURL string, payload url.Values) (*untappd.Envelope, error) {
	return r.Do(ctx, &untappd.Request{Method: nethttp.MethodGet, URL: rawURL, Payload: payload})
}

// Post issues a POST with payload as a form body.
func (r *Requester) Post(ctx context.Context, rawURL string, payload url.Values) (*untappd.Envelope, error) {
	return r.Do(ctx, &untappd.Request{Method: nethttp.MethodPost, URL: rawURL, Payload: payload})
}

// Do performs req, retrying failed attempts, and returns the decoded envelope.
func (r *Requester) Do(ctx context.Context, req *untappd.Request) (*untappd.Envelope, error) {
	if req.Method == "" {
		local := *req
		local.Method = nethttp.MethodGet
		req = &local
	}

	payload, err := r.payload(req)
	if err != nil {
		return nil, err
	}

	if r.interceptors != nil {
		err = r.interceptors.ExecuteRequestInterceptors(ctx, req)
		if err != nil {
			return nil, err
		}
	}

	if r.debug && r.logger != nil {
		r.logger.Debug("HTTP Request", map[string]interface{}{
			"method":  req.Method,
			"url":     req.URL,
			"payload": maskPayload(payload).Encode(),
		})
	}

	state := &attemptState{requester: r}
	ctx = context.WithValue(ctx, attemptStateKey{}, state)

	httpReq, err := newHTTPRequest(ctx, req, payload, r.userAgent)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(httpReq)
	if resp != nil {
		_ = resp.Body.Close()
	}

	envelope, err := state.result(ctx, req, err)

	if r.debug && r.logger != nil {
		r.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         req.URL,
			"status_code": state.statusCode,
			"attempts":    state.attempts,
		})
	}

	if r.interceptors != nil {
		interceptErr := r.interceptors.ExecuteResponseInterceptors(ctx, req, &untappd.Response{
			StatusCode: state.statusCode,
			Headers:    state.headers,
			Body:       state.body,
			Error:      err,
			Attempts:   state.attempts,
		})
		if interceptErr != nil && err == nil {
			return nil, interceptErr
		}
	}

	if err != nil {
		return nil, err
	}

	return envelope, nil
}

// payload copies the request payload and adds the current credentials.
func (r *Requester) payload(req *untappd.Request) (url.Values, error) {
	payload := url.Values{}
	for key, values := range req.Payload {
		payload[key] = append([]string(nil), values...)
	}

	if req.SkipCredentials {
		return payload, nil
	}

	if r.credentials == nil {
		return nil, ErrNoCredentials
	}

	return Enrich(payload, r.credentials.Credentials()), nil
}

// Enrich adds the credentials of the active mode to payload.
func Enrich(payload url.Values, creds untappd.Credentials) url.Values {
	if creds.Userless() {
		payload.Set(constants.ParamClientID, creds.ClientID)
		payload.Set(constants.ParamClientSecret, creds.ClientSecret)
	} else {
		payload.Set(constants.ParamAccessToken, creds.AccessToken)
	}

	return payload
}

func newHTTPRequest(ctx context.Context, req *untappd.Request, payload url.Values, userAgent string) (*retryablehttp.Request, error) {
	var (
		httpReq *retryablehttp.Request
		err     error
	)

	switch strings.ToUpper(req.Method) {
	case nethttp.MethodGet:
		target, parseErr := url.Parse(req.URL)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing request URL: %w", parseErr)
		}

		query := target.Query()
		for key, values := range payload {
			query[key] = values
		}

		target.RawQuery = query.Encode()

		httpReq, err = retryablehttp.NewRequestWithContext(ctx, nethttp.MethodGet, target.String(), nil)
	case nethttp.MethodPost:
		httpReq, err = retryablehttp.NewRequestWithContext(ctx, nethttp.MethodPost, req.URL, []byte(payload.Encode()))
		if err == nil {
			httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, req.Method)
	}

	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")

	if userAgent != "" {
		httpReq.Header.Set("User-Agent", userAgent)
	}

	for key, values := range req.Headers {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	return httpReq, nil
}

// Classify decodes body and applies the envelope rules for status.
//
// Only invalid JSON is malformed on a 200 status; any valid body is returned
// with a best-effort meta. Any other status needs a meta object; meta codes
// 200 and 409 are still successes, everything else is an *untappd.APIError
// classified by meta.error_type.
func Classify(statusCode int, body []byte) (*untappd.Envelope, error) {
	var raw json.RawMessage

	err := json.Unmarshal(body, &raw)
	if err != nil {
		return nil, &untappd.MalformedResponseError{Err: err}
	}

	envelope := &untappd.Envelope{Raw: append(json.RawMessage(nil), body...)}

	// Non-object bodies leave fields empty.
	var fields map[string]json.RawMessage
	_ = json.Unmarshal(body, &fields)

	rawMeta, hasMeta := fields["meta"]
	envelope.Meta = decodeMeta(rawMeta)

	if response, ok := fields["response"]; ok && string(response) != "null" {
		envelope.Response = response
	}

	if statusCode == nethttp.StatusOK {
		return envelope, nil
	}

	if !hasMeta {
		return nil, &untappd.MalformedResponseError{Reason: "Response format invalid, missing meta property"}
	}

	if envelope.Meta == nil {
		return nil, &untappd.MalformedResponseError{Reason: "Response format invalid, meta property is not an object"}
	}

	switch envelope.Meta.Code {
	case constants.MetaCodeOK, constants.MetaCodeConflict:
		return envelope, nil
	}

	return nil, untappd.NewAPIError(statusCode, envelope.Meta)
}

// decodeMeta reads a meta object field by field. A code that is not an
// integral number reads as zero; non-string error fields read as empty.
func decodeMeta(raw json.RawMessage) *untappd.Meta {
	var fields map[string]json.RawMessage
	if json.Unmarshal(raw, &fields) != nil || fields == nil {
		return nil
	}

	meta := &untappd.Meta{}

	var code float64
	if json.Unmarshal(fields["code"], &code) == nil && code == math.Trunc(code) && math.Abs(code) <= math.MaxInt32 {
		meta.Code = int(code)
	}

	_ = json.Unmarshal(fields["error_type"], &meta.ErrorType)
	_ = json.Unmarshal(fields["error_detail"], &meta.ErrorDetail)

	return meta
}

// checkRetry classifies every attempt and decides whether to try again.
func (r *Requester) checkRetry(ctx context.Context, resp *nethttp.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	state := attemptStateFrom(ctx)
	if state == nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}

	attemptErr := state.record(resp, err)
	if attemptErr == nil {
		return false, nil
	}

	if !untappd.Retryable(attemptErr) {
		return false, nil
	}

	if r.logger != nil && state.attempts < r.attempts {
		r.logger.Warn("request attempt failed", map[string]interface{}{
			"attempt": state.attempts,
			"of":      r.attempts,
			"error":   attemptErr.Error(),
		})
	}

	return true, nil
}

// maskPayload hides secrets before logging.
func maskPayload(payload url.Values) url.Values {
	masked := url.Values{}

	for key, values := range payload {
		switch key {
		case constants.ParamClientSecret, constants.ParamAccessToken, constants.ParamCode:
			masked.Set(key, constants.MaskedSecret)
		default:
			masked[key] = values
		}
	}

	return masked
}

// MaskURL hides secrets carried in the query string of rawURL.
func MaskURL(rawURL string) string {
	target, err := url.Parse(rawURL)
	if err != nil || target.RawQuery == "" {
		return rawURL
	}

	target.RawQuery = maskPayload(target.Query()).Encode()

	return target.String()
}

type attemptStateKey struct{}

// attemptState carries the outcome of the latest attempt of one Do call.
type attemptState struct {
	requester  *Requester
	attempts   int
	statusCode int
	headers    nethttp.Header
	body       []byte
	envelope   *untappd.Envelope
	err        error
}

func attemptStateFrom(ctx context.Context) *attemptState {
	state, _ := ctx.Value(attemptStateKey{}).(*attemptState)

	return state
}

// recordAttempt is a retryablehttp.RequestLogHook counting attempts.
func recordAttempt(_ retryablehttp.Logger, req *nethttp.Request, attempt int) {
	if state := attemptStateFrom(req.Context()); state != nil {
		state.attempts = attempt + 1
	}
}

// record stores the outcome of one attempt and returns its error.
func (s *attemptState) record(resp *nethttp.Response, err error) error {
	s.envelope = nil
	s.statusCode = 0
	s.headers = nil
	s.body = nil

	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = MaskURL(urlErr.URL)
		}

		s.err = &untappd.TransportError{Err: err, Attempt: s.attempts}

		return s.err
	}

	s.statusCode = resp.StatusCode
	s.headers = resp.Header

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		s.err = &untappd.TransportError{Err: fmt.Errorf("reading response body: %w", readErr), Attempt: s.attempts}

		return s.err
	}

	s.body = body
	resp.Body = io.NopCloser(bytes.NewReader(body))

	s.envelope, s.err = Classify(resp.StatusCode, body)

	var apiErr *untappd.APIError
	if errors.As(s.err, &apiErr) && !apiErr.Known() && s.requester.logger != nil {
		s.requester.logger.Error("Unknown error type", map[string]interface{}{
			"error_type":   apiErr.Type,
			"error_detail": apiErr.Detail,
			"status_code":  resp.StatusCode,
		})
	}

	return s.err
}

// result returns the outcome of the last attempt once retries are over.
func (s *attemptState) result(ctx context.Context, req *untappd.Request, doErr error) (*untappd.Envelope, error) {
	if doErr != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL, ctx.Err())
		}

		transportErr := &untappd.TransportError{}
		if !errors.As(s.err, &transportErr) {
			transportErr = &untappd.TransportError{Err: doErr}
		}

		transportErr.Method = req.Method
		transportErr.URL = req.URL
		transportErr.Attempt = s.attempts

		return nil, transportErr
	}

	if s.err != nil {
		var transportErr *untappd.TransportError
		if errors.As(s.err, &transportErr) {
			transportErr.Method = req.Method
			transportErr.URL = req.URL
		}

		return nil, s.err
	}

	return s.envelope, nil
}
