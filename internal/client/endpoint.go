package client

import (
	"context"
	"fmt"
	nethttp "net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/fivetwenty-io/untappd/internal/constants"
	"github.com/fivetwenty-io/untappd/internal/http"
	"github.com/fivetwenty-io/untappd/pkg/untappd"
)

var _ untappd.Endpoint = (*EndpointClient)(nil)

// EndpointClient implements untappd.Endpoint for one registry entry.
type EndpointClient struct {
	requester *http.Requester
	baseURL   string
	spec      untappd.EndpointSpec
}

// NewEndpointClient creates an endpoint client rooted at baseURL.
func NewEndpointClient(requester *http.Requester, baseURL string, spec untappd.EndpointSpec) *EndpointClient {
	return &EndpointClient{
		requester: requester,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		spec:      spec,
	}
}

// Spec implements untappd.Endpoint.Spec.
func (c *EndpointClient) Spec() untappd.EndpointSpec {
	return c.spec
}

// Action implements untappd.Endpoint.Action.
func (c *EndpointClient) Action(ctx context.Context, action, id string, params url.Values) (*untappd.Envelope, error) {
	method, ok := c.spec.Method(action)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", untappd.ErrUnknownAction, c.spec.Name, action)
	}

	envelope, err := c.requester.Do(ctx, &untappd.Request{
		Method:  method,
		URL:     c.buildURL(c.spec.Path, action, escapeID(id)),
		Payload: params,
	})
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", c.spec.Name, action, err)
	}

	return envelope, nil
}

// Call implements untappd.Endpoint.Call.
func (c *EndpointClient) Call(ctx context.Context, id string, params url.Values) (*untappd.Envelope, error) {
	if !c.spec.Callable {
		return nil, fmt.Errorf("%w: %s", untappd.ErrNotCallable, c.spec.Name)
	}

	envelope, err := c.requester.Do(ctx, &untappd.Request{
		Method:  nethttp.MethodGet,
		URL:     c.buildURL(c.spec.Path, escapeID(id)),
		Payload: params,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.spec.Name, err)
	}

	return envelope, nil
}

// Search implements untappd.Endpoint.Search. Options outside the endpoint's
// whitelist are dropped.
func (c *EndpointClient) Search(ctx context.Context, query string, opts url.Values) (*untappd.Envelope, error) {
	if !c.spec.Searchable {
		return nil, fmt.Errorf("%w: %s", untappd.ErrNotSearchable, c.spec.Name)
	}

	envelope, err := c.requester.Do(ctx, &untappd.Request{
		Method:  nethttp.MethodGet,
		URL:     c.buildURL("search", c.spec.Path),
		Payload: SearchPayload(c.spec, query, opts),
	})
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", c.spec.Name, err)
	}

	return envelope, nil
}

// SearchPayload builds q=query plus the whitelisted options present in opts.
func SearchPayload(spec untappd.EndpointSpec, query string, opts url.Values) url.Values {
	payload := url.Values{}
	payload.Set(constants.ParamQuery, query)

	for key, values := range opts {
		if slices.Contains(spec.SearchOptions, key) && len(values) > 0 {
			payload[key] = append([]string(nil), values...)
		}
	}

	return payload
}

// buildURL joins the base URL with the non-empty parts.
func (c *EndpointClient) buildURL(parts ...string) string {
	segments := []string{c.baseURL}

	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}

	return strings.Join(segments, "/")
}

func escapeID(id string) string {
	if id == "" {
		return ""
	}

	return url.PathEscape(id)
}
