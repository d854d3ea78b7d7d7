package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/untappd/pkg/untappd"
)

// missingEndpoint stands in for an accessor whose entry is absent from a
// custom endpoint table.
type missingEndpoint struct {
	name string
}

func (m missingEndpoint) Spec() untappd.EndpointSpec {
	return untappd.EndpointSpec{Name: m.name}
}

func (m missingEndpoint) Action(context.Context, string, string, url.Values) (*untappd.Envelope, error) {
	return nil, m.err()
}

func (m missingEndpoint) Call(context.Context, string, url.Values) (*untappd.Envelope, error) {
	return nil, m.err()
}

func (m missingEndpoint) Search(context.Context, string, url.Values) (*untappd.Envelope, error) {
	return nil, m.err()
}

func (m missingEndpoint) err() error {
	return fmt.Errorf("%w: %s", untappd.ErrUnknownEndpoint, m.name)
}
