// Package untappd provides types, interfaces, and helpers for working with the
// Untappd v4 API.
//
// # Overview
//
// The untappd package defines the credential and envelope types, the error
// taxonomy, the endpoint table and the interfaces of the client. A concrete
// implementation is provided by the untappdclient package, which validates
// configuration and wires transport, credentials and endpoints.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//	  "net/url"
//
//	  "github.com/fivetwenty-io/untappd/pkg/untappd"
//	  "github.com/fivetwenty-io/untappd/pkg/untappdclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := untappdclient.New(&untappd.Config{ClientID: "id", ClientSecret: "secret"})
//	  if err != nil { log.Fatal(err) }
//
//	  info, err := cli.Beer().Action(ctx, "info", "16630", nil)
//	  if err != nil { log.Fatal(err) }
//	  _ = info
//
//	  found, err := cli.Beer().Search(ctx, "ipa", url.Values{"limit": {"5"}})
//	  if err != nil { log.Fatal(err) }
//	  _ = found
//	}
//
// # Envelopes
//
// Every reply is an Envelope holding the meta block and the raw response
// payload. Use Envelope.Decode to unmarshal the payload into your own types.
//
// # Errors
//
// Failures are reported as APIError, MalformedResponseError or
// TransportError. Match kinds with errors.Is against ErrInvalidAuth, ErrAPI,
// ErrMalformedResponse, ErrTransport, ErrNotSearchable and ErrConfiguration,
// or use helpers such as IsInvalidAuth.
//
// # Retries
//
// Requests are tried three times with a one second pause. invalid_auth
// failures are returned on the first attempt.
package untappd
