// Package untappdclient provides the primary entry point for constructing an
// Untappd v4 API client that implements the untappd.Client interface.
//
// It validates credentials and normalizes URLs, then wires the requester,
// the credential manager, OAuth and the endpoint table defined in the
// untappd package.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/untappd/pkg/untappd"
//	  "github.com/fivetwenty-io/untappd/pkg/untappdclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Userless: app credentials only.
//	  cli, err := untappdclient.NewWithClientCredentials("client-id", "client-secret")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with a user's access token:
//	  cli, err = untappdclient.NewWithToken("access-token")
//	  if err != nil { log.Fatal(err) }
//
//	  checkins, err := cli.User().Action(ctx, "checkins", "someone", nil)
//	  if err != nil { log.Fatal(err) }
//	  _ = checkins
//	}
//
// # OAuth
//
// Send users to cli.OAuth().AuthURL(), exchange the returned code with
// cli.OAuth().AccessToken(ctx, code) and call cli.SetAccessToken to switch the
// client to user mode.
package untappdclient
