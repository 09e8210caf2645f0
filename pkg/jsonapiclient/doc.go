// Package jsonapiclient constructs clients that implement jsonapi.Client.
//
// It wires the HTTP transport, authentication and the JSON:API document
// serializer behind the interfaces defined in the jsonapi package. Each call
// to New returns an independent client; there is no shared default instance.
//
// Quick start
//
//	ctx := context.Background()
//
//	// Minimal: just an endpoint (no auth).
//	cli, err := jsonapiclient.New(ctx, &jsonapi.Config{Endpoint: "https://api.example.com"})
//	if err != nil { log.Fatal(err) }
//
//	// Or with an access token you already have:
//	cli, err = jsonapiclient.NewWithToken(ctx, "https://api.example.com", "eyJhbGciOi...")
//
//	// Or with client credentials:
//	cli, err = jsonapiclient.New(ctx, &jsonapi.Config{
//	  Endpoint:     "https://api.example.com",
//	  ClientID:     "client-id",
//	  ClientSecret: "client-secret",
//	})
//
//	cli.RegisterType("articles", func() jsonapi.Resource { return &Article{} })
//	article, err := cli.FetchByTypeAndID(ctx, "articles", "1")
//
// # Endpoint normalization
//
// A trailing slash is removed and "https://" is assumed when the endpoint has
// no scheme, so "api.example.com/" becomes "https://api.example.com".
package jsonapiclient
