// Package jsonapi provides types, interfaces, and helpers for working with
// JSON:API style hypermedia APIs.
//
// # Overview
//
// The jsonapi package defines the resource model (Resource, Base, Generic),
// queries (Query), the URL router (CollectionURL, ResourceURL, QueryURL) and
// the interfaces of the client and of its collaborators (HTTPGateway,
// Serializer). A concrete client is provided by the jsonapiclient package,
// which wires configuration, transport, authentication and the JSON:API
// serializer.
//
// Defining a resource
//
//	type Article struct {
//	  jsonapi.Base
//	  Title string `json:"title"`
//	}
//
//	func (*Article) ResourceType() string { return "articles" }
//
// Getting a client
//
//	ctx := context.Background()
//	cli, err := jsonapiclient.New(ctx, &jsonapi.Config{Endpoint: "https://api.example.com"})
//	if err != nil { log.Fatal(err) }
//
//	cli.RegisterType("articles", func() jsonapi.Resource { return &Article{} })
//
//	article := &Article{Title: "Hello"}
//	if _, err := cli.Save(ctx, article); err != nil { log.Fatal(err) }
//	// article.ID now holds the server's ID.
//
// # Identity
//
// A resource without an ID is new; saving it POSTs to {endpoint}/{type} after
// assigning a client-generated UUID. The server's response is merged onto the
// same instance, so callers keep their reference. A resource with an ID is
// saved with a PUT to {endpoint}/{type}/{id}, or to its location when one is
// set.
//
// # Queries
//
//	q := jsonapi.NewQuery("articles", "1", "2").WithInclude("author")
//	articles, err := cli.FetchForQuery(ctx, q)
//
// Sideloaded resources of other types are decoded, linked, and left out of
// the result.
//
// # Errors
//
// Transport failures are TransportError, non-2xx responses are
// ResponseError, and requests that cannot be issued (or results that cannot
// be used) are PreconditionError. Helpers such as IsNotFound, IsTransport and
// StatusCode make it easy to branch on them.
//
// # Concurrency
//
// Every call works on its own state, and every operation has an Async
// variant returning a Future that resolves exactly once. Concurrent saves of
// the same instance are not synchronised; callers must order them.
package jsonapi
