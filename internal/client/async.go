package client

import (
	"context"

	"github.com/fivetwenty-io/jsonapi-client/pkg/jsonapi"
)

// FetchByTypeAndIDAsync implements jsonapi.AsyncClient.
func (c *Client) FetchByTypeAndIDAsync(ctx context.Context, resourceType, id string) *jsonapi.Future[jsonapi.Resource] {
	return jsonapi.Go(ctx, func(ctx context.Context) (jsonapi.Resource, error) {
		return c.FetchByTypeAndID(ctx, resourceType, id)
	})
}

// FetchRelatedAsync implements jsonapi.AsyncClient.
func (c *Client) FetchRelatedAsync(ctx context.Context, relationship string, of jsonapi.Resource) *jsonapi.Future[[]jsonapi.Resource] {
	return jsonapi.Go(ctx, func(ctx context.Context) ([]jsonapi.Resource, error) {
		return c.FetchRelated(ctx, relationship, of)
	})
}

// FetchForQueryAsync implements jsonapi.AsyncClient.
func (c *Client) FetchForQueryAsync(ctx context.Context, q *jsonapi.Query) *jsonapi.Future[[]jsonapi.Resource] {
	return jsonapi.Go(ctx, func(ctx context.Context) ([]jsonapi.Resource, error) {
		return c.FetchForQuery(ctx, q)
	})
}

// SaveAsync implements jsonapi.AsyncClient.
func (c *Client) SaveAsync(ctx context.Context, r jsonapi.Resource) *jsonapi.Future[jsonapi.Resource] {
	return jsonapi.Go(ctx, func(ctx context.Context) (jsonapi.Resource, error) {
		return c.Save(ctx, r)
	})
}

// DeleteAsync implements jsonapi.AsyncClient.
func (c *Client) DeleteAsync(ctx context.Context, r jsonapi.Resource) *jsonapi.Future[struct{}] {
	return jsonapi.Go(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.Delete(ctx, r)
	})
}
