package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fivetwenty-io/jsonapi-client/internal/constants"
	"github.com/fivetwenty-io/jsonapi-client/pkg/jsonapi"
)

// FetchByTypeAndID implements jsonapi.Fetcher.FetchByTypeAndID.
func (c *Client) FetchByTypeAndID(ctx context.Context, resourceType, id string) (jsonapi.Resource, error) {
	if resourceType == "" {
		return nil, &jsonapi.PreconditionError{Op: "fetching resource", Err: jsonapi.ErrNoResourceType}
	}

	if id == "" {
		return nil, &jsonapi.PreconditionError{Op: "fetching " + resourceType, Err: jsonapi.ErrNoResourceID}
	}

	resources, err := c.FetchForQuery(ctx, jsonapi.NewQuery(resourceType, id))
	if err != nil {
		return nil, err
	}

	if len(resources) == 0 {
		return nil, &jsonapi.PreconditionError{
			Op:  fmt.Sprintf("fetching %s/%s", resourceType, id),
			Err: jsonapi.ErrResourceNotFound,
		}
	}

	return resources[0], nil
}

// FetchRelated implements jsonapi.Fetcher.FetchRelated.
func (c *Client) FetchRelated(ctx context.Context, relationship string, of jsonapi.Resource) ([]jsonapi.Resource, error) {
	if relationship == "" {
		return nil, &jsonapi.PreconditionError{Op: "fetching related resources", Err: jsonapi.ErrNoRelationship}
	}

	return c.FetchForQuery(ctx, jsonapi.NewRelatedQuery(of, relationship))
}

// FetchForQuery implements jsonapi.Fetcher.FetchForQuery.
func (c *Client) FetchForQuery(ctx context.Context, q *jsonapi.Query) ([]jsonapi.Resource, error) {
	requestURL, err := jsonapi.QueryURL(c.endpoint, q)
	if err != nil {
		return nil, err
	}

	c.debug("Fetching resources", map[string]interface{}{
		"operation": constants.OperationFetch,
		"url":       requestURL,
		"type":      q.Type,
	})

	resp, err := c.gateway.Get(ctx, requestURL)
	if err != nil {
		return nil, &jsonapi.TransportError{Method: http.MethodGet, URL: requestURL, Err: err}
	}

	if !resp.IsSuccess() {
		return nil, c.serializer.DeserializeError(resp.Body, resp.StatusCode)
	}

	if len(resp.Body) == 0 {
		return nil, fmt.Errorf("fetching %s: %w", requestURL, jsonapi.ErrEmptyResponse)
	}

	if !json.Valid(resp.Body) {
		return nil, fmt.Errorf("fetching %s: %w", requestURL, jsonapi.ErrMalformedResponse)
	}

	doc, err := c.serializer.Deserialize(resp.Body, jsonapi.NewStore())
	if err != nil {
		return nil, fmt.Errorf("parsing response of %s: %w", requestURL, err)
	}

	resources := selectType(doc, q.Type)

	c.debug("Fetched resources", map[string]interface{}{
		"url":   requestURL,
		"count": len(resources),
	})

	return resources, nil
}

// selectType returns the resources of the document with the given type, each
// instance once. Without a type the primary data is returned.
func selectType(doc *jsonapi.Document, resourceType string) []jsonapi.Resource {
	if resourceType == "" {
		return doc.Data
	}

	seen := make(map[jsonapi.Resource]bool)
	result := make([]jsonapi.Resource, 0, len(doc.Data))

	for _, r := range doc.All() {
		if r.ResourceType() != resourceType || seen[r] {
			continue
		}

		seen[r] = true
		result = append(result, r)
	}

	return result
}
