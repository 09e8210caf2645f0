package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/fivetwenty-io/jsonapi-client/internal/constants"
	"github.com/fivetwenty-io/jsonapi-client/pkg/jsonapi"
)

// Save implements jsonapi.Writer.Save.
//
// A new resource gets a client-generated UUID before the request is sent.
// The ID is kept when the request fails.
func (c *Client) Save(ctx context.Context, r jsonapi.Resource) (jsonapi.Resource, error) {
	if r == nil {
		return nil, &jsonapi.PreconditionError{Op: "saving resource", Err: jsonapi.ErrNilResource}
	}

	if r.ResourceType() == "" {
		return nil, &jsonapi.PreconditionError{Op: "saving resource", Err: jsonapi.ErrNoResourceType}
	}

	payload, err := c.serializer.Serialize([]jsonapi.Resource{r})
	if err != nil {
		return nil, fmt.Errorf("serializing %s: %w", r.ResourceType(), err)
	}

	var (
		method     string
		requestURL string
		operation  string
		resp       *jsonapi.HTTPResponse
	)

	if r.ResourceID() == "" {
		r.SetResourceID(uuid.NewString())

		method = http.MethodPost
		requestURL = jsonapi.CollectionURL(c.endpoint, r)
		operation = constants.OperationCreate
	} else {
		requestURL, err = jsonapi.ResourceURL(c.endpoint, r)
		if err != nil {
			return nil, err
		}

		method = http.MethodPut
		operation = constants.OperationUpdate
	}

	c.debug("Saving resource", map[string]interface{}{
		"operation": operation,
		"method":    method,
		"url":       requestURL,
		"resource":  jsonapi.IdentifierOf(r).String(),
	})

	if method == http.MethodPost {
		resp, err = c.gateway.Post(ctx, requestURL, payload)
	} else {
		resp, err = c.gateway.Put(ctx, requestURL, payload)
	}

	if err != nil {
		return nil, &jsonapi.TransportError{Method: method, URL: requestURL, Err: err}
	}

	if !resp.IsSuccess() {
		return nil, c.serializer.DeserializeError(resp.Body, resp.StatusCode)
	}

	if len(resp.Body) > 0 {
		err = c.merge(r, resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", operation, jsonapi.IdentifierOf(r), err)
		}
	}

	r.Relationships().MarkClean()

	c.debug("Saved resource", map[string]interface{}{
		"operation":   operation,
		"resource":    jsonapi.IdentifierOf(r).String(),
		"status_code": resp.StatusCode,
	})

	return r, nil
}

// merge decodes body onto r.
func (c *Client) merge(r jsonapi.Resource, body []byte) error {
	if !json.Valid(body) {
		return jsonapi.ErrMalformedResponse
	}

	_, err := c.serializer.Deserialize(body, jsonapi.NewStore(r))
	if err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}

	return nil
}

// Delete implements jsonapi.Writer.Delete.
func (c *Client) Delete(ctx context.Context, r jsonapi.Resource) error {
	if r == nil {
		return &jsonapi.PreconditionError{Op: "deleting resource", Err: jsonapi.ErrNilResource}
	}

	if r.ResourceType() == "" && r.ResourceLocation() == "" {
		return &jsonapi.PreconditionError{Op: "deleting resource", Err: jsonapi.ErrNoResourceType}
	}

	requestURL, err := jsonapi.ResourceURL(c.endpoint, r)
	if err != nil {
		return err
	}

	c.debug("Deleting resource", map[string]interface{}{
		"operation": constants.OperationDelete,
		"url":       requestURL,
	})

	resp, err := c.gateway.Delete(ctx, requestURL)
	if err != nil {
		return &jsonapi.TransportError{Method: http.MethodDelete, URL: requestURL, Err: err}
	}

	if !resp.IsSuccess() {
		return c.serializer.DeserializeError(resp.Body, resp.StatusCode)
	}

	return nil
}
