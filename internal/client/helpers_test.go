package client_test

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/stretchr/testify/mock"

	. "github.com/fivetwenty-io/jsonapi-client/internal/client"
	"github.com/fivetwenty-io/jsonapi-client/internal/serializer"
	"github.com/fivetwenty-io/jsonapi-client/pkg/jsonapi"
)

const testEndpoint = "https://api.example.com"

// Test static errors.
var (
	ErrTestConnectionRefused = errors.New("connection refused")
)

type article struct {
	jsonapi.Base

	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
}

func (*article) ResourceType() string { return "articles" }

type person struct {
	jsonapi.Base

	Name string `json:"name"`
}

func (*person) ResourceType() string { return "people" }

// MockGateway implements jsonapi.HTTPGateway for testing.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) response(args mock.Arguments) (*jsonapi.HTTPResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*jsonapi.HTTPResponse), args.Error(1)
}

func (m *MockGateway) Get(ctx context.Context, url string) (*jsonapi.HTTPResponse, error) {
	return m.response(m.Called(ctx, url))
}

func (m *MockGateway) Post(ctx context.Context, url string, body []byte) (*jsonapi.HTTPResponse, error) {
	return m.response(m.Called(ctx, url, body))
}

func (m *MockGateway) Put(ctx context.Context, url string, body []byte) (*jsonapi.HTTPResponse, error) {
	return m.response(m.Called(ctx, url, body))
}

func (m *MockGateway) Delete(ctx context.Context, url string) (*jsonapi.HTTPResponse, error) {
	return m.response(m.Called(ctx, url))
}

// MockSerializer implements jsonapi.Serializer for testing.
type MockSerializer struct {
	mock.Mock
}

func (m *MockSerializer) Serialize(resources []jsonapi.Resource) ([]byte, error) {
	args := m.Called(resources)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSerializer) Deserialize(payload json.RawMessage, store *jsonapi.Store) (*jsonapi.Document, error) {
	args := m.Called(payload, store)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*jsonapi.Document), args.Error(1)
}

func (m *MockSerializer) DeserializeError(payload []byte, statusCode int) error {
	return m.Called(payload, statusCode).Error(0)
}

func (m *MockSerializer) RegisterType(resourceType string, factory jsonapi.Factory) {
	m.Called(resourceType, factory)
}

func respond(status int, body string) *jsonapi.HTTPResponse {
	resp := &jsonapi.HTTPResponse{StatusCode: status}
	if body != "" {
		resp.Body = []byte(body)
	}

	return resp
}

// newTestClient creates a client over gateway with the real serializer and
// the test types registered.
func newTestClient(gateway jsonapi.HTTPGateway) *Client {
	client := NewWithGateway(testEndpoint, gateway, serializer.New(), nil)
	client.RegisterType("articles", func() jsonapi.Resource { return &article{} })
	client.RegisterType("people", func() jsonapi.Resource { return &person{} })

	return client
}
