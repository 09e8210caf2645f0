package jsonapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Fetcher reads resources.
type Fetcher interface {
	// FetchByTypeAndID returns the resource of the given type and ID.
	FetchByTypeAndID(ctx context.Context, resourceType, id string) (Resource, error)
	// FetchRelated returns the resources linked from of through relationship.
	FetchRelated(ctx context.Context, relationship string, of Resource) ([]Resource, error)
	// FetchForQuery returns the resources matching q whose type is q.Type.
	FetchForQuery(ctx context.Context, q *Query) ([]Resource, error)
}

// Writer creates, updates and deletes resources.
//
// Writer does not serialize concurrent calls on the same instance: two
// simultaneous Saves of one resource race on its ID and attributes. Callers
// must order their own writes to a resource.
type Writer interface {
	// Save creates r when it has no ID, or updates it otherwise, and merges
	// the server's response onto r. The returned resource is r itself.
	Save(ctx context.Context, r Resource) (Resource, error)
	// Delete deletes r on the server. r itself is left unchanged.
	Delete(ctx context.Context, r Resource) error
}

// AsyncClient exposes every operation as a Future.
type AsyncClient interface {
	FetchByTypeAndIDAsync(ctx context.Context, resourceType, id string) *Future[Resource]
	FetchRelatedAsync(ctx context.Context, relationship string, of Resource) *Future[[]Resource]
	FetchForQueryAsync(ctx context.Context, q *Query) *Future[[]Resource]
	SaveAsync(ctx context.Context, r Resource) *Future[Resource]
	DeleteAsync(ctx context.Context, r Resource) *Future[struct{}]
}

// Client is a JSON:API client bound to one endpoint.
type Client interface {
	Fetcher
	Writer
	AsyncClient

	// RegisterType maps resourceType to the factory used to instantiate it
	// while decoding. Registering a type again replaces the factory.
	RegisterType(resourceType string, factory Factory)
	// Endpoint returns the base URL of the API.
	Endpoint() string
}

// HTTPResponse is what the HTTP gateway returns for a completed exchange,
// whatever its status.
type HTTPResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsSuccess reports whether the status is in [200, 300).
func (r *HTTPResponse) IsSuccess() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// HTTPGateway performs requests against absolute URLs. An error means no
// response was obtained; every received response, including 4xx and 5xx,
// is returned without error. Implementations make exactly one attempt.
type HTTPGateway interface {
	Get(ctx context.Context, url string) (*HTTPResponse, error)
	Post(ctx context.Context, url string, body []byte) (*HTTPResponse, error)
	Put(ctx context.Context, url string, body []byte) (*HTTPResponse, error)
	Delete(ctx context.Context, url string) (*HTTPResponse, error)
}

// Document is a decoded JSON:API document.
type Document struct {
	// Data is the primary data, in document order.
	Data []Resource
	// Included holds the sideloaded resources.
	Included []Resource
	Meta     Meta
	Links    map[string]string
}

// All returns the primary data followed by the included resources.
func (d *Document) All() []Resource {
	all := make([]Resource, 0, len(d.Data)+len(d.Included))
	all = append(all, d.Data...)

	return append(all, d.Included...)
}

// Serializer converts between resources and JSON:API documents.
type Serializer interface {
	// Serialize encodes resources, including their pending relationship
	// linkage but never the related resources themselves.
	Serialize(resources []Resource) ([]byte, error)
	// Deserialize decodes payload. Resources already in store are updated in
	// place; others are instantiated through the registered factories.
	Deserialize(payload json.RawMessage, store *Store) (*Document, error)
	// DeserializeError decodes an error document received with statusCode.
	DeserializeError(payload []byte, statusCode int) error
	// RegisterType maps a resource type to its factory.
	RegisterType(resourceType string, factory Factory)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a Client.
//
// # Authentication precedence
//
//  1. AccessToken: used directly as a static Bearer token.
//  2. ClientID/ClientSecret with TokenURL: the OAuth2 client_credentials grant.
//  3. No credentials: requests are sent without authentication.
//
// # Timeouts and retries
//
// Per-request deadlines come from the context passed to each call.
// HTTPTimeout bounds a single exchange at the transport. Requests are never
// retried.
type Config struct {
	// Endpoint: base URL of the API (e.g., "https://api.example.com").
	// jsonapiclient.New trims a trailing slash and adds "https://" if no
	// scheme is present.
	Endpoint string

	// AccessToken: if set, used directly as a Bearer token.
	AccessToken string
	// ClientID: OAuth2 client ID for the client_credentials grant.
	ClientID string
	// ClientSecret: OAuth2 client secret used with ClientID.
	ClientSecret string
	// TokenURL: OAuth2 token endpoint. Defaults to Endpoint + "/oauth/token".
	TokenURL string
	// Scopes: OAuth2 scopes requested with the client_credentials grant.
	Scopes []string
	// AuthenticateOnInit: request a first token while constructing the client.
	AuthenticateOnInit bool

	// HTTPTimeout: timeout of a single HTTP exchange. Zero uses the default.
	HTTPTimeout time.Duration
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// Debug: enables verbose HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer and the client.
	Logger Logger
	// HTTPClient: optional base HTTP client, e.g. for custom TLS settings.
	HTTPClient *http.Client
}
