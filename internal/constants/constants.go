package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout of a single HTTP exchange.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations such as token requests.
	ShortHTTPTimeout = 10 * time.Second
)

// Media types and headers.
const (
	// MediaType is the JSON:API media type sent in Accept and Content-Type.
	MediaType = "application/vnd.api+json"

	// DefaultUserAgent is sent when the configuration does not set one.
	DefaultUserAgent = "jsonapi-client/1.0"

	// DefaultTokenPath is appended to the endpoint when no token URL is configured.
	DefaultTokenPath = "/oauth/token"
)

// Token handling.
const (
	// TokenExpirationBuffer renews tokens this long before they expire.
	TokenExpirationBuffer = 30 * time.Second
)

// Format constants.
const (
	// FormatJSON selects JSON output.
	FormatJSON = "json"

	// FormatYAML selects YAML output.
	FormatYAML = "yaml"

	// FormatTable selects table output.
	FormatTable = "table"
)

// UI and display constants.
const (
	// NotAvailable is shown for empty values.
	NotAvailable = "N/A"

	// MaskedSecret replaces secrets in displayed configuration.
	MaskedSecret = "***"

	// MaxCellWidth truncates long attribute values in tables.
	MaxCellWidth = 60
)

// CRUD operation constants.
const (
	// OperationCreate names a create.
	OperationCreate = "create"

	// OperationUpdate names an update.
	OperationUpdate = "update"

	// OperationDelete names a delete.
	OperationDelete = "delete"

	// OperationFetch names a fetch.
	OperationFetch = "fetch"
)
