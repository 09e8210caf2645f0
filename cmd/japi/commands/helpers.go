package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/fivetwenty-io/jsonapi-client/internal/auth"
	"github.com/fivetwenty-io/jsonapi-client/internal/client"
	"github.com/fivetwenty-io/jsonapi-client/pkg/jsonapi"
	"github.com/fivetwenty-io/jsonapi-client/pkg/jsonapiclient"
)

const (
	// keyValueParts is the number of parts of a KEY=VALUE argument.
	keyValueParts = 2

	// resourceArgs is the argument count of commands addressing one resource.
	resourceArgs = 2

	// relatedArgs is the argument count of the related command.
	relatedArgs = 3
)

// Static errors for err113 compliance.
var (
	ErrEndpointRequired   = errors.New("API endpoint is required (use --endpoint or 'japi config set endpoint URL')")
	ErrInvalidKeyValue    = errors.New("expected KEY=VALUE")
	ErrInvalidIdentifier  = errors.New("expected TYPE:ID")
	ErrNothingToUpdate    = errors.New("nothing to update: pass --attr, --to-one or --to-many")
	ErrDeleteNotConfirmed = errors.New("delete not confirmed")
	ErrClientIDRequired   = errors.New("client ID is required")
	ErrUnknownConfigKey   = errors.New("unknown configuration key")
)

// CreateClient builds a client from the endpoint and credentials resolved by
// viper from flags, environment and config file. With --verbose the HTTP
// exchanges are logged to errOut.
//
// Client credentials saved by login reuse the token cached in the config
// file and write every new token back to it.
func CreateClient(ctx context.Context, errOut io.Writer) (jsonapi.Client, error) {
	endpoint := viper.GetString("endpoint")
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}

	config := &jsonapi.Config{
		Endpoint:     endpoint,
		AccessToken:  viper.GetString("token"),
		ClientID:     viper.GetString("client_id"),
		ClientSecret: viper.GetString("client_secret"),
		TokenURL:     viper.GetString("token_url"),
	}

	if viper.GetBool("verbose") {
		config.Logger = NewLogger(errOut)
		config.Debug = true
	}

	if config.AccessToken == "" && config.ClientID != "" {
		saved, err := loadConfig()
		if err != nil {
			return nil, err
		}

		if saved.ClientID == config.ClientID {
			return createPersistingClient(ctx, config, saved)
		}
	}

	apiClient, err := jsonapiclient.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return apiClient, nil
}

func createPersistingClient(ctx context.Context, config *jsonapi.Config, saved *Config) (jsonapi.Client, error) {
	config.Endpoint = jsonapiclient.NormalizeEndpoint(config.Endpoint)

	var expiresAt time.Time
	if saved.OAuthTokenExpiresAt != nil {
		expiresAt = *saved.OAuthTokenExpiresAt
	}

	tokenManager := auth.NewConfigTokenManager(&auth.OAuth2Config{
		TokenURL:     client.TokenURL(config),
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Scopes:       config.Scopes,
		HTTPClient:   config.HTTPClient,
	}, NewConfigPersister(config.ClientID), saved.OAuthToken, expiresAt)

	apiClient, err := client.NewWithTokenManager(ctx, config, tokenManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return apiClient, nil
}

// splitKeyValue splits KEY=VALUE at the first "=".
func splitKeyValue(pair string) (string, string, error) {
	parts := strings.SplitN(pair, "=", keyValueParts)
	if len(parts) != keyValueParts || parts[0] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidKeyValue, pair)
	}

	return parts[0], parts[1], nil
}

// parseAttributes turns KEY=VALUE pairs into attributes. Values that are
// valid JSON are decoded, so 3, true and {"a":1} keep their types; anything
// else is taken as a string.
func parseAttributes(pairs []string) (map[string]interface{}, error) {
	attributes := make(map[string]interface{}, len(pairs))

	for _, pair := range pairs {
		key, raw, err := splitKeyValue(pair)
		if err != nil {
			return nil, err
		}

		var value interface{}
		if json.Valid([]byte(raw)) {
			_ = json.Unmarshal([]byte(raw), &value)
		} else {
			value = raw
		}

		attributes[key] = value
	}

	return attributes, nil
}

// parseIdentifier parses TYPE:ID.
func parseIdentifier(value string) (jsonapi.Identifier, error) {
	resourceType, id, ok := strings.Cut(value, ":")
	if !ok || resourceType == "" || id == "" {
		return jsonapi.Identifier{}, fmt.Errorf("%w: %q", ErrInvalidIdentifier, value)
	}

	return jsonapi.Identifier{Type: resourceType, ID: id}, nil
}

// parseFilters turns KEY=V1,V2 pairs into query filters.
func parseFilters(pairs []string) (map[string][]string, error) {
	filters := make(map[string][]string, len(pairs))

	for _, pair := range pairs {
		key, raw, err := splitKeyValue(pair)
		if err != nil {
			return nil, err
		}

		filters[key] = append(filters[key], strings.Split(raw, ",")...)
	}

	return filters, nil
}

// applyRelationships records --to-one REL=TYPE:ID and --to-many
// REL=TYPE:ID,TYPE:ID changes on r. An empty value clears the relationship.
func applyRelationships(r jsonapi.Resource, toOne, toMany []string) error {
	for _, pair := range toOne {
		name, raw, err := splitKeyValue(pair)
		if err != nil {
			return err
		}

		if raw == "" {
			r.Relationships().ClearToOne(name)

			continue
		}

		id, err := parseIdentifier(raw)
		if err != nil {
			return err
		}

		r.Relationships().Set(name, jsonapi.ToOne(&id))
	}

	for _, pair := range toMany {
		name, raw, err := splitKeyValue(pair)
		if err != nil {
			return err
		}

		ids := make([]jsonapi.Identifier, 0)

		if raw != "" {
			for _, member := range strings.Split(raw, ",") {
				id, err := parseIdentifier(member)
				if err != nil {
					return err
				}

				ids = append(ids, id)
			}
		}

		r.Relationships().Set(name, jsonapi.ToMany(ids...))
	}

	return nil
}
