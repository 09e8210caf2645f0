package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/jsonapi-client/pkg/jsonapi"
)

// Wire representation of a JSON:API document.
type document struct {
	Data     json.RawMessage            `json:"data,omitempty"`
	Included []resourceObject           `json:"included,omitempty"`
	Meta     jsonapi.Meta               `json:"meta,omitempty"`
	Links    map[string]json.RawMessage `json:"links,omitempty"`
}

type resourceObject struct {
	Type          string                        `json:"type"`
	ID            string                        `json:"id,omitempty"`
	Attributes    json.RawMessage               `json:"attributes,omitempty"`
	Relationships map[string]relationshipObject `json:"relationships,omitempty"`
	Links         map[string]json.RawMessage    `json:"links,omitempty"`
	Meta          jsonapi.Meta                  `json:"meta,omitempty"`
}

type relationshipObject struct {
	Data  json.RawMessage            `json:"data,omitempty"`
	Links map[string]json.RawMessage `json:"links,omitempty"`
}

// link objects are either a plain URL or {"href": URL, ...}.
type linkObject struct {
	Href string `json:"href"`
}

var nullJSON = []byte("null")

func isNull(data json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(data), nullJSON)
}

func isArray(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)

	return len(trimmed) > 0 && trimmed[0] == '['
}

// href extracts the URL of the named link, or "".
func href(links map[string]json.RawMessage, name string) (string, error) {
	raw, ok := links[name]
	if !ok || len(raw) == 0 || isNull(raw) {
		return "", nil
	}

	var url string
	if err := json.Unmarshal(raw, &url); err == nil {
		return url, nil
	}

	var link linkObject

	err := json.Unmarshal(raw, &link)
	if err != nil {
		return "", fmt.Errorf("decoding %q link: %w", name, err)
	}

	return link.Href, nil
}

func decodeLinks(links map[string]json.RawMessage) (map[string]string, error) {
	if len(links) == 0 {
		return nil, nil
	}

	decoded := make(map[string]string, len(links))

	for name := range links {
		url, err := href(links, name)
		if err != nil {
			return nil, err
		}

		if url != "" {
			decoded[name] = url
		}
	}

	return decoded, nil
}

// decodePrimary splits the primary data into resource objects. Absent or
// null data yields none.
func decodePrimary(data json.RawMessage) ([]resourceObject, error) {
	if len(data) == 0 || isNull(data) {
		return nil, nil
	}

	if isArray(data) {
		var objects []resourceObject

		err := json.Unmarshal(data, &objects)
		if err != nil {
			return nil, fmt.Errorf("decoding primary data: %w", err)
		}

		return objects, nil
	}

	var object resourceObject

	err := json.Unmarshal(data, &object)
	if err != nil {
		return nil, fmt.Errorf("decoding primary data: %w", err)
	}

	return []resourceObject{object}, nil
}

// decodeLinkage returns nil when the relationship carries no data member.
func decodeLinkage(data json.RawMessage) (*jsonapi.Linkage, error) {
	if len(data) == 0 {
		return nil, nil
	}

	if isNull(data) {
		linkage := jsonapi.ToOne(nil)

		return &linkage, nil
	}

	if isArray(data) {
		var ids []jsonapi.Identifier

		err := json.Unmarshal(data, &ids)
		if err != nil {
			return nil, fmt.Errorf("decoding to-many linkage: %w", err)
		}

		linkage := jsonapi.ToMany(ids...)

		return &linkage, nil
	}

	var id jsonapi.Identifier

	err := json.Unmarshal(data, &id)
	if err != nil {
		return nil, fmt.Errorf("decoding to-one linkage: %w", err)
	}

	linkage := jsonapi.ToOne(&id)

	return &linkage, nil
}

func encodeLinkage(linkage jsonapi.Linkage) (json.RawMessage, error) {
	var (
		data []byte
		err  error
	)

	switch {
	case linkage.ToMany:
		ids := linkage.Many
		if ids == nil {
			ids = []jsonapi.Identifier{}
		}

		data, err = json.Marshal(ids)
	case linkage.One == nil:
		return nullJSON, nil
	default:
		data, err = json.Marshal(linkage.One)
	}

	if err != nil {
		return nil, fmt.Errorf("encoding linkage: %w", err)
	}

	return data, nil
}
