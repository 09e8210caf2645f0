package jsonapi

import (
	"encoding/json"
	"fmt"
)

// Resource is a typed, identifiable, addressable entity.
//
// Concrete resources embed Base and define ResourceType:
//
//	type Article struct {
//		jsonapi.Base
//		Title string `json:"title"`
//	}
//
//	func (*Article) ResourceType() string { return "articles" }
//
// The JSON-tagged fields of the concrete struct are its attributes.
type Resource interface {
	// ResourceType returns the plural type name. It never changes for an instance.
	ResourceType() string
	// ResourceID returns the identifier, or "" while the resource is new.
	ResourceID() string
	SetResourceID(id string)
	// ResourceLocation returns a URL that overrides {type}/{id} addressing, or "".
	ResourceLocation() string
	SetResourceLocation(location string)
	Relationships() *Relationships
}

// Factory builds an empty instance of a registered resource type.
type Factory func() Resource

// AttributeMarshaler lets a resource control how its attributes are encoded.
// Resources that do not implement it are encoded with encoding/json.
type AttributeMarshaler interface {
	MarshalAttributes() (json.RawMessage, error)
}

// AttributeUnmarshaler lets a resource control how decoded attributes are
// merged onto it. Resources that do not implement it are decoded with
// json.Unmarshal, which only overwrites the attributes present in the payload.
type AttributeUnmarshaler interface {
	UnmarshalAttributes(data json.RawMessage) error
}

// MetaCarrier is implemented by resources that keep the meta object of their
// resource object. Base implements it.
type MetaCarrier interface {
	ResourceMeta() Meta
	SetResourceMeta(meta Meta)
}

// Identifier is a resource identifier object: the (type, id) pair.
type Identifier struct {
	Type string `json:"type" yaml:"type"`
	ID   string `json:"id"   yaml:"id"`
}

// String implements fmt.Stringer.
func (i Identifier) String() string {
	return i.Type + "/" + i.ID
}

// IdentifierOf returns the identifier of r.
func IdentifierOf(r Resource) Identifier {
	return Identifier{Type: r.ResourceType(), ID: r.ResourceID()}
}

// Base carries the identity, location and relationship state of a resource.
// It is meant to be embedded; its fields never take part in attribute encoding.
type Base struct {
	ID            string `json:"-" yaml:"-"`
	Location      string `json:"-" yaml:"-"`
	Meta          Meta   `json:"-" yaml:"-"`
	relationships Relationships
}

// Meta holds non-standard meta information of a resource object.
type Meta map[string]interface{}

// ResourceID implements Resource.
func (b *Base) ResourceID() string {
	return b.ID
}

// SetResourceID implements Resource.
func (b *Base) SetResourceID(id string) {
	b.ID = id
}

// ResourceLocation implements Resource.
func (b *Base) ResourceLocation() string {
	return b.Location
}

// SetResourceLocation implements Resource.
func (b *Base) SetResourceLocation(location string) {
	b.Location = location
}

// ResourceMeta returns the meta object last received from the server.
func (b *Base) ResourceMeta() Meta {
	return b.Meta
}

// SetResourceMeta implements MetaCarrier.
func (b *Base) SetResourceMeta(meta Meta) {
	b.Meta = meta
}

// Relationships implements Resource.
func (b *Base) Relationships() *Relationships {
	return &b.relationships
}

// IsNew reports whether the resource has never been persisted.
func (b *Base) IsNew() bool {
	return b.ID == ""
}

// Generic is a resource of a type that has no registered factory.
// Attributes are kept as a free-form map.
type Generic struct {
	Base

	Type       string
	Attributes map[string]interface{}
}

// NewGeneric creates a Generic resource of the given type.
func NewGeneric(resourceType string) *Generic {
	return &Generic{
		Type:       resourceType,
		Attributes: make(map[string]interface{}),
	}
}

// ResourceType implements Resource.
func (g *Generic) ResourceType() string {
	return g.Type
}

// MarshalAttributes implements AttributeMarshaler.
func (g *Generic) MarshalAttributes() (json.RawMessage, error) {
	if g.Attributes == nil {
		return json.RawMessage("{}"), nil
	}

	data, err := json.Marshal(g.Attributes)
	if err != nil {
		return nil, fmt.Errorf("encoding %s attributes: %w", g.Type, err)
	}

	return data, nil
}

// UnmarshalAttributes implements AttributeUnmarshaler. Decoded keys are merged
// into the existing map.
func (g *Generic) UnmarshalAttributes(data json.RawMessage) error {
	var attributes map[string]interface{}

	err := json.Unmarshal(data, &attributes)
	if err != nil {
		return fmt.Errorf("decoding %s attributes: %w", g.Type, err)
	}

	if g.Attributes == nil {
		g.Attributes = make(map[string]interface{}, len(attributes))
	}

	for key, value := range attributes {
		g.Attributes[key] = value
	}

	return nil
}

// Filter returns the resources of type T in resources, in order.
func Filter[T Resource](resources []Resource) []T {
	var result []T

	for _, r := range resources {
		if typed, ok := r.(T); ok {
			result = append(result, typed)
		}
	}

	return result
}
