// Package serializer encodes and decodes JSON:API documents and keeps the
// registry of resource factories used while decoding.
package serializer

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/fivetwenty-io/jsonapi-client/pkg/jsonapi"
)

// Static errors for err113 compliance.
var (
	ErrMissingType = errors.New("resource object has no type")
	ErrNilFactory  = errors.New("factory returned nil")
)

// Serializer implements jsonapi.Serializer.
type Serializer struct {
	mutex     sync.RWMutex
	factories map[string]jsonapi.Factory
}

var _ jsonapi.Serializer = (*Serializer)(nil)

// New creates a serializer with an empty registry. Unregistered types decode
// to *jsonapi.Generic.
func New() *Serializer {
	return &Serializer{
		factories: make(map[string]jsonapi.Factory),
	}
}

// RegisterType implements jsonapi.Serializer. A later registration replaces
// an earlier one.
func (s *Serializer) RegisterType(resourceType string, factory jsonapi.Factory) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.factories[resourceType] = factory
}

func (s *Serializer) instantiate(resourceType string) (jsonapi.Resource, error) {
	s.mutex.RLock()
	factory, ok := s.factories[resourceType]
	s.mutex.RUnlock()

	if !ok {
		return jsonapi.NewGeneric(resourceType), nil
	}

	r := factory()
	if r == nil {
		return nil, fmt.Errorf("instantiating %s: %w", resourceType, ErrNilFactory)
	}

	return r, nil
}

// Serialize implements jsonapi.Serializer. A single resource is encoded as a
// data object, several as a data array.
func (s *Serializer) Serialize(resources []jsonapi.Resource) ([]byte, error) {
	objects := make([]resourceObject, 0, len(resources))

	for _, r := range resources {
		object, err := encodeResource(r)
		if err != nil {
			return nil, err
		}

		objects = append(objects, object)
	}

	var payload struct {
		Data interface{} `json:"data"`
	}

	if len(objects) == 1 {
		payload.Data = objects[0]
	} else {
		payload.Data = objects
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}

	return data, nil
}

func encodeResource(r jsonapi.Resource) (resourceObject, error) {
	if r == nil {
		return resourceObject{}, jsonapi.ErrNilResource
	}

	object := resourceObject{
		Type: r.ResourceType(),
		ID:   r.ResourceID(),
	}

	var err error

	if marshaler, ok := r.(jsonapi.AttributeMarshaler); ok {
		object.Attributes, err = marshaler.MarshalAttributes()
	} else {
		object.Attributes, err = json.Marshal(r)
	}

	if err != nil {
		return resourceObject{}, fmt.Errorf("encoding %s attributes: %w", object.Type, err)
	}

	pending := r.Relationships().Pending()
	if len(pending) > 0 {
		object.Relationships = make(map[string]relationshipObject, len(pending))

		for name, linkage := range pending {
			data, err := encodeLinkage(linkage)
			if err != nil {
				return resourceObject{}, fmt.Errorf("encoding %s relationship %q: %w", object.Type, name, err)
			}

			object.Relationships[name] = relationshipObject{Data: data}
		}
	}

	return object, nil
}

// Deserialize implements jsonapi.Serializer. Primary data entry i merges onto
// seed i of store when the types match; every other resource object merges
// onto the store entry with the same identifier or onto a new instance.
func (s *Serializer) Deserialize(payload json.RawMessage, store *jsonapi.Store) (*jsonapi.Document, error) {
	if store == nil {
		store = jsonapi.NewStore()
	}

	var doc document

	err := json.Unmarshal(payload, &doc)
	if err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}

	primary, err := decodePrimary(doc.Data)
	if err != nil {
		return nil, err
	}

	links, err := decodeLinks(doc.Links)
	if err != nil {
		return nil, err
	}

	result := &jsonapi.Document{
		Data:  make([]jsonapi.Resource, 0, len(primary)),
		Meta:  doc.Meta,
		Links: links,
	}

	for i := range primary {
		r, err := s.resolve(&primary[i], i, store)
		if err != nil {
			return nil, err
		}

		result.Data = append(result.Data, r)
	}

	for i := range doc.Included {
		r, err := s.resolve(&doc.Included[i], -1, store)
		if err != nil {
			return nil, err
		}

		result.Included = append(result.Included, r)
	}

	return result, nil
}

// resolve finds or builds the instance for object and merges object onto it.
// position is the index in the primary data, or -1 for included resources.
func (s *Serializer) resolve(object *resourceObject, position int, store *jsonapi.Store) (jsonapi.Resource, error) {
	if object.Type == "" {
		return nil, ErrMissingType
	}

	target, ok := store.Seed(position, object.Type)
	if !ok && object.ID != "" {
		target, ok = store.Lookup(jsonapi.Identifier{Type: object.Type, ID: object.ID})
	}

	if !ok {
		var err error

		target, err = s.instantiate(object.Type)
		if err != nil {
			return nil, err
		}
	}

	err := merge(target, object)
	if err != nil {
		return nil, err
	}

	store.Add(target)

	return target, nil
}

func merge(target jsonapi.Resource, object *resourceObject) error {
	if len(object.Attributes) > 0 && !isNull(object.Attributes) {
		var err error

		if unmarshaler, ok := target.(jsonapi.AttributeUnmarshaler); ok {
			err = unmarshaler.UnmarshalAttributes(object.Attributes)
		} else {
			err = json.Unmarshal(object.Attributes, target)
		}

		if err != nil {
			return fmt.Errorf("decoding %s attributes: %w", object.Type, err)
		}
	}

	if object.ID != "" {
		target.SetResourceID(object.ID)
	}

	self, err := href(object.Links, "self")
	if err != nil {
		return fmt.Errorf("decoding %s links: %w", object.Type, err)
	}

	if self != "" {
		target.SetResourceLocation(self)
	}

	if carrier, ok := target.(jsonapi.MetaCarrier); ok && object.Meta != nil {
		carrier.SetResourceMeta(object.Meta)
	}

	relationships := target.Relationships()

	for name, rel := range object.Relationships {
		linkage, err := decodeLinkage(rel.Data)
		if err != nil {
			return fmt.Errorf("decoding %s relationship %q: %w", object.Type, name, err)
		}

		related, err := href(rel.Links, "related")
		if err != nil {
			return fmt.Errorf("decoding %s relationship %q: %w", object.Type, name, err)
		}

		relationships.Load(name, linkage, related)
	}

	return nil
}

// DeserializeError implements jsonapi.Serializer. The result is always a
// *jsonapi.ResponseError carrying statusCode, even when payload is empty or
// not an error document.
func (s *Serializer) DeserializeError(payload []byte, statusCode int) error {
	errResp, _ := jsonapi.ParseResponseError(payload, statusCode)

	return errResp
}
