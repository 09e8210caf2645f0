package jsonapi

// Store is a short-lived identity map used while decoding a document. It
// hands out the instances callers already hold so decoded data is merged
// onto them instead of onto copies.
//
// Seeds are matched to the primary data by position: the first primary
// resource of a document merges onto the first seed of the same type, and so
// on. This keeps identity when the server replaces a client-generated ID.
// Every other resource is matched by (type, id).
type Store struct {
	seeds     []Resource
	resources map[Identifier]Resource
}

// NewStore creates a store seeded with instances to merge into.
func NewStore(seeds ...Resource) *Store {
	s := &Store{
		seeds:     seeds,
		resources: make(map[Identifier]Resource),
	}

	for _, seed := range seeds {
		if seed.ResourceID() != "" {
			s.resources[IdentifierOf(seed)] = seed
		}
	}

	return s
}

// Seed returns the seed at position i if it has the given type.
func (s *Store) Seed(i int, resourceType string) (Resource, bool) {
	if i < 0 || i >= len(s.seeds) {
		return nil, false
	}

	seed := s.seeds[i]
	if seed.ResourceType() != resourceType {
		return nil, false
	}

	return seed, true
}

// Lookup returns the resource with the given identifier.
func (s *Store) Lookup(id Identifier) (Resource, bool) {
	r, ok := s.resources[id]

	return r, ok
}

// Add records r under its current identifier, replacing any previous entry.
func (s *Store) Add(r Resource) {
	if r.ResourceID() == "" {
		return
	}

	s.resources[IdentifierOf(r)] = r
}

// Len returns the number of identified resources in the store.
func (s *Store) Len() int {
	return len(s.resources)
}
