package jsonapi

import (
	"sort"
)

// Linkage is the resource linkage of one relationship.
type Linkage struct {
	// ToMany distinguishes a to-many relationship from a to-one relationship.
	ToMany bool
	// One is the to-one target; nil means the relationship is empty.
	One *Identifier
	// Many are the to-many targets.
	Many []Identifier
}

// ToOne returns a to-one linkage. A nil identifier clears the relationship.
func ToOne(id *Identifier) Linkage {
	return Linkage{One: id}
}

// ToMany returns a to-many linkage.
func ToMany(ids ...Identifier) Linkage {
	if ids == nil {
		ids = []Identifier{}
	}

	return Linkage{ToMany: true, Many: ids}
}

// Identifiers returns every identifier referenced by the linkage.
func (l Linkage) Identifiers() []Identifier {
	if l.ToMany {
		return l.Many
	}

	if l.One == nil {
		return nil
	}

	return []Identifier{*l.One}
}

type relationship struct {
	linkage    Linkage
	hasLinkage bool
	pending    bool
	related    string
}

// Relationships tracks the relationship linkage of a resource, which of the
// linkages are local changes not yet sent to the server, and the related
// links the server advertised. The zero value is ready to use.
type Relationships struct {
	entries map[string]*relationship
}

func (r *Relationships) entry(name string) *relationship {
	if r.entries == nil {
		r.entries = make(map[string]*relationship)
	}

	e, ok := r.entries[name]
	if !ok {
		e = &relationship{}
		r.entries[name] = e
	}

	return e
}

// Set records a local linkage change for name.
func (r *Relationships) Set(name string, linkage Linkage) {
	e := r.entry(name)
	e.linkage = linkage
	e.hasLinkage = true
	e.pending = true
}

// SetToOne points the to-one relationship name at target.
// The target must already be persisted; related resources are never saved
// as a side effect of saving the owner.
func (r *Relationships) SetToOne(name string, target Resource) {
	id := IdentifierOf(target)
	r.Set(name, ToOne(&id))
}

// ClearToOne empties the to-one relationship name.
func (r *Relationships) ClearToOne(name string) {
	r.Set(name, ToOne(nil))
}

// SetToMany replaces the members of the to-many relationship name.
func (r *Relationships) SetToMany(name string, targets ...Resource) {
	ids := make([]Identifier, 0, len(targets))
	for _, target := range targets {
		ids = append(ids, IdentifierOf(target))
	}

	r.Set(name, ToMany(ids...))
}

// Load records linkage and related link as received from the server.
// A nil linkage keeps whatever linkage is already known.
func (r *Relationships) Load(name string, linkage *Linkage, related string) {
	e := r.entry(name)
	if linkage != nil {
		e.linkage = *linkage
		e.hasLinkage = true
		e.pending = false
	}

	if related != "" {
		e.related = related
	}
}

// Get returns the known linkage of name.
func (r *Relationships) Get(name string) (Linkage, bool) {
	e, ok := r.entries[name]
	if !ok || !e.hasLinkage {
		return Linkage{}, false
	}

	return e.linkage, true
}

// RelatedLink returns the related link of name, or "".
func (r *Relationships) RelatedLink(name string) string {
	if e, ok := r.entries[name]; ok {
		return e.related
	}

	return ""
}

// Pending returns the linkages changed locally since the last MarkClean.
func (r *Relationships) Pending() map[string]Linkage {
	pending := make(map[string]Linkage)

	for name, e := range r.entries {
		if e.pending {
			pending[name] = e.linkage
		}
	}

	return pending
}

// HasPending reports whether any linkage awaits being sent.
func (r *Relationships) HasPending() bool {
	for _, e := range r.entries {
		if e.pending {
			return true
		}
	}

	return false
}

// MarkClean marks every linkage as persisted.
func (r *Relationships) MarkClean() {
	for _, e := range r.entries {
		e.pending = false
	}
}

// Names returns the known relationship names in sorted order.
func (r *Relationships) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
