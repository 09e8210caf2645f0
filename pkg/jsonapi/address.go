package jsonapi

// AddressKind tags the variants of Address.
type AddressKind int

const (
	// AddressUnaddressable marks a resource with neither location nor ID.
	// It can only be created.
	AddressUnaddressable AddressKind = iota
	// AddressLocated marks a resource with an explicit location.
	AddressLocated
	// AddressIdentified marks a resource addressed by {type}/{id}.
	AddressIdentified
)

// String implements fmt.Stringer.
func (k AddressKind) String() string {
	switch k {
	case AddressLocated:
		return "located"
	case AddressIdentified:
		return "identified"
	case AddressUnaddressable:
		return "unaddressable"
	default:
		return "unknown"
	}
}

// Address describes how a resource can be reached.
type Address struct {
	Kind     AddressKind
	Location string
	Type     string
	ID       string
}

// AddressOf returns the address of r. An explicit location wins over the ID.
func AddressOf(r Resource) Address {
	if location := r.ResourceLocation(); location != "" {
		return Address{Kind: AddressLocated, Location: location, Type: r.ResourceType(), ID: r.ResourceID()}
	}

	if id := r.ResourceID(); id != "" {
		return Address{Kind: AddressIdentified, Type: r.ResourceType(), ID: id}
	}

	return Address{Kind: AddressUnaddressable, Type: r.ResourceType()}
}
