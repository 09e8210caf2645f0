package jsonapi

// CollectionURL returns the URL of every resource of r's type, the target of
// a create.
func CollectionURL(endpoint string, r Resource) string {
	return joinURL(endpoint, r.ResourceType())
}

// ResourceURL returns the URL of r. An explicit location is returned
// verbatim; otherwise the URL is {endpoint}/{type}/{id}. Addressing a
// resource with neither fails with a PreconditionError.
func ResourceURL(endpoint string, r Resource) (string, error) {
	address := AddressOf(r)

	switch address.Kind {
	case AddressLocated:
		return address.Location, nil
	case AddressIdentified:
		return joinURL(endpoint, address.Type, address.ID), nil
	case AddressUnaddressable:
		return "", &PreconditionError{Op: "resolving " + address.Type + " URL", Err: ErrUnaddressable}
	default:
		return "", &PreconditionError{Op: "resolving " + address.Type + " URL", Err: ErrUnaddressable}
	}
}

// QueryURL returns the URL of q.
func QueryURL(endpoint string, q *Query) (string, error) {
	return q.ResolveURL(endpoint)
}
