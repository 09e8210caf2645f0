package jsonapi

import (
	"net/url"
	"sort"
	"strings"
)

// Query describes a fetch: every resource of a type, a set of IDs of a type,
// or the members of a relationship of a source resource.
type Query struct {
	// Type is the resource type the result is filtered to. A relationship
	// query may leave it empty, in which case the primary data is returned
	// without filtering.
	Type string
	IDs  []string

	Source       Resource
	Relationship string

	Include []string
	Fields  map[string][]string
	Filters map[string][]string
	Sort    []string
}

// NewQuery creates a query for resources of resourceType, optionally
// restricted to the given IDs.
func NewQuery(resourceType string, ids ...string) *Query {
	return &Query{
		Type:    resourceType,
		IDs:     ids,
		Fields:  make(map[string][]string),
		Filters: make(map[string][]string),
	}
}

// NewRelatedQuery creates a query for the resources linked from source
// through relationship. When every identifier in the known linkage shares
// one type, that type becomes the query type. Mixed linkage leaves Type empty.
func NewRelatedQuery(source Resource, relationship string) *Query {
	q := &Query{
		Source:       source,
		Relationship: relationship,
		Fields:       make(map[string][]string),
		Filters:      make(map[string][]string),
	}

	if source != nil {
		if linkage, ok := source.Relationships().Get(relationship); ok {
			q.Type = linkageType(linkage.Identifiers())
		}
	}

	return q
}

func linkageType(ids []Identifier) string {
	if len(ids) == 0 {
		return ""
	}

	for _, id := range ids[1:] {
		if id.Type != ids[0].Type {
			return ""
		}
	}

	return ids[0].Type
}

// WithType sets the type the result is filtered to.
func (q *Query) WithType(resourceType string) *Query {
	q.Type = resourceType

	return q
}

// WithInclude appends relationship paths to sideload.
func (q *Query) WithInclude(paths ...string) *Query {
	q.Include = append(q.Include, paths...)

	return q
}

// WithFields replaces the sparse fieldset of resourceType.
func (q *Query) WithFields(resourceType string, fields ...string) *Query {
	if q.Fields == nil {
		q.Fields = make(map[string][]string)
	}

	q.Fields[resourceType] = fields

	return q
}

// WithFilter appends values to the filter name.
func (q *Query) WithFilter(name string, values ...string) *Query {
	if q.Filters == nil {
		q.Filters = make(map[string][]string)
	}

	q.Filters[name] = append(q.Filters[name], values...)

	return q
}

// WithSort appends sort fields; prefix a field with "-" for descending order.
func (q *Query) WithSort(fields ...string) *Query {
	q.Sort = append(q.Sort, fields...)

	return q
}

// IsRelationship reports whether the query traverses a relationship.
func (q *Query) IsRelationship() bool {
	return q.Relationship != ""
}

// ResolveURL returns the absolute request URL of the query relative to
// endpoint. The result only depends on the query value and endpoint.
func (q *Query) ResolveURL(endpoint string) (string, error) {
	const op = "resolving query URL"

	var base string

	switch {
	case q.IsRelationship():
		if q.Source == nil {
			return "", &PreconditionError{Op: op, Err: ErrNilResource}
		}

		if related := q.Source.Relationships().RelatedLink(q.Relationship); related != "" {
			base = related

			break
		}

		sourceURL, err := ResourceURL(endpoint, q.Source)
		if err != nil {
			return "", err
		}

		base = sourceURL + "/" + url.PathEscape(q.Relationship)
	case q.Type == "":
		return "", &PreconditionError{Op: op, Err: ErrNoResourceType}
	case len(q.IDs) == 1:
		base = joinURL(endpoint, q.Type, q.IDs[0])
	default:
		base = joinURL(endpoint, q.Type)
	}

	encoded := encodeParameters(q.parameters())
	if encoded == "" {
		return base, nil
	}

	if strings.Contains(base, "?") {
		return base + "&" + encoded, nil
	}

	return base + "?" + encoded, nil
}

func (q *Query) parameters() map[string][]string {
	params := make(map[string][]string)

	if !q.IsRelationship() && len(q.IDs) > 1 {
		params["filter[id]"] = append([]string(nil), q.IDs...)
	}

	if len(q.Include) > 0 {
		params["include"] = q.Include
	}

	for resourceType, fields := range q.Fields {
		params["fields["+resourceType+"]"] = fields
	}

	for name, values := range q.Filters {
		key := "filter[" + name + "]"
		params[key] = append(params[key], values...)
	}

	if len(q.Sort) > 0 {
		params["sort"] = q.Sort
	}

	return params
}

// encodeParameters renders params with sorted keys and comma separated
// values, leaving brackets and commas unescaped.
func encodeParameters(params map[string][]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))

	for _, key := range keys {
		values := make([]string, 0, len(params[key]))
		for _, value := range params[key] {
			values = append(values, url.QueryEscape(value))
		}

		pairs = append(pairs, escapeKey(key)+"="+strings.Join(values, ","))
	}

	return strings.Join(pairs, "&")
}

func escapeKey(key string) string {
	escaped := url.QueryEscape(key)
	escaped = strings.ReplaceAll(escaped, "%5B", "[")

	return strings.ReplaceAll(escaped, "%5D", "]")
}

func joinURL(endpoint string, segments ...string) string {
	var b strings.Builder

	b.WriteString(strings.TrimSuffix(endpoint, "/"))

	for _, segment := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(segment))
	}

	return b.String()
}
