package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/jsonapi-client/internal/constants"
	"github.com/fivetwenty-io/jsonapi-client/pkg/jsonapi"
)

// ResourceView is the printable form of a resource.
type ResourceView struct {
	Type          string                 `json:"type"                    yaml:"type"`
	ID            string                 `json:"id"                      yaml:"id"`
	Location      string                 `json:"location,omitempty"      yaml:"location,omitempty"`
	Attributes    map[string]interface{} `json:"attributes,omitempty"    yaml:"attributes,omitempty"`
	Relationships map[string]interface{} `json:"relationships,omitempty" yaml:"relationships,omitempty"`
	Meta          jsonapi.Meta           `json:"meta,omitempty"          yaml:"meta,omitempty"`
}

func newResourceView(r jsonapi.Resource) ResourceView {
	view := ResourceView{
		Type:       r.ResourceType(),
		ID:         r.ResourceID(),
		Location:   r.ResourceLocation(),
		Attributes: attributesOf(r),
	}

	if carrier, ok := r.(jsonapi.MetaCarrier); ok {
		view.Meta = carrier.ResourceMeta()
	}

	for _, name := range r.Relationships().Names() {
		linkage, ok := r.Relationships().Get(name)
		if !ok {
			continue
		}

		if view.Relationships == nil {
			view.Relationships = make(map[string]interface{})
		}

		view.Relationships[name] = linkageValue(linkage)
	}

	return view
}

func attributesOf(r jsonapi.Resource) map[string]interface{} {
	if generic, ok := r.(*jsonapi.Generic); ok {
		return generic.Attributes
	}

	var (
		data []byte
		err  error
	)

	if marshaler, ok := r.(jsonapi.AttributeMarshaler); ok {
		data, err = marshaler.MarshalAttributes()
	} else {
		data, err = json.Marshal(r)
	}

	if err != nil {
		return nil
	}

	var attributes map[string]interface{}

	_ = json.Unmarshal(data, &attributes)

	return attributes
}

func linkageValue(linkage jsonapi.Linkage) interface{} {
	if !linkage.ToMany {
		if linkage.One == nil {
			return nil
		}

		return linkage.One.String()
	}

	members := make([]string, 0, len(linkage.Many))
	for _, id := range linkage.Many {
		members = append(members, id.String())
	}

	return members
}

// formatValue renders a value for a table cell.
func formatValue(value interface{}) string {
	var text string

	switch v := value.(type) {
	case nil:
		return constants.NotAvailable
	case string:
		text = v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			text = fmt.Sprint(v)
		} else {
			text = string(data)
		}
	}

	if text == "" {
		return constants.NotAvailable
	}

	runes := []rune(text)
	if len(runes) > constants.MaxCellWidth {
		return string(runes[:constants.MaxCellWidth-3]) + "..."
	}

	return text
}

func headerOf(key string) string {
	return cases.Title(language.English).String(key)
}

func encode(out io.Writer, data interface{}) (bool, error) {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")

		return true, encoder.Encode(data)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(out)

		return true, encoder.Encode(data)
	default:
		return false, nil
	}
}

// renderResource prints one resource in the configured output format.
func renderResource(out io.Writer, r jsonapi.Resource) error {
	view := newResourceView(r)

	if done, err := encode(out, view); done {
		return err
	}

	table := tablewriter.NewWriter(out)
	table.Header("Property", "Value")
	_ = table.Append("Type", view.Type)
	_ = table.Append("ID", formatValue(view.ID))

	if view.Location != "" {
		_ = table.Append("Location", view.Location)
	}

	for _, key := range sortedKeys(view.Attributes) {
		_ = table.Append(headerOf(key), formatValue(view.Attributes[key]))
	}

	for _, key := range sortedKeys(view.Relationships) {
		_ = table.Append(headerOf(key), formatValue(view.Relationships[key]))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderResources prints a list of resources. Tables get one column per
// attribute found on any of the resources.
func renderResources(out io.Writer, resources []jsonapi.Resource) error {
	views := make([]ResourceView, 0, len(resources))
	for _, r := range resources {
		views = append(views, newResourceView(r))
	}

	if done, err := encode(out, views); done {
		return err
	}

	if len(views) == 0 {
		_, _ = fmt.Fprintln(out, "No resources found")

		return nil
	}

	columns := make(map[string]interface{})

	for _, view := range views {
		for key := range view.Attributes {
			columns[key] = nil
		}
	}

	keys := sortedKeys(columns)

	headers := make([]any, 0, len(keys)+1)
	headers = append(headers, "ID")

	for _, key := range keys {
		headers = append(headers, headerOf(key))
	}

	table := tablewriter.NewWriter(out)
	table.Header(headers...)

	for _, view := range views {
		row := make([]string, 0, len(keys)+1)
		row = append(row, formatValue(view.ID))

		for _, key := range keys {
			row = append(row, formatValue(view.Attributes[key]))
		}

		_ = table.Append(row)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
