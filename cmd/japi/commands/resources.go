package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/jsonapi-client/pkg/jsonapi"
)

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	var include []string

	cmd := &cobra.Command{
		Use:   "get TYPE ID",
		Short: "Get a resource",
		Long:  "Fetch a single resource by type and ID",
		Args:  cobra.ExactArgs(resourceArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			resourceType, id := args[0], args[1]

			if len(include) == 0 {
				resource, err := client.FetchByTypeAndID(cmd.Context(), resourceType, id)
				if err != nil {
					return fmt.Errorf("failed to get %s %s: %w", resourceType, id, err)
				}

				return renderResource(cmd.OutOrStdout(), resource)
			}

			resources, err := client.FetchForQuery(cmd.Context(),
				jsonapi.NewQuery(resourceType, id).WithInclude(include...))
			if err != nil {
				return fmt.Errorf("failed to get %s %s: %w", resourceType, id, err)
			}

			if len(resources) == 0 {
				return fmt.Errorf("failed to get %s %s: %w", resourceType, id, jsonapi.ErrResourceNotFound)
			}

			return renderResource(cmd.OutOrStdout(), resources[0])
		},
	}

	cmd.Flags().StringSliceVar(&include, "include", nil, "relationship paths to sideload")

	return cmd
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var (
		ids     []string
		include []string
		filters []string
		sorts   []string
		fields  []string
	)

	cmd := &cobra.Command{
		Use:   "list TYPE",
		Short: "List resources",
		Long:  "List resources of a type, optionally filtered, sorted and restricted to IDs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			resourceType := args[0]

			q := jsonapi.NewQuery(resourceType).WithInclude(include...).WithSort(sorts...)
			q.IDs = ids

			if len(ids) == 1 {
				// A single ID would address the resource itself.
				q.WithFilter("id", ids...)
				q.IDs = nil
			}

			parsed, err := parseFilters(filters)
			if err != nil {
				return err
			}

			for name, values := range parsed {
				q.WithFilter(name, values...)
			}

			if len(fields) > 0 {
				q.WithFields(resourceType, fields...)
			}

			resources, err := client.FetchForQuery(cmd.Context(), q)
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", resourceType, err)
			}

			return renderResources(cmd.OutOrStdout(), resources)
		},
	}

	cmd.Flags().StringSliceVar(&ids, "id", nil, "restrict to these IDs")
	cmd.Flags().StringSliceVar(&include, "include", nil, "relationship paths to sideload")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "filter as NAME=VALUE[,VALUE] (repeatable)")
	cmd.Flags().StringSliceVar(&sorts, "sort", nil, "sort fields, prefix with - for descending")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "attributes to return")

	return cmd
}

// NewRelatedCommand creates the related command.
func NewRelatedCommand() *cobra.Command {
	var relatedType string

	cmd := &cobra.Command{
		Use:   "related TYPE ID RELATIONSHIP",
		Short: "List related resources",
		Long:  "Fetch the resources linked from a resource through a relationship",
		Args:  cobra.ExactArgs(relatedArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			source, err := client.FetchByTypeAndID(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to get %s %s: %w", args[0], args[1], err)
			}

			q := jsonapi.NewRelatedQuery(source, args[2])
			if relatedType != "" {
				q.WithType(relatedType)
			}

			resources, err := client.FetchForQuery(cmd.Context(), q)
			if err != nil {
				return fmt.Errorf("failed to get %s of %s %s: %w", args[2], args[0], args[1], err)
			}

			return renderResources(cmd.OutOrStdout(), resources)
		},
	}

	cmd.Flags().StringVar(&relatedType, "type", "", "type of the related resources")

	return cmd
}

// NewCreateCommand creates the create command.
func NewCreateCommand() *cobra.Command {
	var (
		attributes []string
		toOne      []string
		toMany     []string
	)

	cmd := &cobra.Command{
		Use:   "create TYPE",
		Short: "Create a resource",
		Long:  "Create a resource with a client generated ID",
		Example: `  japi create articles --attr title=Hello --attr draft=true
  japi create articles --attr title=Hello --to-one author=people:9 --to-many tags=tags:1,tags:2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := buildResource(args[0], "", attributes, toOne, toMany)
			if err != nil {
				return err
			}

			client, err := CreateClient(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			saved, err := client.Save(cmd.Context(), resource)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", args[0], err)
			}

			return renderResource(cmd.OutOrStdout(), saved)
		},
	}

	addWriteFlags(cmd, &attributes, &toOne, &toMany)

	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand() *cobra.Command {
	var (
		attributes []string
		toOne      []string
		toMany     []string
	)

	cmd := &cobra.Command{
		Use:   "update TYPE ID",
		Short: "Update a resource",
		Long:  "Send the given attributes and relationships of an existing resource",
		Args:  cobra.ExactArgs(resourceArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(attributes) == 0 && len(toOne) == 0 && len(toMany) == 0 {
				return ErrNothingToUpdate
			}

			resource, err := buildResource(args[0], args[1], attributes, toOne, toMany)
			if err != nil {
				return err
			}

			client, err := CreateClient(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			saved, err := client.Save(cmd.Context(), resource)
			if err != nil {
				return fmt.Errorf("failed to update %s %s: %w", args[0], args[1], err)
			}

			return renderResource(cmd.OutOrStdout(), saved)
		},
	}

	addWriteFlags(cmd, &attributes, &toOne, &toMany)

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete TYPE ID",
		Short: "Delete a resource",
		Long:  "Delete a resource by type and ID",
		Args:  cobra.ExactArgs(resourceArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			resourceType, id := args[0], args[1]

			if !force {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Really delete %s %s? [y/N]: ", resourceType, id)

				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')

				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					return ErrDeleteNotConfirmed
				}
			}

			client, err := CreateClient(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			target := jsonapi.NewGeneric(resourceType)
			target.ID = id

			err = client.Delete(cmd.Context(), target)
			if err != nil {
				return fmt.Errorf("failed to delete %s %s: %w", resourceType, id, err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", resourceType, id)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete without confirmation")

	return cmd
}

func addWriteFlags(cmd *cobra.Command, attributes, toOne, toMany *[]string) {
	cmd.Flags().StringArrayVar(attributes, "attr", nil, "attribute as NAME=VALUE, VALUE may be JSON (repeatable)")
	cmd.Flags().StringArrayVar(toOne, "to-one", nil, "to-one relationship as NAME=TYPE:ID, empty to clear (repeatable)")
	cmd.Flags().StringArrayVar(toMany, "to-many", nil, "to-many relationship as NAME=TYPE:ID[,TYPE:ID] (repeatable)")
}

func buildResource(resourceType, id string, attributes, toOne, toMany []string) (*jsonapi.Generic, error) {
	parsed, err := parseAttributes(attributes)
	if err != nil {
		return nil, err
	}

	resource := jsonapi.NewGeneric(resourceType)
	resource.ID = id
	resource.Attributes = parsed

	err = applyRelationships(resource, toOne, toMany)
	if err != nil {
		return nil, err
	}

	return resource, nil
}
