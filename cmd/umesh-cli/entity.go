package main

import (
	"fmt"

	"github.com/rmacdonaldsmith/umesh-go/pkg/descriptor"
	"github.com/spf13/cobra"
)

func newEntityCommand() *cobra.Command {
	var descriptorPath string

	cmd := &cobra.Command{
		Use:   "entity",
		Short: "Build an entity from a service descriptor",
		Long: `Read a YAML service descriptor and build the entity declared by its
uprotocol block. Options outside the valid ranges are ignored; a descriptor
without a uprotocol block yields the empty entity.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := descriptor.LoadOptions(descriptorPath)
			if err != nil {
				return err
			}
			logger.Debug("loaded descriptor", "path", descriptorPath, "declared", opts != nil)

			entity := descriptor.BuildEntity(opts)
			w := cmd.OutOrStdout()
			if entity.IsZero() {
				fmt.Fprintln(w, "entity:  (empty)")
				return nil
			}
			fmt.Fprintf(w, "entity:  %s\n", entity)
			fmt.Fprintf(w, "form:    %s\n", entity.Forms())
			if entity.Name() != "" {
				fmt.Fprintf(w, "name:    %s\n", entity.Name())
			}
			if entity.ID() != 0 {
				fmt.Fprintf(w, "id:      %d\n", entity.ID())
			}
			fmt.Fprintf(w, "version: %d\n", entity.MajorVersion())
			return nil
		},
	}

	cmd.Flags().StringVar(&descriptorPath, "descriptor", "", "Service descriptor YAML file (required)")
	if err := cmd.MarkFlagRequired("descriptor"); err != nil {
		panic(fmt.Sprintf("Failed to mark descriptor as required: %v", err))
	}

	return cmd
}
