package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scrypster/strata/pkg/types"
)

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the registered entity types",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, t := range types.ValidEntityTypes {
				fmt.Fprintln(out, t)
			}
			return nil
		},
	}
}
