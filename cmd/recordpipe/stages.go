package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askiada/go-recordpipe/pkg/stages"
)

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List the available stages",
	Run: func(cmd *cobra.Command, _ []string) {
		for _, name := range stages.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}
