package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askiada/go-recordpipe/internal/lessons"
)

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "Print the lessons the library is built around",
}

var lessonsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the lesson topics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, name := range lessons.Names() {
			t, err := lessons.Get(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %-18s %s\n", t.Name, t.Title)
		}

		return nil
	},
}

var lessonsShowCmd = &cobra.Command{
	Use:   "show <topic>",
	Short: "Run the demonstration of a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		questions, _ := cmd.Flags().GetBool("questions")

		return lessons.Show(cmd.Context(), cmd.OutOrStdout(), args[0], questions)
	},
}

func init() {
	lessonsShowCmd.Flags().Bool("questions", false, "also print the study guide")
	lessonsCmd.AddCommand(lessonsListCmd, lessonsShowCmd)
}
