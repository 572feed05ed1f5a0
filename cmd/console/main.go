package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"opshub/internal/console"
)

func main() {
	opts := console.Options{}

	root := &cobra.Command{
		Use:   "console",
		Short: "Terminal admin console for the OpsHub API",
		Long: "Opens one admin resource panel in the terminal: paginated table,\n" +
			"debounced search, status toggling and delete with confirmation.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Token == "" {
				opts.Token = os.Getenv("OPSHUB_TOKEN")
			}
			m, err := console.New(opts)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}

	root.Flags().StringVarP(&opts.Server, "server", "s", "http://localhost:8080", "OpsHub API base URL")
	root.Flags().StringVarP(&opts.Resource, "resource", "R", "content", "resource panel to open")
	root.Flags().StringVarP(&opts.Token, "token", "t", "", "bearer token (defaults to $OPSHUB_TOKEN)")
	root.Flags().IntVarP(&opts.PageSize, "page-size", "p", 15, "rows per page")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
