package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lapdeck/lapdeck/internal/session"
	"github.com/lapdeck/lapdeck/internal/tui"
)

// browseCmd starts the interactive browse mode
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog interactively",
	Long: `Browse the catalog interactively.

Opens a full-screen terminal UI. If a stored session cookie is still valid
you land on the catalog; otherwise on the sign-in form.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStore()
		if err != nil {
			return err
		}

		client, err := getClient()
		if err != nil {
			return err
		}

		return tui.Run(tui.NewModel(store, session.NewGuard(store), client))
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
