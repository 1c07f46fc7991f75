package main

import (
	"fmt"

	"github.com/muesli/termenv"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved plans",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cmd.Context(), cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		plans, err := st.List(cmd.Context())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		writeHistory(w, termenv.NewOutput(w), plans)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func formatDepth(mm *float64) string {
	if mm == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f mm", *mm)
}
