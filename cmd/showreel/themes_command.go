package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maauso/showreel-api/internal/compose"
	"github.com/maauso/showreel-api/internal/theme"
)

func newThemesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List themes and output resolutions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(theme.All()))
			for _, t := range theme.All() {
				rec := theme.Resolve(t)
				rows = append(rows, []string{string(t), rec.Transition, rec.LUT, rec.Music})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Theme", "Transition", "LUT", "Music"}, rows, nil))

			res := make([]string, 0, 2)
			for _, r := range compose.Resolutions() {
				res = append(res, r.String())
			}
			fmt.Fprintf(out, "Resolutions: %s\n", strings.Join(res, ", "))
			return nil
		},
	}
}
