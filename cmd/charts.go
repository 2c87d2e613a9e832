package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/salesdash/internal/dashboard"
	"github.com/KaramelBytes/salesdash/internal/utils"
)

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Print the seven chart specifications for a selection as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := loadStore(currentConfig(), newLogger())
		if err != nil {
			return err
		}
		d, err := dashboard.Build(st, selectionFromFlags(cmd), dashboardOptions())
		if err != nil {
			return err
		}
		b, err := utils.PrettyJSON(d)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartsCmd)
	chartsCmd.Flags().AddFlagSet(selectionFlags())
}
