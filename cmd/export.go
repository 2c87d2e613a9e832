package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/salesdash/internal/dashboard"
	"github.com/KaramelBytes/salesdash/internal/render"
	"github.com/KaramelBytes/salesdash/internal/utils"
)

var exportOutDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render every panel to SVG and write the dashboard JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportOutDir == "" {
			return fmt.Errorf("--out is required")
		}
		log := newLogger()
		st, err := loadStore(currentConfig(), log)
		if err != nil {
			return err
		}
		d, err := dashboard.Build(st, selectionFromFlags(cmd), dashboardOptions())
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(exportOutDir); err != nil {
			return err
		}
		for i, spec := range d.Charts {
			b, err := render.SVGBytes(spec, chartSize())
			if err != nil {
				return fmt.Errorf("panel %d: %w", i+1, err)
			}
			name := fmt.Sprintf("panel-%d-%s.svg", i+1, spec.Kind)
			if err := utils.SafeWriteFile(filepath.Join(exportOutDir, name), b); err != nil {
				return err
			}
			log.Debug().Str("file", name).Int("bytes", len(b)).Msg("panel_written")
		}
		if err := utils.WriteJSONFile(filepath.Join(exportOutDir, "dashboard.json"), d); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d panels (%d rows) to %s\n", dashboard.NumPanels, d.Rows, exportOutDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutDir, "out", "o", "", "output directory")
	exportCmd.Flags().AddFlagSet(selectionFlags())
}
