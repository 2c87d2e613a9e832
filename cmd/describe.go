package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/salesdash/internal/analysis"
	"github.com/KaramelBytes/salesdash/internal/dashboard"
	"github.com/KaramelBytes/salesdash/internal/dataset"
	"github.com/KaramelBytes/salesdash/internal/utils"
)

var (
	descOutputPath string
	descSampleRows int
	descCorr       bool
	descOutliers   bool
	descOutlierThr float64
)

var describeCmd = &cobra.Command{
	Use:   "describe [file]",
	Short: "Summarize the dataset as Markdown (schema, stats, outliers, filter domains, correlations)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := *currentConfig()
		if len(args) == 1 {
			c.DataPath = args[0]
		}
		st, err := loadStore(&c, newLogger())
		if err != nil {
			return err
		}
		lopt, err := loadOptions(&c)
		if err != nil {
			return err
		}
		opt := analysis.DefaultOptions()
		opt.Locale = lopt.Locale
		if descSampleRows > 0 {
			opt.SampleRows = descSampleRows
		}
		opt.Correlations = descCorr
		opt.Outliers = descOutliers
		if descOutlierThr > 0 {
			opt.OutlierThreshold = descOutlierThr
		}
		tab := st.Table()
		rep := analysis.Describe(tab.Name, tab.Header, tab.Rows, opt)
		pipe, err := pipelineSection(st, dashboard.Options{ReferenceBrand: c.ReferenceBrand})
		if err != nil {
			return err
		}
		rep.Sections = append(rep.Sections, domainSection(st), pipe)
		md := rep.Markdown()

		if descOutputPath != "" {
			if err := utils.SafeWriteFile(descOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote summary to %s\n", descOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func domainSection(st *dataset.Store) analysis.Section {
	d := st.Domains()
	return analysis.Section{
		Title: "Filter domains",
		Lines: []string{
			fmt.Sprintf("Brands (%d): %s", len(d.Brands), strings.Join(d.Brands, ", ")),
			fmt.Sprintf("Seasons (%d): %s", len(d.Seasons), strings.Join(d.Seasons, ", ")),
			fmt.Sprintf("Price: %g to %g", d.PriceMin, d.PriceMax),
		},
	}
}

// pipelineSection reports the heatmap panel's matrix over the full dataset,
// i.e. over the mapped columns rather than the raw headers.
func pipelineSection(st *dataset.Store, opt dashboard.Options) (analysis.Section, error) {
	d, err := dashboard.Build(st, dataset.Selection{}, opt)
	if err != nil {
		return analysis.Section{}, err
	}
	sec := analysis.Section{Title: "Dashboard correlations"}
	hm := d.Chart(dashboard.PanelCorrelation)
	m := hm.Matrix
	if m == nil || hm.Placeholder {
		sec.Lines = []string{"not enough complete rows"}
		return sec, nil
	}
	for i := range m.Labels {
		for j := i + 1; j < len(m.Labels); j++ {
			sec.Lines = append(sec.Lines, fmt.Sprintf("%s ~ %s: r=%.3f", m.Labels[i], m.Labels[j], m.Values[i][j]))
		}
	}
	return sec, nil
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringVarP(&descOutputPath, "output", "o", "", "optional path to write the summary (Markdown)")
	describeCmd.Flags().IntVar(&descSampleRows, "sample-rows", 5, "number of sample rows to include")
	describeCmd.Flags().BoolVar(&descCorr, "correlations", true, "compute Pearson correlations among numeric columns")
	describeCmd.Flags().BoolVar(&descOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	describeCmd.Flags().Float64Var(&descOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based)")
}
