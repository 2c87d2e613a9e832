package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KaramelBytes/salesdash/internal/dataset"
)

// Selection flags shared by charts and export
var (
	selBrands   []string
	selSeasons  []string
	selPriceMin float64
	selPriceMax float64
)

func selectionFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("selection", pflag.ContinueOnError)
	fs.StringSliceVar(&selBrands, "brand", nil, "brand to include (repeatable; default all)")
	fs.StringSliceVar(&selSeasons, "season", nil, "season code to include (repeatable; default all)")
	fs.Float64Var(&selPriceMin, "price-min", 0, "inclusive lower price bound (default observed minimum)")
	fs.Float64Var(&selPriceMax, "price-max", 0, "inclusive upper price bound (default observed maximum)")
	return fs
}

func selectionFromFlags(cmd *cobra.Command) dataset.Selection {
	sel := dataset.Selection{
		Brands:  append([]string(nil), selBrands...),
		Seasons: append([]string(nil), selSeasons...),
	}
	if cmd.Flags().Changed("price-min") {
		lo := selPriceMin
		sel.PriceMin = &lo
	}
	if cmd.Flags().Changed("price-max") {
		hi := selPriceMax
		sel.PriceMax = &hi
	}
	return sel
}
