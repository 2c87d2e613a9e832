package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/salesdash/internal/analysis"
	cfgpkg "github.com/KaramelBytes/salesdash/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Salesdash configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "data_path: %s\n", c.DataPath)
		if c.SheetName != "" {
			fmt.Fprintf(out, "sheet_name: %s\n", c.SheetName)
		}
		if c.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", c.Delimiter)
		}
		if c.Decimal != "" {
			fmt.Fprintf(out, "decimal: %s\n", c.Decimal)
		}
		if c.Thousands != "" {
			fmt.Fprintf(out, "thousands: %q\n", c.Thousands)
		}
		fmt.Fprintf(out, "columns.price: %s\n", c.Columns.Price)
		fmt.Fprintf(out, "columns.sold_qty: %s\n", c.Columns.SoldQty)
		fmt.Fprintf(out, "columns.reviews: %s\n", c.Columns.Reviews)
		fmt.Fprintf(out, "columns.brand: %s\n", c.Columns.Brand)
		fmt.Fprintf(out, "columns.season: %s\n", c.Columns.Season)
		fmt.Fprintf(out, "columns.gender: %s\n", c.Columns.Gender)
		fmt.Fprintf(out, "reference_brand: %s\n", c.ReferenceBrand)
		fmt.Fprintf(out, "chart_width: %d\n", c.ChartWidth)
		fmt.Fprintf(out, "chart_height: %d\n", c.ChartHeight)
		fmt.Fprintf(out, "listen_addr: %s\n", c.ListenAddr)
		fmt.Fprintf(out, "shutdown_timeout_sec: %d\n", c.ShutdownTimeoutSec)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", c.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// start from the file and env only, so one-off flags are not persisted
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := setKey(c, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved %s\n", key)
		return nil
	},
}

func setKey(c *cfgpkg.Global, key, val string) error {
	positive := func() (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return 0, fmt.Errorf("invalid positive int for %s: %v", key, val)
		}
		return i, nil
	}
	var err error
	switch key {
	case "data_path":
		c.DataPath = val
	case "sheet_name":
		c.SheetName = val
	case "delimiter":
		if _, err = analysis.ParseDelimiter(val); err == nil {
			c.Delimiter = val
		}
	case "decimal":
		if _, err = analysis.ParseDecimal(val); err == nil {
			c.Decimal = val
		}
	case "thousands":
		if _, err = analysis.ParseThousands(val); err == nil {
			c.Thousands = val
		}
	case "columns.price":
		c.Columns.Price = val
	case "columns.sold_qty":
		c.Columns.SoldQty = val
	case "columns.reviews":
		c.Columns.Reviews = val
	case "columns.brand":
		c.Columns.Brand = val
	case "columns.season":
		c.Columns.Season = val
	case "columns.gender":
		c.Columns.Gender = val
	case "reference_brand":
		if strings.TrimSpace(val) == "" {
			return fmt.Errorf("reference_brand cannot be empty")
		}
		c.ReferenceBrand = val
	case "chart_width":
		c.ChartWidth, err = positive()
	case "chart_height":
		c.ChartHeight, err = positive()
	case "listen_addr":
		c.ListenAddr = val
	case "shutdown_timeout_sec":
		c.ShutdownTimeoutSec, err = positive()
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
		}
	case "log_format":
		switch strings.ToLower(val) {
		case "console", "json":
			c.LogFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_format: %s (use console or json)", val)
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return err
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
