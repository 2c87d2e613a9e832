package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/salesdash/internal/analysis"
	cfgpkg "github.com/KaramelBytes/salesdash/internal/config"
	"github.com/KaramelBytes/salesdash/internal/dashboard"
	"github.com/KaramelBytes/salesdash/internal/dataset"
	"github.com/KaramelBytes/salesdash/internal/obs"
	"github.com/KaramelBytes/salesdash/internal/render"
)

var (
	// Global flags
	cfgFile       string
	debug         bool
	flagDataPath  string
	flagLogLevel  string
	flagLogFormat string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "salesdash",
	Short: "Salesdash: interactive sales dashboard for an e-commerce dataset",
	Long: `Salesdash loads an e-commerce statistics export once and serves a single-page
dashboard with seven charts that are recomputed whenever the brand, season or
price filters change. The same charts can be printed as JSON or exported as SVG.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.salesdash/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagDataPath, "data", "", "dataset path, CSV/TSV or XLSX (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: console|json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("data") && flagDataPath != "" {
		cfg.DataPath = flagDataPath
	}
	if f.Changed("log-level") && flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if f.Changed("log-format") && flagLogFormat != "" {
		cfg.LogFormat = flagLogFormat
	}
	if debug {
		cfg.LogLevel = "debug"
	}
}

// currentConfig returns the loaded config, loading defaults when the
// initializer has not run (tests invoke commands directly).
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		loadConfig()
	}
	return cfg
}

func newLogger() zerolog.Logger {
	c := currentConfig()
	return obs.New(c.LogLevel, c.LogFormat, os.Stderr)
}

func loadOptions(c *cfgpkg.Global) (dataset.LoadOptions, error) {
	var opt dataset.LoadOptions
	var err error
	if opt.Parser.Delimiter, err = analysis.ParseDelimiter(c.Delimiter); err != nil {
		return opt, err
	}
	if opt.Locale.Decimal, err = analysis.ParseDecimal(c.Decimal); err != nil {
		return opt, err
	}
	if opt.Locale.Thousands, err = analysis.ParseThousands(c.Thousands); err != nil {
		return opt, err
	}
	opt.Parser.Sheet = c.SheetName
	opt.Columns = dataset.ColumnNames{
		Price:   c.Columns.Price,
		SoldQty: c.Columns.SoldQty,
		Reviews: c.Columns.Reviews,
		Brand:   c.Columns.Brand,
		Season:  c.Columns.Season,
		Gender:  c.Columns.Gender,
	}
	return opt, nil
}

// loadStore loads the dataset c points at. Failure is fatal for every command that needs it.
func loadStore(c *cfgpkg.Global, log zerolog.Logger) (*dataset.Store, error) {
	if strings.TrimSpace(c.DataPath) == "" {
		return nil, fmt.Errorf("no dataset configured (use --data or set data_path)")
	}
	opt, err := loadOptions(c)
	if err != nil {
		return nil, err
	}
	st, err := dataset.Load(c.DataPath, opt)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", c.DataPath, err)
	}
	d := st.Domains()
	log.Debug().
		Str("dataset", st.Source()).
		Int("rows", st.Len()).
		Int("brands", len(d.Brands)).
		Int("seasons", len(d.Seasons)).
		Float64("price_min", d.PriceMin).
		Float64("price_max", d.PriceMax).
		Msg("dataset_loaded")
	return st, nil
}

func dashboardOptions() dashboard.Options {
	return dashboard.Options{ReferenceBrand: currentConfig().ReferenceBrand}
}

func chartSize() render.Size {
	c := currentConfig()
	return render.Size{Width: c.ChartWidth, Height: c.ChartHeight}
}
