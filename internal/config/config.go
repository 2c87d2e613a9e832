package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Columns maps canonical dataset fields to the header names used in the source file.
type Columns struct {
	Price   string `mapstructure:"price" yaml:"price"`
	SoldQty string `mapstructure:"sold_qty" yaml:"sold_qty"`
	Reviews string `mapstructure:"reviews" yaml:"reviews"`
	Brand   string `mapstructure:"brand" yaml:"brand"`
	Season  string `mapstructure:"season" yaml:"season"`
	Gender  string `mapstructure:"gender" yaml:"gender"`
}

// Global configuration structure.
type Global struct {
	DataPath  string `mapstructure:"data_path" yaml:"data_path"`
	SheetName string `mapstructure:"sheet_name" yaml:"sheet_name"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	Decimal   string `mapstructure:"decimal" yaml:"decimal"`
	Thousands string `mapstructure:"thousands" yaml:"thousands"`

	Columns Columns `mapstructure:"columns" yaml:"columns"`

	// Dashboard
	ReferenceBrand string `mapstructure:"reference_brand" yaml:"reference_brand"`
	ChartWidth     int    `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight    int    `mapstructure:"chart_height" yaml:"chart_height"`

	// HTTP server
	ListenAddr         string `mapstructure:"listen_addr" yaml:"listen_addr"`
	ShutdownTimeoutSec int    `mapstructure:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.salesdash/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".salesdash")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env (including a local .env file) > config file > defaults.
// Command-line flags are applied on top by the caller.
func Load(cfgFile string) (*Global, error) {
	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("SALESDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".salesdash"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Defaults returns the built-in configuration without reading files or env.
func Defaults() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	return &c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_path", "ecommerce_estatistica.csv")
	v.SetDefault("sheet_name", "")
	v.SetDefault("delimiter", "")
	v.SetDefault("decimal", "")
	v.SetDefault("thousands", "")
	// Source headers of the e-commerce statistics export
	v.SetDefault("columns.price", "Preço")
	v.SetDefault("columns.sold_qty", "Qtd_Vendidos_Cod")
	v.SetDefault("columns.reviews", "N_Avaliações_MinMax")
	v.SetDefault("columns.brand", "Marca")
	v.SetDefault("columns.season", "Temporada_Cod")
	v.SetDefault("columns.gender", "Gênero")
	v.SetDefault("reference_brand", "keeper")
	v.SetDefault("chart_width", 800)
	v.SetDefault("chart_height", 450)
	v.SetDefault("listen_addr", "127.0.0.1:8050")
	v.SetDefault("shutdown_timeout_sec", 10)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
}
