package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix is the prefix for environment variable overrides,
// e.g. SALESCOPE_OUTPUT_DIR.
const envPrefix = "SALESCOPE"

// Config represents the complete application configuration.
type Config struct {
	Sources SourcesConfig `yaml:"sources" envconfig:"SOURCES"`
	Output  OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// SourcesConfig is the static mapping of logical table name to file path.
// Excel (.xlsx) and CSV sources are supported.
type SourcesConfig struct {
	Customer    string `yaml:"customer" envconfig:"CUSTOMER" validate:"required"`
	Product     string `yaml:"product" envconfig:"PRODUCT" validate:"required"`
	Sales       string `yaml:"sales" envconfig:"SALES" validate:"required"`
	Territories string `yaml:"territories" envconfig:"TERRITORIES" validate:"required"`
}

// OutputConfig names the artifacts of a run, all relative to Dir.
type OutputConfig struct {
	Dir          string `yaml:"dir" envconfig:"DIR" validate:"required"`
	DatasetFile  string `yaml:"dataset_file" envconfig:"DATASET_FILE" validate:"required"`
	RFMFile      string `yaml:"rfm_file" envconfig:"RFM_FILE" validate:"required"`
	ProductsFile string `yaml:"products_file" envconfig:"PRODUCTS_FILE" validate:"required"`
	ReportFile   string `yaml:"report_file" envconfig:"REPORT_FILE" validate:"required"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"required,oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"required,oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Load builds the configuration in layers: defaults, then the optional YAML
// file at path (ignored when path is empty and no default file exists), then
// SALESCOPE_* environment variables. The result is validated before use.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = defaultConfigFile()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration using its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Logging.Output != "stdout" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging.file_path required for output mode %q", c.Logging.Output)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// defaultConfigFile returns the first config file found in the common
// locations, or "" when none exists.
func defaultConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Sources: SourcesConfig{
			Customer:    "data/Customer.xlsx",
			Product:     "data/Product.xlsx",
			Sales:       "data/Sales.xlsx",
			Territories: "data/Territories.xlsx",
		},
		Output: OutputConfig{
			Dir:          "output",
			DatasetFile:  "cleaned_sales_data.csv",
			RFMFile:      "rfm_segments.csv",
			ProductsFile: "product_segments.csv",
			ReportFile:   "analysis_final_report.txt",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "both",
			FilePath: "logs/salescope.log",
		},
	}
}
