package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration for a forecast run. Every
// pipeline tunable lives here so tests can vary horizons and windows
// without touching global state.
type Config struct {
	Environment string         `mapstructure:"environment"`
	LogLevel    string         `mapstructure:"log_level"`
	Input       InputConfig    `mapstructure:"input"`
	Output      OutputConfig   `mapstructure:"output"`
	Pipeline    PipelineConfig `mapstructure:"pipeline"`
}

// InputConfig locates the aggregated-series artifact produced by the ETL.
type InputConfig struct {
	AggregatedPath string `mapstructure:"aggregated_path"`
}

// OutputConfig locates the forecast artifact consumed by the dashboard.
type OutputConfig struct {
	ForecastsPath string `mapstructure:"forecasts_path"`
}

// PipelineConfig holds the forecasting parameters. The defaults match the
// dashboard contract: 24-month horizon, 12-month validation block, lag and
// rolling windows sized for monthly economic series.
type PipelineConfig struct {
	Horizon            int      `mapstructure:"horizon"`
	TestSize           int      `mapstructure:"test_size"`
	Seed               int64    `mapstructure:"seed"`
	LagOffsets         []int    `mapstructure:"lag_offsets"`
	RollingWindows     []int    `mapstructure:"rolling_windows"`
	MinRawObservations int      `mapstructure:"min_raw_observations"`
	MinFeatureRows     int      `mapstructure:"min_feature_rows"`
	Series             []string `mapstructure:"series"`
	Models             []string `mapstructure:"models"`
	Workers            int      `mapstructure:"workers"`
}

// Load reads configuration from an optional config.yaml, environment
// variables, and defaults, in that order of precedence.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	setDefaults(v)

	// Enable environment variable support
	v.SetEnvPrefix("forecaster")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The two file paths are the only environment contract of the pipeline.
	if err := v.BindEnv("input.aggregated_path", "AGGREGATED_DATA_PATH"); err != nil {
		return nil, fmt.Errorf("failed to bind AGGREGATED_DATA_PATH environment variable: %w", err)
	}
	if err := v.BindEnv("output.forecasts_path", "FORECASTS_PATH"); err != nil {
		return nil, fmt.Errorf("failed to bind FORECASTS_PATH environment variable: %w", err)
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Environment = strings.ToLower(config.Environment)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Input.AggregatedPath == "" {
		return fmt.Errorf("input.aggregated_path must not be empty")
	}
	if c.Output.ForecastsPath == "" {
		return fmt.Errorf("output.forecasts_path must not be empty")
	}
	if c.Pipeline.Horizon < 1 {
		return fmt.Errorf("pipeline.horizon must be at least 1, got %d", c.Pipeline.Horizon)
	}
	if c.Pipeline.TestSize < 1 {
		return fmt.Errorf("pipeline.test_size must be at least 1, got %d", c.Pipeline.TestSize)
	}
	if len(c.Pipeline.LagOffsets) == 0 {
		return fmt.Errorf("pipeline.lag_offsets must not be empty")
	}
	if len(c.Pipeline.RollingWindows) == 0 {
		return fmt.Errorf("pipeline.rolling_windows must not be empty")
	}
	for _, lag := range c.Pipeline.LagOffsets {
		if lag < 1 {
			return fmt.Errorf("pipeline.lag_offsets entries must be positive, got %d", lag)
		}
	}
	for _, window := range c.Pipeline.RollingWindows {
		if window < 1 {
			return fmt.Errorf("pipeline.rolling_windows entries must be positive, got %d", window)
		}
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("pipeline.workers must be at least 1, got %d", c.Pipeline.Workers)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Environment
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")

	// Artifact locations
	v.SetDefault("input.aggregated_path", "data/aggregated.json")
	v.SetDefault("output.forecasts_path", "data/forecasts.json")

	// Pipeline
	v.SetDefault("pipeline.horizon", 24)
	v.SetDefault("pipeline.test_size", 12)
	v.SetDefault("pipeline.seed", 42)
	v.SetDefault("pipeline.lag_offsets", []int{1, 2, 3, 6, 12})
	v.SetDefault("pipeline.rolling_windows", []int{3, 6, 12})
	v.SetDefault("pipeline.min_raw_observations", 24)
	v.SetDefault("pipeline.min_feature_rows", 12)
	v.SetDefault("pipeline.series", []string{"total", "custeio", "investimento", "comercializacao"})
	v.SetDefault("pipeline.models", []string{"xgboost", "lightgbm", "randomforest"})
	v.SetDefault("pipeline.workers", 4)
}
