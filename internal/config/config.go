// Package config loads the recordpipe configuration from an optional YAML file, an optional
// .env file and RECORDPIPE_ prefixed environment variables, in increasing priority.
package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const EnvPrefix = "RECORDPIPE"

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the whole configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	ETL      ETLConfig      `mapstructure:"etl"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level   string `mapstructure:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	Format  string `mapstructure:"format" validate:"oneof=console json"`
	Output  string `mapstructure:"output" validate:"oneof=stdout stderr"`
	NoColor bool   `mapstructure:"no_color"`
}

// PipelineConfig holds the defaults of the run command.
type PipelineConfig struct {
	Input       string   `mapstructure:"input"`
	Policy      string   `mapstructure:"policy" validate:"oneof=skip-record abort-pipeline skip abort"`
	Stages      []string `mapstructure:"stages" validate:"dive,required"`
	Parallelism int      `mapstructure:"parallelism" validate:"gte=1"`
	Lazy        bool     `mapstructure:"lazy"`
	Measure     bool     `mapstructure:"measure"`
}

// ETLConfig configures the ETL loaders.
type ETLConfig struct {
	Database string `mapstructure:"database" validate:"required"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("log.no_color", false)
	v.SetDefault("pipeline.input", "")
	v.SetDefault("pipeline.policy", "abort-pipeline")
	v.SetDefault("pipeline.stages", []string{})
	v.SetDefault("pipeline.parallelism", 1)
	v.SetDefault("pipeline.lazy", false)
	v.SetDefault("pipeline.measure", false)
	v.SetDefault("etl.database", "recordpipe.db")
}

type loaderConfig struct {
	configFile string
	envFile    string
}

// Option configures Load.
type Option func(*loaderConfig)

// WithConfigFile sets the YAML file to read. A missing file is an error.
func WithConfigFile(path string) Option {
	return func(lc *loaderConfig) { lc.configFile = path }
}

// WithEnvFile sets the .env file to load. Without it, ./.env is loaded when present.
func WithEnvFile(path string) Option {
	return func(lc *loaderConfig) { lc.envFile = path }
}

// Load loads and validates the configuration.
func Load(opts ...Option) (*Config, error) {
	lc := loaderConfig{}
	for _, opt := range opts {
		opt(&lc)
	}

	err := loadEnvFile(lc.envFile)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	if lc.configFile != "" {
		v.SetConfigFile(lc.configFile)
		err = v.ReadInConfig()
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read config file %s", lc.configFile)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	err = v.Unmarshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode configuration")
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		path = ".env"
	}

	err := godotenv.Load(path)
	if err != nil {
		return errors.Wrapf(err, "unable to load env file %s", path)
	}

	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field of the configuration.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fe.Namespace()+" failed on "+fe.Tag())
			}

			return errors.Wrap(ErrInvalidConfig, strings.Join(msgs, "; "))
		}

		return errors.Wrap(ErrInvalidConfig, err.Error())
	}

	return nil
}
