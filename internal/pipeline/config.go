package pipeline

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signals/internal/backtest/engine"
	"github.com/rxtech-lab/argo-signals/internal/signal"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config drives one analysis run.
type Config struct {
	engine.Config `yaml:",inline"`

	Horizons       []int    `yaml:"horizons" json:"horizons" validate:"min=1,dive,gt=0" jsonschema:"title=Horizons,description=Forward horizons in bars the signals are scored at"`
	TopN           int      `yaml:"top_n" json:"top_n" validate:"gt=0" jsonschema:"title=Top N,description=Number of best signals combined by the combination analysis,minimum=1"`
	BacktestTopN   int      `yaml:"backtest_top_n" json:"backtest_top_n" validate:"gt=0" jsonschema:"title=Backtest Top N,description=Number of best signals backtested per horizon,minimum=1"`
	EquityTopN     int      `yaml:"equity_top_n" json:"equity_top_n" validate:"gt=0" jsonschema:"title=Equity Top N,description=Number of best backtests whose equity curves are kept,minimum=1"`
	MaxComboSize   int      `yaml:"max_combo_size" json:"max_combo_size" validate:"gte=2" jsonschema:"title=Max Combination Size,minimum=2"`
	SignalSuffixes []string `yaml:"signal_suffixes" json:"signal_suffixes" validate:"min=1,dive,required" jsonschema:"title=Signal Suffixes,description=Column name suffixes that identify signal columns"`
	// ComputeIndicators runs the built-in indicators and signal rules on top of any columns already in the price file
	ComputeIndicators bool   `yaml:"compute_indicators" json:"compute_indicators" jsonschema:"title=Compute Indicators"`
	Parallelism       int    `yaml:"parallelism" json:"parallelism" validate:"gt=0" jsonschema:"title=Parallelism,description=Signal columns processed at once,minimum=1"`
	LogLevel          string `yaml:"log_level" json:"log_level" validate:"omitempty,oneof=debug info warn error" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error"`

	StartTime optional.Option[time.Time] `yaml:"-" json:"start_time" jsonschema:"title=Start Time,description=Optional first date of the analysis window"`
	EndTime   optional.Option[time.Time] `yaml:"-" json:"end_time" jsonschema:"title=End Time,description=Optional last date of the analysis window"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Config:            engine.DefaultConfig(),
		Horizons:          []int{5, 10, 20},
		TopN:              5,
		BacktestTopN:      10,
		EquityTopN:        3,
		MaxComboSize:      3,
		SignalSuffixes:    append([]string(nil), signal.DefaultSuffixes...),
		ComputeIndicators: true,
		Parallelism:       4,
		LogLevel:          "info",
		StartTime:         optional.None[time.Time](),
		EndTime:           optional.None[time.Time](),
	}
}

// UnmarshalYAML decodes on top of the defaults so a file only needs the keys it changes.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type plain Config

	raw := struct {
		Base      plain      `yaml:",inline"`
		StartTime *time.Time `yaml:"start_time"`
		EndTime   *time.Time `yaml:"end_time"`
	}{
		Base: plain(DefaultConfig()),
	}

	if err := value.Decode(&raw); err != nil {
		return err
	}

	*c = Config(raw.Base)

	if raw.StartTime != nil {
		c.StartTime = optional.Some(*raw.StartTime)
	}

	if raw.EndTime != nil {
		c.EndTime = optional.Some(*raw.EndTime)
	}

	return nil
}

// LoadConfig reads a YAML config file. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config %s", path)
	}

	return config, config.Validate()
}

// Validate checks the run parameters and the embedded backtest parameters.
func (c Config) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}

	err := validator.New().Struct(c)
	if err == nil {
		return c.validateWindow()
	}

	var validationErrors validator.ValidationErrors
	if stderrors.As(err, &validationErrors) && len(validationErrors) > 0 {
		first := validationErrors[0]
		if strings.HasPrefix(first.Field(), "Horizons") {
			return errors.Newf(errors.ErrCodeInvalidHorizon, "horizons must be a non-empty list of positive bar counts, got %v", c.Horizons)
		}

		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid %s", first.Field())
	}

	return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
}

func (c Config) validateWindow() error {
	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.New(errors.ErrCodeInvalidConfiguration, "end_time is before start_time")
	}

	return nil
}

// GenerateSchema generates a JSON schema for the Config
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}

			if t == reflect.TypeOf(engine.PairingMode("")) {
				return &jsonschema.Schema{
					Type: "string",
					Enum: engine.AllPairingModes,
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "argo-signals-config"
	schema.Description = "Configuration schema for an argo-signals analysis run"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the Config
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
