package engine

import (
	stderrors "errors"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

// PairingMode selects how closing legs are matched with buy legs when computing per-trade P&L.
type PairingMode string

const (
	// PairingPositional pairs the i-th buy with the i-th close in emission order.
	PairingPositional PairingMode = "positional"
	// PairingLIFO pairs every close with the most recent unmatched buy.
	PairingLIFO PairingMode = "lifo"
)

// AllPairingModes lists the accepted pairing modes.
var AllPairingModes = []any{string(PairingPositional), string(PairingLIFO)}

// Config holds the backtest parameters. Initial capital is always explicit and is threaded
// to both the engine and the equity curve reconstruction.
type Config struct {
	InitialCapital   float64     `yaml:"initial_capital" json:"initial_capital" validate:"gt=0" jsonschema:"title=Initial Capital,description=Starting cash for every signal column,exclusiveMinimum=0"`
	PositionFraction float64     `yaml:"position_fraction" json:"position_fraction" validate:"gt=0,lte=1" jsonschema:"title=Position Fraction,description=Fraction of cash committed to each entry,exclusiveMinimum=0,maximum=1"`
	Pairing          PairingMode `yaml:"pairing" json:"pairing" validate:"omitempty,oneof=positional lifo" jsonschema:"title=Pairing,description=How buys and closes are paired for trade statistics"`
}

// DefaultConfig returns the defaults used by the analysis driver.
func DefaultConfig() Config {
	return Config{
		InitialCapital:   1000000,
		PositionFraction: 0.2,
		Pairing:          PairingPositional,
	}
}

// Validate checks the configuration and returns a coded error naming the first bad field.
func (c Config) Validate() error {
	validate := validator.New()

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid backtest configuration", err)
	}

	first := validationErrors[0]

	switch first.Field() {
	case "InitialCapital":
		return errors.Newf(errors.ErrCodeInvalidCapital, "initial capital must be positive, got %v", c.InitialCapital)
	case "PositionFraction":
		return errors.Newf(errors.ErrCodeInvalidPositionFraction, "position fraction must be in (0, 1], got %v", c.PositionFraction)
	default:
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid backtest configuration", err)
	}
}

func (c Config) pairing() PairingMode {
	if c.Pairing == "" {
		return PairingPositional
	}

	return c.Pairing
}
