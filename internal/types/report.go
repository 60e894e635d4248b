package types

import "time"

// HorizonReport holds the ranked accuracy tables for one forward horizon.
type HorizonReport struct {
	HorizonDays  int               `yaml:"horizon_days" json:"horizon_days"`
	Accuracy     []AccuracyRecord  `yaml:"accuracy" json:"accuracy"`
	Combinations []ComboRecord     `yaml:"combinations" json:"combinations"`
	Backtests    []BacktestSummary `yaml:"backtests" json:"backtests"`
	// Advice is read from the top signals of this horizon's ranking
	Advice Advice `yaml:"advice" json:"advice"`
	// Failures maps a signal column to the error that stopped it. Other columns still complete.
	Failures map[string]string `yaml:"failures,omitempty" json:"failures,omitempty"`
}

// Recommendation is the latest-bar reading of one signal column.
type Recommendation string

const (
	RecommendationBuy  Recommendation = "buy"
	RecommendationSell Recommendation = "sell"
	RecommendationHold Recommendation = "hold"
)

// CurrentSignal is the latest value of a top-ranked signal column.
type CurrentSignal struct {
	Signal         string         `yaml:"signal" json:"signal"`
	Value          int            `yaml:"value" json:"value"`
	Recommendation Recommendation `yaml:"recommendation" json:"recommendation"`
}

// Advice summarizes the latest-bar signals of the top columns of one horizon's ranking.
type Advice struct {
	HorizonDays int             `yaml:"horizon_days" json:"horizon_days"`
	Date        time.Time       `yaml:"date" json:"date"`
	Signals     []CurrentSignal `yaml:"signals" json:"signals"`
	// Verdict is buy or sell when a majority of the top three agree, hold otherwise
	Verdict Recommendation `yaml:"verdict" json:"verdict"`
}

// Report is everything one analysis run produces, persisted as report.yaml.
type Report struct {
	ID        string          `yaml:"id" json:"id"`
	Version   string          `yaml:"version" json:"version"`
	Symbol    string          `yaml:"symbol" json:"symbol"`
	CreatedAt time.Time       `yaml:"created_at" json:"created_at"`
	Bars      int             `yaml:"bars" json:"bars"`
	Start     time.Time       `yaml:"start" json:"start"`
	End       time.Time       `yaml:"end" json:"end"`
	Horizons  []HorizonReport `yaml:"horizons" json:"horizons"`
	// Files maps a logical output name (e.g. "MACD_Signal_Col_5d_trades") to its path relative to the report directory
	Files map[string]string `yaml:"files" json:"files"`
}
