package types

import (
	"time"

	"github.com/moznion/go-optional"
)

type MarkShape string

const (
	MarkShapeCircle   MarkShape = "circle"
	MarkShapeSquare   MarkShape = "square"
	MarkShapeTriangle MarkShape = "triangle"
)

type MarkColor string

const (
	MarkColorRed    MarkColor = "red"
	MarkColorGreen  MarkColor = "green"
	MarkColorGray   MarkColor = "gray"
	MarkColorPurple MarkColor = "purple"
)

// Mark is a point a plotting layer draws on the price chart.
type Mark struct {
	Date     time.Time `json:"date"`
	Price    float64   `json:"price"`
	Color    MarkColor `json:"color"`
	Shape    MarkShape `json:"shape"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	Category string    `json:"category"`
	// Trade is set when the mark comes from a ledger entry
	Trade optional.Option[Trade] `json:"-"`
}
