// Package marker turns trade ledgers into chart marks for the plotting layer.
package marker

import (
	"fmt"
	"sync"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

// Marker records a mark for every trade it is given.
type Marker interface {
	// Mark records a trade of the given signal column.
	Mark(trade types.Trade) error
	// GetMarkers returns all the marks in the order they were recorded.
	GetMarkers() ([]types.Mark, error)
}

// TradeMarker is the in-memory Marker used by the pipeline.
type TradeMarker struct {
	mu     sync.Mutex
	signal string
	marks  []types.Mark
}

// NewTradeMarker creates a marker for one signal column.
func NewTradeMarker(signal string) *TradeMarker {
	return &TradeMarker{signal: signal}
}

// Mark implements Marker.
func (m *TradeMarker) Mark(trade types.Trade) error {
	mark, err := FromTrade(m.signal, trade)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.marks = append(m.marks, mark)

	return nil
}

// GetMarkers implements Marker.
func (m *TradeMarker) GetMarkers() ([]types.Mark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	marks := make([]types.Mark, len(m.marks))
	copy(marks, m.marks)

	return marks, nil
}

// FromTrade builds the mark for a single trade. Buys are green triangles, sells red triangles
// and forced closes purple squares.
func FromTrade(signal string, trade types.Trade) (types.Mark, error) {
	mark := types.Mark{
		Date:     trade.Date,
		Price:    trade.Price,
		Category: signal,
		Trade:    optional.Some(trade),
	}

	switch trade.Kind {
	case types.TradeKindBuy:
		mark.Color = types.MarkColorGreen
		mark.Shape = types.MarkShapeTriangle
		mark.Title = "Buy"
	case types.TradeKindSell:
		mark.Color = types.MarkColorRed
		mark.Shape = types.MarkShapeTriangle
		mark.Title = "Sell"
	case types.TradeKindForcedClose:
		mark.Color = types.MarkColorPurple
		mark.Shape = types.MarkShapeSquare
		mark.Title = "Forced close"
	default:
		return types.Mark{}, errors.Newf(errors.ErrCodeInvalidType, "unknown trade kind %q", trade.Kind)
	}

	mark.Message = fmt.Sprintf("%s %d shares at %.2f", mark.Title, trade.Shares, trade.Price)

	return mark, nil
}

// MarkLedger feeds every trade of a ledger to the marker.
func MarkLedger(m Marker, ledger types.TradeLedger) error {
	for _, trade := range ledger {
		if err := m.Mark(trade); err != nil {
			return err
		}
	}

	return nil
}
