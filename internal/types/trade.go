package types

import "time"

type TradeKind string

const (
	TradeKindBuy  TradeKind = "buy"
	TradeKindSell TradeKind = "sell"

	// TradeKindForcedClose is synthesized when a position is still open on the last bar
	TradeKindForcedClose TradeKind = "forced_close"
)

// Trade is one ledger entry. It is never modified after the engine emits it.
type Trade struct {
	Date  time.Time `yaml:"date" json:"date" csv:"date"`
	Kind  TradeKind `yaml:"kind" json:"kind" csv:"kind"`
	Price float64   `yaml:"price" json:"price" csv:"price"`
	// Shares is the number of whole shares bought or liquidated
	Shares int64 `yaml:"shares" json:"shares" csv:"shares"`
	// CashFlow is the cost of a buy or the proceeds of a sell, always non-negative
	CashFlow float64 `yaml:"cash_flow" json:"cash_flow" csv:"cash_flow"`
	// RemainingCash is the cash balance right after this trade
	RemainingCash float64 `yaml:"remaining_cash" json:"remaining_cash" csv:"remaining_cash"`
}

// IsClosing reports whether the trade closes a position.
func (t Trade) IsClosing() bool {
	return t.Kind == TradeKindSell || t.Kind == TradeKindForcedClose
}

// TradeLedger is the ordered list of trades produced for one signal column.
type TradeLedger []Trade

// Buys returns the buy legs in emission order.
func (l TradeLedger) Buys() []Trade {
	buys := make([]Trade, 0, len(l)/2+1)

	for _, t := range l {
		if t.Kind == TradeKindBuy {
			buys = append(buys, t)
		}
	}

	return buys
}

// Closes returns the sell and forced-close legs in emission order.
func (l TradeLedger) Closes() []Trade {
	closes := make([]Trade, 0, len(l)/2+1)

	for _, t := range l {
		if t.IsClosing() {
			closes = append(closes, t)
		}
	}

	return closes
}

// EndsFlat reports whether no position is open after the last trade.
func (l TradeLedger) EndsFlat() bool {
	if len(l) == 0 {
		return true
	}

	return l[len(l)-1].IsClosing()
}

// FinalCash returns the cash after the last trade, or fallback for an empty ledger.
func (l TradeLedger) FinalCash(fallback float64) float64 {
	if len(l) == 0 {
		return fallback
	}

	return l[len(l)-1].RemainingCash
}
