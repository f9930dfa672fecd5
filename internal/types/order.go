package types

import (
	"maps"
	"slices"
	"time"
)

// Order is a resolved Signal: concrete share quantities for entries, pass-through ratios for
// exits. Like Signal it is closed over EnterOrder and ExitOrder.
type Order interface {
	Type() SignalType
	// Instruments returns the instruments touched by the order in sorted order.
	Instruments() []string
	isOrder()
}

// EnterOrder holds a signed share quantity per instrument and the total transaction cost
// charged for the order.
type EnterOrder struct {
	Quantities      map[string]float64 `yaml:"quantities" json:"quantities"`
	TransactionCost float64            `yaml:"transaction_cost" json:"transaction_cost"`
}

// ExitOrder holds the fraction of each position to close. Exits are never charged a
// transaction cost.
type ExitOrder struct {
	Ratios map[string]float64 `yaml:"ratios" json:"ratios"`
}

func (EnterOrder) Type() SignalType { return SignalTypeEnter }

func (o EnterOrder) Instruments() []string { return slices.Sorted(maps.Keys(o.Quantities)) }

func (EnterOrder) isOrder() {}

func (ExitOrder) Type() SignalType { return SignalTypeExit }

func (o ExitOrder) Instruments() []string { return slices.Sorted(maps.Keys(o.Ratios)) }

func (ExitOrder) isOrder() {}

// Fill records the settlement of one instrument within an order.
type Fill struct {
	Time       time.Time  `yaml:"time" json:"time" csv:"time"`
	Instrument string     `yaml:"instrument" json:"instrument" csv:"instrument"`
	Type       SignalType `yaml:"type" json:"type" csv:"type"`
	// Quantity is the signed share change applied to the position.
	Quantity float64 `yaml:"quantity" json:"quantity" csv:"quantity"`
	// Price is the execution price for entries and the last mark for exits.
	Price float64 `yaml:"price" json:"price" csv:"price"`
	// Ratio is the exit ratio; zero for entries.
	Ratio float64 `yaml:"ratio" json:"ratio" csv:"ratio"`
	// CashDelta is the change in cash caused by this fill, excluding transaction cost.
	CashDelta float64 `yaml:"cash_delta" json:"cash_delta" csv:"cash_delta"`
	// Closed is true when the fill left the position flat.
	Closed bool `yaml:"closed" json:"closed" csv:"closed"`
}
