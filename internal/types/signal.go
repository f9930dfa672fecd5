package types

import (
	"maps"
	"slices"
)

// SignalType tags the two variants of Signal and Order.
type SignalType string

const (
	// SignalTypeEnter opens or adds to positions using a fraction of available cash.
	SignalTypeEnter SignalType = "ENTER"
	// SignalTypeExit closes a fraction of existing positions.
	SignalTypeExit SignalType = "EXIT"
)

// Signal is what a strategy emits on a bar. It is a closed sum type: the only implementations
// are EnterSignal and ExitSignal.
type Signal interface {
	Type() SignalType
	// Instruments returns the instruments named by the signal in sorted order.
	Instruments() []string
	isSignal()
}

// EnterSignal allocates a signed fraction of cash to each instrument.
// A negative weight opens or adds to a short position. Weights need not sum to 1.
type EnterSignal struct {
	Weights map[string]float64 `yaml:"weights" json:"weights"`
}

// ExitSignal closes the given fraction, in [0, 1], of each instrument's current position.
type ExitSignal struct {
	Ratios map[string]float64 `yaml:"ratios" json:"ratios"`
}

// Enter builds an EnterSignal.
func Enter(weights map[string]float64) EnterSignal {
	return EnterSignal{Weights: weights}
}

// Exit builds an ExitSignal.
func Exit(ratios map[string]float64) ExitSignal {
	return ExitSignal{Ratios: ratios}
}

func (EnterSignal) Type() SignalType { return SignalTypeEnter }

func (s EnterSignal) Instruments() []string { return slices.Sorted(maps.Keys(s.Weights)) }

func (EnterSignal) isSignal() {}

func (ExitSignal) Type() SignalType { return SignalTypeExit }

func (s ExitSignal) Instruments() []string { return slices.Sorted(maps.Keys(s.Ratios)) }

func (ExitSignal) isSignal() {}
