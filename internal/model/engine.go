// Package model is the deterministic scoring and meal-planning engine.
// Every Engine method is a pure function of its arguments and the engine's
// read-only Tables, so one Engine is safely shared across requests.
package model

import "math"

const (
	kcalPerGramProtein = 4.0
	kcalPerGramCarbs   = 4.0
	kcalPerGramFat     = 9.0
)

type Engine struct {
	tables Tables
}

func NewEngine(tables Tables) *Engine {
	return &Engine{tables: tables}
}

// NewDefaultEngine is an Engine over the built-in tables.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultTables())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
