// Package pricelist holds construction price databases: concepts with a
// unit price, their long descriptions and their decompositions.
package pricelist

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a concept. Values above KindMaterial are kept as read.
type Kind int

const (
	KindUnclassified Kind = 0
	KindLabour       Kind = 1
	KindMachinery    Kind = 2
	KindMaterial     Kind = 3
)

func (k Kind) String() string {
	switch k {
	case KindUnclassified:
		return "unclassified"
	case KindLabour:
		return "labour"
	case KindMachinery:
		return "machinery"
	case KindMaterial:
		return "material"
	}

	return "other"
}

// Component is one line of a decomposition: Factor x Yield units of Code.
type Component struct {
	Code   string          `json:"code"`
	Factor decimal.Decimal `json:"factor"`
	Yield  decimal.Decimal `json:"yield"`
}

type Concept struct {
	Code       string          `json:"code"`
	Unit       string          `json:"unit"`
	Summary    string          `json:"summary"`
	Price      decimal.Decimal `json:"price"`
	Date       *time.Time      `json:"date,omitempty"`
	Kind       Kind            `json:"kind"`
	Text       string          `json:"text,omitempty"`
	Components []Component     `json:"components,omitempty"`
	Chapter    bool            `json:"chapter"`
	Root       bool            `json:"root"`
}

type PriceList struct {
	Owner    string    `json:"owner"`
	Program  string    `json:"program"`
	Version  string    `json:"version"`
	Charset  string    `json:"charset"`
	Concepts []Concept `json:"concepts"`
}

// Concept looks a concept up by code.
func (l *PriceList) Concept(code string) (*Concept, bool) {
	for i := range l.Concepts {
		if l.Concepts[i].Code == code {
			return &l.Concepts[i], true
		}
	}

	return nil, false
}

// Roots returns the root concepts in file order.
func (l *PriceList) Roots() []Concept {
	var out []Concept

	for _, c := range l.Concepts {
		if c.Root {
			out = append(out, c)
		}
	}

	return out
}

// Amount is the cost of the decomposition at the listed prices, or false if
// a component is not in the list.
func (l *PriceList) Amount(code string) (decimal.Decimal, bool) {
	c, ok := l.Concept(code)
	if !ok {
		return decimal.Zero, false
	}

	total := decimal.Zero

	for _, comp := range c.Components {
		child, ok := l.Concept(comp.Code)
		if !ok {
			return decimal.Zero, false
		}

		total = total.Add(child.Price.Mul(comp.Factor).Mul(comp.Yield))
	}

	return total.Round(2), true
}
