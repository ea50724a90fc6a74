package snapdiff

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Percent is a relative change in percent, 50 means +50%.
type Percent float64

// percentTolerance absorbs the float conversion of exact decimal ratios.
const percentTolerance = 1e-4

// Equal reports whether p and q are equal within 1e-4 percent.
func (p Percent) Equal(q Percent) bool { return math.Abs(float64(p-q)) < percentTolerance }

// String formats p with two decimals, e.g. "12.50%".
func (p Percent) String() string { return strconv.FormatFloat(float64(p), 'f', 2, 64) + "%" }

// SignedString always shows the sign. A change that rounds to zero is "-".
func (p Percent) SignedString() string {
	s := p.String()
	switch {
	case s == "0.00%" || s == "-0.00%":
		return "-"
	case p > 0:
		return "+" + s
	default:
		return s
	}
}

// PctStatus tells whether a percentage change could be computed.
type PctStatus int

const (
	// PctMissing means a side of the change is missing.
	PctMissing PctStatus = iota
	// PctUndefined means the old value is zero, the change has no finite value.
	PctUndefined
	// PctDefined means Value holds the change.
	PctDefined
)

// PctChange is the relative change between two values.
type PctChange struct {
	Status PctStatus
	Value  Percent
}

// String returns the signed percentage, "n/a" when undefined and "" when missing.
func (p PctChange) String() string {
	switch p.Status {
	case PctDefined:
		return p.Value.SignedString()
	case PctUndefined:
		return "n/a"
	default:
		return ""
	}
}

var hundred = decimal.NewFromInt(100)

// CalculatePctChange returns (new - old) / |old| * 100.
//
// A missing or non numeric side yields PctMissing. A zero old value yields PctUndefined.
func CalculatePctChange(old, new Value) PctChange {
	if !old.IsNumber() || !new.IsNumber() {
		return PctChange{Status: PctMissing}
	}
	if old.num.IsZero() {
		return PctChange{Status: PctUndefined}
	}
	pct := new.num.Sub(old.num).Div(old.num.Abs()).Mul(hundred)
	return PctChange{Status: PctDefined, Value: Percent(pct.InexactFloat64())}
}
