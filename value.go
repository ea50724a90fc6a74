package snapdiff

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the runtime kind of a Value.
type Kind int

const (
	KindMissing Kind = iota
	KindNumber
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "missing"
	}
}

// Value is a single table cell. Its zero value is a missing cell.
type Value struct {
	kind Kind
	num  decimal.Decimal
	text string
}

// Missing returns a missing cell.
func Missing() Value { return Value{} }

// Num returns a numeric cell.
func Num(d decimal.Decimal) Value { return Value{kind: KindNumber, num: d} }

// N is a convenient factory for numeric cells.
func N[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Value {
	return Num(newDecimal(value))
}

// Text returns a text cell.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// ParseValue reads an untyped cell, as found in CSV or spreadsheet files.
//
// A blank cell is missing, a decimal literal is a number and anything else is
// text. Integer parts with leading zeros, like "007", are identifiers and stay
// text, so that they keep matching the same key read from a typed source.
func ParseValue(s string) Value {
	t := strings.TrimSpace(s)
	if t == "" {
		return Missing()
	}
	if leadingZero(t) {
		return Text(s)
	}
	if d, err := decimal.NewFromString(t); err == nil {
		return Num(d)
	}
	return Text(s)
}

// leadingZero reports whether the integer part of t starts with a superfluous zero.
func leadingZero(t string) bool {
	t = strings.TrimLeft(t, "+-")
	return len(t) > 1 && t[0] == '0' && t[1] >= '0' && t[1] <= '9'
}

// FromAny converts values produced by decoders and database drivers.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return Missing()
	case Value:
		return x
	case string:
		return Text(x)
	case []byte:
		return Text(string(x))
	case json.Number:
		if d, err := decimal.NewFromString(x.String()); err == nil {
			return Num(d)
		}
		return Text(x.String())
	case decimal.Decimal:
		return Num(x)
	case decimal.NullDecimal:
		if !x.Valid {
			return Missing()
		}
		return Num(x.Decimal)
	case float64:
		return fromFloat(x)
	case float32:
		return fromFloat(float64(x))
	case int:
		return Num(decimal.NewFromInt(int64(x)))
	case int8:
		return Num(decimal.NewFromInt(int64(x)))
	case int16:
		return Num(decimal.NewFromInt(int64(x)))
	case int32:
		return N(x)
	case int64:
		return N(x)
	case uint:
		return N(x)
	case uint8:
		return Num(decimal.NewFromInt(int64(x)))
	case uint16:
		return Num(decimal.NewFromInt(int64(x)))
	case uint32:
		return N(x)
	case uint64:
		return N(x)
	case bool:
		if x {
			return Text("true")
		}
		return Text("false")
	case time.Time:
		if x.IsZero() {
			return Missing()
		}
		return Text(x.Format(time.RFC3339))
	case fmt.Stringer:
		return Text(x.String())
	default:
		return Text(fmt.Sprint(x))
	}
}

// fromFloat maps NaN to a missing cell, decimal cannot represent it.
func fromFloat(f float64) Value {
	if math.IsNaN(f) {
		return Missing()
	}
	if math.IsInf(f, 0) {
		return Text(fmt.Sprint(f))
	}
	return N(f)
}

func (v Value) Kind() Kind               { return v.kind }
func (v Value) IsMissing() bool          { return v.kind == KindMissing }
func (v Value) IsNumber() bool           { return v.kind == KindNumber }
func (v Value) Decimal() decimal.Decimal { return v.num }

// String returns the cell as used in composite keys. Missing cells are empty.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return v.num.String()
	case KindText:
		return v.text
	default:
		return ""
	}
}

// Equal reports whether both cells hold the same value.
// Numbers compare by value, so 1.50 equals 1.5. A missing cell equals only another missing cell.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num.Equal(w.num)
	case KindText:
		return v.text == w.text
	default:
		return true
	}
}

// Sub returns v - w, missing when either side is missing.
// ok is false when a side is text.
func (v Value) Sub(w Value) (diff Value, ok bool) {
	if v.kind == KindText || w.kind == KindText {
		return Missing(), false
	}
	if v.IsMissing() || w.IsMissing() {
		return Missing(), true
	}
	return Num(v.num.Sub(w.num)), true
}

// MarshalJSON encodes numbers as exact JSON numbers, text as strings and missing cells as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return []byte(v.num.String()), nil
	case KindText:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("invalid cell %s: %w", data, err)
	}
	*v = FromAny(raw)
	return nil
}
