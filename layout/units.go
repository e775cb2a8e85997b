package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe lengths used by configuration and backends.
// Layout itself is unit-agnostic: it works in whatever unit the Measurer reports.

// Unit represents the original unit of a length value.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers
	UnitPX               // device independent pixels, 96 per inch
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
	PxToMm = 25.4 / 96.0
	MmToPx = 1.0 / PxToMm
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return "px"
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// ToMM converts the length to millimeters. UnitNone is treated as px.
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value * PxToMm
	}
}

// String 以原始单位输出，如 24px。
func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'g', -1, 64) + UnitToString(l.Unit)
}

// ParseLength parses "24px", "12pt", "4mm", "1cm", "0.5in" or a bare number.
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, nil
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitPX}, {"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	if f < 0 {
		return Length{}, fmt.Errorf("长度 %q 不能为负", value)
	}
	return Length{Value: f, Unit: unit}, nil
}
