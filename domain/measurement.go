package domain

import (
	"math"
	"strconv"
)

// Sentinel is what callers display for an output that cannot be computed.
const Sentinel = "--"

// Measurement is a derived output: a number, or the "--" sentinel.
type Measurement struct {
	Value float64
	Valid bool
}

// Measure wraps v; NaN and infinities become the sentinel.
func Measure(v float64) Measurement {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Measurement{}
	}
	return Measurement{Value: v, Valid: true}
}

// Unavailable returns the sentinel measurement.
func Unavailable() Measurement {
	return Measurement{}
}

func (m Measurement) String() string {
	if !m.Valid {
		return Sentinel
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

func (m Measurement) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte(`"` + Sentinel + `"`), nil
	}
	return strconv.AppendFloat(nil, m.Value, 'f', -1, 64), nil
}

func (m *Measurement) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == `"`+Sentinel+`"` || s == "null" {
		*m = Measurement{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*m = Measure(v)
	return nil
}
