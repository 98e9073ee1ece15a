package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Num is a nullable number. The zero value is null.
type Num struct {
	Value float64
	Valid bool
}

// Some wraps a present value.
func Some(v float64) Num { return Num{Value: v, Valid: true} }

// None is the null Num.
var None = Num{}

// Ptr returns nil for null, otherwise a pointer to a copy of the value.
func (n Num) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// MarshalJSON encodes null for an invalid Num.
func (n Num) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Coerce converts an arbitrary cell to a number. It never fails: nil, empty strings,
// non-finite and unparsable values all come back as None.
func Coerce(raw any) Num {
	switch v := raw.(type) {
	case nil:
		return None
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return Some(float64(v))
	case int8:
		return Some(float64(v))
	case int16:
		return Some(float64(v))
	case int32:
		return Some(float64(v))
	case int64:
		return Some(float64(v))
	case uint:
		return Some(float64(v))
	case uint8:
		return Some(float64(v))
	case uint16:
		return Some(float64(v))
	case uint32:
		return Some(float64(v))
	case uint64:
		return Some(float64(v))
	case Num:
		if !v.Valid {
			return None
		}
		return finite(v.Value)
	case *float64:
		if v == nil {
			return None
		}
		return finite(*v)
	case json.Number:
		return parseNumber(string(v))
	case string:
		return parseNumber(v)
	case bool:
		return None
	default:
		return parseNumber(fmt.Sprint(v))
	}
}

func finite(v float64) Num {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return None
	}
	return Some(v)
}

var numberStripper = strings.NewReplacer(
	"%", "",
	",", "",
	"\u00a0", "",
	"\u202f", "",
)

func parseNumber(s string) Num {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return None
	}
	raw = strings.TrimSpace(numberStripper.Replace(raw))
	if raw == "" {
		return None
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return None
	}
	return finite(f)
}
