package vector

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Format renders v in the itemized text form used by dump output.
func Format(v *Vector) string {
	if v == nil {
		return "null"
	}

	var sb strings.Builder
	sb.WriteByte('{')

	if v.IsDense() {
		for i, x := range v.Values {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(FormatDouble(x))
		}
		sb.WriteByte('}')
		return sb.String()
	}

	order := make([]int, len(v.Indices))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return v.Indices[order[a]] < v.Indices[order[b]]
	})

	first := true
	for _, j := range order {
		if v.Values[j] == 0 {
			continue
		}
		if !first {
			sb.WriteByte(',')
		}
		first = false
		sb.WriteString(strconv.Itoa(v.Indices[j]))
		sb.WriteByte(':')
		sb.WriteString(FormatDouble(v.Values[j]))
	}
	sb.WriteByte('}')
	return sb.String()
}

// FormatDouble renders f the way Java's Double.toString does: plain decimal
// with at least one fractional digit for magnitudes in [1e-3, 1e7), and
// computerized scientific notation ("1.0E7", "2.5E-4") otherwise.
func FormatDouble(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	if abs := math.Abs(f); abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	s := strconv.FormatFloat(f, 'E', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	n, _ := strconv.Atoi(exp)
	return mantissa + "E" + strconv.Itoa(n)
}
