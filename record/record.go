// Package record parses CSV lines of named numeric vectors.
//
// A line has the form
//
//	name,f1,f2,...,fN-1
//
// split on the literal comma with no quoting or escaping. The first field is
// the record name, used verbatim; the remaining fields are parsed with single
// precision and widened to float64.
package record

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrTooFewFields is returned when a line has fewer fields than the column count.
	ErrTooFewFields = errors.New("too few fields")

	// ErrTooManyFields is returned in strict mode when a line has more fields
	// than the column count.
	ErrTooManyFields = errors.New("too many fields")

	// ErrInvalidColumnCount is returned for a column count below 2.
	ErrInvalidColumnCount = errors.New("record: column count must be at least 2")
)

// ParseError describes a line that could not be turned into a Record.
type ParseError struct {
	// Line is the 1-based line number, or 0 when unknown.
	Line int
	// Field is the 0-based field index, or -1 when the whole line is at fault.
	Field int
	Err   error
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString("record: ")
	if e.Line > 0 {
		sb.WriteString("line ")
		sb.WriteString(strconv.Itoa(e.Line))
		sb.WriteString(": ")
	}
	if e.Field >= 0 {
		sb.WriteString("field ")
		sb.WriteString(strconv.Itoa(e.Field))
		sb.WriteString(": ")
	}
	sb.WriteString(e.Err.Error())
	return sb.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// Record is a named vector of features parsed from one line.
type Record struct {
	Name     string
	Features []float64
}

// Size approximates the memory held by the record in bytes.
func (r Record) Size() int64 {
	return int64(len(r.Name)) + 8*int64(len(r.Features)) + 48
}

type options struct {
	strict bool
}

// Option configures parsing.
type Option func(*options)

// WithStrict rejects lines that carry more fields than the column count.
// By default extra fields are ignored.
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}

// ParseLine parses a single line into a Record with columnCount-1 features.
func ParseLine(line string, columnCount int, opts ...Option) (Record, error) {
	if columnCount < 2 {
		return Record{}, ErrInvalidColumnCount
	}

	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	return parseLine(line, columnCount, o)
}

func parseLine(line string, columnCount int, o options) (Record, error) {
	fields := strings.Split(line, ",")

	// Trailing empty fields do not count, so "a,1,2," has three fields.
	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}

	if len(fields) < columnCount {
		return Record{}, &ParseError{
			Field: -1,
			Err:   fmt.Errorf("%w: want %d, got %d", ErrTooFewFields, columnCount, len(fields)),
		}
	}
	if o.strict && len(fields) > columnCount {
		return Record{}, &ParseError{
			Field: -1,
			Err:   fmt.Errorf("%w: want %d, got %d", ErrTooManyFields, columnCount, len(fields)),
		}
	}

	features := make([]float64, columnCount-1)
	for i := range features {
		f, err := parseFeature(fields[i+1])
		if err != nil {
			return Record{}, &ParseError{Field: i + 1, Err: err}
		}
		features[i] = f
	}

	// Names are decoded like Java strings: invalid bytes become U+FFFD, so the
	// Text key and the vector name carry the same characters.
	return Record{Name: strings.ToValidUTF8(fields[0], "\uFFFD"), Features: features}, nil
}

// parseFeature parses s with single precision after trimming control
// characters and spaces. A trailing float or double type suffix is accepted.
// Values beyond the float range become ±Inf. Of the special values only the
// exact spellings "NaN" and "Infinity" (optionally signed) are accepted.
func parseFeature(s string) (float64, error) {
	s = strings.TrimFunc(s, func(r rune) bool { return r <= ' ' })

	if special, ok := specialValue(s); ok {
		return special, nil
	}

	num := s
	if n := len(num); n > 1 {
		switch num[n-1] {
		case 'f', 'F', 'd', 'D':
			num = num[:n-1]
		}
	}
	if isSpecialSpelling(num) {
		return 0, &strconv.NumError{Func: "ParseFloat", Num: s, Err: strconv.ErrSyntax}
	}

	f, err := strconv.ParseFloat(num, 32)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	return f, nil
}

func specialValue(s string) (float64, bool) {
	sign, body := splitSign(s)
	switch body {
	case "NaN":
		return math.NaN(), true
	case "Infinity":
		return math.Inf(sign), true
	}
	return 0, false
}

// isSpecialSpelling reports whether s is one of the inf/nan forms strconv
// accepts in any case.
func isSpecialSpelling(s string) bool {
	_, body := splitSign(s)
	return strings.EqualFold(body, "nan") || strings.EqualFold(body, "inf") || strings.EqualFold(body, "infinity")
}

func splitSign(s string) (int, string) {
	if s != "" {
		switch s[0] {
		case '-':
			return -1, s[1:]
		case '+':
			return 1, s[1:]
		}
	}
	return 1, s
}
