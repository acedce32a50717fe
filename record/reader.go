package record

import (
	"bufio"
	"errors"
	"io"
)

// MaxLineSize is the longest line a Reader accepts.
const MaxLineSize = 16 << 20

// Reader reads records line by line. Lines end in "\n" or "\r\n"; the last
// line may omit the terminator. Reading stops at the first malformed line.
type Reader struct {
	sc          *bufio.Scanner
	columnCount int
	opts        options
	line        int
	err         error
}

// NewReader returns a Reader for lines of columnCount fields.
func NewReader(r io.Reader, columnCount int, opts ...Option) (*Reader, error) {
	if columnCount < 2 {
		return nil, ErrInvalidColumnCount
	}

	o := options{}
	for _, fn := range opts {
		fn(&o)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	return &Reader{sc: sc, columnCount: columnCount, opts: o}, nil
}

// Line returns the number of lines consumed so far.
func (r *Reader) Line() int { return r.line }

// Read returns the next record, or io.EOF after the last line.
// Once Read fails it keeps returning the same error.
func (r *Reader) Read() (Record, error) {
	if r.err != nil {
		return Record{}, r.err
	}

	if !r.sc.Scan() {
		r.err = r.sc.Err()
		if r.err == nil {
			r.err = io.EOF
		} else if errors.Is(r.err, bufio.ErrTooLong) {
			r.err = &ParseError{Line: r.line + 1, Field: -1, Err: r.err}
		}
		return Record{}, r.err
	}
	r.line++

	rec, err := parseLine(r.sc.Text(), r.columnCount, r.opts)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Line = r.line
		}
		r.err = err
		return Record{}, err
	}
	return rec, nil
}

// ReadAll reads every remaining record in input order.
func (r *Reader) ReadAll() ([]Record, error) {
	var records []Record
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}
