package writable

import "strconv"

// Class names of the built-in Hadoop writables.
const (
	TextClass         = "org.apache.hadoop.io.Text"
	IntWritableClass  = "org.apache.hadoop.io.IntWritable"
	LongWritableClass = "org.apache.hadoop.io.LongWritable"
	NullWritableClass = "org.apache.hadoop.io.NullWritable"
)

func init() {
	Register(TextClass, func() Writable { return new(Text) })
	Register(IntWritableClass, func() Writable { return new(IntWritable) })
	Register(LongWritableClass, func() Writable { return new(LongWritable) })
	Register(NullWritableClass, func() Writable { return NullWritable{} })
}

// Text is a UTF-8 string.
type Text string

// NewText returns a Text holding s.
func NewText(s string) *Text {
	t := Text(s)
	return &t
}

func (t Text) String() string    { return string(t) }
func (t Text) JavaClass() string { return TextClass }
func (t *Text) MarshalWritable(e *Encoder) error {
	e.PutText(string(*t))
	return nil
}

func (t *Text) UnmarshalWritable(d *Decoder) error {
	s, err := d.Text()
	if err != nil {
		return err
	}
	*t = Text(s)
	return nil
}

// IntWritable is a 32-bit signed integer.
type IntWritable int32

// NewIntWritable returns an IntWritable holding v.
func NewIntWritable(v int32) *IntWritable {
	i := IntWritable(v)
	return &i
}

func (i IntWritable) String() string    { return strconv.FormatInt(int64(i), 10) }
func (i IntWritable) JavaClass() string { return IntWritableClass }
func (i *IntWritable) MarshalWritable(e *Encoder) error {
	e.PutInt32(int32(*i))
	return nil
}

func (i *IntWritable) UnmarshalWritable(d *Decoder) error {
	v, err := d.Int32()
	if err != nil {
		return err
	}
	*i = IntWritable(v)
	return nil
}

// LongWritable is a 64-bit signed integer.
type LongWritable int64

func (l LongWritable) String() string    { return strconv.FormatInt(int64(l), 10) }
func (l LongWritable) JavaClass() string { return LongWritableClass }
func (l *LongWritable) MarshalWritable(e *Encoder) error {
	e.PutInt64(int64(*l))
	return nil
}

func (l *LongWritable) UnmarshalWritable(d *Decoder) error {
	v, err := d.Int64()
	if err != nil {
		return err
	}
	*l = LongWritable(v)
	return nil
}

// NullWritable has an empty encoding.
type NullWritable struct{}

func (NullWritable) String() string                   { return "(null)" }
func (NullWritable) JavaClass() string                { return NullWritableClass }
func (NullWritable) MarshalWritable(*Encoder) error   { return nil }
func (NullWritable) UnmarshalWritable(*Decoder) error { return nil }
