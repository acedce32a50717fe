package codec

import (
	"bytes"
	"encoding/json"
)

// JSON is the standard-library codec, selectable by name as a fallback. Like
// GoJSON it leaves HTML characters unescaped.
type JSON struct{}

// Marshal encodes the value without a trailing newline.
func (JSON) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns "json".
func (JSON) Name() string { return "json" }

// Default is the codec Dump uses unless configured otherwise.
var Default Codec = GoJSON{}
