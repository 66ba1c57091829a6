package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Kind identifies the top-level shape of a submitted JSON document.
type Kind int

const (
	// KindObject is a single candidate record.
	KindObject Kind = iota
	// KindArray is a batch of candidate records.
	KindArray
	// KindScalar is any other JSON value (number, string, bool, null).
	KindScalar
)

// Sentinel values from the user-facing instructions. Submissions carrying
// them are assumed to be the copy-pasted sample, not real scan data.
const (
	ExampleBSSID = "00:11:22:33:44:55"
	ExampleSSID  = "MyWiFi"
)

// ErrMalformed indicates the submitted text is not valid JSON. The wrapped
// message carries the decoder diagnostic verbatim.
var ErrMalformed = errors.New("malformed payload")

// ErrUnsupported indicates a JSON scalar where an object or array was
// expected.
var ErrUnsupported = errors.New("unsupported payload: expected a JSON object or array")

// Document is a parsed submission. Exactly one of Object or Array is set,
// according to Kind.
type Document struct {
	Kind   Kind
	Object map[string]any
	Array  []any
}

// Parse decodes raw submission text into a Document. Numbers are decoded as
// json.Number so that integer and real literals stay distinguishable for
// validation.
func Parse(raw []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return Document{}, fmt.Errorf("%w: %s", ErrMalformed, err.Error())
	}
	// Trailing non-whitespace after the document is malformed too.
	if err := dec.Decode(new(any)); err != io.EOF {
		return Document{}, fmt.Errorf("%w: unexpected trailing data", ErrMalformed)
	}

	switch v := value.(type) {
	case map[string]any:
		return Document{Kind: KindObject, Object: v}, nil
	case []any:
		return Document{Kind: KindArray, Array: v}, nil
	default:
		return Document{Kind: KindScalar}, nil
	}
}

// IsExample reports whether a candidate looks like the instructional sample
// record. Non-object values are treated as suspect as well.
func IsExample(candidate any) bool {
	record, ok := candidate.(map[string]any)
	if !ok {
		return true
	}
	if bssid, ok := record["bssid"].(string); ok && strings.TrimSpace(bssid) == ExampleBSSID {
		return true
	}
	if ssid, ok := record["ssid"].(string); ok && ssid == ExampleSSID {
		return true
	}
	return false
}

// ContainsExample reports whether any object element of a batch matches the
// instructional sample. Non-object elements are skipped here; they are
// accounted for later by the batch processor.
func ContainsExample(items []any) bool {
	for _, item := range items {
		if _, ok := item.(map[string]any); !ok {
			continue
		}
		if IsExample(item) {
			return true
		}
	}
	return false
}
