package presentation

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/greut/iiifld"
)

var (
	errMissing = errors.New("missing")
	errDepth   = errors.New("maximum nesting depth exceeded")
)

// DefaultMaxDepth bounds collection and range recursion when no option
// is given. Well-formed documents have no cycles; the cap only guards
// against pathological input.
const DefaultMaxDepth = 32

// Options tunes decoding. The zero value is ready to use.
type Options struct {
	// MaxDepth caps collection and range nesting; zero means
	// DefaultMaxDepth.
	MaxDepth int
}

func (o Options) maxDepth() int {
	if o.MaxDepth > 0 {
		return o.MaxDepth
	}
	return DefaultMaxDepth
}

// labelValueWire is the common {label, value} pair shape of metadata
// rows, requiredStatement and structured attributions.
type labelValueWire struct {
	Label json.RawMessage `json:"label"`
	Value json.RawMessage `json:"value"`
}

func labelValueFromWire(wire *labelValueWire, version iiifld.Version) (LabelValue, error) {
	var lv LabelValue
	var err error
	if wire.Label != nil {
		lv.Label, err = decodeLanguageMap(wire.Label, version)
		if err != nil {
			return lv, iiifld.Field("label", err)
		}
	}
	if wire.Value != nil {
		lv.Value, err = decodeLanguageMap(wire.Value, version)
		if err != nil {
			return lv, iiifld.Field("value", err)
		}
	}
	return lv, nil
}

func metadataFromWire(rows []labelValueWire, version iiifld.Version) ([]LabelValue, error) {
	var out []LabelValue
	for i := range rows {
		lv, err := labelValueFromWire(&rows[i], version)
		if err != nil {
			return nil, iiifld.Field(indexed("metadata", i), err)
		}
		out = append(out, lv)
	}
	return out, nil
}

// decodeIDRef reads the many spellings of a link-ish field: a bare
// string, an object with id or @id, or an array whose first element is
// one of those. An absent field yields the empty string.
func decodeIDRef(raw json.RawMessage) (string, error) {
	if raw == nil {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var obj struct {
		ID   string `json:"id"`
		AtID string `json:"@id"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.ID != "" {
			return obj.ID, nil
		}
		if obj.AtID != "" {
			return obj.AtID, nil
		}
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return "", nil
		}
		return decodeIDRef(list[0])
	}

	return "", fmt.Errorf("unrecognized reference: %#v", string(raw))
}

func indexed(field string, i int) string {
	return fmt.Sprintf("%s[%d]", field, i)
}
