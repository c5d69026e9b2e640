// Package presentation decodes IIIF Presentation API documents of both
// the v2 and v3 JSON-LD dialects into one version-tagged entity model.
package presentation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	d "github.com/visionmedia/go-debug"

	"github.com/greut/iiifld"
)

var debug = d.Debug("iiifld:presentation")

// NoLanguageValue is returned by Label when a map holds no entry at all.
const NoLanguageValue = "[No language value found]"

// LanguageKeyKind discriminates the three kinds of map keys.
type LanguageKeyKind int

const (
	// LanguageTag is a concrete BCP 47 tag such as "en".
	LanguageTag LanguageKeyKind = iota
	// LanguageNone marks a value as explicitly non-localizable, the
	// "none" key of a v3 map or a v2 value object without @language.
	LanguageNone
	// LanguageDefault marks a value that carried no language
	// information at all, typically a v2 scalar string.
	LanguageDefault
)

// LanguageKey identifies one entry of a LanguageMap.
type LanguageKey struct {
	Kind LanguageKeyKind
	Tag  string // set when Kind is LanguageTag
}

// Tag builds a concrete language key.
func Tag(tag string) LanguageKey { return LanguageKey{Kind: LanguageTag, Tag: tag} }

// NoneKey and DefaultKey are the two keyword keys.
var (
	NoneKey    = LanguageKey{Kind: LanguageNone}
	DefaultKey = LanguageKey{Kind: LanguageDefault}
)

// LanguageEntry is one key with its localized strings.
type LanguageEntry struct {
	Key    LanguageKey
	Values []string
}

// LanguageMap is an ordered sequence of entries with unique keys. Order
// is the order of first appearance while decoding; the final fallback of
// Label picks the first entry.
type LanguageMap []LanguageEntry

// Label extracts a single display string for the preferred language.
// Selection order: the exact tag, then a non-localizable entry, then a
// no-language entry, then the first entry of the map. Multiple values
// are joined with "; ".
func (m LanguageMap) Label(preferred string) string {
	for _, e := range m {
		if e.Key.Kind == LanguageTag && e.Key.Tag == preferred {
			return strings.Join(e.Values, "; ")
		}
	}
	for _, e := range m {
		if e.Key.Kind == LanguageNone {
			return strings.Join(e.Values, "; ")
		}
	}
	for _, e := range m {
		if e.Key.Kind == LanguageDefault {
			return strings.Join(e.Values, "; ")
		}
	}
	if len(m) > 0 {
		return strings.Join(m[0].Values, "; ")
	}
	return NoLanguageValue
}

// add appends values under key, merging into an existing entry so that
// keys stay unique and keep their first-appearance position.
func (m LanguageMap) add(key LanguageKey, values ...string) LanguageMap {
	for i := range m {
		if m[i].Key == key {
			m[i].Values = append(m[i].Values, values...)
			return m
		}
	}
	return append(m, LanguageEntry{Key: key, Values: values})
}

// valueObject is the v2 `{"@value": ..., "@language": ...}` shape.
type valueObject struct {
	Value    *string `json:"@value"`
	Language string  `json:"@language"`
}

func (vo valueObject) key() LanguageKey {
	if vo.Language == "" || vo.Language == "none" {
		return NoneKey
	}
	return Tag(vo.Language)
}

// decodeLanguageMap normalizes every multilingual-text encoding. The v2
// dialect tries the value-object shape, then a bare string, then the
// native key-to-values map; v3 tries the native map first. The try-order
// is observable and fixed per dialect.
func decodeLanguageMap(raw json.RawMessage, version iiifld.Version) (LanguageMap, error) {
	if version == iiifld.V3 {
		if m, err := decodeNativeMap(raw); err == nil {
			return m, nil
		}
		if m, ok := decodeBareString(raw); ok {
			return m, nil
		}
		if m, err := decodeValueObjects(raw); err == nil {
			return m, nil
		}
		return nil, fmt.Errorf("unrecognized v3 language value: %#v", string(raw))
	}

	if m, err := decodeValueObjects(raw); err == nil {
		return m, nil
	}
	if m, ok := decodeBareString(raw); ok {
		return m, nil
	}
	if m, err := decodeNativeMap(raw); err == nil {
		return m, nil
	}
	return nil, fmt.Errorf("unrecognized v2 language value: %#v", string(raw))
}

func decodeBareString(raw json.RawMessage) (LanguageMap, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false
	}
	return LanguageMap{{Key: DefaultKey, Values: []string{s}}}, true
}

// decodeValueObjects reads one value object or an array of them.
// Unknown fields are rejected so that a native map does not pass as an
// empty value object.
func decodeValueObjects(raw json.RawMessage) (LanguageMap, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var single valueObject
	if err := dec.Decode(&single); err == nil {
		if single.Value == nil {
			return nil, fmt.Errorf("value object without @value: %#v", string(raw))
		}
		return LanguageMap{}.add(single.key(), *single.Value), nil
	}

	dec = json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var many []valueObject
	if err := dec.Decode(&many); err != nil {
		return nil, err
	}
	var m LanguageMap
	for _, vo := range many {
		if vo.Value == nil {
			return nil, fmt.Errorf("value object without @value: %#v", string(raw))
		}
		m = m.add(vo.key(), *vo.Value)
	}
	return m, nil
}

// decodeNativeMap reads the v3 key-to-string-list shape. The tokenizer
// is walked by hand because entry order is the order of first appearance
// and encoding/json maps would lose it.
func decodeNativeMap(raw json.RawMessage) (LanguageMap, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("not a language map: %#v", string(raw))
	}

	var m LanguageMap
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("not a language map: %#v", string(raw))
		}

		var values []string
		if err := dec.Decode(&values); err != nil {
			return nil, fmt.Errorf("language %q values: %w", name, err)
		}

		key := Tag(name)
		if name == "none" || name == "@none" {
			key = NoneKey
		}
		m = m.add(key, values...)
	}

	return m, nil
}
