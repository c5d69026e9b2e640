package presentation

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/greut/iiifld"
)

func TestLabelFallbackOrder(t *testing.T) {
	m := LanguageMap{
		{Key: Tag("fr"), Values: []string{"Bonjour"}},
		{Key: Tag("en"), Values: []string{"Hello"}},
		{Key: NoneKey, Values: []string{"MMXX"}},
		{Key: DefaultKey, Values: []string{"untagged"}},
	}

	if got := m.Label("en"); got != "Hello" {
		t.Errorf("exact tag: got %#v want %#v", got, "Hello")
	}
	// an absent tag falls back to the non-localizable entry
	if got := m.Label("de"); got != "MMXX" {
		t.Errorf("none fallback: got %#v want %#v", got, "MMXX")
	}

	withoutNone := LanguageMap{m[0], m[1], m[3]}
	if got := withoutNone.Label("de"); got != "untagged" {
		t.Errorf("default fallback: got %#v want %#v", got, "untagged")
	}

	firstOnly := LanguageMap{m[0], m[1]}
	if got := firstOnly.Label("de"); got != "Bonjour" {
		t.Errorf("first entry fallback: got %#v want %#v", got, "Bonjour")
	}

	if got := (LanguageMap{}).Label("en"); got != NoLanguageValue {
		t.Errorf("empty map: got %#v want %#v", got, NoLanguageValue)
	}
}

func TestLabelJoinsValues(t *testing.T) {
	m := LanguageMap{{Key: Tag("en"), Values: []string{"one", "two", "three"}}}
	if got := m.Label("en"); got != "one; two; three" {
		t.Errorf("got %#v want %#v", got, "one; two; three")
	}
}

func TestDecodeLanguageMapShapes(t *testing.T) {
	var tests = []struct {
		raw     string
		version iiifld.Version
		want    LanguageMap
	}{
		{
			`"Bare string"`,
			iiifld.V2,
			LanguageMap{{Key: DefaultKey, Values: []string{"Bare string"}}},
		},
		{
			`{"@value": "Sans langue"}`,
			iiifld.V2,
			LanguageMap{{Key: NoneKey, Values: []string{"Sans langue"}}},
		},
		{
			`[{"@value": "Hello", "@language": "en"}, {"@value": "Bonjour", "@language": "fr"}, {"@value": "Hi", "@language": "en"}]`,
			iiifld.V2,
			LanguageMap{
				{Key: Tag("en"), Values: []string{"Hello", "Hi"}},
				{Key: Tag("fr"), Values: []string{"Bonjour"}},
			},
		},
		{
			`{"en": ["Hello"], "none": ["MMXX"]}`,
			iiifld.V3,
			LanguageMap{
				{Key: Tag("en"), Values: []string{"Hello"}},
				{Key: NoneKey, Values: []string{"MMXX"}},
			},
		},
		{
			`"Bare v3 string"`,
			iiifld.V3,
			LanguageMap{{Key: DefaultKey, Values: []string{"Bare v3 string"}}},
		},
	}

	for _, test := range tests {
		got, err := decodeLanguageMap(json.RawMessage(test.raw), test.version)
		if err != nil {
			t.Errorf("decode %s returned an error: %#v", test.raw, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("decode %s mismatch (-want +got):\n%s", test.raw, diff)
		}
	}
}

// Entry order is first appearance during decode; the native map shape
// must not lose the document's key order.
func TestDecodeLanguageMapOrder(t *testing.T) {
	raw := `{"cy": ["Helo"], "en": ["Hello"], "fr": ["Bonjour"]}`
	m, err := decodeLanguageMap(json.RawMessage(raw), iiifld.V3)
	if err != nil {
		t.Fatalf("decode returned an error: %#v", err)
	}

	if len(m) != 3 || m[0].Key != Tag("cy") || m[1].Key != Tag("en") || m[2].Key != Tag("fr") {
		t.Errorf("order lost: got %#v", m)
	}

	// first entry drives the last-resort fallback
	if got := m.Label("de"); got != "Helo" {
		t.Errorf("fallback: got %#v want %#v", got, "Helo")
	}
}

func TestDecodeLanguageMapInvalid(t *testing.T) {
	var tests = []string{
		`42`,
		`{"en": "not-a-list"}`,
		`[42]`,
	}

	for _, test := range tests {
		if _, err := decodeLanguageMap(json.RawMessage(test), iiifld.V2); err == nil {
			t.Errorf("decode %#v should fail", test)
		}
	}
}
