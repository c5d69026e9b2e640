package iiifld

import (
	"encoding/json"
)

// Version tags every decoded entity with the IIIF dialect it came from.
type Version int

const (
	// V2 is the 2.x family of the Presentation and Image APIs.
	V2 Version = 2
	// V3 is the 3.0 family.
	V3 Version = 3
)

func (v Version) String() string {
	if v == V3 {
		return "3"
	}
	return "2"
}

// The four known `@context` URIs. They drive dispatch and double as the
// `profile=` values of content-negotiation Accept headers.
const (
	ContextPresentation3 = "http://iiif.io/api/presentation/3/context.json"
	ContextPresentation2 = "http://iiif.io/api/presentation/2/context.json"
	ContextImage3        = "http://iiif.io/api/image/3/context.json"
	ContextImage2        = "http://iiif.io/api/image/2/context.json"
)

// ParseContext reads a raw `@context` value, either a single string or an
// array of strings, and reports which IIIF version it declares. Array
// entries that are not strings are dropped before the membership check;
// some servers in the wild pad the array with nulls. A v3 context wins
// over a v2 one when both appear.
func ParseContext(raw json.RawMessage) (Version, error) {
	if len(raw) == 0 {
		return 0, &UnknownVersionError{}
	}

	var contexts []string
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		contexts = []string{single}
	} else {
		var entries []json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			return 0, &UnknownVersionError{Contexts: []string{string(raw)}}
		}
		for _, entry := range entries {
			var s string
			if err := json.Unmarshal(entry, &s); err == nil {
				contexts = append(contexts, s)
			}
		}
	}

	for _, c := range contexts {
		if c == ContextPresentation3 || c == ContextImage3 {
			return V3, nil
		}
	}
	for _, c := range contexts {
		if c == ContextPresentation2 || c == ContextImage2 {
			return V2, nil
		}
	}

	return 0, &UnknownVersionError{Contexts: contexts}
}
