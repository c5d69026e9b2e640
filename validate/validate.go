// Package validate is a thin wrapper reporting whether a document
// decodes, as a boolean and a list of error messages. It validates
// against the shapes the decoders recognize, not against the full IIIF
// specification.
package validate

import (
	"github.com/greut/iiifld/presentation"
)

// Manifest runs the manifest decoder over data.
func Manifest(data []byte) (bool, []string) {
	if _, err := presentation.DecodeManifest(data); err != nil {
		return false, []string{err.Error()}
	}
	return true, []string{}
}
