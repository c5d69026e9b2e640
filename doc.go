// Package iiifld decodes IIIF Presentation and Image API documents,
// written in either the v2 or the v3 JSON-LD dialect, into one
// version-tagged object model.
//
// The root package holds what both APIs share: the version tag, the
// four context constants, and the error taxonomy. The Image API URI
// grammar and tile derivation live in the image subpackage, the
// Presentation API entities and decoders in presentation, and the
// HTTP transport in client.
package iiifld
