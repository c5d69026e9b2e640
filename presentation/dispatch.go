package presentation

import (
	"encoding/json"

	"github.com/greut/iiifld"
)

func documentVersion(data []byte) (iiifld.Version, error) {
	var envelope struct {
		Context json.RawMessage `json:"@context"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return 0, err
	}
	return iiifld.ParseContext(envelope.Context)
}

// DecodeManifest decodes a manifest document of either dialect. The
// version comes from `@context` alone; a failure inside the chosen
// decoder propagates as-is and is never retried against the other
// version.
func DecodeManifest(data []byte) (*Manifest, error) {
	return DecodeManifestOpts(data, Options{})
}

func DecodeManifestOpts(data []byte, opts Options) (*Manifest, error) {
	version, err := documentVersion(data)
	if err != nil {
		return nil, err
	}
	if version == iiifld.V3 {
		return decodeManifestV3(data, opts)
	}
	return decodeManifestV2(data, opts)
}

// DecodeCollection decodes a collection document of either dialect.
func DecodeCollection(data []byte) (*Collection, error) {
	return DecodeCollectionOpts(data, Options{})
}

func DecodeCollectionOpts(data []byte, opts Options) (*Collection, error) {
	version, err := documentVersion(data)
	if err != nil {
		return nil, err
	}
	if version == iiifld.V3 {
		return decodeCollectionV3(data, opts)
	}
	return decodeCollectionV2(data, opts)
}

// DecodeCanvas decodes a standalone canvas document of either dialect.
func DecodeCanvas(data []byte) (*Canvas, error) {
	version, err := documentVersion(data)
	if err != nil {
		return nil, err
	}
	if version == iiifld.V3 {
		return decodeCanvasV3(data)
	}
	return decodeCanvasV2(data)
}

// DecodeRange decodes a standalone range document of either dialect.
func DecodeRange(data []byte) (*Range, error) {
	return DecodeRangeOpts(data, Options{})
}

func DecodeRangeOpts(data []byte, opts Options) (*Range, error) {
	version, err := documentVersion(data)
	if err != nil {
		return nil, err
	}
	if version == iiifld.V3 {
		return decodeRangeV3(data, opts)
	}
	return decodeRangeV2(data, opts)
}

// DecodeResource decodes a document whose kind is not known in advance,
// branching on the type discriminator after version detection: `@type`
// for v2, `type` for v3.
func DecodeResource(data []byte) (Resource, error) {
	return DecodeResourceOpts(data, Options{})
}

func DecodeResourceOpts(data []byte, opts Options) (Resource, error) {
	version, err := documentVersion(data)
	if err != nil {
		return nil, err
	}

	var discriminator struct {
		Type   string `json:"type"`
		AtType string `json:"@type"`
	}
	if err := json.Unmarshal(data, &discriminator); err != nil {
		return nil, err
	}

	if version == iiifld.V3 {
		debug("dispatching v3 %#v", discriminator.Type)
		switch discriminator.Type {
		case "Manifest":
			return decodeManifestV3(data, opts)
		case "Collection":
			return decodeCollectionV3(data, opts)
		case "Canvas":
			return decodeCanvasV3(data)
		case "Range":
			return decodeRangeV3(data, opts)
		}
		return nil, &iiifld.UnknownResourceTypeError{Version: version, Type: discriminator.Type}
	}

	debug("dispatching v2 %#v", discriminator.AtType)
	switch discriminator.AtType {
	case "sc:Manifest":
		return decodeManifestV2(data, opts)
	case "sc:Collection":
		return decodeCollectionV2(data, opts)
	case "sc:Canvas":
		return decodeCanvasV2(data)
	case "sc:Range":
		return decodeRangeV2(data, opts)
	}
	return nil, &iiifld.UnknownResourceTypeError{Version: version, Type: discriminator.AtType}
}
