package image

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
	d "github.com/visionmedia/go-debug"

	"github.com/greut/iiifld"
)

var debug = d.Debug("iiifld:image")

// InfoSize is one supported output size advertised by the server.
type InfoSize struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// Tile describes one tile pyramid: the tile dimensions and the
// downscale factors the server precomputes. Height may be zero, in
// which case tiles are square.
type Tile struct {
	Width        int   `mapstructure:"width"`
	Height       int   `mapstructure:"height"`
	ScaleFactors []int `mapstructure:"scaleFactors"`
}

// Info is the normalized info.json model, shared by both dialects.
type Info struct {
	Version iiifld.Version
	ID      InfoURI
	Width   int
	Height  int
	Sizes   []InfoSize
	Tiles   []Tile
}

type infoWire struct {
	ID     string     `mapstructure:"id"`
	AtID   string     `mapstructure:"@id"`
	Width  int        `mapstructure:"width"`
	Height int        `mapstructure:"height"`
	Sizes  []InfoSize `mapstructure:"sizes"`
	Tiles  []Tile     `mapstructure:"tiles"`
}

// DecodeInfo reads an info.json document of either dialect. The
// `@context` is read first, tolerating malformed array entries, and the
// loosely-typed remainder of the document is decoded weakly; real-world
// image servers disagree on numeric types more than on field names.
func DecodeInfo(data []byte) (*Info, error) {
	var envelope struct {
		Context json.RawMessage `json:"@context"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	version, err := iiifld.ParseContext(envelope.Context)
	if err != nil {
		return nil, err
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	var wire infoWire
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &wire,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(doc); err != nil {
		return nil, iiifld.Field("info", err)
	}

	id := wire.ID
	if id == "" {
		id = wire.AtID
	}
	if id == "" {
		return nil, iiifld.Field("id", errors.New("missing"))
	}
	uri, err := Parse(id)
	if err != nil {
		return nil, iiifld.Field("id", err)
	}
	var infoURI InfoURI
	switch v := uri.(type) {
	case InfoURI:
		infoURI = v
	case RequestURI:
		infoURI = v.Info()
	}

	if wire.Width <= 0 || wire.Height <= 0 {
		return nil, iiifld.Field("width/height",
			fmt.Errorf("invalid dimensions %dx%d", wire.Width, wire.Height))
	}

	debug("info v%s %s %dx%d (%d tile descriptors)",
		version, infoURI.String(), wire.Width, wire.Height, len(wire.Tiles))

	return &Info{
		Version: version,
		ID:      infoURI,
		Width:   wire.Width,
		Height:  wire.Height,
		Sizes:   wire.Sizes,
		Tiles:   wire.Tiles,
	}, nil
}
