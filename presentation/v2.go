package presentation

import (
	"encoding/json"

	"github.com/greut/iiifld"
	"github.com/greut/iiifld/image"
)

type manifestWireV2 struct {
	ID               string           `json:"@id"`
	Label            json.RawMessage  `json:"label"`
	Metadata         []labelValueWire `json:"metadata"`
	Description      json.RawMessage  `json:"description"`
	ViewingDirection string           `json:"viewingDirection"`
	ViewingHint      string           `json:"viewingHint"`
	Sequences        []sequenceWireV2 `json:"sequences"`
	Structures       []rangeWireV2    `json:"structures"`
	Attribution      json.RawMessage  `json:"attribution"`
	Related          json.RawMessage  `json:"related"`
	Logo             json.RawMessage  `json:"logo"`
	Thumbnail        json.RawMessage  `json:"thumbnail"`
}

type sequenceWireV2 struct {
	Canvases []canvasWireV2 `json:"canvases"`
}

type canvasWireV2 struct {
	ID     string             `json:"@id"`
	Label  json.RawMessage    `json:"label"`
	Width  *int               `json:"width"`
	Height *int               `json:"height"`
	Images []annotationWireV2 `json:"images"`
}

type annotationWireV2 struct {
	Resource json.RawMessage `json:"resource"`
}

type resourceWireV2 struct {
	ID      string            `json:"@id"`
	Type    string            `json:"@type"`
	Format  string            `json:"format"`
	Label   json.RawMessage   `json:"label"`
	Default json.RawMessage   `json:"default"`
	Item    []json.RawMessage `json:"item"`
	Service *serviceWireV2    `json:"service"`
}

type serviceWireV2 struct {
	ID      string `json:"@id"`
	Context string `json:"@context"`
}

type rangeWireV2 struct {
	ID       string            `json:"@id"`
	Label    json.RawMessage   `json:"label"`
	Canvases []string          `json:"canvases"`
	Ranges   []string          `json:"ranges"`
	Members  []memberRefWireV2 `json:"members"`
	Metadata []labelValueWire  `json:"metadata"`
}

type memberRefWireV2 struct {
	ID   string `json:"@id"`
	Type string `json:"@type"`
}

type collectionWireV2 struct {
	ID          string            `json:"@id"`
	Label       json.RawMessage   `json:"label"`
	Description json.RawMessage   `json:"description"`
	Members     []json.RawMessage `json:"members"`
	Collections []json.RawMessage `json:"collections"`
	Manifests   []json.RawMessage `json:"manifests"`
}

func decodeManifestV2(data []byte, opts Options) (*Manifest, error) {
	var wire manifestWireV2
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}

	m := &Manifest{Version: iiifld.V2}
	if wire.ID == "" {
		return nil, iiifld.Field("@id", errMissing)
	}
	m.ID = wire.ID

	if wire.Label == nil {
		return nil, iiifld.Field("label", errMissing)
	}
	label, err := decodeLanguageMap(wire.Label, iiifld.V2)
	if err != nil {
		return nil, iiifld.Field("label", err)
	}
	m.Label = label

	m.Metadata, err = metadataFromWire(wire.Metadata, iiifld.V2)
	if err != nil {
		return nil, err
	}

	if wire.Description != nil {
		m.Summary, err = decodeLanguageMap(wire.Description, iiifld.V2)
		if err != nil {
			return nil, iiifld.Field("description", err)
		}
	}

	m.ViewingDirection = parseViewingDirection(wire.ViewingDirection)
	m.Layout = ViewingLayout{Version: iiifld.V2, Hint: parseViewingHint(wire.ViewingHint)}

	// Only the first sequence is honored; later sequences are silently
	// dropped, matching how most v2 consumers behave.
	if len(wire.Sequences) > 0 {
		if len(wire.Sequences) > 1 {
			debug("manifest %s: ignoring %d extra sequences", m.ID, len(wire.Sequences)-1)
		}
		for i := range wire.Sequences[0].Canvases {
			c, err := canvasFromWireV2(&wire.Sequences[0].Canvases[i])
			if err != nil {
				return nil, iiifld.Field(indexed("sequences[0].canvases", i), err)
			}
			m.Canvases = append(m.Canvases, c)
		}
	}

	m.Ranges, err = rangesFromWireV2(wire.Structures, opts)
	if err != nil {
		return nil, err
	}

	if wire.Attribution != nil {
		m.RequiredStatement, err = decodeAttributionV2(wire.Attribution)
		if err != nil {
			return nil, iiifld.Field("attribution", err)
		}
	}

	if m.Homepage, err = decodeIDRef(wire.Related); err != nil {
		return nil, iiifld.Field("related", err)
	}
	if m.Logo, err = decodeIDRef(wire.Logo); err != nil {
		return nil, iiifld.Field("logo", err)
	}
	if m.Thumbnail, err = decodeIDRef(wire.Thumbnail); err != nil {
		return nil, iiifld.Field("thumbnail", err)
	}

	return m, nil
}

func canvasFromWireV2(wire *canvasWireV2) (Canvas, error) {
	c := Canvas{Version: iiifld.V2}
	if wire.ID == "" {
		return c, iiifld.Field("@id", errMissing)
	}
	c.ID = wire.ID
	c.Width = wire.Width
	c.Height = wire.Height

	if wire.Label != nil {
		label, err := decodeLanguageMap(wire.Label, iiifld.V2)
		if err != nil {
			return c, iiifld.Field("label", err)
		}
		c.Label = label
	}

	for i := range wire.Images {
		images, err := imagesFromAnnotationV2(wire.Images[i].Resource)
		if err != nil {
			return c, iiifld.Field(indexed("images", i), err)
		}
		c.Images = append(c.Images, images...)
	}

	return c, nil
}

// imagesFromAnnotationV2 reads an annotation's resource. An oa:Choice
// construct is flattened: the default resource becomes the Primary image
// and every item an alternative, in that order.
func imagesFromAnnotationV2(raw json.RawMessage) ([]Image, error) {
	if raw == nil {
		return nil, iiifld.Field("resource", errMissing)
	}
	var res resourceWireV2
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, iiifld.Field("resource", err)
	}

	if res.Type != "oa:Choice" {
		img, err := imageFromResourceV2(&res, Primary)
		if err != nil {
			return nil, iiifld.Field("resource", err)
		}
		return []Image{img}, nil
	}

	if res.Default == nil {
		return nil, iiifld.Field("resource.default", errMissing)
	}
	var def resourceWireV2
	if err := json.Unmarshal(res.Default, &def); err != nil {
		return nil, iiifld.Field("resource.default", err)
	}
	primary, err := imageFromResourceV2(&def, Primary)
	if err != nil {
		return nil, iiifld.Field("resource.default", err)
	}
	images := []Image{primary}

	for i, itemRaw := range res.Item {
		var item resourceWireV2
		if err := json.Unmarshal(itemRaw, &item); err != nil {
			return nil, iiifld.Field(indexed("resource.item", i), err)
		}
		img, err := imageFromResourceV2(&item, Choice)
		if err != nil {
			return nil, iiifld.Field(indexed("resource.item", i), err)
		}
		images = append(images, img)
	}

	return images, nil
}

// imageFromResourceV2 needs both service lookups to succeed: @id for the
// addressable URI and @context for the service tag.
func imageFromResourceV2(res *resourceWireV2, role ImageRole) (Image, error) {
	if res.Service == nil {
		return Image{}, iiifld.Field("service", errMissing)
	}
	if res.Service.ID == "" {
		return Image{}, iiifld.Field("service.@id", errMissing)
	}
	if res.Service.Context == "" {
		return Image{}, iiifld.Field("service.@context", errMissing)
	}

	uri, err := image.Parse(res.Service.ID)
	if err != nil {
		return Image{}, iiifld.Field("service.@id", err)
	}

	img := Image{
		ID:       uri,
		Role:     role,
		Type:     parseResourceType(res.Type),
		Format:   parseMediaType(res.Format),
		Services: []ServiceType{parseServiceType(res.Service.Context)},
	}

	if res.Label != nil {
		img.Label, err = decodeLanguageMap(res.Label, iiifld.V2)
		if err != nil {
			return Image{}, iiifld.Field("label", err)
		}
	}

	return img, nil
}

// rangesFromWireV2 links the flat v2 structures list into a forest.
// Ranges referenced as children of another range are nested there and
// dropped from the top level.
func rangesFromWireV2(structures []rangeWireV2, opts Options) ([]Range, error) {
	if len(structures) == 0 {
		return nil, nil
	}

	byID := make(map[string]*rangeWireV2, len(structures))
	child := make(map[string]bool)
	for i := range structures {
		byID[structures[i].ID] = &structures[i]
		for _, sub := range structures[i].Ranges {
			child[sub] = true
		}
		for _, m := range structures[i].Members {
			if m.Type == "sc:Range" {
				child[m.ID] = true
			}
		}
	}

	var out []Range
	for i := range structures {
		if child[structures[i].ID] {
			continue
		}
		r, err := rangeFromWireV2(&structures[i], byID, opts.maxDepth())
		if err != nil {
			return nil, iiifld.Field(indexed("structures", i), err)
		}
		out = append(out, r)
	}
	return out, nil
}

func rangeFromWireV2(wire *rangeWireV2, byID map[string]*rangeWireV2, depth int) (Range, error) {
	if depth <= 0 {
		return Range{}, errDepth
	}

	r := Range{Version: iiifld.V2}
	if wire.ID == "" {
		return r, iiifld.Field("@id", errMissing)
	}
	r.ID = wire.ID

	var err error
	if wire.Label != nil {
		r.Label, err = decodeLanguageMap(wire.Label, iiifld.V2)
		if err != nil {
			return r, iiifld.Field("label", err)
		}
	}
	r.Metadata, err = metadataFromWire(wire.Metadata, iiifld.V2)
	if err != nil {
		return r, err
	}

	nest := func(id string) (RangeItem, error) {
		sub, ok := byID[id]
		if !ok {
			// A dangling reference keeps its id as an empty range.
			return RangeItem{Range: &Range{Version: iiifld.V2, ID: id}}, nil
		}
		nested, err := rangeFromWireV2(sub, byID, depth-1)
		if err != nil {
			return RangeItem{}, err
		}
		return RangeItem{Range: &nested}, nil
	}

	if wire.Members != nil {
		for _, m := range wire.Members {
			if m.Type == "sc:Range" {
				item, err := nest(m.ID)
				if err != nil {
					return r, err
				}
				r.Items = append(r.Items, item)
			} else {
				r.Items = append(r.Items, RangeItem{CanvasID: m.ID})
			}
		}
		return r, nil
	}

	for _, id := range wire.Canvases {
		r.Items = append(r.Items, RangeItem{CanvasID: id})
	}
	for _, id := range wire.Ranges {
		item, err := nest(id)
		if err != nil {
			return r, err
		}
		r.Items = append(r.Items, item)
	}
	return r, nil
}

func decodeCollectionV2(data []byte, opts Options) (*Collection, error) {
	var wire collectionWireV2
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	return collectionFromWireV2(&wire, opts.maxDepth())
}

func collectionFromWireV2(wire *collectionWireV2, depth int) (*Collection, error) {
	if depth <= 0 {
		return nil, errDepth
	}

	c := &Collection{Version: iiifld.V2}
	if wire.ID == "" {
		return nil, iiifld.Field("@id", errMissing)
	}
	c.ID = wire.ID

	if wire.Label == nil {
		return nil, iiifld.Field("label", errMissing)
	}
	label, err := decodeLanguageMap(wire.Label, iiifld.V2)
	if err != nil {
		return nil, iiifld.Field("label", err)
	}
	c.Label = label

	if wire.Description != nil {
		c.Summary, err = decodeLanguageMap(wire.Description, iiifld.V2)
		if err != nil {
			return nil, iiifld.Field("description", err)
		}
	}

	// `members` takes precedence when present; the separate arrays are
	// not also consulted.
	if wire.Members != nil {
		for i, raw := range wire.Members {
			item, err := collectionItemV2(raw, depth)
			if err != nil {
				return nil, iiifld.Field(indexed("members", i), err)
			}
			c.Items = append(c.Items, item)
		}
		return c, nil
	}

	for i, raw := range wire.Collections {
		var sub collectionWireV2
		if err := json.Unmarshal(raw, &sub); err != nil {
			return nil, iiifld.Field(indexed("collections", i), err)
		}
		nested, err := collectionFromWireV2(&sub, depth-1)
		if err != nil {
			return nil, iiifld.Field(indexed("collections", i), err)
		}
		c.Items = append(c.Items, CollectionItem{Collection: nested})
	}
	for i, raw := range wire.Manifests {
		m, err := embeddedManifestV2(raw)
		if err != nil {
			return nil, iiifld.Field(indexed("manifests", i), err)
		}
		c.Items = append(c.Items, CollectionItem{Manifest: m})
	}
	return c, nil
}

func collectionItemV2(raw json.RawMessage, depth int) (CollectionItem, error) {
	var ref struct {
		Type string `json:"@type"`
	}
	if err := json.Unmarshal(raw, &ref); err != nil {
		return CollectionItem{}, err
	}
	switch ref.Type {
	case "sc:Collection":
		var sub collectionWireV2
		if err := json.Unmarshal(raw, &sub); err != nil {
			return CollectionItem{}, err
		}
		nested, err := collectionFromWireV2(&sub, depth-1)
		if err != nil {
			return CollectionItem{}, err
		}
		return CollectionItem{Collection: nested}, nil
	case "sc:Manifest":
		m, err := embeddedManifestV2(raw)
		if err != nil {
			return CollectionItem{}, err
		}
		return CollectionItem{Manifest: m}, nil
	}
	return CollectionItem{}, &iiifld.UnknownResourceTypeError{Version: iiifld.V2, Type: ref.Type}
}

// embeddedManifestV2 is the reduced decoder for manifests embedded in a
// collection: a summary view carrying no canvases, ranges or provider.
func embeddedManifestV2(raw json.RawMessage) (*Manifest, error) {
	var wire manifestWireV2
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, err
	}

	m := &Manifest{Version: iiifld.V2, Layout: defaultLayout(iiifld.V2)}
	if wire.ID == "" {
		return nil, iiifld.Field("@id", errMissing)
	}
	m.ID = wire.ID

	if wire.Label == nil {
		return nil, iiifld.Field("label", errMissing)
	}
	label, err := decodeLanguageMap(wire.Label, iiifld.V2)
	if err != nil {
		return nil, iiifld.Field("label", err)
	}
	m.Label = label

	if wire.Description != nil {
		m.Summary, err = decodeLanguageMap(wire.Description, iiifld.V2)
		if err != nil {
			return nil, iiifld.Field("description", err)
		}
	}
	if m.Thumbnail, err = decodeIDRef(wire.Thumbnail); err != nil {
		return nil, iiifld.Field("thumbnail", err)
	}
	if m.Homepage, err = decodeIDRef(wire.Related); err != nil {
		return nil, iiifld.Field("related", err)
	}

	return m, nil
}

func decodeCanvasV2(data []byte) (*Canvas, error) {
	var wire canvasWireV2
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	c, err := canvasFromWireV2(&wire)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func decodeRangeV2(data []byte, opts Options) (*Range, error) {
	var wire rangeWireV2
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	r, err := rangeFromWireV2(&wire, map[string]*rangeWireV2{}, opts.maxDepth())
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// decodeAttributionV2 accepts the three historical attribution shapes,
// first match wins: a plain string, a v3-style label/value pair, a
// v2-style pair.
func decodeAttributionV2(raw json.RawMessage) (*LabelValue, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &LabelValue{Value: LanguageMap{{Key: DefaultKey, Values: []string{s}}}}, nil
	}

	var pair labelValueWire
	if err := json.Unmarshal(raw, &pair); err != nil {
		return nil, err
	}
	if lv, err := labelValueFromWire(&pair, iiifld.V3); err == nil {
		return &lv, nil
	}
	lv, err := labelValueFromWire(&pair, iiifld.V2)
	if err != nil {
		return nil, err
	}
	return &lv, nil
}
