package presentation

import (
	"encoding/json"

	"github.com/greut/iiifld"
	"github.com/greut/iiifld/image"
)

type manifestWireV3 struct {
	ID                string           `json:"id"`
	Label             json.RawMessage  `json:"label"`
	Metadata          []labelValueWire `json:"metadata"`
	Summary           json.RawMessage  `json:"summary"`
	ViewingDirection  string           `json:"viewingDirection"`
	Behavior          []string         `json:"behavior"`
	Items             []canvasWireV3   `json:"items"`
	Structures        []rangeWireV3    `json:"structures"`
	RequiredStatement *labelValueWire  `json:"requiredStatement"`
	Homepage          json.RawMessage  `json:"homepage"`
	Logo              json.RawMessage  `json:"logo"`
	Provider          []agentWireV3    `json:"provider"`
	Thumbnail         json.RawMessage  `json:"thumbnail"`
}

type canvasWireV3 struct {
	ID     string                 `json:"id"`
	Label  json.RawMessage        `json:"label"`
	Width  *int                   `json:"width"`
	Height *int                   `json:"height"`
	Items  []annotationPageWireV3 `json:"items"`
}

type annotationPageWireV3 struct {
	Items []annotationWireV3 `json:"items"`
}

type annotationWireV3 struct {
	Body json.RawMessage `json:"body"`
}

type bodyWireV3 struct {
	ID      string            `json:"id"`
	Type    string            `json:"type"`
	Format  string            `json:"format"`
	Label   json.RawMessage   `json:"label"`
	Items   []json.RawMessage `json:"items"` // Choice alternatives
	Service json.RawMessage   `json:"service"`
}

type serviceWireV3 struct {
	ID     string `json:"id"`
	AtID   string `json:"@id"`
	Type   string `json:"type"`
	AtType string `json:"@type"`
}

func (s *serviceWireV3) id() string {
	if s.ID != "" {
		return s.ID
	}
	return s.AtID
}

func (s *serviceWireV3) typ() string {
	if s.Type != "" {
		return s.Type
	}
	return s.AtType
}

type rangeWireV3 struct {
	ID       string            `json:"id"`
	Label    json.RawMessage   `json:"label"`
	Items    []json.RawMessage `json:"items"`
	Metadata []labelValueWire  `json:"metadata"`
}

type agentWireV3 struct {
	ID       string          `json:"id"`
	Label    json.RawMessage `json:"label"`
	Homepage json.RawMessage `json:"homepage"`
	Logo     json.RawMessage `json:"logo"`
}

type collectionWireV3 struct {
	ID          string            `json:"id"`
	Label       json.RawMessage   `json:"label"`
	Summary     json.RawMessage   `json:"summary"`
	Items       []json.RawMessage `json:"items"`
	Collections []json.RawMessage `json:"collections"`
	Manifests   []json.RawMessage `json:"manifests"`
}

func decodeManifestV3(data []byte, opts Options) (*Manifest, error) {
	var wire manifestWireV3
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}

	m := &Manifest{Version: iiifld.V3}
	if wire.ID == "" {
		return nil, iiifld.Field("id", errMissing)
	}
	m.ID = wire.ID

	if wire.Label == nil {
		return nil, iiifld.Field("label", errMissing)
	}
	label, err := decodeLanguageMap(wire.Label, iiifld.V3)
	if err != nil {
		return nil, iiifld.Field("label", err)
	}
	m.Label = label

	m.Metadata, err = metadataFromWire(wire.Metadata, iiifld.V3)
	if err != nil {
		return nil, err
	}

	if wire.Summary != nil {
		m.Summary, err = decodeLanguageMap(wire.Summary, iiifld.V3)
		if err != nil {
			return nil, iiifld.Field("summary", err)
		}
	}

	m.ViewingDirection = parseViewingDirection(wire.ViewingDirection)
	layout := ViewingLayout{Version: iiifld.V3}
	for _, b := range wire.Behavior {
		layout.Behaviors = append(layout.Behaviors, parseBehavior(b))
	}
	m.Layout = layout

	for i := range wire.Items {
		c, err := canvasFromWireV3(&wire.Items[i])
		if err != nil {
			return nil, iiifld.Field(indexed("items", i), err)
		}
		m.Canvases = append(m.Canvases, c)
	}

	for i := range wire.Structures {
		r, err := rangeFromWireV3(&wire.Structures[i], opts.maxDepth())
		if err != nil {
			return nil, iiifld.Field(indexed("structures", i), err)
		}
		m.Ranges = append(m.Ranges, r)
	}

	if wire.RequiredStatement != nil {
		lv, err := labelValueFromWire(wire.RequiredStatement, iiifld.V3)
		if err != nil {
			return nil, iiifld.Field("requiredStatement", err)
		}
		m.RequiredStatement = &lv
	}

	if m.Homepage, err = decodeIDRef(wire.Homepage); err != nil {
		return nil, iiifld.Field("homepage", err)
	}
	if m.Logo, err = decodeIDRef(wire.Logo); err != nil {
		return nil, iiifld.Field("logo", err)
	}
	if m.Thumbnail, err = decodeIDRef(wire.Thumbnail); err != nil {
		return nil, iiifld.Field("thumbnail", err)
	}

	if len(wire.Provider) > 0 {
		p, err := providerFromWireV3(&wire.Provider[0])
		if err != nil {
			return nil, iiifld.Field("provider[0]", err)
		}
		m.Provider = p
	}

	return m, nil
}

func providerFromWireV3(wire *agentWireV3) (*Provider, error) {
	p := &Provider{ID: wire.ID}
	var err error
	if wire.Label != nil {
		p.Label, err = decodeLanguageMap(wire.Label, iiifld.V3)
		if err != nil {
			return nil, iiifld.Field("label", err)
		}
	}
	if p.Homepage, err = decodeIDRef(wire.Homepage); err != nil {
		return nil, iiifld.Field("homepage", err)
	}
	if p.Logo, err = decodeIDRef(wire.Logo); err != nil {
		return nil, iiifld.Field("logo", err)
	}
	return p, nil
}

func canvasFromWireV3(wire *canvasWireV3) (Canvas, error) {
	c := Canvas{Version: iiifld.V3}
	if wire.ID == "" {
		return c, iiifld.Field("id", errMissing)
	}
	c.ID = wire.ID
	c.Width = wire.Width
	c.Height = wire.Height

	if wire.Label != nil {
		label, err := decodeLanguageMap(wire.Label, iiifld.V3)
		if err != nil {
			return c, iiifld.Field("label", err)
		}
		c.Label = label
	}

	for i := range wire.Items {
		for j := range wire.Items[i].Items {
			images, err := imagesFromAnnotationV3(wire.Items[i].Items[j].Body)
			if err != nil {
				return c, iiifld.Field(indexed(indexed("items", i)+".items", j), err)
			}
			c.Images = append(c.Images, images...)
		}
	}

	return c, nil
}

// imagesFromAnnotationV3 reads an annotation body, flattening a Choice
// body into its alternatives the way the v2 decoder flattens oa:Choice:
// the first alternative paints the canvas, the rest are choices.
func imagesFromAnnotationV3(raw json.RawMessage) ([]Image, error) {
	if raw == nil {
		return nil, iiifld.Field("body", errMissing)
	}
	var body bodyWireV3
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, iiifld.Field("body", err)
	}

	if body.Type != "Choice" {
		img, err := imageFromBodyV3(&body, Primary)
		if err != nil {
			return nil, iiifld.Field("body", err)
		}
		return []Image{img}, nil
	}

	var images []Image
	for i, itemRaw := range body.Items {
		var item bodyWireV3
		if err := json.Unmarshal(itemRaw, &item); err != nil {
			return nil, iiifld.Field(indexed("body.items", i), err)
		}
		role := Choice
		if i == 0 {
			role = Primary
		}
		img, err := imageFromBodyV3(&item, role)
		if err != nil {
			return nil, iiifld.Field(indexed("body.items", i), err)
		}
		images = append(images, img)
	}
	return images, nil
}

// imageFromBodyV3 resolves the addressable URI from the body's service
// list, which real-world servers emit as an array or a bare object. The
// entry typed ImageService3 is preferred; otherwise the first entry
// serves. An empty list fails.
func imageFromBodyV3(body *bodyWireV3, role ImageRole) (Image, error) {
	services, err := servicesFromWireV3(body.Service)
	if err != nil {
		return Image{}, iiifld.Field("service", err)
	}
	if len(services) == 0 {
		return Image{}, iiifld.ErrNoValidServiceID
	}

	chosen := &services[0]
	for i := range services {
		if services[i].typ() == "ImageService3" {
			chosen = &services[i]
			break
		}
	}
	if chosen.id() == "" {
		return Image{}, iiifld.ErrNoValidServiceID
	}

	uri, err := image.Parse(chosen.id())
	if err != nil {
		return Image{}, iiifld.Field("service", err)
	}

	img := Image{
		ID:     uri,
		Role:   role,
		Type:   parseResourceType(body.Type),
		Format: parseMediaType(body.Format),
	}
	for i := range services {
		img.Services = append(img.Services, parseServiceType(services[i].typ()))
	}

	if body.Label != nil {
		img.Label, err = decodeLanguageMap(body.Label, iiifld.V3)
		if err != nil {
			return Image{}, iiifld.Field("label", err)
		}
	}

	return img, nil
}

func servicesFromWireV3(raw json.RawMessage) ([]serviceWireV3, error) {
	if raw == nil {
		return nil, nil
	}
	var list []serviceWireV3
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var single serviceWireV3
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, err
	}
	return []serviceWireV3{single}, nil
}

func rangeFromWireV3(wire *rangeWireV3, depth int) (Range, error) {
	if depth <= 0 {
		return Range{}, errDepth
	}

	r := Range{Version: iiifld.V3}
	if wire.ID == "" {
		return r, iiifld.Field("id", errMissing)
	}
	r.ID = wire.ID

	var err error
	if wire.Label != nil {
		r.Label, err = decodeLanguageMap(wire.Label, iiifld.V3)
		if err != nil {
			return r, iiifld.Field("label", err)
		}
	}
	r.Metadata, err = metadataFromWire(wire.Metadata, iiifld.V3)
	if err != nil {
		return r, err
	}

	for i, itemRaw := range wire.Items {
		var ref struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		}
		if err := json.Unmarshal(itemRaw, &ref); err != nil {
			return r, iiifld.Field(indexed("items", i), err)
		}
		if ref.Type == "Range" {
			var sub rangeWireV3
			if err := json.Unmarshal(itemRaw, &sub); err != nil {
				return r, iiifld.Field(indexed("items", i), err)
			}
			nested, err := rangeFromWireV3(&sub, depth-1)
			if err != nil {
				return r, iiifld.Field(indexed("items", i), err)
			}
			r.Items = append(r.Items, RangeItem{Range: &nested})
		} else {
			r.Items = append(r.Items, RangeItem{CanvasID: ref.ID})
		}
	}

	return r, nil
}

func decodeCollectionV3(data []byte, opts Options) (*Collection, error) {
	var wire collectionWireV3
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	return collectionFromWireV3(&wire, opts.maxDepth())
}

func collectionFromWireV3(wire *collectionWireV3, depth int) (*Collection, error) {
	if depth <= 0 {
		return nil, errDepth
	}

	c := &Collection{Version: iiifld.V3}
	if wire.ID == "" {
		return nil, iiifld.Field("id", errMissing)
	}
	c.ID = wire.ID

	if wire.Label == nil {
		return nil, iiifld.Field("label", errMissing)
	}
	label, err := decodeLanguageMap(wire.Label, iiifld.V3)
	if err != nil {
		return nil, iiifld.Field("label", err)
	}
	c.Label = label

	if wire.Summary != nil {
		c.Summary, err = decodeLanguageMap(wire.Summary, iiifld.V3)
		if err != nil {
			return nil, iiifld.Field("summary", err)
		}
	}

	// Unlike v2's exclusive `members`, an empty `items` falls back to
	// the separate arrays.
	if len(wire.Items) > 0 {
		for i, raw := range wire.Items {
			item, err := collectionItemV3(raw, depth)
			if err != nil {
				return nil, iiifld.Field(indexed("items", i), err)
			}
			c.Items = append(c.Items, item)
		}
		return c, nil
	}

	for i, raw := range wire.Collections {
		var sub collectionWireV3
		if err := json.Unmarshal(raw, &sub); err != nil {
			return nil, iiifld.Field(indexed("collections", i), err)
		}
		nested, err := collectionFromWireV3(&sub, depth-1)
		if err != nil {
			return nil, iiifld.Field(indexed("collections", i), err)
		}
		c.Items = append(c.Items, CollectionItem{Collection: nested})
	}
	for i, raw := range wire.Manifests {
		m, err := embeddedManifestV3(raw)
		if err != nil {
			return nil, iiifld.Field(indexed("manifests", i), err)
		}
		c.Items = append(c.Items, CollectionItem{Manifest: m})
	}
	return c, nil
}

func collectionItemV3(raw json.RawMessage, depth int) (CollectionItem, error) {
	var ref struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &ref); err != nil {
		return CollectionItem{}, err
	}
	switch ref.Type {
	case "Collection":
		var sub collectionWireV3
		if err := json.Unmarshal(raw, &sub); err != nil {
			return CollectionItem{}, err
		}
		nested, err := collectionFromWireV3(&sub, depth-1)
		if err != nil {
			return CollectionItem{}, err
		}
		return CollectionItem{Collection: nested}, nil
	case "Manifest":
		m, err := embeddedManifestV3(raw)
		if err != nil {
			return CollectionItem{}, err
		}
		return CollectionItem{Manifest: m}, nil
	}
	return CollectionItem{}, &iiifld.UnknownResourceTypeError{Version: iiifld.V3, Type: ref.Type}
}

// embeddedManifestV3 is the reduced decoder for collection-embedded
// manifests.
func embeddedManifestV3(raw json.RawMessage) (*Manifest, error) {
	var wire manifestWireV3
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, err
	}

	m := &Manifest{Version: iiifld.V3, Layout: ViewingLayout{Version: iiifld.V3}}
	if wire.ID == "" {
		return nil, iiifld.Field("id", errMissing)
	}
	m.ID = wire.ID

	if wire.Label == nil {
		return nil, iiifld.Field("label", errMissing)
	}
	label, err := decodeLanguageMap(wire.Label, iiifld.V3)
	if err != nil {
		return nil, iiifld.Field("label", err)
	}
	m.Label = label

	if wire.Summary != nil {
		m.Summary, err = decodeLanguageMap(wire.Summary, iiifld.V3)
		if err != nil {
			return nil, iiifld.Field("summary", err)
		}
	}
	if m.Thumbnail, err = decodeIDRef(wire.Thumbnail); err != nil {
		return nil, iiifld.Field("thumbnail", err)
	}
	if m.Homepage, err = decodeIDRef(wire.Homepage); err != nil {
		return nil, iiifld.Field("homepage", err)
	}

	return m, nil
}

func decodeCanvasV3(data []byte) (*Canvas, error) {
	var wire canvasWireV3
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	c, err := canvasFromWireV3(&wire)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func decodeRangeV3(data []byte, opts Options) (*Range, error) {
	var wire rangeWireV3
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	r, err := rangeFromWireV3(&wire, opts.maxDepth())
	if err != nil {
		return nil, err
	}
	return &r, nil
}
