package presentation

import (
	"errors"
	"testing"

	"github.com/greut/iiifld"
	"github.com/greut/iiifld/image"
)

const manifestV3Fixture = `{
	"@context": "http://iiif.io/api/presentation/3/context.json",
	"id": "https://example.org/iiif/book1/manifest",
	"type": "Manifest",
	"label": {"en": ["Book 1"], "cy": ["Llyfr 1"]},
	"behavior": ["paged", "hidden"],
	"viewingDirection": "top-to-bottom",
	"summary": {"en": ["A summary."]},
	"metadata": [
		{"label": {"en": ["Author"]}, "value": {"en": ["Anne Author"]}}
	],
	"requiredStatement": {
		"label": {"en": ["Attribution"]},
		"value": {"en": ["Provided by Example Org"]}
	},
	"homepage": [{"id": "https://example.org/book1", "type": "Text"}],
	"thumbnail": [{"id": "https://example.org/thumb.jpg", "type": "Image"}],
	"provider": [
		{
			"id": "https://example.org/about",
			"type": "Agent",
			"label": {"en": ["Example Organization"]},
			"homepage": [{"id": "https://example.org"}],
			"logo": [{"id": "https://example.org/logo.png"}]
		}
	],
	"items": [
		{
			"id": "https://example.org/iiif/book1/canvas/p1",
			"type": "Canvas",
			"label": {"none": ["p. 1"]},
			"width": 750,
			"height": 1000,
			"items": [
				{
					"id": "https://example.org/iiif/book1/page/p1",
					"type": "AnnotationPage",
					"items": [
						{
							"id": "https://example.org/iiif/book1/anno/p1",
							"type": "Annotation",
							"motivation": "painting",
							"body": {
								"id": "https://example.org/images/p1.jpg",
								"type": "Image",
								"format": "image/jpeg",
								"service": [
									{"@id": "https://example.org/iiif/2/p1", "@type": "ImageService2"},
									{"id": "https://example.org/iiif/3/p1", "type": "ImageService3"}
								]
							}
						}
					]
				}
			]
		}
	],
	"structures": [
		{
			"id": "https://example.org/range/toc",
			"type": "Range",
			"label": {"en": ["Table of Contents"]},
			"items": [
				{
					"id": "https://example.org/range/chapter1",
					"type": "Range",
					"label": {"en": ["Chapter 1"]},
					"items": [
						{"id": "https://example.org/iiif/book1/canvas/p1", "type": "Canvas"}
					]
				}
			]
		}
	]
}`

func TestDecodeManifestV3(t *testing.T) {
	m, err := DecodeManifest([]byte(manifestV3Fixture))
	if err != nil {
		t.Fatalf("decode returned an error: %#v", err)
	}

	if m.Version != iiifld.V3 {
		t.Errorf("version: got %#v want V3", m.Version)
	}
	if got := m.Label.Label("cy"); got != "Llyfr 1" {
		t.Errorf("label: got %#v", got)
	}
	if m.ViewingDirection != TopToBottom {
		t.Errorf("viewing direction: got %#v", m.ViewingDirection)
	}

	// behaviors co-occur; a layout-aware predicate answers "paged?"
	if len(m.Layout.Behaviors) != 2 {
		t.Fatalf("behaviors: got %#v", m.Layout.Behaviors)
	}
	if m.Layout.Behaviors[1] != BehaviorHidden {
		t.Errorf("behavior: got %#v want hidden", m.Layout.Behaviors[1])
	}
	if !m.Layout.IsPaged() {
		t.Errorf("layout should be paged: got %#v", m.Layout)
	}

	if m.RequiredStatement == nil || m.RequiredStatement.Value.Label("en") != "Provided by Example Org" {
		t.Errorf("required statement: got %#v", m.RequiredStatement)
	}
	if m.Homepage != "https://example.org/book1" {
		t.Errorf("homepage: got %#v", m.Homepage)
	}
	if m.Thumbnail != "https://example.org/thumb.jpg" {
		t.Errorf("thumbnail: got %#v", m.Thumbnail)
	}
	if m.Provider == nil || m.Provider.Logo != "https://example.org/logo.png" {
		t.Errorf("provider: got %#v", m.Provider)
	}

	if len(m.Canvases) != 1 || len(m.Canvases[0].Images) != 1 {
		t.Fatalf("canvases: got %#v", m.Canvases)
	}
	img := m.Canvases[0].Images[0]
	// the ImageService3 entry wins over the earlier ImageService2 one
	info, ok := img.ID.(image.InfoURI)
	if !ok || info.Prefix != "iiif/3/p1" {
		t.Errorf("image id: got %#v want the ImageService3 entry", img.ID)
	}
	if len(img.Services) != 2 || img.Services[0].Kind != ServiceImage2 || img.Services[1].Kind != ServiceImage3 {
		t.Errorf("services: got %#v", img.Services)
	}

	if len(m.Ranges) != 1 || len(m.Ranges[0].Items) != 1 {
		t.Fatalf("ranges: got %#v", m.Ranges)
	}
	chapter := m.Ranges[0].Items[0].Range
	if chapter == nil || chapter.Items[0].CanvasID != "https://example.org/iiif/book1/canvas/p1" {
		t.Errorf("nested range: got %#v", chapter)
	}
}

// A bare service object must decode exactly like a one-element array.
func TestDecodeCanvasServiceShapesV3(t *testing.T) {
	array := []byte(`{
		"@context": "http://iiif.io/api/presentation/3/context.json",
		"id": "https://example.org/canvas/1", "type": "Canvas",
		"items": [{"items": [{"body": {
			"id": "https://example.org/images/p1.jpg", "type": "Image",
			"service": [{"id": "https://example.org/iiif/3/p1", "type": "ImageService3"}]
		}}]}]
	}`)
	object := []byte(`{
		"@context": "http://iiif.io/api/presentation/3/context.json",
		"id": "https://example.org/canvas/1", "type": "Canvas",
		"items": [{"items": [{"body": {
			"id": "https://example.org/images/p1.jpg", "type": "Image",
			"service": {"id": "https://example.org/iiif/3/p1", "type": "ImageService3"}
		}}]}]
	}`)

	a, err := DecodeCanvas(array)
	if err != nil {
		t.Fatalf("array shape returned an error: %#v", err)
	}
	o, err := DecodeCanvas(object)
	if err != nil {
		t.Fatalf("object shape returned an error: %#v", err)
	}

	if a.Images[0].ID != o.Images[0].ID {
		t.Errorf("shapes disagree: %#v vs %#v", a.Images[0].ID, o.Images[0].ID)
	}
}

// No ImageService3 entry: the first entry's id serves.
func TestDecodeCanvasServiceFallbackV3(t *testing.T) {
	data := []byte(`{
		"@context": "http://iiif.io/api/presentation/3/context.json",
		"id": "https://example.org/canvas/1", "type": "Canvas",
		"items": [{"items": [{"body": {
			"id": "https://example.org/images/p1.jpg", "type": "Image",
			"service": [
				{"@id": "https://example.org/iiif/2/first", "@type": "ImageService2"},
				{"@id": "https://example.org/iiif/2/second", "@type": "ImageService2"}
			]
		}}]}]
	}`)

	c, err := DecodeCanvas(data)
	if err != nil {
		t.Fatalf("decode returned an error: %#v", err)
	}
	if info, ok := c.Images[0].ID.(image.InfoURI); !ok || info.Prefix != "iiif/2/first" {
		t.Errorf("image id: got %#v want the first entry", c.Images[0].ID)
	}
}

func TestDecodeCanvasEmptyServiceV3(t *testing.T) {
	data := []byte(`{
		"@context": "http://iiif.io/api/presentation/3/context.json",
		"id": "https://example.org/canvas/1", "type": "Canvas",
		"items": [{"items": [{"body": {
			"id": "https://example.org/images/p1.jpg", "type": "Image",
			"service": []
		}}]}]
	}`)

	_, err := DecodeCanvas(data)
	if !errors.Is(err, iiifld.ErrNoValidServiceID) {
		t.Errorf("got %#v want ErrNoValidServiceID", err)
	}
}

func TestDecodeCanvasChoiceV3(t *testing.T) {
	data := []byte(`{
		"@context": "http://iiif.io/api/presentation/3/context.json",
		"id": "https://example.org/canvas/1", "type": "Canvas",
		"items": [{"items": [{"body": {
			"type": "Choice",
			"items": [
				{"id": "https://example.org/images/natural.jpg", "type": "Image",
				 "service": [{"id": "https://example.org/iiif/3/natural", "type": "ImageService3"}]},
				{"id": "https://example.org/images/xray.jpg", "type": "Image",
				 "service": [{"id": "https://example.org/iiif/3/xray", "type": "ImageService3"}]}
			]
		}}]}]
	}`)

	c, err := DecodeCanvas(data)
	if err != nil {
		t.Fatalf("decode returned an error: %#v", err)
	}
	if len(c.Images) != 2 {
		t.Fatalf("images: got %d want 2", len(c.Images))
	}
	if c.Images[0].Role != Primary || c.Images[1].Role != Choice {
		t.Errorf("roles: got %#v / %#v", c.Images[0].Role, c.Images[1].Role)
	}
}

// An empty `items` falls back to the separate arrays; a populated one
// stands alone.
func TestDecodeCollectionV3(t *testing.T) {
	data := []byte(`{
		"@context": "http://iiif.io/api/presentation/3/context.json",
		"id": "https://example.org/collection/top",
		"type": "Collection",
		"label": {"en": ["Top"]},
		"items": [],
		"collections": [
			{"id": "https://example.org/collection/sub", "type": "Collection", "label": {"en": ["Sub"]}}
		],
		"manifests": [
			{"id": "https://example.org/iiif/book1/manifest", "type": "Manifest", "label": {"en": ["Book 1"]}}
		]
	}`)

	c, err := DecodeCollection(data)
	if err != nil {
		t.Fatalf("decode returned an error: %#v", err)
	}
	if len(c.Items) != 2 {
		t.Fatalf("items: got %d want 2 (fallback arrays)", len(c.Items))
	}
	if c.Items[0].Collection == nil || c.Items[1].Manifest == nil {
		t.Errorf("items: got %#v", c.Items)
	}
}

func TestDecodeCollectionV3Items(t *testing.T) {
	data := []byte(`{
		"@context": "http://iiif.io/api/presentation/3/context.json",
		"id": "https://example.org/collection/top",
		"type": "Collection",
		"label": {"en": ["Top"]},
		"items": [
			{"id": "https://example.org/iiif/book1/manifest", "type": "Manifest", "label": {"en": ["Book 1"]}}
		],
		"manifests": [
			{"id": "https://example.org/ignored", "type": "Manifest", "label": {"en": ["Ignored"]}}
		]
	}`)

	c, err := DecodeCollection(data)
	if err != nil {
		t.Fatalf("decode returned an error: %#v", err)
	}
	if len(c.Items) != 1 || c.Items[0].Manifest == nil {
		t.Fatalf("items: got %#v", c.Items)
	}
	if c.Items[0].Manifest.ID != "https://example.org/iiif/book1/manifest" {
		t.Errorf("item: got %#v", c.Items[0].Manifest.ID)
	}
}

func TestDecodeRangeDepthCap(t *testing.T) {
	data := []byte(`{
		"@context": "http://iiif.io/api/presentation/3/context.json",
		"id": "https://example.org/range/1",
		"type": "Range",
		"items": [
			{"id": "https://example.org/range/2", "type": "Range", "items": [
				{"id": "https://example.org/range/3", "type": "Range", "items": [
					{"id": "https://example.org/range/4", "type": "Range", "items": []}
				]}
			]}
		]
	}`)

	if _, err := DecodeRange(data); err != nil {
		t.Errorf("default cap should allow shallow nesting: %#v", err)
	}

	_, err := DecodeRangeOpts(data, Options{MaxDepth: 2})
	if !errors.Is(err, errDepth) {
		t.Errorf("got %#v want a depth error", err)
	}
}
