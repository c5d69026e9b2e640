package presentation

import (
	"github.com/greut/iiifld"
	"github.com/greut/iiifld/image"
)

// ViewingDirection is the reading order of a manifest. Unknown values
// collapse to LeftToRight rather than being preserved.
type ViewingDirection int

const (
	LeftToRight ViewingDirection = iota
	RightToLeft
	TopToBottom
	BottomToTop
)

var viewingDirectionNames = map[ViewingDirection]string{
	LeftToRight: "left-to-right",
	RightToLeft: "right-to-left",
	TopToBottom: "top-to-bottom",
	BottomToTop: "bottom-to-top",
}

func (v ViewingDirection) String() string { return viewingDirectionNames[v] }

func parseViewingDirection(s string) ViewingDirection {
	for v, name := range viewingDirectionNames {
		if s == name {
			return v
		}
	}
	return LeftToRight
}

// ViewingHint is the single presentation hint of the v2 dialect.
// Unknown values collapse to HintPaged.
type ViewingHint int

const (
	HintPaged ViewingHint = iota
	HintIndividuals
	HintContinuous
	HintMultiPart
	HintNonPaged
	HintTop
	HintFacingPages
)

var viewingHintNames = map[ViewingHint]string{
	HintPaged:       "paged",
	HintIndividuals: "individuals",
	HintContinuous:  "continuous",
	HintMultiPart:   "multi-part",
	HintNonPaged:    "non-paged",
	HintTop:         "top",
	HintFacingPages: "facing-pages",
}

func (h ViewingHint) String() string { return viewingHintNames[h] }

func parseViewingHint(s string) ViewingHint {
	for h, name := range viewingHintNames {
		if s == name {
			return h
		}
	}
	return HintPaged
}

// Behavior is one of the multi-valued v3 presentation hints. Unknown
// values collapse to BehaviorPaged.
type Behavior int

const (
	BehaviorPaged Behavior = iota
	BehaviorAutoAdvance
	BehaviorNoAutoAdvance
	BehaviorRepeat
	BehaviorNoRepeat
	BehaviorUnordered
	BehaviorIndividuals
	BehaviorContinuous
	BehaviorFacingPages
	BehaviorNonPaged
	BehaviorMultiPart
	BehaviorTogether
	BehaviorSequence
	BehaviorThumbnailNav
	BehaviorNoNav
	BehaviorHidden
)

var behaviorNames = map[Behavior]string{
	BehaviorPaged:         "paged",
	BehaviorAutoAdvance:   "auto-advance",
	BehaviorNoAutoAdvance: "no-auto-advance",
	BehaviorRepeat:        "repeat",
	BehaviorNoRepeat:      "no-repeat",
	BehaviorUnordered:     "unordered",
	BehaviorIndividuals:   "individuals",
	BehaviorContinuous:    "continuous",
	BehaviorFacingPages:   "facing-pages",
	BehaviorNonPaged:      "non-paged",
	BehaviorMultiPart:     "multi-part",
	BehaviorTogether:      "together",
	BehaviorSequence:      "sequence",
	BehaviorThumbnailNav:  "thumbnail-nav",
	BehaviorNoNav:         "no-nav",
	BehaviorHidden:        "hidden",
}

func (b Behavior) String() string { return behaviorNames[b] }

func parseBehavior(s string) Behavior {
	for b, name := range behaviorNames {
		if s == name {
			return b
		}
	}
	return BehaviorPaged
}

// ViewingLayout keeps the dialect-specific presentation hints. The two
// payloads are not merged into one flat enum: v3 behaviors co-occur
// (paged and hidden at once) where a v2 hint cannot. Callers go through
// predicates such as IsPaged instead of reading the payloads directly.
type ViewingLayout struct {
	Version   iiifld.Version
	Hint      ViewingHint // V2
	Behaviors []Behavior  // V3
}

// IsPaged reports whether the layout asks for a page-turning view.
func (l ViewingLayout) IsPaged() bool {
	if l.Version == iiifld.V3 {
		for _, b := range l.Behaviors {
			if b == BehaviorPaged {
				return true
			}
		}
		return false
	}
	return l.Hint == HintPaged
}

func defaultLayout(version iiifld.Version) ViewingLayout {
	return ViewingLayout{Version: version, Hint: HintPaged}
}

// ServiceKind classifies an image service by API generation.
type ServiceKind int

const (
	ServiceImage1 ServiceKind = iota
	ServiceImage2
	ServiceImage3
	ServiceOther
)

// ServiceType tags a service; unrecognized services keep their raw
// discriminator in Raw.
type ServiceType struct {
	Kind ServiceKind
	Raw  string
}

func parseServiceType(s string) ServiceType {
	switch s {
	case "ImageService1", "http://iiif.io/api/image/1/context.json",
		"http://library.stanford.edu/iiif/image-api/1.1/context.json":
		return ServiceType{Kind: ServiceImage1}
	case "ImageService2", iiifld.ContextImage2:
		return ServiceType{Kind: ServiceImage2}
	case "ImageService3", iiifld.ContextImage3:
		return ServiceType{Kind: ServiceImage3}
	}
	return ServiceType{Kind: ServiceOther, Raw: s}
}

// MediaKind classifies the format of a painted resource.
type MediaKind int

const (
	MediaUnknown MediaKind = iota
	MediaJPEG
	MediaPNG
	MediaGIF
	MediaTIFF
	MediaWebP
	MediaOther
)

// MediaType is a permissively decoded media format; unrecognized values
// keep the raw string.
type MediaType struct {
	Kind MediaKind
	Raw  string
}

func parseMediaType(s string) MediaType {
	switch s {
	case "":
		return MediaType{Kind: MediaUnknown}
	case "image/jpeg", "image/jpg":
		return MediaType{Kind: MediaJPEG}
	case "image/png":
		return MediaType{Kind: MediaPNG}
	case "image/gif":
		return MediaType{Kind: MediaGIF}
	case "image/tiff":
		return MediaType{Kind: MediaTIFF}
	case "image/webp":
		return MediaType{Kind: MediaWebP}
	}
	return MediaType{Kind: MediaOther, Raw: s}
}

// ResourceKind classifies the type discriminator of a painted resource.
type ResourceKind int

const (
	ResourceImage ResourceKind = iota
	ResourceSound
	ResourceVideo
	ResourceText
	ResourceDataset
	ResourceOther
)

// ResourceType is a permissively decoded resource type; unrecognized
// values keep the raw string.
type ResourceType struct {
	Kind ResourceKind
	Raw  string
}

func parseResourceType(s string) ResourceType {
	switch s {
	case "Image", "dctypes:Image", "dcTypes:Image":
		return ResourceType{Kind: ResourceImage}
	case "Sound", "dctypes:Sound":
		return ResourceType{Kind: ResourceSound}
	case "Video", "dctypes:MovingImage":
		return ResourceType{Kind: ResourceVideo}
	case "Text", "dctypes:Text":
		return ResourceType{Kind: ResourceText}
	case "Dataset", "dctypes:Dataset":
		return ResourceType{Kind: ResourceDataset}
	}
	return ResourceType{Kind: ResourceOther, Raw: s}
}

// LabelValue is one metadata row, or the required statement: a pair of
// language maps.
type LabelValue struct {
	Label LanguageMap
	Value LanguageMap
}

// Provider is the v3 providing agent of a manifest.
type Provider struct {
	ID       string
	Label    LanguageMap
	Homepage string
	Logo     string
}

// ImageRole says whether an image is the primary painting of its canvas
// or one alternative of a choice.
type ImageRole int

const (
	Primary ImageRole = iota
	Choice
)

// Image is one painted image, already resolved to an addressable Image
// API URI.
type Image struct {
	ID       image.URI
	Label    LanguageMap
	Role     ImageRole
	Type     ResourceType
	Format   MediaType
	Services []ServiceType
}

// Canvas is one view of the object. Width and height are independently
// optional.
type Canvas struct {
	Version iiifld.Version
	ID      string
	Label   LanguageMap
	Width   *int
	Height  *int
	Images  []Image
}

// AspectRatio is width over height, or 1.0 whenever either dimension is
// missing or zero. Never a division error.
func (c *Canvas) AspectRatio() float64 {
	if c.Width == nil || c.Height == nil || *c.Width <= 0 || *c.Height <= 0 {
		return 1.0
	}
	return float64(*c.Width) / float64(*c.Height)
}

// Manifest is the top-level description of one digitized object.
type Manifest struct {
	Version           iiifld.Version
	ID                string
	Label             LanguageMap
	Metadata          []LabelValue
	Summary           LanguageMap // nil when absent
	ViewingDirection  ViewingDirection
	Layout            ViewingLayout
	Canvases          []Canvas
	Ranges            []Range
	Homepage          string
	Logo              string
	Provider          *Provider
	Thumbnail         string
	RequiredStatement *LabelValue
}

// CollectionItem is one child of a collection; exactly one field is set.
type CollectionItem struct {
	Collection *Collection
	Manifest   *Manifest
}

// Collection groups manifests and nested collections. Embedded
// manifests are partially populated: id, label, summary, thumbnail and
// homepage only.
type Collection struct {
	Version iiifld.Version
	ID      string
	Label   LanguageMap
	Summary LanguageMap
	Items   []CollectionItem
}

// RangeItem is one child of a range; either a leaf canvas id or an
// owned sub-range.
type RangeItem struct {
	CanvasID string
	Range    *Range
}

// Range is a table-of-contents grouping of canvases and sub-ranges.
type Range struct {
	Version  iiifld.Version
	ID       string
	Label    LanguageMap
	Items    []RangeItem
	Metadata []LabelValue
}

// Resource is any entity DecodeResource can return.
type Resource interface {
	resource()
}

func (*Manifest) resource()   {}
func (*Collection) resource() {}
func (*Canvas) resource()     {}
func (*Range) resource()      {}
