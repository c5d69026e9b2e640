// Package image implements the IIIF Image API: the request URI grammar
// with its region, size, rotation, quality and format components, the
// info.json model, and tile address derivation for deep-zoom viewers.
package image

import (
	"fmt"
	"strconv"
	"strings"
)

// error messages
var regionError = "IIIF `region` argument is not recognized: %#v"
var sizeError = "IIIF `size` argument is not recognized: %#v"
var rotationError = "IIIF `rotation` argument is not recognized: %#v"
var qualityError = "IIIF `quality` argument is not recognized: %#v"
var formatError = "IIIF `format` argument is not recognized: %#v"
var uriError = "IIIF image URI does not match the API grammar: %#v"

// ParseError reports an Image API address or component that matches none
// of the grammar alternatives. Serialization is total and has no error
// counterpart.
type ParseError struct {
	Format string
	Input  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf(e.Format, e.Input)
}

// RegionKind enumerates the region alternatives of the grammar.
type RegionKind int

const (
	RegionFull RegionKind = iota
	RegionSquare
	RegionPixels
	RegionPercent
)

// Region selects the rectangle of the source image to return.
//
//	full
//	square
//	x,y,w,h (in pixels)
//	pct:x,y,w,h (in percents)
type Region struct {
	Kind RegionKind

	// RegionPixels
	X, Y, W, H int

	// RegionPercent
	PX, PY, PW, PH float64
}

func (r Region) String() string {
	switch r.Kind {
	case RegionSquare:
		return "square"
	case RegionPixels:
		return fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.W, r.H)
	case RegionPercent:
		return fmt.Sprintf("pct:%s,%s,%s,%s",
			formatFloat(r.PX), formatFloat(r.PY), formatFloat(r.PW), formatFloat(r.PH))
	}
	return "full"
}

// ParseRegion tries the region alternatives in grammar order: the
// full/square literals, pixel coordinates, percent coordinates.
func ParseRegion(s string) (Region, error) {
	if s == "full" {
		return Region{Kind: RegionFull}, nil
	}
	if s == "square" {
		return Region{Kind: RegionSquare}, nil
	}

	if !strings.HasPrefix(s, "pct:") {
		parts := strings.Split(s, ",")
		if len(parts) == 4 {
			x, errX := strconv.Atoi(parts[0])
			y, errY := strconv.Atoi(parts[1])
			w, errW := strconv.Atoi(parts[2])
			h, errH := strconv.Atoi(parts[3])
			if errX == nil && errY == nil && errW == nil && errH == nil {
				return Region{Kind: RegionPixels, X: x, Y: y, W: w, H: h}, nil
			}
		}
		return Region{}, &ParseError{regionError, s}
	}

	parts := strings.Split(s[4:], ",")
	if len(parts) != 4 {
		return Region{}, &ParseError{regionError, s}
	}
	x, errX := strconv.ParseFloat(parts[0], 64)
	y, errY := strconv.ParseFloat(parts[1], 64)
	w, errW := strconv.ParseFloat(parts[2], 64)
	h, errH := strconv.ParseFloat(parts[3], 64)
	if errX != nil || errY != nil || errW != nil || errH != nil {
		return Region{}, &ParseError{regionError, s}
	}
	return Region{Kind: RegionPercent, PX: x, PY: y, PW: w, PH: h}, nil
}

// SizeKind enumerates the size alternatives of the grammar.
type SizeKind int

const (
	SizeMax SizeKind = iota
	SizeWidth
	SizeHeight
	SizePercent
	SizeWidthHeight
	SizeConfined // !w,h best fit within w×h
)

// Size selects the dimensions the extracted region is scaled to. The
// Upscale flag is the `^` prefix allowing the server to enlarge beyond
// the full size.
//
//	max (full is a legacy synonym, parsed but never produced)
//	w, (force width)
//	,h (force height)
//	pct:n (scale in percent)
//	w,h (deform)
//	!w,h (best fit within w×h)
type Size struct {
	Kind    SizeKind
	Upscale bool
	W, H    int
	Percent float64
}

func (s Size) String() string {
	var b strings.Builder
	if s.Upscale {
		b.WriteByte('^')
	}
	switch s.Kind {
	case SizeWidth:
		fmt.Fprintf(&b, "%d,", s.W)
	case SizeHeight:
		fmt.Fprintf(&b, ",%d", s.H)
	case SizePercent:
		b.WriteString("pct:")
		b.WriteString(formatFloat(s.Percent))
	case SizeWidthHeight:
		fmt.Fprintf(&b, "%d,%d", s.W, s.H)
	case SizeConfined:
		fmt.Fprintf(&b, "!%d,%d", s.W, s.H)
	default:
		b.WriteString("max")
	}
	return b.String()
}

// sizePatterns are tried in order; the first match wins. The order is
// observable on ambiguous input and must not change.
var sizePatterns = []func(string) (Size, bool){
	func(s string) (Size, bool) { // max
		if s == "max" || s == "full" {
			return Size{Kind: SizeMax}, true
		}
		return Size{}, false
	},
	func(s string) (Size, bool) { // ^max
		if s == "^max" {
			return Size{Kind: SizeMax, Upscale: true}, true
		}
		return Size{}, false
	},
	func(s string) (Size, bool) { return sizeWidth(s, false) },  // w,
	func(s string) (Size, bool) { return sizeWidth(s, true) },   // ^w,
	func(s string) (Size, bool) { return sizeHeight(s, false) }, // ,h
	func(s string) (Size, bool) { return sizeHeight(s, true) },  // ^,h
	func(s string) (Size, bool) { return sizePercent(s, false) },
	func(s string) (Size, bool) { return sizePercent(s, true) },
	func(s string) (Size, bool) { return sizeWidthHeight(s, false) },
	func(s string) (Size, bool) { return sizeWidthHeight(s, true) },
	func(s string) (Size, bool) { return sizeConfined(s, false) },
	func(s string) (Size, bool) { return sizeConfined(s, true) },
}

func sizeWidth(s string, upscale bool) (Size, bool) {
	s, ok := trimUpscale(s, upscale)
	if !ok || !strings.HasSuffix(s, ",") {
		return Size{}, false
	}
	w, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return Size{}, false
	}
	return Size{Kind: SizeWidth, Upscale: upscale, W: w}, true
}

func sizeHeight(s string, upscale bool) (Size, bool) {
	s, ok := trimUpscale(s, upscale)
	if !ok || !strings.HasPrefix(s, ",") {
		return Size{}, false
	}
	h, err := strconv.Atoi(s[1:])
	if err != nil {
		return Size{}, false
	}
	return Size{Kind: SizeHeight, Upscale: upscale, H: h}, true
}

func sizePercent(s string, upscale bool) (Size, bool) {
	s, ok := trimUpscale(s, upscale)
	if !ok || !strings.HasPrefix(s, "pct:") {
		return Size{}, false
	}
	pct, err := strconv.ParseFloat(s[4:], 64)
	if err != nil || pct <= 0 {
		return Size{}, false
	}
	return Size{Kind: SizePercent, Upscale: upscale, Percent: pct}, true
}

func sizeWidthHeight(s string, upscale bool) (Size, bool) {
	s, ok := trimUpscale(s, upscale)
	if !ok {
		return Size{}, false
	}
	w, h, ok := splitDimensions(s)
	if !ok {
		return Size{}, false
	}
	return Size{Kind: SizeWidthHeight, Upscale: upscale, W: w, H: h}, true
}

func sizeConfined(s string, upscale bool) (Size, bool) {
	s, ok := trimUpscale(s, upscale)
	if !ok || !strings.HasPrefix(s, "!") {
		return Size{}, false
	}
	w, h, ok := splitDimensions(s[1:])
	if !ok {
		return Size{}, false
	}
	return Size{Kind: SizeConfined, Upscale: upscale, W: w, H: h}, true
}

func trimUpscale(s string, upscale bool) (string, bool) {
	if upscale != strings.HasPrefix(s, "^") {
		return s, false
	}
	return strings.TrimPrefix(s, "^"), true
}

func splitDimensions(s string) (int, int, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	w, errW := strconv.Atoi(parts[0])
	h, errH := strconv.Atoi(parts[1])
	if errW != nil || errH != nil {
		return 0, 0, false
	}
	return w, h, true
}

// ParseSize tries the size alternatives in grammar order; the first
// successful pattern wins.
func ParseSize(s string) (Size, error) {
	for _, pattern := range sizePatterns {
		if size, ok := pattern(s); ok {
			return size, nil
		}
	}
	return Size{}, &ParseError{sizeError, s}
}

// Rotation is an angle clockwise in degrees, with an optional mirroring
// flip applied beforehand (the `!` prefix).
type Rotation struct {
	Mirror bool
	Angle  float64
}

func (r Rotation) String() string {
	if r.Mirror {
		return "!" + formatFloat(r.Angle)
	}
	return formatFloat(r.Angle)
}

func ParseRotation(s string) (Rotation, error) {
	mirror := strings.HasPrefix(s, "!")
	angle, err := strconv.ParseFloat(strings.TrimPrefix(s, "!"), 64)
	if err != nil || angle < 0 {
		return Rotation{}, &ParseError{rotationError, s}
	}
	return Rotation{Mirror: mirror, Angle: angle}, nil
}

// Quality is the color treatment of the returned image.
type Quality int

const (
	QualityDefault Quality = iota
	QualityColor
	QualityGray
	QualityBitonal
	QualityNative // IIIF 1.x synonym of default
)

var qualityNames = map[Quality]string{
	QualityDefault: "default",
	QualityColor:   "color",
	QualityGray:    "gray",
	QualityBitonal: "bitonal",
	QualityNative:  "native",
}

func (q Quality) String() string { return qualityNames[q] }

func ParseQuality(s string) (Quality, error) {
	for q, name := range qualityNames {
		if s == name {
			return q, nil
		}
	}
	return 0, &ParseError{qualityError, s}
}

// Format is the output encoding of the returned image.
type Format int

const (
	FormatJPG Format = iota
	FormatTIF
	FormatPNG
	FormatGIF
	FormatJP2
	FormatPDF
	FormatWebP
)

var formatNames = map[Format]string{
	FormatJPG:  "jpg",
	FormatTIF:  "tif",
	FormatPNG:  "png",
	FormatGIF:  "gif",
	FormatJP2:  "jp2",
	FormatPDF:  "pdf",
	FormatWebP: "webp",
}

func (f Format) String() string { return formatNames[f] }

func ParseFormat(s string) (Format, error) {
	for f, name := range formatNames {
		if s == name {
			return f, nil
		}
	}
	return 0, &ParseError{formatError, s}
}

// URI is an Image API address: either the bare info.json form or a full
// request with its five components.
type URI interface {
	fmt.Stringer
	uri()
}

// InfoURI addresses the info.json document of an image. It carries no
// request parameters.
type InfoURI struct {
	Host   string // scheme and authority, e.g. "https://example.org"
	Prefix string // identifier path below the host
}

func (u InfoURI) uri() {}

func (u InfoURI) String() string {
	return joinPath(u.Host, u.Prefix, "info.json")
}

// Request materializes the IIIF defaults: full region, max size, no
// rotation, default quality, jpg format.
func (u InfoURI) Request() RequestURI {
	return RequestURI{
		Host:    u.Host,
		Prefix:  u.Prefix,
		Region:  Region{Kind: RegionFull},
		Size:    Size{Kind: SizeMax},
		Quality: QualityDefault,
		Format:  FormatJPG,
	}
}

// WithSize materializes the request defaults and overrides the size.
func (u InfoURI) WithSize(s Size) RequestURI {
	r := u.Request()
	r.Size = s
	return r
}

// WithRegion materializes the request defaults and overrides the region.
func (u InfoURI) WithRegion(rg Region) RequestURI {
	r := u.Request()
	r.Region = rg
	return r
}

// RequestURI addresses one derived image:
// {host}/{prefix}/{region}/{size}/{rotation}/{quality}.{format}
type RequestURI struct {
	Host     string
	Prefix   string
	Region   Region
	Size     Size
	Rotation Rotation
	Quality  Quality
	Format   Format
}

func (u RequestURI) uri() {}

func (u RequestURI) String() string {
	return joinPath(u.Host, u.Prefix,
		u.Region.String(), u.Size.String(), u.Rotation.String(),
		u.Quality.String()+"."+u.Format.String())
}

// Info discards the request components, keeping only the address of the
// image itself.
func (u RequestURI) Info() InfoURI {
	return InfoURI{Host: u.Host, Prefix: u.Prefix}
}

// WithSize returns a copy with the size replaced.
func (u RequestURI) WithSize(s Size) RequestURI {
	u.Size = s
	return u
}

// WithRegion returns a copy with the region replaced.
func (u RequestURI) WithRegion(rg Region) RequestURI {
	u.Region = rg
	return u
}

// Parse reads an Image API address. The address is a request form when
// its path ends in a known {quality}.{format} segment; the trailing four
// segments are then read as quality and format, rotation, size and
// region, and the rest is the identifier. Anything else is an info
// address, with a trailing info.json segment stripped.
func Parse(raw string) (URI, error) {
	host, path := splitHost(raw)
	segments := strings.Split(path, "/")

	last := segments[len(segments)-1]
	if quality, format, ok := parseQualityFormat(last); ok {
		if len(segments) < 4 {
			return nil, &ParseError{uriError, raw}
		}
		rotation, err := ParseRotation(segments[len(segments)-2])
		if err != nil {
			return nil, err
		}
		size, err := ParseSize(segments[len(segments)-3])
		if err != nil {
			return nil, err
		}
		region, err := ParseRegion(segments[len(segments)-4])
		if err != nil {
			return nil, err
		}
		return RequestURI{
			Host:     host,
			Prefix:   strings.Join(segments[:len(segments)-4], "/"),
			Region:   region,
			Size:     size,
			Rotation: rotation,
			Quality:  quality,
			Format:   format,
		}, nil
	}

	if last == "info.json" {
		segments = segments[:len(segments)-1]
	}
	return InfoURI{Host: host, Prefix: strings.Join(segments, "/")}, nil
}

// Thumbnail rewrites an info.json address into a 180 pixel wide request.
// An address that does not parse is returned unchanged; callers use this
// on URLs of unknown provenance and prefer a dead link over an error.
func Thumbnail(raw string) string {
	u, err := Parse(raw)
	if err != nil {
		return raw
	}
	var r RequestURI
	switch v := u.(type) {
	case InfoURI:
		r = v.Request()
	case RequestURI:
		r = v
	}
	r.Size = Size{Kind: SizeWidth, W: 180}
	return r.String()
}

// parseQualityFormat reads a {quality}.{format} path segment, the suffix
// that classifies an address as a request form.
func parseQualityFormat(segment string) (Quality, Format, bool) {
	dot := strings.LastIndex(segment, ".")
	if dot < 0 {
		return 0, 0, false
	}
	quality, errQ := ParseQuality(segment[:dot])
	format, errF := ParseFormat(segment[dot+1:])
	if errQ != nil || errF != nil {
		return 0, 0, false
	}
	return quality, format, true
}

func splitHost(raw string) (string, string) {
	scheme := strings.Index(raw, "://")
	if scheme < 0 {
		return "", strings.TrimPrefix(raw, "/")
	}
	slash := strings.Index(raw[scheme+3:], "/")
	if slash < 0 {
		return raw, ""
	}
	return raw[:scheme+3+slash], raw[scheme+3+slash+1:]
}

func joinPath(host string, segments ...string) string {
	parts := make([]string, 0, len(segments)+1)
	if host != "" {
		parts = append(parts, host)
	}
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
