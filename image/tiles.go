package image

import (
	"math"
)

// Defaults when an info.json advertises no tile descriptor.
const defaultTileSize = 256

var defaultScaleFactors = []int{1, 2, 4, 8, 16, 32}

// TileAddress is one cell of the request grid for a deep-zoom level.
// Page is carried through for the caller's bookkeeping and plays no part
// in the geometry.
type TileAddress struct {
	Page   int
	Row    int
	Col    int
	Width  int
	Height int
	URL    string
}

// ScaleFactors returns the downscale factors of the first tile
// descriptor, or the spec defaults when the document advertises none.
func (i *Info) ScaleFactors() []int {
	if len(i.Tiles) > 0 && len(i.Tiles[0].ScaleFactors) > 0 {
		return i.Tiles[0].ScaleFactors
	}
	return defaultScaleFactors
}

// DeriveTiles computes the request URI grid covering the image
// downscaled by scale. Tile dimensions come from the first tile
// descriptor, defaulting to 256x256; a descriptor without a height gets
// square tiles.
//
// A grid that collapses to a single tile is emitted as one full-region
// entry at the scaled dimensions, so the address cannot disagree with
// the image boundary by a rounding pixel. Otherwise tiles are emitted in
// row-major order, with the source region and the output size clamped
// independently at the right and bottom edges: a clamped region of N
// source pixels yields ceil(N/scale) output pixels.
func DeriveTiles(page, scale int, info *Info) []TileAddress {
	tileW, tileH := defaultTileSize, defaultTileSize
	if len(info.Tiles) > 0 {
		tileW = info.Tiles[0].Width
		tileH = info.Tiles[0].Height
		if tileH == 0 {
			tileH = tileW
		}
	}

	scaledW := int(math.Round(float64(info.Width) / float64(scale)))
	scaledH := int(math.Round(float64(info.Height) / float64(scale)))
	numRows := (scaledH + tileH - 1) / tileH
	numCols := (scaledW + tileW - 1) / tileW

	debug("tiles for %s: scale %d, %dx%d grid", info.ID.String(), scale, numCols, numRows)

	if numRows == 1 && numCols == 1 {
		u := info.ID.WithSize(Size{Kind: SizeWidthHeight, W: scaledW, H: scaledH})
		return []TileAddress{{
			Page:   page,
			Width:  scaledW,
			Height: scaledH,
			URL:    u.String(),
		}}
	}

	tiles := make([]TileAddress, 0, numRows*numCols)
	for row := 0; row < numRows; row++ {
		for col := 0; col < numCols; col++ {
			x := col * tileW * scale
			y := row * tileH * scale
			regionW := tileW * scale
			regionH := tileH * scale
			outW := tileW
			outH := tileH
			if x+regionW > info.Width {
				regionW = info.Width - x
				outW = (regionW + scale - 1) / scale
			}
			if y+regionH > info.Height {
				regionH = info.Height - y
				outH = (regionH + scale - 1) / scale
			}

			u := info.ID.Request()
			u.Region = Region{Kind: RegionPixels, X: x, Y: y, W: regionW, H: regionH}
			u.Size = Size{Kind: SizeWidthHeight, W: outW, H: outH}

			tiles = append(tiles, TileAddress{
				Page:   page,
				Row:    row,
				Col:    col,
				Width:  outW,
				Height: outH,
				URL:    u.String(),
			})
		}
	}
	return tiles
}
