/*
 * This file is part of paperback.
 *
 * paperback turns a file into a stack of printable, QR-coded, erasure-coded
 * pages, and turns scans of those pages back into the original file.
 *
 * paperback is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published
 * by the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package codec

import "image"

// CellKind distinguishes the two slot sizes a page offers: small slots
// hold the duplicated metadata payload, large slots hold one shard each.
type CellKind int

const (
	CellLarge CellKind = iota
	CellSmall
)

// QrEncoder is the external collaborator that rasterizes one payload's
// base58 text into a QR symbol. The core hands it text; it is responsible
// for choosing the smallest QR version that fits at the configured
// module size.
type QrEncoder interface {
	EncodeSymbol(text string, kind CellKind) (image.Image, error)
}

// PageGeometry describes how many large and small slots one page offers.
type PageGeometry struct {
	LargeCellsPerPage int
	SmallCellsPerPage int
}

// PageSink is the external collaborator that accepts rasterized symbols
// and places them on a printable surface. The core chooses which payload
// goes in which (page, slot); PageSink chooses the physical coordinates.
type PageSink interface {
	Geometry() PageGeometry
	PlaceLarge(page, slot int, symbol image.Image) error
	PlaceSmall(page, slot int, symbol image.Image) error
	// Flush finalizes the output after the last symbol has been placed.
	Flush() error
}

// QrDecoder is the external collaborator that recognizes QR symbols in a
// raster image. It makes no promises about ordering or de-duplication;
// the decode pipeline treats every returned string as an independent
// candidate payload.
type QrDecoder interface {
	DecodeImage(img image.Image) ([]string, error)
}
