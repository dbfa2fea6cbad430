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

// Package qrcode implements codec.QrEncoder by rasterizing base58 text into
// QR symbols with github.com/boombuler/barcode.
package qrcode

import (
	"errors"
	"image"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"

	"github.com/mook/paperback/internal/codec"
)

// Default raster resolutions, in pixels, for a large (one-shard) and a
// small (metadata) grid cell. These are independent of on-paper module
// length, which is a pdfsheet concern: the encoder always produces a
// generously oversampled bitmap, and pdfsheet scales it down onto the page.
const (
	DefaultLargePixels = 600
	DefaultSmallPixels = 240
)

// Encoder rasterizes QR symbols at a fixed error-correction level, using
// medium correction as a compromise between payload capacity (paperback
// already carries its own erasure coding, so the QR layer's own redundancy
// mostly protects against print/scan artefacts, not missing sheets) and
// print-space efficiency.
type Encoder struct {
	LargePixels int
	SmallPixels int
}

// New returns an Encoder using the default raster resolutions.
func New() *Encoder {
	return &Encoder{LargePixels: DefaultLargePixels, SmallPixels: DefaultSmallPixels}
}

var _ codec.QrEncoder = (*Encoder)(nil)

// EncodeSymbol renders text as a QR symbol, choosing the smallest QR
// version that fits it at medium error correction, then scales it to the
// raster resolution for the requested cell kind.
func (e *Encoder) EncodeSymbol(text string, kind codec.CellKind) (image.Image, error) {
	sym, err := qr.Encode(text, qr.M, qr.Auto)
	if err != nil {
		return nil, errors.Join(errors.New("paperback: qr encode failed"), err)
	}

	px := e.pixelsFor(kind)
	scaled, err := barcode.Scale(sym, px, px)
	if err != nil {
		return nil, errors.Join(errors.New("paperback: qr scale failed"), err)
	}
	return scaled, nil
}

func (e *Encoder) pixelsFor(kind codec.CellKind) int {
	if kind == codec.CellSmall {
		if e.SmallPixels > 0 {
			return e.SmallPixels
		}
		return DefaultSmallPixels
	}
	if e.LargePixels > 0 {
		return e.LargePixels
	}
	return DefaultLargePixels
}
