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

// Package scan implements codec.QrDecoder by recognizing QR symbols in a
// raster image with github.com/makiuchi-d/gozxing.
package scan

import (
	"errors"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/multi"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/mook/paperback/internal/codec"
)

// Decoder recognizes every QR symbol in an image, not just the first, since
// one scanned sheet carries many cells.
type Decoder struct {
	reader *multi.GenericMultipleBarcodeReader
}

// New returns a Decoder able to recognize multiple QR symbols per image.
func New() *Decoder {
	return &Decoder{reader: multi.NewGenericMultipleBarcodeReader(qrcode.NewQRCodeReader())}
}

var _ codec.QrDecoder = (*Decoder)(nil)

// DecodeImage returns the text of every QR symbol gozxing can locate in
// img. It never errors on a "no codes found" image; that just yields a
// nil slice, since the core treats every candidate independently and a
// blank or unreadable region of a page is not a fatal condition.
func (d *Decoder) DecodeImage(img image.Image) ([]string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, errors.Join(errors.New("paperback: binarizing scan failed"), err)
	}

	results, err := d.reader.DecodeMultiple(bmp, nil)
	if err != nil {
		// No symbols found is the common case for a mostly-blank page
		// region, not an error worth propagating.
		return nil, nil
	}

	texts := make([]string, 0, len(results))
	for _, r := range results {
		texts = append(texts, r.GetText())
	}
	return texts, nil
}
