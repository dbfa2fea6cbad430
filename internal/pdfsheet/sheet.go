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

// Package pdfsheet implements codec.PageSink: it lays QR symbols out on
// printable A4 pages with github.com/jung-kurt/gofpdf/v2, one shard per
// large cell and a duplicated metadata symbol in every small cell.
package pdfsheet

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/pkg/errors"

	"github.com/mook/paperback/internal/codec"
)

const (
	pageWidthMM  = 210.0 // A4
	pageHeightMM = 297.0
	marginMM     = 15.0
	gutterMM     = 3.0
	headerMM     = 18.0
	footerMM     = 12.0

	// DefaultLargeCellMM and DefaultSmallCellMM are the on-paper footprints
	// of one shard cell and one metadata cell, chosen to comfortably hold
	// the QR versions codec.PlanShardSize settles on at the default module
	// length without wasting page real estate.
	DefaultLargeCellMM = 42.0
	DefaultSmallCellMM = 16.0
)

// Options configures one Sheet's layout and on-paper header text.
type Options struct {
	// ModuleLengthMM is the physical edge length of one QR module.
	ModuleLengthMM float64
	LargeCellMM    float64
	SmallCellMM    float64

	// Descriptor is printed on the header (paperback version / build info).
	Descriptor string
	// DocumentIDHex is the truncated document_id, printed on the header.
	DocumentIDHex string
	// MinPages is the minimum number of pages required to restore (⌈k / large_cells_per_page⌉).
	MinPages int
	// ExtraPages is how many additional (recovery) pages are being printed beyond MinPages.
	ExtraPages int
}

func (o *Options) setDefaults() {
	if o.LargeCellMM <= 0 {
		o.LargeCellMM = DefaultLargeCellMM
	}
	if o.SmallCellMM <= 0 {
		o.SmallCellMM = DefaultSmallCellMM
	}
	if o.ModuleLengthMM <= 0 {
		o.ModuleLengthMM = 0.5
	}
}

// Sheet is a codec.PageSink backed by a single in-progress gofpdf document.
type Sheet struct {
	opts Options
	pdf  *gofpdf.Fpdf

	largeCols, largeRows int
	smallCols            int
	pagesAdded           int

	gridTop float64

	closed bool
	out    []byte
}

var _ codec.PageSink = (*Sheet)(nil)

// New lays out the page grid and returns a Sheet ready to accept symbols.
func New(opts Options) *Sheet {
	opts.setDefaults()

	s := &Sheet{opts: opts}

	usableWidth := pageWidthMM - 2*marginMM
	metadataStripHeight := opts.SmallCellMM + gutterMM
	gridHeight := pageHeightMM - 2*marginMM - headerMM - footerMM - metadataStripHeight

	s.largeCols = maxInt(1, int(usableWidth/(opts.LargeCellMM+gutterMM)))
	s.largeRows = maxInt(1, int(gridHeight/(opts.LargeCellMM+gutterMM)))
	s.smallCols = maxInt(1, int(usableWidth/(opts.SmallCellMM+gutterMM)))
	s.gridTop = marginMM + headerMM + metadataStripHeight

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")
	pdf.SetCreator("paperback", true)

	pdf.SetHeaderFuncMode(func() {
		pdf.SetY(marginMM)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 7, "paperback recovery sheet", "", 1, "C", false, 0, "")
		pdf.SetFont("Courier", "", 9)
		info := fmt.Sprintf("document %s", opts.DocumentIDHex)
		if opts.Descriptor != "" {
			info += "  -  " + opts.Descriptor
		}
		pdf.CellFormat(0, 5, info, "", 1, "C", false, 0, "")
		minPages := fmt.Sprintf(
			"page %d of %d minimum (+%d recovery) to restore",
			pdf.PageNo(), opts.MinPages, opts.ExtraPages,
		)
		pdf.CellFormat(0, 5, minPages, "", 1, "C", false, 0, "")
	}, true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-footerMM)
		pdf.SetFont("Courier", "", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	s.pdf = pdf
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Geometry reports how many large and small cells one page offers.
func (s *Sheet) Geometry() codec.PageGeometry {
	return codec.PageGeometry{
		LargeCellsPerPage: s.largeCols * s.largeRows,
		SmallCellsPerPage: s.smallCols,
	}
}

func (s *Sheet) ensurePage(page int) {
	for s.pagesAdded <= page {
		s.pdf.AddPage()
		s.pagesAdded++
	}
}

// PlaceLarge places a shard symbol at the given (page, slot) in row-major
// order across the large-cell grid.
func (s *Sheet) PlaceLarge(page, slot int, symbol image.Image) error {
	s.ensurePage(page)
	col := slot % s.largeCols
	row := slot / s.largeCols
	x := marginMM + float64(col)*(s.opts.LargeCellMM+gutterMM)
	y := s.gridTop + float64(row)*(s.opts.LargeCellMM+gutterMM)
	name := fmt.Sprintf("shard-%d-%d.png", page, slot)
	return s.placeImage(name, symbol, x, y, s.opts.LargeCellMM)
}

// PlaceSmall places a metadata symbol at the given (page, slot) along the
// metadata strip at the top of the page.
func (s *Sheet) PlaceSmall(page, slot int, symbol image.Image) error {
	s.ensurePage(page)
	x := marginMM + float64(slot)*(s.opts.SmallCellMM+gutterMM)
	y := marginMM + headerMM
	name := fmt.Sprintf("meta-%d-%d.png", page, slot)
	return s.placeImage(name, symbol, x, y, s.opts.SmallCellMM)
}

func (s *Sheet) placeImage(name string, symbol image.Image, x, y, size float64) error {
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, symbol); err != nil {
		return errors.Wrap(err, "paperback: encoding symbol PNG")
	}
	s.pdf.RegisterImageReader(name, "PNG", buf)
	s.pdf.ImageOptions(name, x, y, size, size, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return nil
}

// Flush finalizes the PDF; the resulting bytes are retrieved with Bytes.
func (s *Sheet) Flush() error {
	if s.closed {
		return nil
	}
	var buf bytes.Buffer
	if err := s.pdf.Output(&buf); err != nil {
		return errors.Wrap(err, "paperback: rendering PDF")
	}
	s.out = buf.Bytes()
	s.closed = true
	return nil
}

// Bytes returns the finished PDF. It is only valid after Flush has
// succeeded.
func (s *Sheet) Bytes() []byte {
	return s.out
}
