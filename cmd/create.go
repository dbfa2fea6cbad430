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

package cmd

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/caarlos0/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mook/paperback/internal/buildinfo"
	"github.com/mook/paperback/internal/cliutil"
	"github.com/mook/paperback/internal/codec"
	"github.com/mook/paperback/internal/pdfsheet"
	"github.com/mook/paperback/internal/qrcode"
)

var (
	createModuleLengthMM float64
	createOverrideBuild  string
	createRecoveryRatio  float64
)

var createCmd = &cobra.Command{
	Use:   "create <input> [output.pdf]",
	Short: "Render a file onto a printable PDF of erasure-coded QR pages",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runCreate,
}

func init() {
	createCmd.Flags().Float64Var(&createModuleLengthMM, "module-length", qrcode.DefaultModuleLengthMM, "physical edge length of one QR module, in millimetres")
	createCmd.Flags().StringVar(&createOverrideBuild, "override-build", "", "force a specific build descriptor, for reproducible output")
	createCmd.Flags().Float64Var(&createRecoveryRatio, "recovery-ratio", codec.DefaultRecoveryRatio, "fraction of data shards to add as recovery shards")
	rootCmd.AddCommand(createCmd)
}

func runCreate(_ *cobra.Command, args []string) error {
	inputPath := args[0]
	outputPath := outputPathFor(args, inputPath)

	in, err := cliutil.GetInputReader(inputPath)
	if err != nil {
		return err
	}
	blob, err := io.ReadAll(in)
	if cerr := cliutil.CloseIfNotStd(in); cerr != nil {
		log.WithError(cerr).Warn("error closing input file")
	}
	if err != nil {
		return errors.Wrap(err, "reading input")
	}

	docID, err := randomDocumentID()
	if err != nil {
		return errors.Wrap(err, "generating document id")
	}

	geom := codec.PageGeometry{
		LargeCellsPerPage: largeCellsPerPage(),
		SmallCellsPerPage: smallCellsPerPage(),
	}
	maxChars := qrcode.Capacity(pdfsheet.DefaultLargeCellMM, createModuleLengthMM)
	if maxChars == 0 {
		return errors.New("module length too large: no QR version fits one page cell")
	}

	result, err := codec.Encode(blob, codec.EncodeOptions{
		DocumentID:      docID,
		RecoveryRatio:   createRecoveryRatio,
		Descriptor:      buildinfo.Descriptor(createOverrideBuild),
		MaxPayloadChars: maxChars,
	})
	if err != nil {
		return errors.Wrap(err, "planning document")
	}

	placement := codec.PlanPlacement(result.Plan.TotalShards(), geom)
	minPages := minPagesFor(result.Plan, geom)

	sheet := pdfsheet.New(pdfsheet.Options{
		ModuleLengthMM: createModuleLengthMM,
		Descriptor:     result.Metadata.Metadata.Descriptor,
		DocumentIDHex:  fmt.Sprintf("%016x", docID)[:8],
		MinPages:       minPages,
		ExtraPages:     placement.Pages - minPages,
	})
	encoder := qrcode.New()

	if err := emitPages(sheet, encoder, result, placement); err != nil {
		return err
	}
	if err := sheet.Flush(); err != nil {
		return errors.Wrap(err, "rendering PDF")
	}

	out, err := cliutil.GetOutputFileCarefully(outputPath, forceOverwrite)
	if err != nil {
		return err
	}
	n, err := out.Write(sheet.Bytes())
	if cerr := cliutil.CloseIfNotStd(out); cerr != nil {
		log.WithError(cerr).Warn("error closing output file")
	}
	if err != nil {
		return errors.Wrap(err, "writing PDF")
	}

	cliutil.ReportWrittenSize(n, out)
	log.WithField("pages", placement.Pages).
		WithField("k", result.Plan.K).
		WithField("r", result.Plan.R).
		Info(cliutil.Success("wrote " + outputPath))
	return nil
}

func outputPathFor(args []string, inputPath string) string {
	if len(args) > 1 {
		return args[1]
	}
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	if base == "" {
		base = "paperback"
	}
	return base + ".pdf"
}

func randomDocumentID() (uint64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

func minPagesFor(plan codec.Plan, geom codec.PageGeometry) int {
	if geom.LargeCellsPerPage <= 0 {
		return 1
	}
	p := codec.PlanPlacement(plan.K, geom)
	return p.Pages
}

func largeCellsPerPage() int {
	// The large grid sits below the metadata strip (one small cell plus gutter).
	cols, rows := pageGridSize(pdfsheet.DefaultLargeCellMM, pdfsheet.DefaultSmallCellMM+3.0)
	return cols * rows
}

func smallCellsPerPage() int {
	// Small cells form a single strip across the top of the page.
	cols, _ := pageGridSize(pdfsheet.DefaultSmallCellMM, 0)
	return cols
}

// pageGridSize mirrors pdfsheet's own grid math so the planner and the
// sink agree on capacity before a Sheet is even constructed.
func pageGridSize(cellMM, reservedHeightMM float64) (cols, rows int) {
	const usableWidthMM = 210.0 - 2*15.0
	const usableHeightMM = 297.0 - 2*15.0 - 18.0 - 12.0
	const gutterMM = 3.0
	cols = int(usableWidthMM / (cellMM + gutterMM))
	rows = int((usableHeightMM - reservedHeightMM) / (cellMM + gutterMM))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

// emitPages walks the document's payloads in the deterministic order
// §4.D requires: per page, every small slot gets the metadata symbol
// first, then large slots get data shards before recovery shards in
// ascending index order.
func emitPages(sheet *pdfsheet.Sheet, encoder *qrcode.Encoder, result *codec.EncodeResult, placement codec.Placement) error {
	metaText, err := codec.EncodeText(result.Metadata)
	if err != nil {
		return errors.Wrap(err, "encoding metadata payload")
	}
	metaSymbol, err := encoder.EncodeSymbol(metaText, codec.CellSmall)
	if err != nil {
		return errors.Wrap(err, "rendering metadata symbol")
	}

	geom := sheet.Geometry()
	next := 0
	for page := 0; page < placement.Pages; page++ {
		for slot := 0; slot < geom.SmallCellsPerPage; slot++ {
			if err := sheet.PlaceSmall(page, slot, metaSymbol); err != nil {
				return errors.Wrap(err, "placing metadata symbol")
			}
		}

		for ; next < len(result.Shards); next++ {
			shard := result.Shards[next]
			shardPage, slot := placement.ShardSlot(shard.Shard.Index)
			if shardPage != page {
				break
			}
			text, err := codec.EncodeText(shard)
			if err != nil {
				return errors.Wrap(err, "encoding shard payload")
			}
			symbol, err := encoder.EncodeSymbol(text, codec.CellLarge)
			if err != nil {
				return errors.Wrap(err, "rendering shard symbol")
			}
			if err := sheet.PlaceLarge(page, slot, symbol); err != nil {
				return errors.Wrap(err, "placing shard symbol")
			}
		}
	}
	return nil
}
