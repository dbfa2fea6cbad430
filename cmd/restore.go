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
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/caarlos0/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mook/paperback/internal/cliutil"
	"github.com/mook/paperback/internal/codec"
	"github.com/mook/paperback/internal/scan"
)

var restoreOutputPath string

var restoreCmd = &cobra.Command{
	Use:   "restore <page-image> [<page-image> ...]",
	Short: "Reconstruct a file from scanned images of its QR pages",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRestore,
}

func init() {
	restoreCmd.Flags().StringVarP(&restoreOutputPath, "out", "o", "", "output file to write to, or stdout if not provided")
	rootCmd.AddCommand(restoreCmd)
}

func runRestore(_ *cobra.Command, pageImages []string) error {
	decoder := scan.New()
	session := codec.NewDecoder()

	for _, path := range pageImages {
		texts, err := decodeImageFile(decoder, path)
		if err != nil {
			log.WithError(err).WithField("path", path).Warn("could not read page image")
			continue
		}
		for _, text := range texts {
			session.Ingest(text)
		}
	}

	docID, others, ok := session.BestDocument()
	if !ok {
		return errors.New("no paperback QR codes found in the given images")
	}
	for _, other := range others {
		log.WithField("document", fmt.Sprintf("%016x", other)).
			Warn(cliutil.Warning("ignoring unrelated document found in scan"))
	}

	for _, c := range session.Conflicts(docID) {
		log.Warn(cliutil.Warning(c.String()))
	}

	blob, err := session.Reconstruct(docID)
	if err != nil {
		return describeReconstructError(err)
	}

	out, err := cliutil.GetOutputFileCarefully(restoreOutputPath, forceOverwrite)
	if err != nil {
		return err
	}
	n, err := out.Write(blob)
	if cerr := cliutil.CloseIfNotStd(out); cerr != nil {
		log.WithError(cerr).Warn("error closing output file")
	}
	if err != nil {
		return errors.Wrap(err, "writing restored file")
	}

	cliutil.ReportWrittenSize(n, out)
	log.Info(cliutil.Success(fmt.Sprintf("restored %d bytes", len(blob))))
	return nil
}

func decodeImageFile(decoder *scan.Decoder, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening page image")
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, "decoding page image")
	}
	return decoder.DecodeImage(img)
}

func describeReconstructError(err error) error {
	var insufficient *codec.InsufficientShardsError
	if errors.As(err, &insufficient) {
		return errors.Errorf(
			"not enough shards scanned: have %d, need %d — scan more pages",
			insufficient.Have, insufficient.Need,
		)
	}
	switch {
	case errors.Is(err, codec.ErrNoMetadata):
		return errors.New("no metadata payload found — scan at least one full page")
	case errors.Is(err, codec.ErrInconsistentDocMeta):
		return errors.New("conflicting metadata payloads found for this document")
	default:
		return errors.Wrap(err, "reconstructing file")
	}
}
