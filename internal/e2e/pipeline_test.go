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

// Package e2e exercises the full create/scan/restore pipeline the way a
// user would experience it: bytes in, a stack of QR symbols rendered as
// images, those images scanned back, bytes out. It stays in-process
// (rather than shelling out to a rasterizer for the PDF) since no PDF
// page-rasterization tool ships in this module's dependency set.
package e2e

import (
	"bytes"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mook/paperback/internal/codec"
	"github.com/mook/paperback/internal/qrcode"
	"github.com/mook/paperback/internal/scan"
)

func TestFullPipelineRoundTrip(t *testing.T) {
	original := bytes.Repeat([]byte("paperback writes bytes to paper and reads them back.\n"), 40)

	result, err := codec.Encode(original, codec.EncodeOptions{
		DocumentID:      0xC0FFEE,
		RecoveryRatio:   0.25,
		Descriptor:      "e2e-test",
		MaxPayloadChars: qrcode.Capacity(42, qrcode.DefaultModuleLengthMM),
	})
	require.NoError(t, err)

	encoder := qrcode.New()
	decoder := scan.New()
	session := codec.NewDecoder()

	ingest := func(payload *codec.Payload, kind codec.CellKind) {
		text, err := codec.EncodeText(payload)
		require.NoError(t, err)
		symbol, err := encoder.EncodeSymbol(text, kind)
		require.NoError(t, err)
		texts := scanSymbol(t, decoder, symbol)
		for _, s := range texts {
			session.Ingest(s)
		}
	}

	ingest(result.Metadata, codec.CellSmall)
	// Drop one recovery shard on the floor to prove the erasure coding
	// tolerates real loss, not just a clean scan.
	for i, shard := range result.Shards {
		if i == len(result.Shards)-1 && result.Plan.R > 0 {
			continue
		}
		ingest(shard, codec.CellLarge)
	}

	docID, _, ok := session.BestDocument()
	require.True(t, ok)

	restored, err := session.Reconstruct(docID)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func scanSymbol(t *testing.T, decoder *scan.Decoder, symbol image.Image) []string {
	t.Helper()
	texts, err := decoder.DecodeImage(symbol)
	require.NoError(t, err)
	require.NotEmpty(t, texts)
	return texts
}

// TestCLICreateSmoke shells out to the built CLI to prove the command
// tree wires together end to end. It is skipped unless PAPERBACK_E2E=1,
// since it invokes `go run` against the module root.
func TestCLICreateSmoke(t *testing.T) {
	if os.Getenv("PAPERBACK_E2E") != "1" {
		t.Skip("set PAPERBACK_E2E=1 to run CLI smoke tests")
	}

	moduleRoot, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)

	tmpDir := t.TempDir()
	inputPath := filepath.Join(tmpDir, "input.txt")
	require.NoError(t, os.WriteFile(inputPath, []byte("hello from paperback\n"), 0o600))
	outputPath := filepath.Join(tmpDir, "out.pdf")

	cmd := exec.Command("go", "run", ".", "create", inputPath, outputPath)
	cmd.Dir = moduleRoot
	out, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "create failed: %s", out)

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
