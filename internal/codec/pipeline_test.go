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

import (
	"bytes"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ingestResult feeds every payload of an EncodeResult, minus the ones at the
// given shard indices, into a fresh Decoder.
func ingestResult(t *testing.T, res *EncodeResult, dropShardIndices ...uint32) *Decoder {
	t.Helper()
	drop := map[uint32]bool{}
	for _, i := range dropShardIndices {
		drop[i] = true
	}

	dec := NewDecoder()
	mtext, err := EncodeText(res.Metadata)
	require.NoError(t, err)
	dec.Ingest(mtext)

	for _, s := range res.Shards {
		if drop[s.Shard.Index] {
			continue
		}
		text, err := EncodeText(s)
		require.NoError(t, err)
		dec.Ingest(text)
	}
	return dec
}

// TestRoundTripAllPayloads is property 1: every payload present reconstructs
// the original blob exactly.
func TestRoundTripAllPayloads(t *testing.T) {
	blob := bytes.Repeat([]byte{0xAB}, 1000)
	res, err := Encode(blob, EncodeOptions{DocumentID: 42, MaxPayloadChars: 400})
	require.NoError(t, err)

	dec := ingestResult(t, res)
	got, err := dec.Reconstruct(res.Metadata.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, blob, got)
}

// TestS1ZeroBlobErasureTolerance is scenario S1: 1024 zero bytes, shard_size
// 256 forced via the payload-char budget, r=2 requested; dropping two shard
// payloads (here data shards 0 and 1) still decodes.
func TestS1ZeroBlobErasureTolerance(t *testing.T) {
	blob := make([]byte, 1024)
	budget := Base58ExpandedLen(ShardFrameLen(256))
	res, err := Encode(blob, EncodeOptions{DocumentID: 7, MaxPayloadChars: budget, RecoveryRatio: 0.5})
	require.NoError(t, err)
	require.EqualValues(t, 4, res.Plan.K)
	require.GreaterOrEqual(t, res.Plan.R, uint32(2))

	dec := ingestResult(t, res, 0, 1)
	got, err := dec.Reconstruct(res.Metadata.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, blob, got)
}

// TestS2SmallBlobSingleShard is scenario S2.
func TestS2SmallBlobSingleShard(t *testing.T) {
	blob := []byte("Hello, world!\n")
	budget := Base58ExpandedLen(ShardFrameLen(64))
	res, err := Encode(blob, EncodeOptions{DocumentID: 99, MaxPayloadChars: budget})
	require.NoError(t, err)
	require.EqualValues(t, 1, res.Plan.K)
	require.GreaterOrEqual(t, res.Plan.R, uint32(1))

	dec := NewDecoder()
	mtext, err := EncodeText(res.Metadata)
	require.NoError(t, err)
	dec.Ingest(mtext)
	text, err := EncodeText(res.Shards[0])
	require.NoError(t, err)
	dec.Ingest(text)

	got, err := dec.Reconstruct(res.Metadata.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, blob, got)
}

// TestS4TwoDocumentsPicksLargerGroup is scenario S4.
func TestS4TwoDocumentsPicksLargerGroup(t *testing.T) {
	big := bytes.Repeat([]byte{0x11}, 2000)
	small := []byte("small doc")

	bigRes, err := Encode(big, EncodeOptions{DocumentID: 1, MaxPayloadChars: 400})
	require.NoError(t, err)
	smallRes, err := Encode(small, EncodeOptions{DocumentID: 2, MaxPayloadChars: 400})
	require.NoError(t, err)

	dec := NewDecoder()
	for _, res := range []*EncodeResult{bigRes, smallRes} {
		mtext, err := EncodeText(res.Metadata)
		require.NoError(t, err)
		dec.Ingest(mtext)
		for _, s := range res.Shards {
			text, err := EncodeText(s)
			require.NoError(t, err)
			dec.Ingest(text)
		}
	}

	best, others, ok := dec.BestDocument()
	require.True(t, ok)
	assert.Equal(t, bigRes.Metadata.DocumentID, best)
	assert.Contains(t, others, smallRes.Metadata.DocumentID)

	got, err := dec.Reconstruct(best)
	require.NoError(t, err)
	assert.Equal(t, big, got)
}

// TestS5InsufficientShardsReportsHaveNeed is scenario S5.
func TestS5InsufficientShardsReportsHaveNeed(t *testing.T) {
	blob := bytes.Repeat([]byte{0x42}, 1024)
	res, err := Encode(blob, EncodeOptions{DocumentID: 5, MaxPayloadChars: 400, RecoveryRatio: 0.25})
	require.NoError(t, err)

	total := res.Plan.TotalShards()
	keep := int(res.Plan.K) - 1
	var dropped []uint32
	for _, s := range res.Shards[keep:] {
		dropped = append(dropped, s.Shard.Index)
	}
	require.Len(t, dropped, int(total)-keep)

	dec := ingestResult(t, res, dropped...)
	_, err = dec.Reconstruct(res.Metadata.DocumentID)
	var insufficient *InsufficientShardsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, keep, insufficient.Have)
	assert.Equal(t, int(res.Plan.K), insufficient.Need)
}

// TestS6CorruptedPayloadIsDroppedButRecoveryProceeds is scenario S6.
func TestS6CorruptedPayloadIsDroppedButRecoveryProceeds(t *testing.T) {
	blob := bytes.Repeat([]byte{0x99}, 1024)
	res, err := Encode(blob, EncodeOptions{DocumentID: 6, MaxPayloadChars: 400, RecoveryRatio: 0.5})
	require.NoError(t, err)

	dec := NewDecoder()
	mtext, err := EncodeText(res.Metadata)
	require.NoError(t, err)
	dec.Ingest(mtext)

	raw, err := Marshal(res.Shards[0])
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xFF // corrupt the checksum trailer
	dec.Ingest(base58.Encode(raw))

	for i, s := range res.Shards {
		if i == 0 {
			continue
		}
		text, err := EncodeText(s)
		require.NoError(t, err)
		dec.Ingest(text)
	}

	got, err := dec.Reconstruct(res.Metadata.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, blob, got)
}

// TestForeignCodeResilience is property 6: unrelated QR payloads in the
// input stream do not perturb recovery.
func TestForeignCodeResilience(t *testing.T) {
	blob := []byte("the quick brown fox jumps over the lazy dog")
	res, err := Encode(blob, EncodeOptions{DocumentID: 11, MaxPayloadChars: 400})
	require.NoError(t, err)

	dec := ingestResult(t, res)
	dec.Ingest("https://example.com/unrelated")
	dec.Ingest("")
	dec.Ingest("4vJ2") // decodes as base58 but not a paperback frame

	got, err := dec.Reconstruct(res.Metadata.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, blob, got)
}

// TestShardConflictDropsBothCopies covers the §9 open question resolution:
// two payloads at the same index with different content are both dropped.
func TestShardConflictDropsBothCopies(t *testing.T) {
	blob := bytes.Repeat([]byte{0x55}, 1024)
	res, err := Encode(blob, EncodeOptions{DocumentID: 21, MaxPayloadChars: 400, RecoveryRatio: 1.0})
	require.NoError(t, err)

	dec := NewDecoder()
	mtext, err := EncodeText(res.Metadata)
	require.NoError(t, err)
	dec.Ingest(mtext)

	for _, s := range res.Shards {
		text, err := EncodeText(s)
		require.NoError(t, err)
		dec.Ingest(text)
	}

	// Re-ingest shard 0 with tampered content at the same index: framing
	// still validates (fresh checksum), so this reaches the conflict path.
	tampered := &Payload{
		FormatVersion: res.Shards[0].FormatVersion,
		DocumentID:    res.Shards[0].DocumentID,
		Kind:          PayloadKindShard,
		Shard: &ShardPayload{
			Index: res.Shards[0].Shard.Index,
			Shard: bytes.Repeat([]byte{0xFE}, len(res.Shards[0].Shard.Shard)),
		},
	}
	text, err := EncodeText(tampered)
	require.NoError(t, err)
	dec.Ingest(text)

	conflicts := dec.Conflicts(res.Metadata.DocumentID)
	require.Len(t, conflicts, 1)
	assert.EqualValues(t, res.Shards[0].Shard.Index, conflicts[0].Index)

	// The document still recovers from its remaining, non-conflicting shards.
	got, err := dec.Reconstruct(res.Metadata.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, blob, got)
}

func TestDecodeNoMetadataYet(t *testing.T) {
	dec := NewDecoder()
	_, err := dec.Reconstruct(1)
	assert.ErrorIs(t, err, ErrNoMetadata)
}

func TestEncodeBlobTooLargeForBudget(t *testing.T) {
	_, err := Encode([]byte("hi"), EncodeOptions{DocumentID: 1, MaxPayloadChars: 1})
	assert.ErrorIs(t, err, ErrBlobTooLarge)
}
