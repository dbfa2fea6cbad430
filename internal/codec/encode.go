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
	"github.com/ccoveille/go-safecast"
)

// EncodeOptions configures one document's worth of encoding.
type EncodeOptions struct {
	// DocumentID identifies this document across every payload it produces.
	// Callers are responsible for making it unique per archive; a random
	// uint64 is the expected source.
	DocumentID uint64
	// RecoveryRatio overrides DefaultRecoveryRatio when non-zero.
	RecoveryRatio float64
	// Descriptor is copied verbatim into the metadata payload. It plays no
	// role in recovery; it exists so a scan can report what produced a
	// sheet of paper.
	Descriptor string
	// MaxPayloadChars is the alphanumeric capacity of one large grid cell
	// at the module size the caller intends to print at (§4.B).
	MaxPayloadChars int
}

// EncodeResult is one document's worth of payloads, already split into
// metadata and shard payloads per §4.D's ordering.
type EncodeResult struct {
	Plan     Plan
	Metadata *Payload
	Shards   []*Payload
}

// Encode splits blob into k data shards, computes r recovery shards, and
// frames all of it plus one metadata payload describing the document.
func Encode(blob []byte, opts EncodeOptions) (*EncodeResult, error) {
	ratio := opts.RecoveryRatio
	if ratio == 0 {
		ratio = DefaultRecoveryRatio
	}

	shardSize, err := PlanShardSize(opts.MaxPayloadChars)
	if err != nil {
		return nil, err
	}

	blobLen, err := safecast.ToUint64(len(blob))
	if err != nil {
		return nil, ErrBlobTooLarge
	}

	plan, err := PlanDocument(blobLen, shardSize, ratio)
	if err != nil {
		return nil, err
	}

	dataShards := splitPadded(blob, plan.K, plan.ShardSize)

	coder, err := NewCoder(plan)
	if err != nil {
		return nil, err
	}
	recoveryShards, err := coder.Encode(dataShards)
	if err != nil {
		return nil, err
	}

	metadata := &Payload{
		FormatVersion: FormatVersion1,
		DocumentID:    opts.DocumentID,
		Kind:          PayloadKindMetadata,
		Metadata: &Metadata{
			K:          plan.K,
			R:          plan.R,
			ShardSize:  plan.ShardSize,
			BlobLen:    blobLen,
			Descriptor: opts.Descriptor,
		},
	}

	shards := make([]*Payload, 0, plan.TotalShards())
	for i, s := range dataShards {
		shards = append(shards, shardPayload(opts.DocumentID, uint32(i), s))
	}
	for i, s := range recoveryShards {
		shards = append(shards, shardPayload(opts.DocumentID, plan.K+uint32(i), s))
	}

	return &EncodeResult{Plan: plan, Metadata: metadata, Shards: shards}, nil
}

func shardPayload(docID uint64, index uint32, shard []byte) *Payload {
	return &Payload{
		FormatVersion: FormatVersion1,
		DocumentID:    docID,
		Kind:          PayloadKindShard,
		Shard: &ShardPayload{
			Index: index,
			Shard: shard,
		},
	}
}

// splitPadded cuts blob into k shards of shardSize bytes, zero-padding the
// final shard when len(blob) is not an exact multiple of shardSize. The
// pad length is recoverable from Metadata.BlobLen alone, so it is never
// stored explicitly.
func splitPadded(blob []byte, k, shardSize uint32) [][]byte {
	out := make([][]byte, k)
	for i := uint32(0); i < k; i++ {
		shard := make([]byte, shardSize)
		start := int(i) * int(shardSize)
		end := start + int(shardSize)
		if start < len(blob) {
			copy(shard, blob[start:min(end, len(blob))])
		}
		out[i] = shard
	}
	return out
}
