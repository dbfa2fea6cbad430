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
	"math"

	"github.com/ccoveille/go-safecast"
)

// DefaultRecoveryRatio is the fraction of k that r defaults to (§4.B).
const DefaultRecoveryRatio = 0.25

// maxShardSizeSearch bounds the exponential growth phase of
// PlanShardSize, well above anything a real QR symbol could carry.
const maxShardSizeSearch = uint32(1) << 20

// ShardFrameLen returns the exact framed (pre-base58) byte length of a
// shard payload carrying shardSize bytes of shard data.
func ShardFrameLen(shardSize uint32) int {
	return headerSize + shardBodyMinSize + int(shardSize) + ChecksumSize
}

// Base58ExpandedLen estimates the base58 text length of n raw bytes.
// Base58 expands by roughly log(256)/log(58) ≈ 1.365 per byte; a byte of
// slack covers the extra leading-zero-byte encoding in the worst case.
func Base58ExpandedLen(n int) int {
	return int(math.Ceil(float64(n)*1.37)) + 1
}

// PlanShardSize binary-searches the largest shard size whose framed,
// base58-expanded shard payload still fits within maxPayloadChars, the
// alphanumeric capacity of one large grid cell at the configured module
// size (computed by the QrEncoder collaborator and passed in here).
func PlanShardSize(maxPayloadChars int) (uint32, error) {
	if Base58ExpandedLen(ShardFrameLen(1)) > maxPayloadChars {
		return 0, ErrBlobTooLarge
	}

	lo, hi := uint32(1), uint32(1)
	for hi < maxShardSizeSearch && Base58ExpandedLen(ShardFrameLen(hi)) <= maxPayloadChars {
		hi *= 2
	}
	if hi > maxShardSizeSearch {
		hi = maxShardSizeSearch
	}

	for lo < hi {
		mid := lo + (hi-lo+1)/2
		if Base58ExpandedLen(ShardFrameLen(mid)) <= maxPayloadChars {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, nil
}

// PlanDocument decides k and r for a blob of blobLen bytes, given a fixed
// shard size and a recovery ratio (§4.B policy). k is ⌈blobLen/shardSize⌉,
// minimum 1; r is ⌈k·ratio⌉, minimum 1.
func PlanDocument(blobLen uint64, shardSize uint32, recoveryRatio float64) (Plan, error) {
	if shardSize == 0 {
		return Plan{}, ErrBlobTooLarge
	}

	k64 := (blobLen + uint64(shardSize) - 1) / uint64(shardSize)
	if k64 == 0 {
		k64 = 1
	}
	k, err := safecast.ToUint32(k64)
	if err != nil {
		return Plan{}, ErrBlobTooLarge
	}

	r := uint32(math.Ceil(float64(k) * recoveryRatio))
	if r < 1 {
		r = 1
	}

	return Plan{ShardSize: shardSize, K: k, R: r}, nil
}

// Placement is the deterministic mapping from payload to page slot
// (§4.B): metadata in every small slot of every page, then data and
// recovery shards in row-major order across large slots.
type Placement struct {
	Pages    int
	Geometry PageGeometry
}

// PlanPlacement computes how many pages are needed to place `total`
// shard payloads at the given page geometry.
func PlanPlacement(total uint32, g PageGeometry) Placement {
	if g.LargeCellsPerPage <= 0 {
		return Placement{Pages: 0, Geometry: g}
	}
	pages := (int(total) + g.LargeCellsPerPage - 1) / g.LargeCellsPerPage
	if pages < 1 {
		pages = 1
	}
	return Placement{Pages: pages, Geometry: g}
}

// ShardSlot returns the (page, slot) a shard of the given index lands on.
func (pl Placement) ShardSlot(index uint32) (page, slot int) {
	perPage := pl.Geometry.LargeCellsPerPage
	return int(index) / perPage, int(index) % perPage
}
