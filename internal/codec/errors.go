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
	"errors"
	"fmt"
)

// Framing errors (§4.A). Per-payload, these are never surfaced to the
// user during a decode scan; they are dropped silently as the normal cost
// of reading scanned paper (§7).
var (
	ErrBadMagic         = errors.New("paperback: bad magic")
	ErrUnknownVersion   = errors.New("paperback: unknown format version")
	ErrChecksumMismatch = errors.New("paperback: checksum mismatch")
	ErrTruncated        = errors.New("paperback: truncated payload")
	ErrBadKind          = errors.New("paperback: unrecognized payload kind")
	ErrBadBase58        = errors.New("paperback: not valid base58")
	ErrBadShardIndex    = errors.New("paperback: shard index out of range")
)

// Planner errors (§4.B).
var ErrBlobTooLarge = errors.New("paperback: blob does not fit the requested page geometry")

// Erasure coder errors (§4.C). ErrInsufficientShards is matched by
// *InsufficientShardsError, which Decoder.Reconstruct returns when fewer
// than k shards are held. ErrShardIndexRange and ErrShardSizeMismatch arise
// only for shards that disagree with their document's metadata.
var (
	ErrInsufficientShards = errors.New("paperback: fewer than k shards present")
	ErrShardIndexRange    = errors.New("paperback: shard index out of range")
	ErrShardSizeMismatch  = errors.New("paperback: shard size mismatch")
)

// Decode pipeline errors (§4.E).
var (
	ErrNoMetadata          = errors.New("paperback: no metadata payload observed")
	ErrInconsistentDocMeta = errors.New("paperback: conflicting metadata within one document")
)

// InsufficientShardsError reports how many distinct shard indices were
// available against how many were needed, so a CLI can tell the user
// which, and how many, sheets to rescan.
type InsufficientShardsError struct {
	Have int
	Need int
}

func (e *InsufficientShardsError) Error() string {
	return fmt.Sprintf("paperback: have %d distinct shards, need %d", e.Have, e.Need)
}

func (e *InsufficientShardsError) Is(target error) bool {
	return target == ErrInsufficientShards
}

// ShardConflict records two payloads that shared a document and shard
// index but disagreed on content (§9 Open Question): both are dropped,
// and one of these is recorded per conflicting index for diagnostics.
type ShardConflict struct {
	DocumentID uint64
	Index      uint32
}

func (c ShardConflict) String() string {
	return fmt.Sprintf("shard %d of document %016x: conflicting content dropped", c.Index, c.DocumentID)
}
