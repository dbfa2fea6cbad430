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

// PayloadKind tags the two payload shapes a document is made of.
type PayloadKind byte

const (
	// PayloadKindMetadata marks a payload that carries the document header only.
	PayloadKindMetadata PayloadKind = 'M'
	// PayloadKindShard marks a payload that carries exactly one data or recovery shard.
	PayloadKindShard PayloadKind = 'S'
)

// FormatVersion1 is the only wire format currently understood.
const FormatVersion1 uint8 = 1

// Magic is the four-byte marker every payload begins with.
const Magic = "PBAK"

// ChecksumSize is the width, in bytes, of the truncated SHA-512 trailer.
const ChecksumSize = 8

// Metadata is the body of a metadata payload: the parameters shared by
// every payload in a document, plus a free-form build descriptor that is
// not consulted during recovery.
type Metadata struct {
	K          uint32
	R          uint32
	ShardSize  uint32
	BlobLen    uint64
	Descriptor string
}

// ShardPayload is the body of a shard payload: one shard and its index.
type ShardPayload struct {
	Index uint32
	Shard []byte
}

// Payload is the unit carried by one QR symbol: a document identity plus
// either a Metadata body or a ShardPayload body, never both.
type Payload struct {
	FormatVersion uint8
	DocumentID    uint64
	Kind          PayloadKind
	Metadata      *Metadata
	Shard         *ShardPayload
}

// IsMetadata reports whether this payload carries the document header.
func (p *Payload) IsMetadata() bool { return p.Kind == PayloadKindMetadata }

// IsShard reports whether this payload carries a data or recovery shard.
func (p *Payload) IsShard() bool { return p.Kind == PayloadKindShard }

// Plan is the output of the shard planner (§4.B): the shape of one
// document's shards, independent of its content.
type Plan struct {
	ShardSize uint32
	K         uint32
	R         uint32
}

// TotalShards returns k+r, the size of the erasure-coded shard set.
func (p Plan) TotalShards() uint32 { return p.K + p.R }
