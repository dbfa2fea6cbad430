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

import "bytes"

// Status summarizes how close one document is to being recoverable, for a
// CLI to report scan progress against.
type Status int

const (
	// StatusEmpty: nothing has been observed for this document yet.
	StatusEmpty Status = iota
	// StatusMetadataKnown: k, r, and shard_size are known, but fewer than
	// k distinct, non-conflicting shards have been observed.
	StatusMetadataKnown
	// StatusRecoverable: at least k distinct, non-conflicting shards have
	// been observed; reconstruction has not yet been attempted.
	StatusRecoverable
	// StatusInsufficient: shards have been observed but no metadata payload
	// has; more sheets need to be scanned.
	StatusInsufficient
	// StatusConflictedMetadata: two payloads disagreed on this document's
	// metadata; this document cannot be recovered from this scan set.
	StatusConflictedMetadata
)

// documentState accretes everything observed about one document across an
// arbitrary number of Ingest calls, in arbitrary order, with duplicates.
type documentState struct {
	metadata     *Metadata
	metaConflict bool
	shards       map[uint32][]byte
	conflicted   map[uint32]bool
}

func newDocumentState() *documentState {
	return &documentState{
		shards:     make(map[uint32][]byte),
		conflicted: make(map[uint32]bool),
	}
}

func (st *documentState) acceptMetadata(m *Metadata) {
	if st.metaConflict {
		return
	}
	if st.metadata == nil {
		st.metadata = m
		st.pruneOutOfRange()
		return
	}
	if !metadataEqual(st.metadata, m) {
		st.metaConflict = true
		st.metadata = nil
	}
}

// pruneOutOfRange drops shards whose index is ≥ k+r, now that metadata has
// made k+r known. BadShardIndex (§4.A/§7) is only detectable at this point.
func (st *documentState) pruneOutOfRange() {
	total := st.metadata.K + st.metadata.R
	for idx := range st.shards {
		if idx >= total {
			delete(st.shards, idx)
		}
	}
}

func (st *documentState) acceptShard(idx uint32, shard []byte) {
	if st.conflicted[idx] {
		return
	}
	if st.metadata != nil && idx >= st.metadata.K+st.metadata.R {
		return
	}
	existing, ok := st.shards[idx]
	if !ok {
		// copy: the caller's backing array may be reused across scans.
		st.shards[idx] = bytes.Clone(shard)
		return
	}
	if !bytes.Equal(existing, shard) {
		delete(st.shards, idx)
		st.conflicted[idx] = true
	}
}

func metadataEqual(a, b *Metadata) bool {
	return a.K == b.K && a.R == b.R && a.ShardSize == b.ShardSize &&
		a.BlobLen == b.BlobLen && a.Descriptor == b.Descriptor
}

// Status reports this document's current recoverability.
func (st *documentState) status() Status {
	if st.metaConflict {
		return StatusConflictedMetadata
	}
	if st.metadata == nil {
		if len(st.shards) == 0 {
			return StatusEmpty
		}
		return StatusInsufficient
	}
	if uint32(len(st.shards)) >= st.metadata.K {
		return StatusRecoverable
	}
	return StatusMetadataKnown
}

// Decoder accretes candidate payload text across an entire scan session,
// grouping observations by document ID, and reconstructs each document's
// blob once enough of it has been seen (§4.E).
type Decoder struct {
	docs map[uint64]*documentState
}

// NewDecoder returns an empty decode session.
func NewDecoder() *Decoder {
	return &Decoder{docs: make(map[uint64]*documentState)}
}

// Ingest feeds one candidate payload's text — typically one QrDecoder
// result — into the session. Malformed text, bad checksums, and unknown
// format versions are dropped silently: this is the ordinary cost of
// reading scanned paper, not a reportable error (§7).
func (d *Decoder) Ingest(text string) {
	p, err := DecodeText(text)
	if err != nil {
		return
	}
	st := d.docs[p.DocumentID]
	if st == nil {
		st = newDocumentState()
		d.docs[p.DocumentID] = st
	}
	switch {
	case p.IsMetadata():
		st.acceptMetadata(p.Metadata)
	case p.IsShard():
		st.acceptShard(p.Shard.Index, p.Shard.Shard)
	}
}

// BestDocument returns the document ID with the most distinct, accepted
// shards observed so far — the target document of a scan (§4.E step 4).
// Every other document ID seen is reported as unrelated. ok is false if
// nothing has been ingested yet.
func (d *Decoder) BestDocument() (id uint64, others []uint64, ok bool) {
	best := -1
	for docID, st := range d.docs {
		if len(st.shards) > best {
			best = len(st.shards)
			id = docID
			ok = true
		}
	}
	for docID := range d.docs {
		if !ok || docID != id {
			others = append(others, docID)
		}
	}
	return id, others, ok
}

// DocumentIDs lists every document observed so far, in no particular order.
func (d *Decoder) DocumentIDs() []uint64 {
	ids := make([]uint64, 0, len(d.docs))
	for id := range d.docs {
		ids = append(ids, id)
	}
	return ids
}

// Status reports one document's current recoverability. A document that
// has never been Ingested returns StatusEmpty.
func (d *Decoder) Status(docID uint64) Status {
	st := d.docs[docID]
	if st == nil {
		return StatusEmpty
	}
	return st.status()
}

// Conflicts lists the shard indices of docID that were dropped because two
// payloads disagreed on their content (§9 Open Question: conservative
// drop-both).
func (d *Decoder) Conflicts(docID uint64) []ShardConflict {
	st := d.docs[docID]
	if st == nil {
		return nil
	}
	out := make([]ShardConflict, 0, len(st.conflicted))
	for idx := range st.conflicted {
		out = append(out, ShardConflict{DocumentID: docID, Index: idx})
	}
	return out
}

// Reconstruct attempts to recover docID's original blob from whatever has
// been Ingested so far. It returns ErrNoMetadata if no metadata payload has
// been accepted, ErrInconsistentDocMeta if metadata payloads disagreed, and
// an *InsufficientShardsError if fewer than k non-conflicting shards have
// been observed.
func (d *Decoder) Reconstruct(docID uint64) ([]byte, error) {
	st := d.docs[docID]
	if st == nil {
		return nil, ErrNoMetadata
	}
	if st.metaConflict {
		return nil, ErrInconsistentDocMeta
	}
	if st.metadata == nil {
		return nil, ErrNoMetadata
	}

	plan := Plan{ShardSize: st.metadata.ShardSize, K: st.metadata.K, R: st.metadata.R}
	coder, err := NewCoder(plan)
	if err != nil {
		return nil, err
	}

	dataShards, err := coder.Decode(st.shards)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(int(st.metadata.BlobLen))
	for _, s := range dataShards {
		buf.Write(s)
	}

	blob := buf.Bytes()
	if uint64(len(blob)) < st.metadata.BlobLen {
		return nil, ErrTruncated
	}
	return blob[:st.metadata.BlobLen], nil
}
