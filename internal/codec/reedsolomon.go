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
	"fmt"

	"github.com/klauspost/reedsolomon"
)

// Coder is the erasure coder (§4.C): Reed-Solomon over GF(2^8) on
// fixed-length shards, encoding k data shards into r recovery shards and
// reconstructing the k data shards from any k of the k+r total.
type Coder struct {
	plan Plan
	enc  reedsolomon.Encoder
}

// NewCoder builds a Coder for the given plan. When r is 0 the document
// carries no redundancy at all; Encode then produces no recovery shards
// and Decode requires every data shard to be present verbatim.
func NewCoder(plan Plan) (*Coder, error) {
	if plan.K == 0 {
		return nil, fmt.Errorf("paperback: plan has k=0")
	}
	c := &Coder{plan: plan}
	if plan.R > 0 {
		enc, err := reedsolomon.New(int(plan.K), int(plan.R))
		if err != nil {
			return nil, err
		}
		c.enc = enc
	}
	return c, nil
}

// Encode produces the r recovery shards for a complete set of k data
// shards, each exactly plan.ShardSize bytes.
func (c *Coder) Encode(data [][]byte) ([][]byte, error) {
	if len(data) != int(c.plan.K) {
		return nil, ErrShardSizeMismatch
	}
	for _, d := range data {
		if uint32(len(d)) != c.plan.ShardSize {
			return nil, ErrShardSizeMismatch
		}
	}

	if c.plan.R == 0 {
		return [][]byte{}, nil
	}

	shards := make([][]byte, c.plan.K+c.plan.R)
	copy(shards, data)
	for i := c.plan.K; i < c.plan.K+c.plan.R; i++ {
		shards[i] = make([]byte, c.plan.ShardSize)
	}
	if err := c.enc.Encode(shards); err != nil {
		return nil, err
	}
	return shards[c.plan.K:], nil
}

// Decode reconstructs the k data shards from present, a map of shard
// index to shard bytes holding at least k entries with distinct indices
// in 0..k+r.
func (c *Coder) Decode(present map[uint32][]byte) ([][]byte, error) {
	total := c.plan.K + c.plan.R

	for idx, s := range present {
		if idx >= total {
			return nil, ErrShardIndexRange
		}
		if uint32(len(s)) != c.plan.ShardSize {
			return nil, ErrShardSizeMismatch
		}
	}

	if len(present) < int(c.plan.K) {
		return nil, &InsufficientShardsError{Have: len(present), Need: int(c.plan.K)}
	}

	if c.plan.R == 0 {
		out := make([][]byte, c.plan.K)
		for i := uint32(0); i < c.plan.K; i++ {
			s, ok := present[i]
			if !ok {
				return nil, &InsufficientShardsError{Have: len(present), Need: int(c.plan.K)}
			}
			out[i] = s
		}
		return out, nil
	}

	shards := make([][]byte, total)
	for idx, s := range present {
		shards[idx] = s
	}
	if err := c.enc.ReconstructData(shards); err != nil {
		return nil, fmt.Errorf("paperback: reed-solomon reconstruction failed: %w", err)
	}
	return shards[:c.plan.K], nil
}
