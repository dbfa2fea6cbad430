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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeShards(k uint32, shardSize uint32, fill byte) [][]byte {
	out := make([][]byte, k)
	for i := range out {
		s := make([]byte, shardSize)
		for j := range s {
			s[j] = fill + byte(i)
		}
		out[i] = s
	}
	return out
}

func TestCoderEncodeDecodeFullSet(t *testing.T) {
	plan := Plan{ShardSize: 32, K: 4, R: 2}
	coder, err := NewCoder(plan)
	require.NoError(t, err)

	data := makeShards(plan.K, plan.ShardSize, 1)
	recovery, err := coder.Encode(data)
	require.NoError(t, err)
	require.Len(t, recovery, int(plan.R))

	present := map[uint32][]byte{}
	for i, s := range data {
		present[uint32(i)] = s
	}
	for i, s := range recovery {
		present[plan.K+uint32(i)] = s
	}

	got, err := coder.Decode(present)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestCoderDecodeFromExactlyK(t *testing.T) {
	plan := Plan{ShardSize: 32, K: 4, R: 2}
	coder, err := NewCoder(plan)
	require.NoError(t, err)

	data := makeShards(plan.K, plan.ShardSize, 7)
	recovery, err := coder.Encode(data)
	require.NoError(t, err)

	// Drop two data shards; reconstruct from 2 data + 2 recovery = k.
	present := map[uint32][]byte{
		2: data[2],
		3: data[3],
		4: recovery[0],
		5: recovery[1],
	}
	got, err := coder.Decode(present)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestCoderDecodeInsufficientShards(t *testing.T) {
	plan := Plan{ShardSize: 32, K: 4, R: 2}
	coder, err := NewCoder(plan)
	require.NoError(t, err)

	data := makeShards(plan.K, plan.ShardSize, 1)
	present := map[uint32][]byte{0: data[0], 1: data[1], 2: data[2]}

	_, err = coder.Decode(present)
	var insufficient *InsufficientShardsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 3, insufficient.Have)
	assert.Equal(t, 4, insufficient.Need)
	assert.ErrorIs(t, err, ErrInsufficientShards)
}

func TestCoderDecodeIndexOutOfRange(t *testing.T) {
	plan := Plan{ShardSize: 32, K: 2, R: 1}
	coder, err := NewCoder(plan)
	require.NoError(t, err)

	present := map[uint32][]byte{
		0: make([]byte, plan.ShardSize),
		1: make([]byte, plan.ShardSize),
		9: make([]byte, plan.ShardSize),
	}
	_, err = coder.Decode(present)
	assert.ErrorIs(t, err, ErrShardIndexRange)
}

func TestCoderDecodeShardSizeMismatch(t *testing.T) {
	plan := Plan{ShardSize: 32, K: 2, R: 1}
	coder, err := NewCoder(plan)
	require.NoError(t, err)

	present := map[uint32][]byte{
		0: make([]byte, plan.ShardSize),
		1: make([]byte, plan.ShardSize-1),
	}
	_, err = coder.Decode(present)
	assert.ErrorIs(t, err, ErrShardSizeMismatch)
}

func TestCoderZeroRecoveryRequiresAllDataShards(t *testing.T) {
	plan := Plan{ShardSize: 16, K: 3, R: 0}
	coder, err := NewCoder(plan)
	require.NoError(t, err)

	data := makeShards(plan.K, plan.ShardSize, 5)
	recovery, err := coder.Encode(data)
	require.NoError(t, err)
	assert.Empty(t, recovery)

	present := map[uint32][]byte{0: data[0], 1: data[1]}
	_, err = coder.Decode(present)
	assert.ErrorIs(t, err, ErrInsufficientShards)

	present[2] = data[2]
	got, err := coder.Decode(present)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}
