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

package qrcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModulesForVersion(t *testing.T) {
	assert.Equal(t, 21, ModulesForVersion(1))
	assert.Equal(t, 177, ModulesForVersion(40))
}

func TestMaxVersionForSizeGrowsWithCell(t *testing.T) {
	small := MaxVersionForSize(15, DefaultModuleLengthMM)
	big := MaxVersionForSize(60, DefaultModuleLengthMM)
	assert.Greater(t, big, small)
}

func TestMaxVersionForSizeZeroWhenTooSmall(t *testing.T) {
	assert.Equal(t, 0, MaxVersionForSize(1, DefaultModuleLengthMM))
}

func TestCapacityMatchesVersionTable(t *testing.T) {
	cap0 := Capacity(1, DefaultModuleLengthMM)
	assert.Equal(t, 0, cap0)

	capBig := Capacity(90, DefaultModuleLengthMM)
	v := MaxVersionForSize(90, DefaultModuleLengthMM)
	assert.Equal(t, alnumCapacityM[v], capBig)
}
