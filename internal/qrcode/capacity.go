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

// DefaultModuleLengthMM is the default physical edge length of one QR
// module on paper, matching paperback's --module-length default.
const DefaultModuleLengthMM = 0.5

// alnumCapacityM is the alphanumeric-mode data capacity, in characters, of
// QR versions 1..40 at error-correction level M (ISO/IEC 18004). Index 0
// is unused.
var alnumCapacityM = [41]int{
	0,
	20, 38, 61, 90, 122, 154, 178, 221, 262, 311,
	366, 419, 483, 528, 600, 656, 734, 816, 909, 970,
	1035, 1134, 1248, 1326, 1451, 1542, 1637, 1732, 1839, 1994,
	2113, 2238, 2369, 2506, 2632, 2780, 2894, 3054, 3220, 3391,
}

// ModulesForVersion returns the module grid edge length of a QR version.
func ModulesForVersion(version int) int {
	return 21 + 4*(version-1)
}

// MaxVersionForSize returns the largest QR version (1..40) whose printed
// module grid fits within a square cell of cellSizeMM at the given module
// length, or 0 if even version 1 does not fit.
func MaxVersionForSize(cellSizeMM, moduleLengthMM float64) int {
	if moduleLengthMM <= 0 {
		moduleLengthMM = DefaultModuleLengthMM
	}
	best := 0
	for v := 1; v <= 40; v++ {
		if float64(ModulesForVersion(v))*moduleLengthMM > cellSizeMM {
			break
		}
		best = v
	}
	return best
}

// Capacity returns the alphanumeric character budget, at error-correction
// level M, of the largest QR version that fits a cell of cellSizeMM at the
// given module length. Returns 0 if even version 1 does not fit; callers
// feed this into codec.PlanShardSize as maxPayloadChars.
func Capacity(cellSizeMM, moduleLengthMM float64) int {
	v := MaxVersionForSize(cellSizeMM, moduleLengthMM)
	if v == 0 {
		return 0
	}
	return alnumCapacityM[v]
}
