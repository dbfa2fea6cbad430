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

package cliutil

import (
	"fmt"
	"os"

	"github.com/caarlos0/log"
)

// SprintBinarySize renders a byte count as a human-readable binary size.
func SprintBinarySize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d B", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.2f KiB", float64(size)/1024)
	case size < 1024*1024*1024:
		return fmt.Sprintf("%.2f MiB", float64(size)/(1024*1024))
	default:
		return fmt.Sprintf("%.2f GiB", float64(size)/(1024*1024*1024))
	}
}

// ReportWrittenSize logs how much was written to file at debug level, or
// warns if nothing was.
func ReportWrittenSize(size int, file *os.File) {
	if size == 0 {
		log.Warn("no data written")
		return
	}
	log.WithField("size", SprintBinarySize(int64(size))).WithField("path", file.Name()).Debug("data written")
}
