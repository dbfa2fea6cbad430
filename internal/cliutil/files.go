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

// Package cliutil holds the small ambient helpers shared by paperback's
// commands: careful file handling, human-readable size formatting, and
// terminal styling.
package cliutil

import (
	"os"

	"github.com/caarlos0/log"
	"github.com/pkg/errors"
)

// GetOutputFileCarefully opens path for writing, refusing to clobber an
// existing file unless force is set. An empty path or "-" returns stdout.
// The caller is responsible for closing the result with CloseIfNotStd.
func GetOutputFileCarefully(path string, force bool) (*os.File, error) {
	if path == "" || path == "-" {
		return os.Stdout, nil
	}

	if _, err := os.Stat(path); err == nil {
		if !force {
			return nil, errors.Errorf("file %s already exists, use --force to overwrite", path)
		}
		log.WithField("path", path).Warn("overwriting existing file")
	}

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	return out, nil
}

// GetInputReader opens path for reading. An empty path or "-" returns
// stdin. The caller is responsible for closing the result with
// CloseIfNotStd.
func GetInputReader(path string) (*os.File, error) {
	if path == "" || path == "-" {
		return os.Stdin, nil
	}
	in, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	return in, nil
}

// CloseIfNotStd closes f unless it is stdin or stdout, which the process
// owns.
func CloseIfNotStd(f *os.File) error {
	if f == os.Stdin || f == os.Stdout {
		return nil
	}
	return f.Close()
}
