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

// Package buildinfo carries the version metadata linked into the paperback
// binary at build time, and renders it into the free-form descriptor string
// that metadata payloads carry (§4.A). The descriptor is never consulted
// during recovery; it exists for a human reading a scan report or a
// printed sheet.
package buildinfo

import (
	goversion "github.com/caarlos0/go-version"
)

const website = "https://github.com/mook/paperback"

var (
	version   = ""
	commit    = ""
	treeState = ""
	date      = ""
	builtBy   = ""
)

// Info is the resolved build metadata for this binary.
var Info = buildVersion()

func buildVersion() goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails("paperback", "A paper-based file backup tool", website),
		func(i *goversion.Info) {
			if commit != "" {
				i.GitCommit = commit
			}
			if treeState != "" {
				i.GitTreeState = treeState
			}
			if date != "" {
				i.BuildDate = date
			}
			if version != "" {
				i.GitVersion = version
			}
			if builtBy != "" {
				i.BuiltBy = builtBy
			}
		},
	)
}

// Descriptor renders the build info into the short string embedded in
// every metadata payload, honoring an override (paperback create
// --override-build) for reproducible output.
func Descriptor(override string) string {
	if override != "" {
		return override
	}
	return Info.GitVersion + "+" + shortCommit(Info.GitCommit)
}

func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	if commit == "" {
		return "none"
	}
	return commit
}
