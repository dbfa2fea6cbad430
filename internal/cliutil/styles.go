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

import "github.com/charmbracelet/lipgloss"

var (
	// Warning styles a message about a degraded but non-fatal scan result
	// (missing pages, dropped conflicts).
	Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true).Render

	// Success styles the final "restored N bytes" confirmation.
	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true).Render

	// Path styles a printed file path.
	Path = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render
)
