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

// Package cmd implements paperback's command-line surface: create and
// restore, plus the ambient version command, over a cobra command tree.
package cmd

import (
	"os"

	"github.com/caarlos0/log"
	"github.com/spf13/cobra"
)

var (
	forceOverwrite bool
	verbosity      int
)

var rootCmd = &cobra.Command{
	Use:   "paperback",
	Short: "paperback turns a file into a printable, recoverable stack of QR codes",
	Long: `paperback is a paper-based backup tool.

It renders the bytes of a file onto a PDF of QR-coded pages, with
Reed-Solomon erasure-coded redundancy, so the original file can be
recovered later from a scan of any sufficient subset of those pages.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		switch {
		case verbosity >= 2:
			log.SetLevel(log.DebugLevel)
		case verbosity == 1:
			log.SetLevel(log.InfoLevel)
		default:
			log.SetLevel(log.WarnLevel)
		}
	},
	SilenceUsage: true,
}

// Execute runs the root command. It is called once, from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("paperback failed")
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&forceOverwrite, "force", "f", false, "overwrite an existing output file")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v, -vv)")
}
