// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
)

// displayFormat selects how the applied command prints its results.
type displayFormat int

const (
	displayFormatText displayFormat = iota
	displayFormatTable
	displayFormatDot
)

var displayFormatNames = [...]string{
	displayFormatText:  "text",
	displayFormatTable: "table",
	displayFormatDot:   "dot",
}

// String implements the pflag.Value interface.
func (f *displayFormat) String() string {
	return displayFormatNames[*f]
}

// Type implements the pflag.Value interface.
func (f *displayFormat) Type() string { return "string" }

// Set implements the pflag.Value interface.
func (f *displayFormat) Set(s string) error {
	for i, name := range displayFormatNames {
		if s == name {
			*f = displayFormat(i)
			return nil
		}
	}
	return errors.Newf("invalid display format: %q (possible values: %s)",
		s, strings.Join(displayFormatNames[:], ", "))
}

// printTable writes rows as a formatted table with the given column names,
// followed by the row count.
func printTable(w io.Writer, cols []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(cols)
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
	fmt.Fprintf(w, "(%d row%s)\n", len(rows), pluralize(len(rows)))
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
