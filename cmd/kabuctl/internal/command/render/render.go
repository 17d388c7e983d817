// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package render implements the "render" command.
package render

import (
	"context"
	"fmt"
	"path/filepath"

	"buf.build/go/app/appcmd"
	"buf.build/go/app/appext"
	"github.com/bufdev/kabuctl/cmd/kabuctl/internal/kabuctlcmd"
	"github.com/bufdev/kabuctl/internal/kabuctl/kabuctlrender"
	"github.com/bufdev/kabuctl/internal/kabuctl/kabuctlreport"
	"github.com/bufdev/kabuctl/internal/kabuctl/kabuctlserver"
	"github.com/bufdev/kabuctl/internal/pkg/cliio"
	"github.com/bufdev/kabuctl/internal/standard/xos"
	"github.com/spf13/pflag"
)

const (
	kindFlagName     = "kind"
	formatFlagName   = "format"
	documentFlagName = "document"
)

// NewCommand returns a new render command.
func NewCommand(name string, builder appext.SubCommandBuilder) *appcmd.Command {
	flags := newFlags()
	return &appcmd.Command{
		Use:   name + " <file>",
		Short: "Render a dividend or profit and loss CSV export as a report table",
		Long: `Render a dividend or profit and loss CSV export as a report table.

The file may be encoded as UTF-8 or Shift_JIS. Dividends are grouped by month,
newest first, with a total row per month. Realized profit and loss rows are
grouped by trade date, oldest first, with a single total row that includes the
withholding tax on taxable accounts.`,
		Args: appcmd.ExactArgs(1),
		Run: builder.NewRunFunc(
			func(ctx context.Context, container appext.Container) error {
				return run(ctx, container, flags)
			},
		),
		BindFlags: flags.Bind,
	}
}

type flags struct {
	// Kind is the report kind.
	Kind string
	// Format is the output format (html, table, csv, json).
	Format string
	// Document wraps HTML output in a complete document.
	Document bool
	// Config is the path to the configuration file.
	Config string
}

func newFlags() *flags {
	return &flags{}
}

// Bind registers the flag definitions with the given flag set.
func (f *flags) Bind(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&f.Kind, kindFlagName, "", "The report kind (dividend, profit-loss)")
	flagSet.StringVar(&f.Format, formatFlagName, "html", "Output format (html, table, csv, json)")
	flagSet.BoolVar(&f.Document, documentFlagName, false, "Wrap HTML output in a complete HTML document")
	kabuctlcmd.BindConfigFlag(flagSet, &f.Config)
}

// jsonRow is a table row in JSON output.
type jsonRow struct {
	Class  string            `json:"class,omitempty"`
	Group  string            `json:"group,omitempty"`
	Fields map[string]string `json:"fields"`
}

func run(_ context.Context, container appext.Container, flags *flags) error {
	if flags.Kind == "" {
		return appcmd.NewInvalidArgumentErrorf("--%s is required", kindFlagName)
	}
	if _, err := kabuctlreport.ParseKind(flags.Kind); err != nil {
		return appcmd.NewInvalidArgumentError(err.Error())
	}
	format, err := cliio.ParseFormat(flags.Format)
	if err != nil {
		return appcmd.NewInvalidArgumentError(err.Error())
	}
	if flags.Document && format != cliio.FormatHTML {
		return appcmd.NewInvalidArgumentErrorf("--%s requires --%s=html", documentFlagName, formatFlagName)
	}
	filePath, err := xos.ExpandHome(container.Arg(0))
	if err != nil {
		return err
	}
	data, err := xos.ReadFileLimit(filePath, kabuctlserver.DefaultMaxUploadBytes)
	if err != nil {
		return err
	}
	engine, err := kabuctlcmd.NewEngine(container, flags.Config)
	if err != nil {
		return err
	}
	table, err := engine.Build(data, flags.Kind)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", filePath, err)
	}
	writer := container.Stdout()
	switch format {
	case cliio.FormatHTML:
		title := ""
		if flags.Document {
			title = filepath.Base(filePath)
		}
		return cliio.WriteHTML(writer, table.HTML(), title)
	case cliio.FormatTable:
		return cliio.WriteTableSections(writer, table.Labels(), tableSections(table))
	case cliio.FormatCSV:
		return cliio.WriteCSVRecords(writer, append([][]string{table.Labels()}, table.TextRows()...))
	case cliio.FormatJSON:
		return cliio.WriteJSON(writer, jsonRows(table)...)
	default:
		return appcmd.NewInvalidArgumentErrorf("unsupported format: %s", format)
	}
}

// tableSections splits the rows so that every total row stands in its own section.
func tableSections(table *kabuctlrender.Table) [][][]string {
	textRows := table.TextRows()
	var sections [][][]string
	var current [][]string
	for i, row := range table.Rows {
		if row.Class == "" {
			current = append(current, textRows[i])
			continue
		}
		if len(current) > 0 {
			sections = append(sections, current)
			current = nil
		}
		sections = append(sections, [][]string{textRows[i]})
	}
	if len(current) > 0 {
		sections = append(sections, current)
	}
	return sections
}

func jsonRows(table *kabuctlrender.Table) []jsonRow {
	rows := make([]jsonRow, len(table.Rows))
	for i, row := range table.Rows {
		fields := make(map[string]string, len(row.Cells))
		for _, cell := range row.Cells {
			if cell.Text != "" {
				fields[cell.Name] = cell.Text
			}
		}
		rows[i] = jsonRow{
			Class:  row.Class,
			Group:  row.Group,
			Fields: fields,
		}
	}
	return rows
}
