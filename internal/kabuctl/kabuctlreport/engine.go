// Copyright 2026 Peter Edge
//
// All rights reserved.

package kabuctlreport

import (
	"log/slog"

	"github.com/bufdev/kabuctl/internal/kabuctl/kabuctlconfig"
	"github.com/bufdev/kabuctl/internal/kabuctl/kabuctlrender"
	"github.com/bufdev/kabuctl/internal/pkg/csvtable"
	"github.com/bufdev/kabuctl/internal/pkg/textdecode"
)

// Engine turns raw uploaded bytes into rendered reports.
//
// An Engine holds only immutable state and is safe for concurrent use. Every
// call creates its own Manager.
type Engine struct {
	logger         *slog.Logger
	decoder        *textdecode.Decoder
	renderer       *kabuctlrender.Renderer
	managerOptions []ManagerOption
}

// NewEngine returns a new Engine for the configuration.
func NewEngine(logger *slog.Logger, config *kabuctlconfig.Config) *Engine {
	return &Engine{
		logger:  logger,
		decoder: textdecode.NewDecoder(config.Encoding, config.MaxReplacementRatio),
		renderer: kabuctlrender.NewRenderer(
			logger,
			kabuctlrender.NewLabelTable(config.Labels),
			kabuctlrender.WithAllowMissingLabels(config.AllowMissingLabels),
		),
		managerOptions: []ManagerOption{
			WithTaxRate(config.TaxRate),
			WithAccountMarkers(config.TaxableMarkers, config.TaxAdvantagedMarkers),
		},
	}
}

// Process renders the CSV data as an HTML table fragment.
//
// Errors are a *UnknownReportKindError, a *textdecode.DecodeError, a
// *csvtable.MalformedInputError, or a *kabuctlrender.MissingLabelError.
func (e *Engine) Process(data []byte, kind string) (string, error) {
	table, err := e.Build(data, kind)
	if err != nil {
		return "", err
	}
	return table.HTML(), nil
}

// Build renders the CSV data as a table model.
func (e *Engine) Build(data []byte, kind string) (*kabuctlrender.Table, error) {
	manager, err := NewManager(e.logger, kind, e.renderer, e.managerOptions...)
	if err != nil {
		return nil, err
	}
	text, info, err := e.decoder.Decode(data)
	if err != nil {
		return nil, err
	}
	e.logger.Debug(
		"decoded input",
		"kind", string(manager.Kind()),
		"encoding", info.Encoding,
		"bytes", len(data),
		"replacements", info.Replacements,
	)
	csvTable, err := csvtable.Parse(text, true)
	if err != nil {
		return nil, err
	}
	manager.Ingest(csvTable)
	return manager.Render()
}
