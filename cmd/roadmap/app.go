package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"roadmap/internal/config"
	"roadmap/internal/draft"
	"roadmap/internal/layout"
	"roadmap/internal/llm"
	"roadmap/internal/render"
	"roadmap/internal/roadmap"
	"roadmap/internal/storage"
)

// app bundles what every command needs: settings, logger and the store.
type app struct {
	cfg      config.Config
	log      *slog.Logger
	store    storage.Store
	closeLog func() error
}

func newApp(logOut io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := cfg.NewLogger(logOut)
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("failed to open %s store at %s: %w", cfg.Storage.Backend, cfg.Storage.Path, err)
	}
	logger.Debug("store opened", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path)
	return &app{cfg: cfg, log: logger, store: store, closeLog: closeLog}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("closing store failed", "error", err)
	}
	_ = a.closeLog()
}

func (a *app) loadDocument(ctx context.Context) (*roadmap.Document, storage.Origin) {
	doc, origin := storage.LoadDocument(ctx, a.store, a.cfg.Storage.Key, a.log)
	a.log.Debug("document loaded", "origin", origin, "stages", len(doc.Stages))
	return doc, origin
}

func (a *app) saveDocument(ctx context.Context, doc *roadmap.Document) error {
	return storage.SaveDocument(ctx, a.store, a.cfg.Storage.Key, doc)
}

func (a *app) geometry(doc *roadmap.Document) layout.Geometry {
	return layout.Compute(a.cfg.LayoutMode(), len(doc.Stages), a.cfg.Layout.Options)
}

func (a *app) scene(doc *roadmap.Document) render.Scene {
	return render.Build(doc, a.geometry(doc))
}

func (a *app) formats() []render.Format {
	if a.cfg.Export.PNG {
		return []render.Format{render.FormatSVG, render.FormatPNG}
	}
	return []render.Format{render.FormatSVG}
}

func (a *app) exporter() *render.Exporter {
	return render.NewExporter(nil, a.cfg.Export.Scale)
}

// drafter connects to Gemini. The returned close func is non-nil on success.
func (a *app) drafter(ctx context.Context) (*draft.Generator, func() error, error) {
	tier := llm.ParseTier(a.cfg.Gemini.Tier)
	models := llm.DefaultConfig().WithModel(tier, a.cfg.Gemini.Model)
	client, err := llm.NewGeminiClient(ctx, models, a.cfg.Gemini.APIKey)
	if err != nil {
		return nil, nil, err
	}
	a.log.Debug("gemini client ready", "model", models.GetModel(tier))
	return draft.NewGenerator(client, tier), client.Close, nil
}

// export writes the configured formats and logs each file.
func (a *app) export(ctx context.Context, dir string, doc *roadmap.Document, formats []render.Format) ([]render.Result, error) {
	results, err := a.exporter().Export(ctx, dir, a.scene(doc), formats)
	for _, r := range results {
		if r.Err != nil {
			a.log.Warn("export failed", "format", r.Format, "error", r.Err)
			continue
		}
		a.log.Info("exported", "format", r.Format, "path", r.Path)
	}
	return results, err
}
