package pipeline

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/MeKo-Tech/tablex/internal/document"
	"github.com/MeKo-Tech/tablex/internal/fetch"
	"github.com/MeKo-Tech/tablex/internal/layout"
	"github.com/MeKo-Tech/tablex/internal/pages"
)

// HandlerConfig configures a Handler.
type HandlerConfig struct {
	// Pages is the selection expression, e.g. "1", "1,3-4", "2-end", "all".
	Pages string
	// Password decrypts the source document; empty means unencrypted.
	Password string
	// Analyzer overrides the default text-geometry analyzer.
	Analyzer LayoutAnalyzer
	// Renderer overrides the default page renderer.
	Renderer Renderer
	// Logger receives progress events; defaults to slog.Default.
	Logger *slog.Logger
}

// DefaultHandlerConfig returns the default handler configuration.
func DefaultHandlerConfig() *HandlerConfig {
	return &HandlerConfig{Pages: "1"}
}

// Handler owns one extraction request: it resolves the input to a local
// PDF, fixes the page selection up front and materializes pages on Parse.
type Handler struct {
	filepath   string
	password   string
	pages      []int
	downloaded string
	analyzer   LayoutAnalyzer
	renderer   Renderer
	log        *slog.Logger
}

// NewHandler prepares a handler for the document at path, which may be a
// local file or an http(s) URL. The page selection is resolved eagerly so
// a malformed expression fails before any materialization work.
func NewHandler(path string, cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		cfg = DefaultHandlerConfig()
	}

	downloaded := ""
	if fetch.IsURL(path) {
		local, err := fetch.Download(path)
		if err != nil {
			return nil, err
		}
		path = local
		downloaded = local
	}
	if err := document.ValidatePath(path); err != nil {
		return nil, err
	}

	expr := cfg.Pages
	if expr == "" {
		expr = "1"
	}
	password := cfg.Password
	selected, err := pages.Parse(expr, func() (int, error) {
		return document.CountPages(path, password)
	})
	if err != nil {
		return nil, err
	}

	h := &Handler{
		filepath:   path,
		password:   password,
		pages:      selected,
		downloaded: downloaded,
		analyzer:   cfg.Analyzer,
		renderer:   cfg.Renderer,
		log:        cfg.Logger,
	}
	if h.analyzer == nil {
		h.analyzer = textAnalyzer{}
	}
	if h.renderer == nil {
		h.renderer = fitzRenderer{}
	}
	if h.log == nil {
		h.log = slog.Default()
	}
	return h, nil
}

// Close releases resources the handler owns, removing the local copy of
// a downloaded document. It is a no-op for local file inputs.
func (h *Handler) Close() error {
	if h.downloaded == "" {
		return nil
	}
	err := os.Remove(h.downloaded)
	h.downloaded = ""
	return err
}

// Pages returns the resolved page selection.
func (h *Handler) Pages() []int {
	out := make([]int, len(h.pages))
	copy(out, h.pages)
	return out
}

// ParseOptions configures one Parse run.
type ParseOptions struct {
	Flavor Flavor
	// Layout holds the analyzer option bag; zero values pick defaults.
	Layout layout.Options
	// RenderDPI sets the raster resolution for lattice image artifacts.
	RenderDPI float64
	// Cache optionally supplies previously computed geometry. When nil a
	// fresh cache is created for the run.
	Cache *Cache
}

// Result aggregates one Parse run. The single-page files live in a
// scoped working directory that is gone by the time Parse returns; the
// PageInfo entries remain as a record of what was produced.
type Result struct {
	Pages  []*PageInfo
	Tables []Table
}

// Parse materializes every selected page into the scoped working
// directory, then hands each page's geometry to parser. Pages are
// processed one at a time in ascending order and any failure aborts the
// whole run; the working directory is removed in every outcome.
func (h *Handler) Parse(opts ParseOptions, parser TableParser) (*Result, error) {
	if opts.Flavor == "" {
		opts.Flavor = FlavorLattice
	}
	cache := opts.Cache
	if cache == nil {
		cache = NewCache()
	}

	workDir, err := os.MkdirTemp("", "tablex-*")
	if err != nil {
		return nil, fmt.Errorf("creating working directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	doc, err := document.Open(h.filepath, h.password, workDir)
	if err != nil {
		return nil, err
	}

	// Fail before writing anything if the selection overruns the document.
	for _, p := range h.pages {
		if p > doc.PageCount() {
			return nil, &document.PageIndexError{Page: p, Count: doc.PageCount()}
		}
	}

	infos := checkPageData(h.pages, opts.Flavor, cache, workDir)
	for _, info := range infos {
		if !info.FileRequired {
			h.log.Debug("page geometry cached", "page", info.Page)
			continue
		}
		if err := h.materializePage(doc, info, workDir, opts, cache); err != nil {
			return nil, err
		}
	}

	// The full PageInfo sequence exists before any parser call.
	var tables []Table
	for _, info := range infos {
		geom, err := Bootstrap(info, h.analyzer, opts.Layout)
		if err != nil {
			return nil, err
		}
		cache.store(info)
		if parser == nil {
			continue
		}
		found, err := parser.ExtractTables(geom)
		if err != nil {
			return nil, fmt.Errorf("extracting tables from page %d: %w", info.Page, err)
		}
		tables = append(tables, found...)
	}

	return &Result{Pages: infos, Tables: tables}, nil
}
