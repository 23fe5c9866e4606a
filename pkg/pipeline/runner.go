package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mermaidboard/pkg/apiclient"
	"github.com/matzehuels/mermaidboard/pkg/cache"
	"github.com/matzehuels/mermaidboard/pkg/errors"
	"github.com/matzehuels/mermaidboard/pkg/graph"
	"github.com/matzehuels/mermaidboard/pkg/history"
	"github.com/matzehuels/mermaidboard/pkg/httputil"
	"github.com/matzehuels/mermaidboard/pkg/layout"
	"github.com/matzehuels/mermaidboard/pkg/observability"
	"github.com/matzehuels/mermaidboard/pkg/parser"
	"github.com/matzehuels/mermaidboard/pkg/platform"
	"github.com/matzehuels/mermaidboard/pkg/preview"
)

const boardDescription = "Created by mermaidboard"

// Runner executes pipeline stages with caching, hooks and history. It is
// safe for concurrent use. Conversions to the same platform share one
// executor, and with it one rate limiter.
type Runner struct {
	Registry *platform.Registry
	Cache    cache.Cache
	Keyer    cache.Keyer
	Sink     history.Sink
	Logger   *log.Logger

	now func() time.Time

	mu        sync.Mutex
	executors map[string]*apiclient.Executor
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses [cache.DefaultKeyer], a nil sink drops history and a nil logger
// uses the default logger.
func NewRunner(reg *platform.Registry, c cache.Cache, keyer cache.Keyer, sink history.Sink, logger *log.Logger) *Runner {
	if reg == nil {
		reg = platform.NewRegistry()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if sink == nil {
		sink = history.NullSink{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Registry:  reg,
		Cache:     c,
		Keyer:     keyer,
		Sink:      sink,
		Logger:    logger,
		now:       time.Now,
		executors: make(map[string]*apiclient.Executor),
	}
}

// Parse validates and parses src, reusing a cached graph when the same
// source was parsed before. The boolean reports a cache hit.
func (r *Runner) Parse(ctx context.Context, src parser.Source) (*graph.Graph, bool, error) {
	if err := errors.ValidateSource(src.Text); err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()
	key := r.Keyer.ParseKey(cache.SourceHash(string(src.Kind), src.Text))

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		if g, err := graph.Unmarshal(data); err == nil {
			cacheHooks.OnCacheHit(ctx, "parse")
			return g, true, nil
		}
	}
	cacheHooks.OnCacheMiss(ctx, "parse")

	start := time.Now()
	hooks.OnParseStart(ctx, string(src.Kind))
	g, err := Parse(src)
	if err != nil {
		hooks.OnParseComplete(ctx, string(src.Kind), 0, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnParseComplete(ctx, string(g.Kind()), g.NodeCount(), time.Since(start), nil)

	r.Logger.Debug("parsed diagram",
		"kind", g.Kind(),
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", time.Since(start))

	if data, err := graph.Marshal(g); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLParse); err == nil {
			cacheHooks.OnCacheSet(ctx, "parse", len(data))
		} else {
			r.Logger.Warn("cache write failed", "err", err)
		}
	}
	return g, false, nil
}

// ParseOutput runs [Runner.Parse] and reports the outcome in API form.
func (r *Runner) ParseOutput(ctx context.Context, text string) *ParseOutput {
	g, _, err := r.Parse(ctx, parser.Source{Text: text})
	if err != nil {
		return ParseFailure(err)
	}
	return NewParseOutput(g)
}

// Layout computes the layout of g.
func (r *Runner) Layout(ctx context.Context, g *graph.Graph) (*layout.Layout, error) {
	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnLayoutStart(ctx, string(g.Kind()), g.NodeCount())
	l, err := layout.Compute(g)
	hooks.OnLayoutComplete(ctx, string(g.Kind()), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("computed layout",
		"layers", l.Layers(),
		"back_edges", l.BackEdges(),
		"crossings", l.Crossings(),
		"duration", time.Since(start))
	return l, nil
}

// Convert creates the diagram in req on its platform. The output is never
// nil: on failure it carries the error and, for a partial conversion, what
// was created. Every attempt that passes input validation is recorded in
// history.
func (r *Runner) Convert(ctx context.Context, req ConvertRequest) (*ConvertOutput, error) {
	if err := errors.ValidateSource(req.Code); err != nil {
		return ConvertFailure(req.Platform, err), err
	}
	if err := errors.ValidateBoardName(req.Options.BoardName); err != nil {
		return ConvertFailure(req.Platform, err), err
	}
	entry, err := r.Registry.Lookup(req.Platform)
	if err != nil {
		return ConvertFailure(req.Platform, err), err
	}

	res, err := r.convert(ctx, entry, req)
	rec := r.record(ctx, req, res, err)
	if err != nil {
		out := ConvertFailure(entry.Name, err)
		out.ConversionID = rec.ID
		return out, err
	}
	return &ConvertOutput{
		Success:           true,
		Message:           successMessage(entry.DisplayName),
		Platform:          entry.Name,
		ShapesCreated:     res.ShapesCreated,
		ConnectorsCreated: res.ConnectorsCreated,
		URL:               res.BoardURL,
		BoardID:           res.BoardID,
		ConversionID:      rec.ID,
	}, nil
}

func (r *Runner) convert(ctx context.Context, entry platform.Entry, req ConvertRequest) (*apiclient.Result, error) {
	if !entry.Configured() {
		return nil, errors.New(errors.ErrCodeUnsupported, "platform %s is not configured for conversion", entry.DisplayName)
	}

	g, _, err := r.Parse(ctx, parser.Source{Text: req.Code})
	if err != nil {
		return nil, err
	}
	l, err := r.Layout(ctx, g)
	if err != nil {
		return nil, err
	}
	shapes, connectors, err := entry.Converter.Convert(g, l, platform.Options{})
	if err != nil {
		return nil, err
	}

	name := req.Options.BoardName
	if name == "" {
		name = DefaultBoardName(g.Kind(), r.now())
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnConvertStart(ctx, entry.Name, len(shapes), len(connectors))
	r.Logger.Info("converting diagram",
		"platform", entry.Name,
		"board", name,
		"shapes", len(shapes),
		"connectors", len(connectors))

	res, err := r.executor(entry).Execute(ctx, shapes, connectors, apiclient.BoardRequest{Name: name, Description: boardDescription})

	created, linked := 0, 0
	var pe *errors.PartialConversionError
	switch {
	case res != nil:
		created, linked = res.ShapesCreated, res.ConnectorsCreated
	case errors.As(err, &pe):
		created, linked = pe.ShapesCreated, pe.ConnectorsCreated
	}
	hooks.OnConvertComplete(ctx, entry.Name, created, linked, time.Since(start), err)
	return res, err
}

// executor returns the shared executor for entry, creating it on first use.
func (r *Runner) executor(entry platform.Entry) *apiclient.Executor {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ex, ok := r.executors[entry.Name]; ok {
		return ex
	}
	ex := apiclient.New(entry.Backend, apiclient.Options{
		Platform:    entry.Name,
		Concurrency: entry.Limits.Concurrency,
		Retry:       entry.Retry,
		Throttle:    httputil.NewThrottle(entry.Limits.RatePerSecond, entry.Limits.Burst),
		Logger:      r.Logger,
	})
	r.executors[entry.Name] = ex
	return ex
}

// record writes the history entry for a conversion attempt. Failures to
// write are logged and otherwise ignored.
func (r *Runner) record(ctx context.Context, req ConvertRequest, res *apiclient.Result, err error) history.Record {
	status := history.StatusSuccess
	var pe *errors.PartialConversionError
	switch {
	case errors.As(err, &pe):
		status = history.StatusPartial
	case err != nil:
		status = history.StatusFailed
	}

	rec := history.NewRecord(req.Code, req.Platform, status)
	switch {
	case res != nil:
		rec.ResultURL = res.BoardURL
	case pe != nil:
		rec.ResultURL = pe.BoardURL
	}
	if err != nil {
		rec.ErrorMessage = errors.UserMessage(err)
	}

	// A cancelled request must still leave a record.
	if addErr := r.Sink.Add(context.WithoutCancel(ctx), rec); addErr != nil {
		r.Logger.Warn("history write failed", "id", rec.ID, "err", addErr)
	}
	return rec
}

// Platforms lists the registered platforms. With check set, configured
// platforms are pinged.
func (r *Runner) Platforms(ctx context.Context, check bool) []platform.Status {
	if check {
		return r.Registry.Check(ctx)
	}
	return r.Registry.Statuses()
}

// History returns up to limit recent conversions, newest first.
func (r *Runner) History(ctx context.Context, limit int) ([]history.Entry, error) {
	records, err := r.Sink.List(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read history")
	}
	entries := make([]history.Entry, len(records))
	for i, rec := range records {
		entries[i] = rec.Entry()
	}
	return entries, nil
}

// Preview renders src in format ("dot" or "svg"), caching the result. The
// boolean reports a cache hit.
func (r *Runner) Preview(ctx context.Context, src parser.Source, format string, opts preview.Options) ([]byte, bool, error) {
	g, _, err := r.Parse(ctx, src)
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.PreviewKey(graph.Hash(g), cache.PreviewKeyOpts{
		Format:   format,
		Unpinned: opts.Unpinned,
		ShowIDs:  opts.ShowIDs,
	})
	cacheHooks := observability.Cache()
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		cacheHooks.OnCacheHit(ctx, "preview")
		return data, true, nil
	}
	cacheHooks.OnCacheMiss(ctx, "preview")

	l, err := r.Layout(ctx, g)
	if err != nil {
		return nil, false, err
	}
	out, err := preview.Render(ctx, preview.ToDOT(g, l, opts), format)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, out, cache.TTLPreview); err == nil {
		cacheHooks.OnCacheSet(ctx, "preview", len(out))
	}
	return out, false, nil
}

// Close releases the cache and history sink.
func (r *Runner) Close() error {
	var first error
	for _, c := range []interface{ Close() error }{r.Cache, r.Sink} {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
