package apiclient

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/mermaidboard/pkg/errors"
	"github.com/matzehuels/mermaidboard/pkg/httputil"
	"github.com/matzehuels/mermaidboard/pkg/observability"
	"github.com/matzehuels/mermaidboard/pkg/platform"
)

// BoardRequest names the board to create.
type BoardRequest struct {
	Name        string
	Description string
}

// Result reports a completed conversion.
type Result struct {
	Platform          string            `json:"platform"`
	BoardID           string            `json:"board_id"`
	BoardName         string            `json:"board_name"`
	BoardURL          string            `json:"url"`
	ShapesCreated     int               `json:"shapes_created"`
	ConnectorsCreated int               `json:"connectors_created"`
	NodeIDToShapeID   map[string]string `json:"node_id_to_shape_id"`
	ConnectorIDs      []string          `json:"connector_ids"`
	Duration          time.Duration     `json:"duration"`
}

// Options configure an [Executor].
type Options struct {
	Platform    string // Name used in errors, logs and metrics
	Concurrency int    // Parallel calls per phase, minimum 1
	Retry       httputil.Policy
	Throttle    *httputil.Throttle // nil disables client-side throttling
	Logger      *log.Logger
}

// Executor runs conversions against one backend. It is safe for concurrent
// use; concurrent conversions share the throttle.
type Executor struct {
	backend platform.Backend
	opts    Options
	logger  *log.Logger
}

// New creates an Executor for backend.
func New(backend platform.Backend, opts Options) *Executor {
	opts.Concurrency = max(opts.Concurrency, 1)
	opts.Retry.Attempts = max(opts.Retry.Attempts, 1)
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Executor{backend: backend, opts: opts, logger: logger.With("platform", opts.Platform)}
}

// Execute creates a board holding shapes and connectors. Connectors are
// only attempted after every shape has been created.
func (e *Executor) Execute(ctx context.Context, shapes []platform.ShapeSpec, connectors []platform.ConnectorSpec, req BoardRequest) (*Result, error) {
	start := time.Now()
	if e.backend == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "platform %s has no backend", e.opts.Platform)
	}
	if err := checkSpecs(shapes, connectors); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, cancelled(err)
	}

	var board platform.Board
	err := e.call(ctx, "board", func(callCtx context.Context) error {
		var err error
		board, err = e.backend.CreateBoard(callCtx, req.Name, req.Description)
		return err
	})
	if err != nil {
		return nil, err
	}
	if board.Name == "" {
		board.Name = req.Name
	}
	e.logger.Debug("board created", "board", board.ID, "url", board.URL)

	run := &state{shapeIDs: make(map[string]string, len(shapes)), connectorIDs: make([]string, len(connectors))}

	if err := e.createShapes(ctx, board.ID, shapes, run); err != nil {
		return nil, e.partial(board, run, err)
	}
	e.logger.Debug("shapes created", "count", len(shapes))

	if err := e.createConnectors(ctx, board.ID, connectors, run); err != nil {
		return nil, e.partial(board, run, err)
	}

	res := &Result{
		Platform:          e.opts.Platform,
		BoardID:           board.ID,
		BoardName:         board.Name,
		BoardURL:          board.URL,
		ShapesCreated:     run.shapesCreated(),
		ConnectorsCreated: len(connectors),
		NodeIDToShapeID:   run.mapping(),
		ConnectorIDs:      run.connectors(),
		Duration:          time.Since(start),
	}
	e.logger.Info("conversion complete",
		"shapes", res.ShapesCreated,
		"connectors", res.ConnectorsCreated,
		"duration", res.Duration)
	return res, nil
}

func (e *Executor) createShapes(ctx context.Context, boardID string, shapes []platform.ShapeSpec, run *state) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)
	for _, s := range shapes {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			var id string
			err := e.call(gctx, "shape", func(callCtx context.Context) error {
				var err error
				id, err = e.backend.CreateShape(callCtx, boardID, s)
				return err
			})
			if err != nil {
				return describe(err, "create shape for node %q", s.NodeID)
			}
			return run.setShape(s.NodeID, id)
		})
	}
	return wait(ctx, g)
}

func (e *Executor) createConnectors(ctx context.Context, boardID string, connectors []platform.ConnectorSpec, run *state) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)
	for i, c := range connectors {
		if gctx.Err() != nil {
			break
		}
		from, okFrom := run.shape(c.FromNodeID)
		to, okTo := run.shape(c.ToNodeID)
		if !okFrom || !okTo {
			// checkSpecs and the shape barrier make this unreachable.
			g.Go(func() error {
				return errors.New(errors.ErrCodeInternal, "no shape for connector %d (%s -> %s)", c.EdgeIndex, c.FromNodeID, c.ToNodeID)
			})
			break
		}
		g.Go(func() error {
			var id string
			err := e.call(gctx, "connector", func(callCtx context.Context) error {
				var err error
				id, err = e.backend.CreateConnector(callCtx, boardID, c, from, to)
				return err
			})
			if err != nil {
				return describe(err, "create connector %s -> %s", c.FromNodeID, c.ToNodeID)
			}
			run.setConnector(i, id)
			return nil
		})
	}
	return wait(ctx, g)
}

// wait collects a phase. Cancellation of the parent context wins over the
// first worker error so callers see why the phase stopped early.
func wait(ctx context.Context, g *errgroup.Group) error {
	err := g.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return cancelled(ctxErr)
	}
	return err
}

// call runs one throttled, retried remote operation. The request itself
// runs on a context detached from cancellation so that an aborted phase
// never leaves an item created remotely but missing from the counts.
// Cancellation still stops throttle and backoff waits.
func (e *Executor) call(ctx context.Context, op string, fn func(context.Context) error) error {
	hooks := observability.Platform()
	attempt := 0
	err := httputil.Retry(ctx, e.opts.Retry, func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		waitStart := time.Now()
		if err := e.opts.Throttle.Wait(ctx); err != nil {
			// The limiter fails early when the deadline falls before the
			// next token, while ctx.Err() is still nil.
			return cancelled(err)
		}
		if waited := time.Since(waitStart); waited > time.Millisecond {
			hooks.OnThrottle(ctx, e.opts.Platform, waited)
		}

		attempt++
		start := time.Now()
		err := fn(context.WithoutCancel(ctx))
		hooks.OnCall(ctx, e.opts.Platform, op, time.Since(start), err)
		if err != nil && httputil.IsRetryable(err) && attempt < e.opts.Retry.Attempts {
			hooks.OnRetry(ctx, e.opts.Platform, op, attempt, err)
			e.logger.Warn("retrying", "op", op, "attempt", attempt, "err", errors.UserMessage(err))
		}
		return err
	})
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil && (err == ctxErr || errors.GetCode(err) == "") {
		return cancelled(ctxErr)
	}
	var re *httputil.RetryableError
	if errors.As(err, &re) {
		return re.Err
	}
	return err
}

func (e *Executor) partial(board platform.Board, run *state, cause error) error {
	p := &errors.PartialConversionError{
		Platform:          e.opts.Platform,
		BoardID:           board.ID,
		BoardURL:          board.URL,
		ShapesCreated:     run.shapesCreated(),
		ConnectorsCreated: run.connectorsCreated(),
		NodeIDToShapeID:   run.mapping(),
		ConnectorIDs:      run.connectors(),
		Cause:             cause,
	}
	e.logger.Error("conversion incomplete",
		"board", board.ID,
		"shapes", p.ShapesCreated,
		"connectors", p.ConnectorsCreated,
		"err", errors.UserMessage(cause))
	return p
}

// describe adds the failed item to err, keeping its code.
func describe(err error, format string, args ...any) error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodePlatformAPI
	}
	return errors.Wrap(code, err, "%s: %s", fmt.Sprintf(format, args...), errors.UserMessage(err))
}

func cancelled(err error) error {
	return errors.Wrap(errors.ErrCodeTimeout, err, "conversion cancelled")
}

// checkSpecs rejects duplicate node IDs and connectors whose endpoints
// have no shape, before anything is created remotely.
func checkSpecs(shapes []platform.ShapeSpec, connectors []platform.ConnectorSpec) error {
	ids := make(map[string]struct{}, len(shapes))
	for _, s := range shapes {
		if s.NodeID == "" {
			return errors.New(errors.ErrCodeInternal, "shape without node id")
		}
		if _, dup := ids[s.NodeID]; dup {
			return errors.New(errors.ErrCodeInternal, "duplicate shape for node %q", s.NodeID)
		}
		ids[s.NodeID] = struct{}{}
	}
	for _, c := range connectors {
		_, okFrom := ids[c.FromNodeID]
		_, okTo := ids[c.ToNodeID]
		if !okFrom || !okTo {
			return errors.New(errors.ErrCodeInternal, "connector %d references a node without a shape (%s -> %s)", c.EdgeIndex, c.FromNodeID, c.ToNodeID)
		}
	}
	return nil
}

// state is the mutex-guarded progress of one conversion. Shape mappings
// are write-once.
type state struct {
	mu           sync.Mutex
	shapeIDs     map[string]string
	connectorIDs []string // indexed like the connector specs, "" until created
	nConnectors  int
}

func (s *state) setShape(nodeID, shapeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.shapeIDs[nodeID]; dup {
		return errors.New(errors.ErrCodeInternal, "shape for node %q created twice", nodeID)
	}
	s.shapeIDs[nodeID] = shapeID
	return nil
}

func (s *state) shape(nodeID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.shapeIDs[nodeID]
	return id, ok
}

func (s *state) setConnector(i int, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connectorIDs[i] = id
	s.nConnectors++
}

func (s *state) shapesCreated() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.shapeIDs)
}

func (s *state) connectorsCreated() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nConnectors
}

func (s *state) mapping() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.shapeIDs)
}

// connectors returns created connector IDs in edge order.
func (s *state) connectors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, s.nConnectors)
	for _, id := range s.connectorIDs {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
