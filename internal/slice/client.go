package slice

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"cogentcore.org/core/base/iox/jsonx"
	"github.com/google/uuid"

	"slicerweb/internal/engine"
	"slicerweb/internal/slicerr"
	"slicerweb/internal/translate"
)

// Result is a finished slice.
type Result struct {
	JobID    string        `json:"jobId"`
	GCode    string        `json:"-"`
	Bytes    int           `json:"bytes"`
	Settings int           `json:"settings"`
	Duration time.Duration `json:"duration"`
}

// Client serializes slice jobs against one engine. It is safe for
// concurrent use.
type Client struct {
	engine engine.Engine
	table  *translate.Table
	logger *slog.Logger

	busy atomic.Bool

	mu    sync.RWMutex
	ready bool
	last  *Result
}

// NewClient returns a client for e. A nil table means identity translation;
// a nil logger means slog.Default().
func NewClient(e engine.Engine, table *translate.Table, logger *slog.Logger) *Client {
	if table == nil {
		table = translate.Identity()
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{engine: e, table: table, logger: logger}
}

// Start performs the one-time engine handshake: it asks the engine to
// describe its configuration and, on success, marks the client ready.
// The returned payload feeds schema.ParsePayload.
func (c *Client) Start(ctx context.Context) ([]byte, error) {
	payload, err := engine.Describe(ctx, c.engine)
	if err != nil {
		c.logger.Error("engine handshake failed", slog.Any("error", err))

		return nil, err
	}

	c.mu.Lock()
	c.ready = true
	c.mu.Unlock()

	c.logger.Info("engine ready", slog.Int("schema_bytes", len(payload)))

	return payload, nil
}

// MarkReady marks the client ready without a describe round trip, for
// deployments that ship a prebuilt schema.
func (c *Client) MarkReady() {
	c.mu.Lock()
	c.ready = true
	c.mu.Unlock()
}

// Ready reports whether slices are accepted.
func (c *Client) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.ready
}

// Busy reports whether a slice is running on the engine.
func (c *Client) Busy() bool {
	return c.busy.Load()
}

// LastResult returns the most recent successful slice, or nil.
func (c *Client) LastResult() *Result {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.last == nil {
		return nil
	}

	r := *c.last

	return &r
}

type outcome struct {
	result *Result
	err    error
}

// Slice translates ui to engine keys and slices mesh with them.
func (c *Client) Slice(ctx context.Context, mesh []byte, ui map[string]any) (*Result, error) {
	const op = "slice.Slice"

	if !c.Ready() {
		return nil, slicerr.New(slicerr.KindNotReady, op, "", "slicer is not yet initialized")
	}

	if len(mesh) == 0 {
		return nil, slicerr.New(slicerr.KindInvalid, op, "mesh", "mesh is empty")
	}

	settings := c.table.ToEngineKeys(ui)

	var config bytes.Buffer
	if err := jsonx.Write(settings, &config); err != nil {
		return nil, slicerr.Wrap(slicerr.KindInvalid, op, "settings", err)
	}

	if !c.busy.CompareAndSwap(false, true) {
		return nil, slicerr.New(slicerr.KindBusy, op, "", "a slice is already in progress")
	}

	jobID := uuid.NewString()
	logger := c.logger.With(slog.String("job_id", jobID))
	done := make(chan outcome, 1)

	// The engine call is not interruptible; it outlives ctx if the caller
	// gives up, and keeps the client busy until it returns.
	go func() {
		defer c.busy.Store(false)

		res, err := c.run(context.WithoutCancel(ctx), jobID, config.Bytes(), mesh, len(settings))
		if err != nil {
			logger.Warn("slice failed", slog.String("message", slicerr.Message(err)))
		} else {
			logger.Info("slice complete",
				slog.Int("gcode_bytes", res.Bytes),
				slog.Duration("elapsed", res.Duration))

			c.mu.Lock()
			c.last = res
			c.mu.Unlock()
		}

		done <- outcome{result: res, err: err}
	}()

	logger.Info("slice started", slog.Int("settings", len(settings)), slog.Int("mesh_bytes", len(mesh)))

	select {
	case out := <-done:
		return out.result, out.err
	case <-ctx.Done():
		logger.Warn("slice abandoned by caller", slog.Any("error", ctx.Err()))

		return nil, ctx.Err()
	}
}

func (c *Client) run(ctx context.Context, jobID string, config, mesh []byte, settings int) (*Result, error) {
	start := time.Now()

	if err := c.engine.Init(ctx, config); err != nil {
		return nil, err
	}

	buf, err := c.engine.Slice(ctx, mesh)
	defer engine.ReleaseAll(buf)

	if err != nil {
		return nil, err
	}

	if buf == nil || buf.Len() == 0 {
		return nil, engine.Check(engine.CallSlice, engine.StatusGCode)
	}

	gcode := string(buf.Bytes())

	return &Result{
		JobID:    jobID,
		GCode:    gcode,
		Bytes:    len(gcode),
		Settings: settings,
		Duration: time.Since(start),
	}, nil
}
