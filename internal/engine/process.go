package engine

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"slicerweb/internal/slicerr"
)

// maxStderr caps how much engine diagnostics output is kept for logging.
const maxStderr = 16 << 10

// Process drives an engine binary, one process per call.
//
//	<path> <args...> describe                  JSON on stdout
//	<path> <args...> slice --config <file>     mesh on stdin, G-code on stdout
//
// Exit codes 1 to 4 map to statuses -1 to -4; any other failure is
// StatusInternal.
type Process struct {
	Path    string
	Args    []string
	Env     []string
	Timeout time.Duration

	logger *slog.Logger

	mu     sync.Mutex
	config []byte

	live atomic.Int64
}

// NewProcess returns a Process for the binary at path. A nil logger means
// slog.Default(); a zero timeout means no limit.
func NewProcess(path string, args []string, timeout time.Duration, logger *slog.Logger) *Process {
	if logger == nil {
		logger = slog.Default()
	}

	return &Process{Path: path, Args: args, Timeout: timeout, logger: logger}
}

// Outstanding returns the number of buffers handed out and not yet released.
func (p *Process) Outstanding() int64 {
	return p.live.Load()
}

// DescribeConfig runs the describe command.
func (p *Process) DescribeConfig(ctx context.Context) (Buffer, error) {
	out, err := p.run(ctx, CallDescribe, nil, "describe")
	if err != nil {
		return nil, err
	}

	return p.buffer(out), nil
}

// Init stores the settings payload. It must be a JSON object.
func (p *Process) Init(_ context.Context, config []byte) error {
	trimmed := bytes.TrimSpace(config)
	if len(trimmed) > 0 && trimmed[0] != '{' {
		return Check(CallInit, StatusInternal)
	}

	p.mu.Lock()
	p.config = append(p.config[:0], config...)
	p.mu.Unlock()

	return nil
}

// Slice writes the stored settings to a temporary file and runs the slice
// command with the mesh on stdin.
func (p *Process) Slice(ctx context.Context, mesh []byte) (Buffer, error) {
	p.mu.Lock()
	config := append([]byte(nil), p.config...)
	p.mu.Unlock()

	if len(config) == 0 {
		config = []byte("{}")
	}

	f, err := os.CreateTemp("", "slicerweb-config-*.json")
	if err != nil {
		return nil, slicerr.Wrap(slicerr.KindEngineFault, "engine.slice", "", err)
	}

	defer os.Remove(f.Name())

	if _, err := f.Write(config); err != nil {
		f.Close()

		return nil, slicerr.Wrap(slicerr.KindEngineFault, "engine.slice", "", err)
	}

	if err := f.Close(); err != nil {
		return nil, slicerr.Wrap(slicerr.KindEngineFault, "engine.slice", "", err)
	}

	out, err := p.run(ctx, CallSlice, mesh, "slice", "--config", f.Name())
	if err != nil {
		return nil, err
	}

	if len(out) == 0 {
		return nil, Check(CallSlice, StatusGCode)
	}

	return p.buffer(out), nil
}

func (p *Process) buffer(out []byte) Buffer {
	p.live.Add(1)

	return NewHeapBuffer(out, func() { p.live.Add(-1) })
}

func (p *Process) run(ctx context.Context, call Call, stdin []byte, args ...string) ([]byte, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	argv := append(append([]string(nil), p.Args...), args...)
	cmd := exec.CommandContext(ctx, p.Path, argv...)

	if p.Env != nil {
		cmd.Env = p.Env
	}

	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var stdout bytes.Buffer

	stderr := &cappedBuffer{limit: maxStderr}
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err == nil {
		p.logger.Debug("engine call finished",
			slog.String("call", string(call)),
			slog.Int("output_bytes", stdout.Len()),
			slog.Duration("elapsed", elapsed))

		return stdout.Bytes(), nil
	}

	st := exitStatus(err)
	p.logger.Warn("engine call failed",
		slog.String("call", string(call)),
		slog.Int("status", int(st)),
		slog.Duration("elapsed", elapsed),
		slog.String("stderr", stderr.String()),
		slog.Any("error", err))

	return nil, Check(call, st)
}

func exitStatus(err error) Status {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return StatusInternal
	}

	code := exitErr.ExitCode()
	if code >= 1 && code <= 4 {
		return Status(-code)
	}

	return StatusInternal
}

// cappedBuffer keeps the first limit bytes written and drops the rest.
type cappedBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (c *cappedBuffer) Write(b []byte) (int, error) {
	if room := c.limit - c.buf.Len(); room > 0 {
		if len(b) > room {
			c.buf.Write(b[:room])
		} else {
			c.buf.Write(b)
		}
	}

	return len(b), nil
}

func (c *cappedBuffer) String() string {
	return c.buf.String()
}
