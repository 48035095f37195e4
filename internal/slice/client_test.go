package slice

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slicerweb/internal/engine"
	"slicerweb/internal/slicerr"
	"slicerweb/internal/translate"
)

// fakeEngine records calls and returns scripted statuses. When gate is set,
// Slice blocks until it is closed.
type fakeEngine struct {
	describe   string
	sliceState engine.Status
	gcode      string
	gate       chan struct{}

	mu      sync.Mutex
	configs []map[string]any
	bufs    []*engine.HeapBuffer

	initCalls  atomic.Int32
	sliceCalls atomic.Int32
}

func (f *fakeEngine) DescribeConfig(context.Context) (engine.Buffer, error) {
	b := engine.NewHeapBuffer([]byte(f.describe), nil)

	f.mu.Lock()
	f.bufs = append(f.bufs, b)
	f.mu.Unlock()

	return b, nil
}

func (f *fakeEngine) Init(_ context.Context, config []byte) error {
	f.initCalls.Add(1)

	var m map[string]any
	if err := json.Unmarshal(config, &m); err != nil {
		return engine.Check(engine.CallInit, engine.StatusMeshLoad)
	}

	f.mu.Lock()
	f.configs = append(f.configs, m)
	f.mu.Unlock()

	return nil
}

func (f *fakeEngine) Slice(context.Context, []byte) (engine.Buffer, error) {
	f.sliceCalls.Add(1)

	if f.gate != nil {
		<-f.gate
	}

	b := engine.NewHeapBuffer([]byte(f.gcode), nil)

	f.mu.Lock()
	f.bufs = append(f.bufs, b)
	f.mu.Unlock()

	if f.sliceState != engine.StatusOK {
		return b, engine.Check(engine.CallSlice, f.sliceState)
	}

	return b, nil
}

func (f *fakeEngine) allReleased() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, b := range f.bufs {
		if !b.Released() {
			return false
		}
	}

	return true
}

func (f *fakeEngine) lastConfig() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.configs) == 0 {
		return nil
	}

	return f.configs[len(f.configs)-1]
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func readyClient(t *testing.T, f *fakeEngine) *Client {
	t.Helper()

	c := NewClient(f, translate.Default(), quietLogger())
	c.MarkReady()

	return c
}

var mesh = []byte("solid cube\nendsolid cube\n")

func TestClient_NotReadyDoesNotTouchEngine(t *testing.T) {
	f := &fakeEngine{gcode: "G1"}
	c := NewClient(f, nil, quietLogger())

	_, err := c.Slice(context.Background(), mesh, map[string]any{"layer_height": 0.2})
	require.Error(t, err)

	assert.ErrorIs(t, err, slicerr.ErrNotReady)
	assert.Zero(t, f.initCalls.Load())
	assert.Zero(t, f.sliceCalls.Load())
}

func TestClient_Start(t *testing.T) {
	f := &fakeEngine{describe: `{"categories":[]}`}
	c := NewClient(f, nil, quietLogger())

	require.False(t, c.Ready())

	payload, err := c.Start(context.Background())
	require.NoError(t, err)

	assert.JSONEq(t, `{"categories":[]}`, string(payload))
	assert.True(t, c.Ready())
	assert.True(t, f.allReleased())
}

func TestClient_StartFailsOnEmptyDescribe(t *testing.T) {
	f := &fakeEngine{}
	c := NewClient(f, nil, quietLogger())

	_, err := c.Start(context.Background())
	require.Error(t, err)

	assert.ErrorIs(t, err, slicerr.ErrEngineFault)
	assert.False(t, c.Ready())
}

func TestClient_SliceTranslatesSettings(t *testing.T) {
	f := &fakeEngine{gcode: "; gcode\nG1 X0\n"}
	c := readyClient(t, f)

	res, err := c.Slice(context.Background(), mesh, map[string]any{
		"bed_temperature":       60.0,
		"layer_height":          0.2,
		"sparse_infill_density": 15.0,
	})
	require.NoError(t, err)

	assert.Equal(t, "; gcode\nG1 X0\n", res.GCode)
	assert.Equal(t, len(res.GCode), res.Bytes)
	assert.Equal(t, 3, res.Settings)
	assert.NotEmpty(t, res.JobID)

	cfg := f.lastConfig()
	assert.Equal(t, 60.0, cfg["hot_plate_temp"])
	assert.NotContains(t, cfg, "bed_temperature")
	assert.Equal(t, "15%", cfg["sparse_infill_density"])
	assert.Equal(t, 0.2, cfg["layer_height"])

	assert.True(t, f.allReleased())
	assert.False(t, c.Busy())
	assert.Equal(t, res.JobID, c.LastResult().JobID)
}

func TestClient_EngineFaultKeepsLastResult(t *testing.T) {
	f := &fakeEngine{gcode: "G1"}
	c := readyClient(t, f)

	first, err := c.Slice(context.Background(), mesh, nil)
	require.NoError(t, err)

	f.sliceState = engine.StatusNoObjects
	f.gcode = "partial"

	_, err = c.Slice(context.Background(), mesh, nil)
	require.Error(t, err)

	assert.ErrorIs(t, err, slicerr.ErrEngineFault)
	assert.Contains(t, slicerr.Message(err), "no printable objects")
	assert.True(t, f.allReleased(), "partial buffer must be released")
	assert.Equal(t, first.JobID, c.LastResult().JobID)
	assert.False(t, c.Busy())
}

func TestClient_EmptyOutputIsFault(t *testing.T) {
	f := &fakeEngine{}
	c := readyClient(t, f)

	_, err := c.Slice(context.Background(), mesh, nil)
	require.Error(t, err)

	assert.Equal(t, engine.StatusGCode, engine.StatusOf(err))
	assert.Nil(t, c.LastResult())
}

func TestClient_EmptyMeshIsInvalid(t *testing.T) {
	f := &fakeEngine{gcode: "G1"}
	c := readyClient(t, f)

	_, err := c.Slice(context.Background(), nil, nil)
	require.Error(t, err)

	assert.ErrorIs(t, err, slicerr.ErrInvalid)
	assert.Zero(t, f.sliceCalls.Load())
}

func TestClient_SecondSliceWhileBusyIsRejected(t *testing.T) {
	f := &fakeEngine{gcode: "G1", gate: make(chan struct{})}
	c := readyClient(t, f)

	first := make(chan error, 1)

	go func() {
		_, err := c.Slice(context.Background(), mesh, nil)
		first <- err
	}()

	require.Eventually(t, func() bool { return f.sliceCalls.Load() == 1 }, time.Second, time.Millisecond)

	_, err := c.Slice(context.Background(), mesh, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, slicerr.ErrBusy)

	close(f.gate)
	require.NoError(t, <-first)

	assert.EqualValues(t, 1, f.sliceCalls.Load())
	assert.False(t, c.Busy())
}

func TestClient_AbandonedSliceCompletesInBackground(t *testing.T) {
	f := &fakeEngine{gcode: "G1", gate: make(chan struct{})}
	c := readyClient(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)

	go func() {
		_, err := c.Slice(ctx, mesh, nil)
		errc <- err
	}()

	require.Eventually(t, func() bool { return f.sliceCalls.Load() == 1 }, time.Second, time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
	assert.True(t, c.Busy(), "engine call still running")

	close(f.gate)

	require.Eventually(t, func() bool { return !c.Busy() }, time.Second, time.Millisecond)
	assert.True(t, f.allReleased())
	require.NotNil(t, c.LastResult())
	assert.Equal(t, "G1", c.LastResult().GCode)
}
