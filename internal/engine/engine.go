package engine

import "context"

// Engine is the narrow contract of the external slicing engine.
//
// Implementations are not required to be safe for concurrent calls; callers
// serialize Init and Slice per engine instance.
type Engine interface {
	// DescribeConfig returns the serialized configuration surface.
	DescribeConfig(ctx context.Context) (Buffer, error)
	// Init stores a settings payload for the next Slice.
	Init(ctx context.Context, config []byte) error
	// Slice turns mesh bytes into G-code using the stored settings.
	Slice(ctx context.Context, mesh []byte) (Buffer, error)
}

// Describe calls DescribeConfig and returns a copy of the payload, releasing
// the engine buffer on every path.
func Describe(ctx context.Context, e Engine) ([]byte, error) {
	buf, err := e.DescribeConfig(ctx)
	defer ReleaseAll(buf)

	if err != nil {
		return nil, err
	}

	if buf == nil || buf.Len() == 0 {
		return nil, Check(CallDescribe, StatusGCode)
	}

	return append([]byte(nil), buf.Bytes()...), nil
}
