// Package engine is the boundary to the external slicing engine.
//
// The engine exposes three calls: DescribeConfig returns the serialized
// configuration surface, Init stores a settings payload, and Slice turns
// mesh bytes into G-code using the last stored settings. Each call reports
// a status code; non-zero codes become *Fault errors of kind EngineFault
// with a fixed user-facing message per code.
//
// Output buffers belong to the engine until released. Callers must call
// Buffer.Release once they have copied what they need, including on error
// paths where a partial buffer was returned.
package engine
