package engine

import (
	"errors"
	"fmt"

	"slicerweb/internal/slicerr"
)

// Status is the code returned by an engine call. Zero is success.
type Status int

const (
	StatusOK        Status = 0
	StatusMeshLoad  Status = -1
	StatusNoObjects Status = -2
	StatusGCode     Status = -3
	StatusInternal  Status = -4
)

// Call names an engine entry point.
type Call string

const (
	CallDescribe Call = "describe"
	CallInit     Call = "init"
	CallSlice    Call = "slice"
)

var sliceMessages = map[Status]string{
	StatusMeshLoad:  "failed to load mesh: the file is not a readable STL",
	StatusNoObjects: "no printable objects: the mesh has no geometry on the build plate",
	StatusGCode:     "G-code generation failed",
	StatusInternal:  "internal engine error",
}

var describeMessages = map[Status]string{
	StatusMeshLoad:  "engine rejected the describe request",
	StatusNoObjects: "engine ran out of memory describing its configuration",
	StatusGCode:     "engine failed to build its configuration schema",
}

// Message returns the user-facing text for status st returned by call c.
func Message(c Call, st Status) string {
	var table map[Status]string

	switch c {
	case CallSlice:
		table = sliceMessages
	case CallDescribe:
		table = describeMessages
	case CallInit:
		return fmt.Sprintf("engine rejected the settings payload (status %d)", st)
	}

	if msg, ok := table[st]; ok {
		return msg
	}

	return fmt.Sprintf("engine %s failed with status %d", c, st)
}

// Fault is a non-zero status from an engine call.
type Fault struct {
	Call   Call
	Status Status
}

// Error implements error.
func (f *Fault) Error() string {
	return Message(f.Call, f.Status)
}

// Check converts a status into an error. StatusOK yields nil; anything else
// yields an EngineFault *slicerr.Error whose cause is a *Fault.
func Check(c Call, st Status) error {
	if st == StatusOK {
		return nil
	}

	return &slicerr.Error{
		Kind: slicerr.KindEngineFault,
		Op:   "engine." + string(c),
		Msg:  Message(c, st),
		Err:  &Fault{Call: c, Status: st},
	}
}

// StatusOf returns the status carried by err, StatusOK for nil and
// StatusInternal for errors that carry no *Fault.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}

	var f *Fault
	if errors.As(err, &f) {
		return f.Status
	}

	return StatusInternal
}
