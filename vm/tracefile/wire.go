// Package tracefile encodes dispatch traces as CBOR so a resolution can be
// recorded by one process and inspected by another.
package tracefile

import (
	"fmt"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/chazu/binop/vm"
)

// Version is the trace file format version written by Marshal.
const Version = 1

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("tracefile: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// File is the on-disk form of a trace.
type File struct {
	Version uint8           `cbor:"1,keyasint"`
	ID      [16]byte        `cbor:"2,keyasint"`
	Started int64           `cbor:"3,keyasint"` // Unix nanoseconds
	Events  []vm.TraceEvent `cbor:"4,keyasint,omitempty"`
}

// SessionID returns the trace's session ID.
func (f *File) SessionID() uuid.UUID {
	return uuid.UUID(f.ID)
}

// StartTime returns when the trace was started.
func (f *File) StartTime() time.Time {
	return time.Unix(0, f.Started)
}

// FromTrace snapshots a live trace.
func FromTrace(t *vm.Trace) *File {
	return &File{
		Version: Version,
		ID:      t.ID,
		Started: t.Started.UnixNano(),
		Events:  t.Events(),
	}
}

// Marshal serializes a trace to CBOR bytes.
func Marshal(t *vm.Trace) ([]byte, error) {
	return cborEncMode.Marshal(FromTrace(t))
}

// Unmarshal deserializes a trace file from CBOR bytes.
func Unmarshal(data []byte) (*File, error) {
	var f File
	if err := cbor.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("tracefile: unmarshal: %w", err)
	}
	if f.Version != Version {
		return nil, fmt.Errorf("tracefile: unsupported version %d", f.Version)
	}
	return &f, nil
}

// WriteFile writes a trace to path.
func WriteFile(path string, t *vm.Trace) error {
	data, err := Marshal(t)
	if err != nil {
		return fmt.Errorf("tracefile: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("tracefile: %w", err)
	}
	return nil
}

// ReadFile reads a trace from path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tracefile: %w", err)
	}
	return Unmarshal(data)
}

// Format renders one event as a single line.
func Format(ev vm.TraceEvent) string {
	s := fmt.Sprintf("%-17s %-3s", ev.Kind, ev.Op)
	if ev.Class != "" {
		s += " " + ev.Class
		if ev.Slot != "" {
			s += "." + ev.Slot
		}
	} else if ev.Slot != "" {
		s += " " + ev.Slot
	}
	if ev.Reversed {
		s += " (reflected)"
	}
	if ev.Detail != "" {
		s += " [" + ev.Detail + "]"
	}
	return s
}
