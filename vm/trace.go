package vm

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventKind identifies a step of operator resolution.
type EventKind uint8

const (
	EventInvoke           EventKind = iota // a candidate slot was called
	EventDecline                           // the candidate returned NotImplemented
	EventFastPath                          // the fast-path table produced the result
	EventEscalate                          // a fast path fell back to generic resolution
	EventFallback                          // the operator's fallback handler ran
	EventNoImplementation                  // every candidate declined
)

var eventNames = [...]string{
	EventInvoke:           "invoke",
	EventDecline:          "decline",
	EventFastPath:         "fast-path",
	EventEscalate:         "escalate",
	EventFallback:         "fallback",
	EventNoImplementation: "no-implementation",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// TraceEvent records one resolution step.
type TraceEvent struct {
	Kind     EventKind `cbor:"1,keyasint"`
	Op       string    `cbor:"2,keyasint"`
	Slot     string    `cbor:"3,keyasint,omitempty"` // method name for invoke/decline
	Class    string    `cbor:"4,keyasint,omitempty"` // receiver class
	Reversed bool      `cbor:"5,keyasint,omitempty"` // slot called with swapped operands
	Detail   string    `cbor:"6,keyasint,omitempty"`
}

// Tracer receives resolution steps. Implementations must be safe for
// concurrent use if the VM is shared between goroutines.
type Tracer interface {
	TraceEvent(ev TraceEvent)
}

// SetTracer installs t as the VM's tracer. A nil t disables tracing. It must
// not be called while resolutions are running.
func (vm *VM) SetTracer(t Tracer) {
	vm.tracer = t
}

func (vm *VM) trace(ev TraceEvent) {
	if vm.tracer != nil {
		vm.tracer.TraceEvent(ev)
	}
}

// Trace is a Tracer that keeps every event in memory.
type Trace struct {
	ID      uuid.UUID
	Started time.Time

	mu     sync.Mutex
	events []TraceEvent
}

// NewTrace starts an empty trace with a fresh session ID.
func NewTrace() *Trace {
	return &Trace{ID: uuid.New(), Started: time.Now()}
}

func (t *Trace) TraceEvent(ev TraceEvent) {
	t.mu.Lock()
	t.events = append(t.events, ev)
	t.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (t *Trace) Events() []TraceEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]TraceEvent(nil), t.events...)
}

// Len returns the number of recorded events.
func (t *Trace) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.events)
}

// Reset drops every recorded event.
func (t *Trace) Reset() {
	t.mu.Lock()
	t.events = nil
	t.mu.Unlock()
}
