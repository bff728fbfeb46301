package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode  Phase = "encode"  // owned to foreign
	PhaseDecode  Phase = "decode"  // foreign to owned
	PhaseRelease Phase = "release" // freeing a foreign chain
	PhaseMemory  Phase = "memory"  // raw heap access
	PhaseLayout  Phase = "layout"  // record shape derivation
	PhaseConfig  Phase = "config"  // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidAddress Kind = "invalid_address"
	KindAllocation     Kind = "allocation"
	KindCycle          Kind = "cycle"
	KindDepthExceeded  Kind = "depth_exceeded"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindInvalidData    Kind = "invalid_data"
	KindInvalidInput   Kind = "invalid_input"
	KindUnsupported    Kind = "unsupported"
	KindNotInitialized Kind = "not_initialized"
)

// Sentinels for errors.Is. They carry no phase and so match any phase.
var (
	ErrInvalidAddress = &Error{Kind: KindInvalidAddress}
	ErrAllocation     = &Error{Kind: KindAllocation}
	ErrCycle          = &Error{Kind: KindCycle}
	ErrDepthExceeded  = &Error{Kind: KindDepthExceeded}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target without a phase matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the chain path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// NodePath returns the path element naming the node at index i.
func NodePath(i int) []string {
	return []string{fmt.Sprintf("node[%d]", i)}
}

// Convenience constructors for common error patterns

// InvalidAddress creates an error for an access to an address that is not
// a live record.
func InvalidAddress(phase Phase, addr uint32, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidAddress,
		Detail: fmt.Sprintf("address 0x%x: %s", addr, detail),
		Value:  addr,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
		Cause:  cause,
	}
}

// CycleDetected creates an error for a chain that revisits addr.
func CycleDetected(phase Phase, path []string, addr uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCycle,
		Path:   path,
		Detail: fmt.Sprintf("address 0x%x already visited", addr),
		Value:  addr,
	}
}

// DepthExceeded creates an error for a chain longer than limit.
func DepthExceeded(phase Phase, path []string, limit int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDepthExceeded,
		Path:   path,
		Detail: fmt.Sprintf("chain deeper than %d nodes", limit),
		Value:  limit,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, offset, length, size uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("range [%d, %d) out of bounds (size %d)", offset, uint64(offset)+uint64(length), size),
		Value:  offset,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
