// Package errors provides structured error types for chain marshalling.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the chain path, offending value and
// cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidData).
//		Path("node[2]").
//		Detail("unexpected slot value %d", v).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidAddress(errors.PhaseMemory, addr, "not allocated")
//	err := errors.DepthExceeded(errors.PhaseDecode, errors.NodePath(i), limit)
//
// The package-level sentinels match any phase:
//
//	if errors.Is(err, chainerrors.ErrInvalidAddress) { ... }
package errors
