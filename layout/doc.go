// Package layout provides Canonical ABI layout calculations for WIT types.
//
// This package computes size, alignment, and field offsets per the Component
// Model specification. The foreign record layout is derived from a WIT record
// declaration through this calculator, so the byte layout follows the
// external ABI rather than Go's own struct layout.
//
// # Layout Rules
//
//   - Primitives: size equals alignment (u32=4, f64=8)
//   - Records: fields laid out sequentially with padding for alignment,
//     total size rounded up to the largest field alignment
//
// Any other WIT type is rejected with an errors.KindUnsupported error in
// errors.PhaseLayout.
//
// # Usage
//
//	info, err := layout.NewCalculator().Calculate(witType)
//	// info.Size, info.Align, info.FieldOffs available
package layout
