// Package record declares the chain node shape once, generically over the
// representation of its continuation slot.
//
// Both chain models are instantiations of the same declaration:
//
//	foreign.Record = record.Record[foreign.Ptr]   // slot is an address
//	chain node     = record.Record[chain.Chain]   // slot is an owned tail
//
// Construction, field access and field equality are written once on the
// generic type. Describe derives the field order of an instantiation by
// reflection, and Shape.TypeDef turns that order into the WIT record that
// fixes the foreign byte layout, so the two specializations cannot drift
// apart in field order.
package record
