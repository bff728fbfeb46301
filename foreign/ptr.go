package foreign

import (
	"fmt"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/chain-abi/layout"
	"github.com/wippyai/chain-abi/record"
)

// Ptr is the address of a foreign record in linear memory.
type Ptr uint32

// Null is the end-of-chain sentinel.
const Null Ptr = 0

// IsNull reports whether p is the end-of-chain sentinel.
func (p Ptr) IsNull() bool {
	return p == Null
}

func (p Ptr) String() string {
	if p == Null {
		return "null"
	}
	return fmt.Sprintf("0x%08x", uint32(p))
}

// Record is a chain node whose continuation is an address.
type Record = record.Record[Ptr]

// TypeName is the WIT name of the foreign record.
const TypeName = "node"

// nodeABI is the foreign layout of record.Record[Ptr] and the plan that
// moves its fields in and out of memory.
type nodeABI struct {
	typeDef *wit.TypeDef
	layout  layout.Info
	plan    recordPlan
}

var node = mustDeriveNode()

func deriveNode() (nodeABI, error) {
	shape := record.Describe[Ptr]()
	td := shape.TypeDef(TypeName, wit.U32{})
	info, err := layout.NewCalculator().Calculate(td)
	if err != nil {
		return nodeABI{}, err
	}
	plan, err := compilePlan(shape, info)
	if err != nil {
		return nodeABI{}, err
	}
	return nodeABI{typeDef: td, layout: info, plan: plan}, nil
}

func mustDeriveNode() nodeABI {
	n, err := deriveNode()
	if err != nil {
		panic(err)
	}
	return n
}

// TypeDef returns the WIT record that fixes the foreign layout.
func TypeDef() *wit.TypeDef {
	return node.typeDef
}

// Layout returns the size, alignment and field offsets of a foreign record.
func Layout() layout.Info {
	return node.layout
}
