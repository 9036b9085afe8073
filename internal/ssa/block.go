package ssa

import "fmt"

// BlockKind describes how a basic block terminates.
type BlockKind int

const (
	BlockInvalid BlockKind = iota
	BlockPlain             // still open; falls off the end
	BlockReturn            // function return; Controls[0] = return value (absent for void)
)

// blockKindNames maps BlockKind to its string representation.
var blockKindNames = [...]string{
	BlockInvalid: "invalid",
	BlockPlain:   "plain",
	BlockReturn:  "ret",
}

// String returns the string representation of the block kind.
func (k BlockKind) String() string {
	if int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}
	return "unknown"
}

// Block represents a basic block: a sequence of Values followed by a
// terminator indicated by its Kind. minic has no control flow, so every
// function consists of its entry block alone.
type Block struct {
	// ID is a unique identifier within the containing Func.
	ID ID

	// Kind describes how this block terminates.
	Kind BlockKind

	// Controls holds the terminator's operand values.
	// For BlockReturn: Controls[0] = return value, empty for a void return.
	Controls []*Value

	// Values is the ordered list of values computed in this block.
	Values []*Value

	// Func is the function containing this block.
	Func *Func
}

// String returns a short string representation (e.g., "b3").
func (b *Block) String() string {
	return fmt.Sprintf("b%d", b.ID)
}

// SetControl sets the return control value.
func (b *Block) SetControl(v *Value) {
	b.Controls = []*Value{v}
	v.Uses++
}

// NumValues returns the number of values in this block.
func (b *Block) NumValues() int { return len(b.Values) }
