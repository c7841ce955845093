package chunk

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Disassemble renders name's chunk as human-readable bytecode listing. It
// is a debugging aid only (spec.md §1 lists disassembly as an external,
// non-core collaborator) — the compiler and VM never call it.
func (c *Chunk) Disassemble(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s (%s code) ==\n", name, humanize.Bytes(uint64(len(c.Code))))
	for offset := 0; offset < len(c.Code); {
		offset = c.disassembleInstruction(&b, offset)
	}
	return b.String()
}

// DisassembleAll disassembles this chunk and every nested Function chunk
// reachable through its constant pool.
func (c *Chunk) DisassembleAll(name string) string {
	var b strings.Builder
	b.WriteString(c.Disassemble(name))
	for _, constant := range c.Constants {
		if constant.Fn == nil {
			continue
		}
		if nested, ok := constant.Fn.Chunk.(*Chunk); ok {
			b.WriteString("\n")
			b.WriteString(nested.DisassembleAll(constant.Fn.Name))
		}
	}
	return b.String()
}

func (c *Chunk) disassembleInstruction(b *strings.Builder, offset int) int {
	fmt.Fprintf(b, "%04d %4d ", offset, c.Pos[offset].Line)

	op := OpCode(c.Code[offset])
	if !hasOperand(op) {
		fmt.Fprintf(b, "%s\n", op)
		return offset + 1
	}

	operand := int(c.Code[offset+1])
	switch op {
	case CONSTANT:
		fmt.Fprintf(b, "%-16s %4d '%v'\n", op, operand, c.Constants[operand])
	case GLOBAL_DEF, GLOBAL_GET:
		fmt.Fprintf(b, "%-16s %4d (global slot)\n", op, operand)
	default:
		fmt.Fprintf(b, "%-16s %4d\n", op, operand)
	}
	return offset + 2
}
