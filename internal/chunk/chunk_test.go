package chunk

import (
	"testing"

	"interp/internal/token"
	"interp/internal/value"
)

func TestWriteKeepsCodeAndPosInSync(t *testing.T) {
	c := New()
	c.Write(byte(PUSH_WIN), token.Pos{Line: 1, Column: 1})
	c.Write(byte(RETURN), token.Pos{Line: 1, Column: 5})

	if len(c.Code) != len(c.Pos) {
		t.Fatalf("len(Code)=%d != len(Pos)=%d", len(c.Code), len(c.Pos))
	}
}

func TestAddConstantNeverDeduplicates(t *testing.T) {
	c := New()
	i1 := c.AddConstant(value.NewInteger(1))
	i2 := c.AddConstant(value.NewInteger(1))
	if i1 == i2 {
		t.Fatalf("expected distinct indices for repeated constants, got %d and %d", i1, i2)
	}
	if len(c.Constants) != 2 {
		t.Fatalf("len(Constants) = %d, want 2", len(c.Constants))
	}
}

func TestDisassembleDoesNotPanicOnEmptyChunk(t *testing.T) {
	c := New()
	_ = c.Disassemble("<script>")
}
