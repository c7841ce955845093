// Package vm implements the stack-based bytecode interpreter: a fixed value
// stack, a fixed call-frame stack, a dense-slot globals table, and the IT
// register, dispatching the opcode set emitted by internal/compiler
// (spec.md §5, §4.5).
package vm

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"interp/internal/chunk"
	"interp/internal/token"
	"interp/internal/value"
)

const (
	// StackMax is the value stack's fixed capacity (spec.md §5).
	StackMax = 2048
	// FramesMax is the call-frame stack's fixed capacity (spec.md §5).
	FramesMax = 256
)

// RuntimeError is returned by Interpret when a compiled program fails
// during execution (as opposed to compilation). Its Error() text matches
// spec.md §7's "[<pos>] Error: <message>" format.
type RuntimeError struct {
	Pos token.Pos
	Msg string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[%s] Error: %s", e.Pos, e.Msg)
}

// CallFrame is one active function invocation: its chunk, instruction
// pointer, and the value-stack index where its local slot 0 lives.
type CallFrame struct {
	fn         *value.Fn
	chunk      *chunk.Chunk
	ip         int
	frameStart int
}

// VM executes one compiled program to completion. It is not safe for reuse
// across concurrent Interpret calls, but a fresh VM is cheap: construct one
// per script run (spec.md's Non-goals exclude any persisted or shared VM
// state).
type VM struct {
	frames     [FramesMax]CallFrame
	frameCount int

	stack      [StackMax]value.Value
	stackTop   int
	overflowed bool

	globals []value.Value
	it      value.Value

	out *bufio.Writer
}

// New returns a VM that writes VISIBLE output to out.
func New(out io.Writer) *VM {
	return &VM{out: bufio.NewWriter(out)}
}

// Interpret runs a compiled script or function to completion and returns
// its final IT value (the implicit GET_IT/RETURN the compiler appends to
// every function and script body).
func (vm *VM) Interpret(fn *value.Fn) (value.Value, error) {
	c, ok := fn.Chunk.(*chunk.Chunk)
	if !ok {
		return value.Value{}, fmt.Errorf("function %s has no compiled chunk", fn.Name)
	}
	vm.push(value.NewFunction(fn))
	vm.frames[0] = CallFrame{fn: fn, chunk: c, frameStart: 0}
	vm.frameCount = 1

	result, err := vm.run()
	vm.out.Flush()
	return result, err
}

func (vm *VM) run() (value.Value, error) {
	for {
		frame := &vm.frames[vm.frameCount-1]
		if frame.ip >= len(frame.chunk.Code) {
			return value.NewNull(), vm.errAt(frame.chunk.Pos[len(frame.chunk.Pos)-1], "chunk ended without a RETURN")
		}
		pos := frame.chunk.Pos[frame.ip]
		op := chunk.OpCode(frame.chunk.Code[frame.ip])
		frame.ip++

		switch op {
		case chunk.CONSTANT:
			idx := vm.readByte(frame)
			vm.push(frame.chunk.Constants[idx])

		case chunk.PUSH_WIN:
			vm.push(value.NewBool(true))
		case chunk.PUSH_FAIL:
			vm.push(value.NewBool(false))
		case chunk.PUSH_NOOB:
			vm.push(value.NewNull())

		case chunk.SET_IT:
			vm.it = vm.pop()
		case chunk.GET_IT:
			vm.push(vm.it)

		case chunk.POP:
			vm.pop()

		case chunk.GLOBAL_DEF:
			slot := int(vm.readByte(frame))
			vm.ensureGlobalSlot(slot)
			vm.globals[slot] = vm.pop()

		case chunk.GLOBAL_GET:
			slot := int(vm.readByte(frame))
			if slot >= len(vm.globals) {
				return value.NewNull(), vm.errAt(pos, "read of an undefined global")
			}
			vm.push(vm.globals[slot])

		case chunk.LOCAL_GET:
			slot := int(vm.readByte(frame))
			vm.push(vm.stack[frame.frameStart+slot])

		case chunk.LOCAL_SET:
			slot := int(vm.readByte(frame))
			vm.stack[frame.frameStart+slot] = vm.peek(0)

		case chunk.ADD, chunk.SUB, chunk.MUL, chunk.DIV, chunk.MIN, chunk.MAX,
			chunk.LT, chunk.LTE, chunk.GT, chunk.GTE:
			if err := vm.binaryOp(pos, op); err != nil {
				return value.NewNull(), err
			}

		case chunk.EQ:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.NewBool(a.Equals(b)))

		case chunk.PRINT:
			n := int(vm.readByte(frame))
			vm.printTop(n, false)
		case chunk.PRINTLN:
			n := int(vm.readByte(frame))
			vm.printTop(n, true)

		case chunk.JUMP:
			offset := int(vm.readByte(frame))
			frame.ip += offset

		case chunk.JUMP_IF_FALSE:
			offset := int(vm.readByte(frame))
			if !vm.it.Truthy() {
				frame.ip += offset
			}

		case chunk.CALL:
			argc := int(vm.readByte(frame))
			if err := vm.callValue(vm.peek(argc), argc, pos); err != nil {
				return value.NewNull(), err
			}

		case chunk.RETURN:
			result := vm.pop()
			finished := vm.frameCount - 1
			vm.stackTop = vm.frames[finished].frameStart
			vm.frameCount--
			if vm.frameCount == 0 {
				return result, nil
			}
			vm.push(result)

		default:
			return value.NewNull(), vm.errAt(pos, fmt.Sprintf("unknown opcode %d", byte(op)))
		}

		if vm.overflowed {
			return value.NewNull(), vm.errAt(pos, "value stack overflow")
		}
	}
}

func (vm *VM) errAt(pos token.Pos, msg string) error {
	return &RuntimeError{Pos: pos, Msg: msg}
}

func (vm *VM) readByte(frame *CallFrame) byte {
	b := frame.chunk.Code[frame.ip]
	frame.ip++
	return b
}

func (vm *VM) push(v value.Value) {
	if vm.stackTop >= StackMax {
		vm.overflowed = true
		return
	}
	vm.stack[vm.stackTop] = v
	vm.stackTop++
}

func (vm *VM) pop() value.Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.stackTop-1-distance]
}

func (vm *VM) ensureGlobalSlot(slot int) {
	for slot >= len(vm.globals) {
		vm.globals = append(vm.globals, value.NewNull())
	}
}

func (vm *VM) binaryOp(pos token.Pos, op chunk.OpCode) error {
	b := vm.pop()
	a := vm.pop()

	var result value.Value
	var err error
	switch op {
	case chunk.ADD:
		result, err = a.Add(b)
	case chunk.SUB:
		result, err = a.Sub(b)
	case chunk.MUL:
		result, err = a.Mul(b)
	case chunk.DIV:
		result, err = a.Div(b)
	case chunk.MIN:
		result, err = a.Min(b)
	case chunk.MAX:
		result, err = a.Max(b)
	case chunk.LT:
		result, err = a.Compare(b, value.CompareLT)
	case chunk.LTE:
		result, err = a.Compare(b, value.CompareLTE)
	case chunk.GT:
		result, err = a.Compare(b, value.CompareGT)
	case chunk.GTE:
		result, err = a.Compare(b, value.CompareGTE)
	}
	if err != nil {
		return vm.errAt(pos, err.Error())
	}
	vm.push(result)
	return nil
}

// printTop renders the top n stack values left-to-right (the order they
// were pushed in, matching their order in the VISIBLE statement) and pops
// them, per spec.md §4.5's PRINT/PRINTLN semantics.
func (vm *VM) printTop(n int, newline bool) {
	start := vm.stackTop - n
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(vm.stack[start+i].String())
	}
	if newline {
		b.WriteByte('\n')
	}
	vm.out.WriteString(b.String())
	vm.stackTop -= n
}

func (vm *VM) callValue(callee value.Value, argc int, pos token.Pos) error {
	if callee.Type != value.Function {
		return vm.errAt(pos, fmt.Sprintf("cannot call a %s value", typeName(callee.Type)))
	}
	fn := callee.Fn
	if argc != fn.Arity {
		return vm.errAt(pos, fmt.Sprintf("%s expects %d argument(s), got %d", fn.Name, fn.Arity, argc))
	}
	c, ok := fn.Chunk.(*chunk.Chunk)
	if !ok {
		return vm.errAt(pos, fmt.Sprintf("function %s has no compiled body", fn.Name))
	}
	if vm.frameCount == FramesMax {
		return vm.errAt(pos, "call stack overflow")
	}
	frameStart := vm.stackTop - argc - 1
	vm.frames[vm.frameCount] = CallFrame{fn: fn, chunk: c, frameStart: frameStart}
	vm.frameCount++
	return nil
}

func typeName(t value.Type) string {
	switch t {
	case value.Null:
		return "NOOB"
	case value.Bool:
		return "TROOF"
	case value.Integer:
		return "NUMBR"
	case value.Float:
		return "NUMBAR"
	case value.String:
		return "YARN"
	case value.Function:
		return "FUNKSHUN"
	default:
		return "?"
	}
}
