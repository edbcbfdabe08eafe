package codegen

import (
	"bufio"
	"fmt"
	"strings"

	"tisp/report"
	"tisp/syntax"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Type is a Tisp value type.  The two types form a lattice in which Float
// dominates Int: mixed arithmetic promotes the Int side to Float.
type Type int

const (
	TypeInt   Type = iota // 32-bit signed integer
	TypeFloat             // 64-bit IEEE-754 double
)

// irType returns the LLVM type used to represent t.
func (t Type) irType() types.Type {
	if t == TypeFloat {
		return types.Double
	}

	return types.I32
}

// Operand is the descriptor an expression compiles to.  Val is the LLVM value
// holding the result; it is nil for forms that produce no printable result
// (definitions and loops).  Ptr indicates that Val is a stack slot that must
// be loaded before use.
type Operand struct {
	Kind Type
	Val  value.Value
	Ptr  bool
}

// funcInfo records a user-defined function.  The return kind is registered
// provisionally as Int before the body is compiled so that recursive calls
// type-check; it is updated to the inferred kind once the body is done.
type funcInfo struct {
	fn  *ir.Func
	ret Type
}

// frame is the per-function emission state: the function being emitted, its
// entry block (which collects stack allocations at its top), the block
// currently receiving instructions, the flat variable table, and the label
// counter.  Compiling a function definition builds a fresh frame and leaves
// the enclosing frame untouched.
type frame struct {
	fn    *ir.Func
	entry *ir.Block
	block *ir.Block
	vars  map[string]Operand

	lbl      int
	nallocas int
}

func newFrame(fn *ir.Func) *frame {
	entry := fn.NewBlock("entry")

	return &frame{
		fn:    fn,
		entry: entry,
		block: entry,
		vars:  make(map[string]Operand),
	}
}

// newBlock appends a fresh labeled block to the frame's function.  It does
// *not* make the new block current.
func (fr *frame) newBlock() *ir.Block {
	b := fr.fn.NewBlock(fmt.Sprintf("L%d", fr.lbl))
	fr.lbl++
	return b
}

// newAlloca emits a stack allocation into the frame's entry block, above any
// instructions the entry block has accumulated so that all of a function's
// slots are grouped at the top of its entry.
func (fr *frame) newAlloca(elem types.Type) *ir.InstAlloca {
	a := ir.NewAlloca(elem)

	insts := append(fr.entry.Insts, nil)
	copy(insts[fr.nallocas+1:], insts[fr.nallocas:])
	insts[fr.nallocas] = a
	fr.entry.Insts = insts
	fr.nallocas++

	return a
}

// -----------------------------------------------------------------------------

// Generator compiles a Tisp source file into an LLVM module in a single
// recursive-descent pass: parsing, type inference, and IR construction happen
// in one traversal of the token stream.
type Generator struct {
	lexer *syntax.Lexer
	tok   *syntax.Token

	mod    *ir.Module
	printf *ir.Func

	// Format string constants for the top-level print calls.
	intFmt, floatFmt *ir.Global

	// funcs maps function names to their registrations.  Functions share a
	// single flat namespace.
	funcs map[string]*funcInfo

	// fr is the frame of the function currently receiving instructions: the
	// synthesized main at top level, or the function body being compiled.
	fr *frame
}

// Compile compiles a Tisp source string into the textual IR of an LLVM
// module.  The path is recorded as the module's source filename.  The first
// lexical, syntactic, or semantic error aborts compilation and is returned.
func Compile(path, src string) (out string, err error) {
	defer report.CatchErrors(&err)

	g := &Generator{
		lexer: syntax.NewLexer(bufio.NewReader(strings.NewReader(src))),
		mod:   ir.NewModule(),
		funcs: make(map[string]*funcInfo),
	}

	g.mod.SourceFilename = path
	g.emitPrelude()

	mainFn := g.mod.NewFunc("main", types.I32)
	g.fr = newFrame(mainFn)

	for g.adv(); !g.got(syntax.TOK_EOF); {
		res := g.loadVal(g.genExpr())
		if res.Val != nil {
			g.genPrint(res)
		}
	}

	g.fr.block.NewRet(constant.NewInt(types.I32, 0))

	// The synthesized main goes after the user's function definitions, so the
	// module reads prelude, definitions, main.
	for i, fn := range g.mod.Funcs {
		if fn == mainFn {
			g.mod.Funcs = append(append(g.mod.Funcs[:i], g.mod.Funcs[i+1:]...), mainFn)
			break
		}
	}

	return g.mod.String(), nil
}

// emitPrelude declares the external formatted-print routine and defines the
// two private format-string constants.
func (g *Generator) emitPrelude() {
	g.printf = g.mod.NewFunc("printf", types.I32, ir.NewParam("", types.I8Ptr))
	g.printf.Sig.Variadic = true

	g.intFmt = g.newFmtString(".str.int", "%d\n\x00")
	g.floatFmt = g.newFmtString(".str.float", "%f\n\x00")
}

func (g *Generator) newFmtString(name, s string) *ir.Global {
	glob := g.mod.NewGlobalDef(name, constant.NewCharArrayFromString(s))
	glob.Linkage = enum.LinkagePrivate
	glob.Immutable = true
	return glob
}

// genPrint emits a printf call for a top-level result.
func (g *Generator) genPrint(res Operand) {
	fmtStr := g.intFmt
	if res.Kind == TypeFloat {
		fmtStr = g.floatFmt
	}

	zero := constant.NewInt(types.I32, 0)
	fmtPtr := constant.NewGetElementPtr(types.NewArray(4, types.I8), fmtStr, zero, zero)

	g.fr.block.NewCall(g.printf, fmtPtr, res.Val)
}

// -----------------------------------------------------------------------------

// adv moves the generator forward one token.
func (g *Generator) adv() {
	tok, err := g.lexer.NextToken()
	if err != nil {
		if cerr, ok := err.(*report.CompileError); ok {
			panic(cerr)
		}

		report.Throw(nil, "%s", err.Error())
	}

	g.tok = tok
}

// got returns true if the generator is on a token of the given kind.
func (g *Generator) got(kind int) bool {
	return g.tok.Kind == kind
}

// expect checks that the generator is on a token of the given kind and moves
// past it, raising a compile error with the given message if not.
func (g *Generator) expect(kind int, msg string) {
	if !g.got(kind) {
		report.Throw(g.tok.Span, msg)
	}

	g.adv()
}

// -----------------------------------------------------------------------------

// load turns a stack-slot operand into an SSA value by emitting a load
// against the slot.  Non-pointer operands pass through unchanged.
func (g *Generator) load(o Operand) Operand {
	if o.Val == nil || !o.Ptr {
		return o
	}

	return Operand{Kind: o.Kind, Val: g.fr.block.NewLoad(o.Kind.irType(), o.Val)}
}

// loadVal loads an operand and widens one-bit comparison results to a full
// i32 so the value can be consumed anywhere an Int is expected.
func (g *Generator) loadVal(o Operand) Operand {
	o = g.load(o)
	if o.Val != nil && o.Val.Type().Equal(types.I1) {
		o.Val = g.fr.block.NewZExt(o.Val, types.I32)
	}

	return o
}

// rvalue loads an operand for use in a position that requires a value.
// Definition and loop forms produce no value: using one here is an error.
func (g *Generator) rvalue(o Operand) Operand {
	if o.Val == nil {
		report.Throw(nil, "expression has no value")
	}

	return g.loadVal(o)
}

// truth compiles an operand down to the one-bit condition used by conditional
// branches.  Comparison results are already one-bit; anything else is tested
// against zero.
func (g *Generator) truth(o Operand) value.Value {
	if o.Val == nil {
		report.Throw(nil, "expression has no value")
	}

	o = g.load(o)

	if o.Val.Type().Equal(types.I1) {
		return o.Val
	}

	if o.Kind == TypeFloat {
		return g.fr.block.NewFCmp(enum.FPredONE, o.Val, constant.NewFloat(types.Double, 0))
	}

	return g.fr.block.NewICmp(enum.IPredNE, o.Val, constant.NewInt(types.I32, 0))
}

// promote converts an operand to Float by emitting a signed-integer-to-double
// conversion for the Int side.  The operand must already be loaded.
func (g *Generator) promote(o Operand) Operand {
	if o.Kind == TypeInt {
		return Operand{Kind: TypeFloat, Val: g.fr.block.NewSIToFP(o.Val, types.Double)}
	}

	return o
}

// convert coerces a loaded operand to the given kind.  It is used when a
// re-definition stores a value of a different type into an existing slot: the
// slot's type was fixed by the first binding.
func (g *Generator) convert(o Operand, kind Type) Operand {
	if o.Kind == kind {
		return o
	}

	if kind == TypeFloat {
		return g.promote(o)
	}

	return Operand{Kind: TypeInt, Val: g.fr.block.NewFPToSI(o.Val, types.I32)}
}
