package codegen

import (
	"tisp/syntax"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
)

// genIf compiles a conditional form `(if c t e)`.  Both arms branch to a
// shared end block whose phi merges their results; the phi takes the type of
// the then-arm.
func (g *Generator) genIf() Operand {
	cond := g.truth(g.genExpr())

	thenB := g.fr.newBlock()
	elseB := g.fr.newBlock()
	endB := g.fr.newBlock()

	g.fr.block.NewCondBr(cond, thenB, elseB)

	// Compiling an arm may open nested control flow, so the block feeding the
	// phi is whatever block is current once the arm is done.
	g.fr.block = thenB
	th := g.rvalue(g.genExpr())
	thB := g.fr.block
	g.fr.block.NewBr(endB)

	g.fr.block = elseB
	el := g.rvalue(g.genExpr())
	elB := g.fr.block
	g.fr.block.NewBr(endB)

	g.fr.block = endB
	phi := endB.NewPhi(ir.NewIncoming(th.Val, thB), ir.NewIncoming(el.Val, elB))

	g.expect(syntax.TOK_RPAREN, "expected )")

	return Operand{Kind: th.Kind, Val: phi}
}

// genCond compiles a multi-arm conditional `(cond [c1 r1] [c2 r2] ...)`.
// Arms are tried top to bottom; each false path falls through to the next
// arm's test.  A default of integer 0 covers the path on which no arm was
// true.  The join phi receives one incoming per arm plus the default and
// takes the first arm's type.
func (g *Generator) genCond() Operand {
	endB := g.fr.newBlock()

	var incoming []*ir.Incoming
	resKind := TypeInt

	for first := true; g.got(syntax.TOK_LBRACKET); first = false {
		g.adv()

		cond := g.truth(g.genExpr())
		thenB := g.fr.newBlock()
		nextB := g.fr.newBlock()
		g.fr.block.NewCondBr(cond, thenB, nextB)

		g.fr.block = thenB
		r := g.rvalue(g.genExpr())
		if first {
			resKind = r.Kind
		}
		incoming = append(incoming, ir.NewIncoming(r.Val, g.fr.block))
		g.fr.block.NewBr(endB)

		g.fr.block = nextB
		g.expect(syntax.TOK_RBRACKET, "expected ]")
	}

	incoming = append(incoming, ir.NewIncoming(constant.NewInt(types.I32, 0), g.fr.block))
	g.fr.block.NewBr(endB)

	g.fr.block = endB
	phi := endB.NewPhi(incoming...)

	g.expect(syntax.TOK_RPAREN, "expected )")

	return Operand{Kind: resKind, Val: phi}
}

// genLoop compiles a counted loop `(loop n body...)` as a classic three-block
// loop: a header holding the induction-variable phi and the bound test, the
// body, and an exit block.  The phi starts with its pre-header incoming only;
// the back-edge incoming is attached once the body has been compiled and the
// increment emitted, since neither the increment value nor the back-edge
// block is known until then.
func (g *Generator) genLoop() Operand {
	count := g.rvalue(g.genExpr())

	preB := g.fr.block
	headerB := g.fr.newBlock()
	bodyB := g.fr.newBlock()
	exitB := g.fr.newBlock()

	preB.NewBr(headerB)

	g.fr.block = headerB
	ivar := headerB.NewPhi(ir.NewIncoming(constant.NewInt(types.I32, 0), preB))
	cond := headerB.NewICmp(enum.IPredSLT, ivar, count.Val)
	headerB.NewCondBr(cond, bodyB, exitB)

	// Body results are discarded; only definitions in the body are observable.
	g.fr.block = bodyB
	for !g.got(syntax.TOK_RPAREN) {
		g.genExpr()
	}
	g.adv()

	backB := g.fr.block
	next := g.fr.block.NewAdd(ivar, constant.NewInt(types.I32, 1))
	g.fr.block.NewBr(headerB)

	ivar.Incs = append(ivar.Incs, ir.NewIncoming(next, backB))

	g.fr.block = exitB

	return Operand{Kind: TypeInt}
}
