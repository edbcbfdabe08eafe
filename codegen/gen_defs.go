package codegen

import (
	"tisp/report"
	"tisp/syntax"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

// genDefine compiles a definition form: `(define name value)` binds a
// variable, `(define (name a1 ... ak) body)` defines a function.  Definition
// forms evaluate to an Int operand with no value, which suppresses top-level
// printing of their result.
func (g *Generator) genDefine() Operand {
	if g.got(syntax.TOK_LPAREN) {
		g.adv()
		return g.genFuncDefine()
	}

	name := g.tok.Value
	g.expect(syntax.TOK_IDENT, "expected identifier")

	val := g.rvalue(g.genExpr())

	slot, ok := g.fr.vars[name]
	if !ok {
		// The first binding allocates the slot and fixes its type.
		slot = Operand{Kind: val.Kind, Val: g.fr.newAlloca(val.Kind.irType()), Ptr: true}
		g.fr.vars[name] = slot
	}

	val = g.convert(val, slot.Kind)
	g.fr.block.NewStore(val.Val, slot.Val)

	g.expect(syntax.TOK_RPAREN, "expected )")

	return Operand{Kind: TypeInt}
}

// genFuncDefine compiles a function definition `(define (name a1 ... ak)
// body)`.  The name is registered with a provisional Int return kind before
// the body is compiled so that recursive calls type-check; the registration
// and the function's signature are updated to the inferred kind once the body
// is done.  All parameters are typed as Int by convention.
//
// The body is compiled in a fresh frame, so the enclosing frame (its variable
// table, blocks, and counters) is never touched.
func (g *Generator) genFuncDefine() Operand {
	nameTok := g.tok
	name := g.tok.Value
	g.expect(syntax.TOK_IDENT, "expected identifier")

	var argNames []string
	var params []*ir.Param
	for g.got(syntax.TOK_IDENT) {
		argNames = append(argNames, g.tok.Value)
		params = append(params, ir.NewParam(g.tok.Value, types.I32))
		g.adv()
	}
	g.expect(syntax.TOK_RPAREN, "expected )")

	if _, ok := g.funcs[name]; ok {
		report.Throw(nameTok.Span, "function redefined")
	}

	fn := g.mod.NewFunc(name, types.I32, params...)
	fi := &funcInfo{fn: fn, ret: TypeInt}
	g.funcs[name] = fi

	outer := g.fr
	g.fr = newFrame(fn)
	for i, argName := range argNames {
		g.fr.vars[argName] = Operand{Kind: TypeInt, Val: params[i]}
	}

	res := g.rvalue(g.genExpr())

	fi.ret = res.Kind
	fn.Sig.RetType = res.Kind.irType()
	g.fr.block.NewRet(res.Val)

	g.fr = outer

	g.expect(syntax.TOK_RPAREN, "expected )")

	return Operand{Kind: TypeInt}
}
