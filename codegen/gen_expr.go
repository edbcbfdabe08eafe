package codegen

import (
	"strconv"

	"tisp/report"
	"tisp/syntax"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// genExpr compiles the expression beginning at the current token and returns
// its operand descriptor, appending IR to the current block as a side effect.
// All compilation functions assume they begin with the generator centered on
// the first token of their form and consume every token of it, leaving the
// generator on the next token.
func (g *Generator) genExpr() Operand {
	switch g.tok.Kind {
	case syntax.TOK_LPAREN:
		g.adv()
		return g.genForm()
	case syntax.TOK_IDENT:
		{
			v, ok := g.fr.vars[g.tok.Value]
			if !ok {
				report.Throw(g.tok.Span, "undefined variable")
			}

			g.adv()
			return v
		}
	case syntax.TOK_INTLIT:
		{
			n, err := strconv.ParseInt(g.tok.Value, 10, 32)
			if err != nil {
				report.Throw(g.tok.Span, "invalid numeric literal")
			}

			g.adv()
			return Operand{Kind: TypeInt, Val: constant.NewInt(types.I32, n)}
		}
	case syntax.TOK_FLOATLIT:
		{
			f, err := strconv.ParseFloat(g.tok.Value, 64)
			if err != nil {
				report.Throw(g.tok.Span, "invalid numeric literal")
			}

			g.adv()
			return Operand{Kind: TypeFloat, Val: constant.NewFloat(types.Double, f)}
		}
	default:
		report.Throw(g.tok.Span, "unexpected token")
		return Operand{} // unreachable
	}
}

// genForm compiles a parenthesized form.  The leading `(` has already been
// consumed; the form consumes through its closing `)`.
func (g *Generator) genForm() Operand {
	switch g.tok.Kind {
	case syntax.TOK_DEFINE:
		g.adv()
		return g.genDefine()
	case syntax.TOK_LOOP:
		g.adv()
		return g.genLoop()
	case syntax.TOK_IF:
		g.adv()
		return g.genIf()
	case syntax.TOK_COND:
		g.adv()
		return g.genCond()
	case syntax.TOK_IDENT:
		if fi, ok := g.funcs[g.tok.Value]; ok {
			g.adv()
			return g.genCall(fi)
		}
	}

	return g.genOpApp()
}

// -----------------------------------------------------------------------------

// genOpApp compiles an operator application `(op e1 e2 ... en)`.  Arithmetic
// operators left-fold over two or more operands; comparisons are exactly
// binary and produce a one-bit result tracked as Int.
func (g *Generator) genOpApp() Operand {
	op := g.tok.Value
	g.expect(syntax.TOK_OPER, "expected operator")

	acc := g.genExpr()

	if _, ok := cmpPreds[op]; ok {
		acc = g.genCmpOp(op, acc, g.genExpr())
		g.expect(syntax.TOK_RPAREN, "expected )")
		return acc
	}

	acc = g.genBinOp(op, acc, g.genExpr())
	for !g.got(syntax.TOK_RPAREN) {
		acc = g.genBinOp(op, acc, g.genExpr())
	}
	g.adv()

	return acc
}

// cmpPreds maps comparison operators to their integer and floating
// predicates.
var cmpPreds = map[string]struct {
	ipred enum.IPred
	fpred enum.FPred
}{
	"<": {enum.IPredSLT, enum.FPredOLT},
	">": {enum.IPredSGT, enum.FPredOGT},
	"=": {enum.IPredEQ, enum.FPredOEQ},
}

// genBinOp emits one arithmetic fold step.  Mixed Int/Float operands promote
// the Int side to Float; the result type follows the promotion.
func (g *Generator) genBinOp(op string, left, right Operand) Operand {
	left = g.rvalue(left)
	right = g.rvalue(right)

	kind := TypeInt
	if left.Kind == TypeFloat || right.Kind == TypeFloat {
		kind = TypeFloat
		left = g.promote(left)
		right = g.promote(right)
	}

	var res value.Value
	switch op {
	case "+":
		if kind == TypeFloat {
			res = g.fr.block.NewFAdd(left.Val, right.Val)
		} else {
			res = g.fr.block.NewAdd(left.Val, right.Val)
		}
	case "-":
		if kind == TypeFloat {
			res = g.fr.block.NewFSub(left.Val, right.Val)
		} else {
			res = g.fr.block.NewSub(left.Val, right.Val)
		}
	case "*":
		if kind == TypeFloat {
			res = g.fr.block.NewFMul(left.Val, right.Val)
		} else {
			res = g.fr.block.NewMul(left.Val, right.Val)
		}
	case "/":
		if kind == TypeFloat {
			res = g.fr.block.NewFDiv(left.Val, right.Val)
		} else {
			res = g.fr.block.NewSDiv(left.Val, right.Val)
		}
	}

	return Operand{Kind: kind, Val: res}
}

// genCmpOp emits a comparison.  The result is a one-bit value tracked as Int.
func (g *Generator) genCmpOp(op string, left, right Operand) Operand {
	left = g.rvalue(left)
	right = g.rvalue(right)

	preds := cmpPreds[op]

	if left.Kind == TypeFloat || right.Kind == TypeFloat {
		left = g.promote(left)
		right = g.promote(right)
		return Operand{Kind: TypeInt, Val: g.fr.block.NewFCmp(preds.fpred, left.Val, right.Val)}
	}

	return Operand{Kind: TypeInt, Val: g.fr.block.NewICmp(preds.ipred, left.Val, right.Val)}
}

// -----------------------------------------------------------------------------

// genCall compiles a call site `(name arg1 ... argk)`.  The function name has
// already been consumed.  Arguments are compiled and loaded left to right; the
// call is typed by the registered return kind.  No arity or parameter type
// checking is performed.
func (g *Generator) genCall(fi *funcInfo) Operand {
	var args []value.Value
	for !g.got(syntax.TOK_RPAREN) {
		args = append(args, g.rvalue(g.genExpr()).Val)
	}
	g.adv()

	return Operand{Kind: fi.ret, Val: g.fr.block.NewCall(fi.fn, args...)}
}
