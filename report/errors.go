package report

import "fmt"

// TextSpan represents a range or "span" of source text.  It is used to specify
// erroneous or otherwise significant source text in a Tisp program.  Text
// spans are inclusive on both sides: the starting position is the position of
// the first character in the span and the ending position is the position of
// the last character in the span.  The line and column numbers are
// zero-indexed.
type TextSpan struct {
	// The line and column beginning the text span.
	StartLine, StartCol int

	// The line and column ending the text span.
	EndLine, EndCol int
}

// NewSpanOver returns a new text span which spans over and between the two
// given text spans.
func NewSpanOver(start, end *TextSpan) *TextSpan {
	return &TextSpan{
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

// -----------------------------------------------------------------------------

// CompileError is an error produced while compiling erroneous input code:
// a lexical, syntactic, or semantic error.  The first one raised aborts the
// compilation that produced it.
type CompileError struct {
	// The error message.
	Message string

	// The span over which the error occurs.  May be nil when no position is
	// known (eg. an error at the end of the file).
	Span *TextSpan
}

func (ce *CompileError) Error() string {
	return ce.Message
}

// Raise creates a new compile error over the given span.
func Raise(span *TextSpan, msg string, args ...interface{}) *CompileError {
	return &CompileError{Message: fmt.Sprintf(msg, args...), Span: span}
}

// Throw raises a compile error as a panic so that it unwinds to the enclosing
// CatchErrors call.  Compilation never recovers from its first error, so
// unwinding is always the right behavior.
// NB: Only call this beneath a deferred CatchErrors.
func Throw(span *TextSpan, msg string, args ...interface{}) {
	panic(Raise(span, msg, args...))
}

// CatchErrors recovers a thrown CompileError and stores it in `err`.  Any
// other panic is re-raised.
// NB: This function must ALWAYS be deferred.
func CatchErrors(err *error) {
	if x := recover(); x != nil {
		if cerr, ok := x.(*CompileError); ok {
			*err = cerr
		} else {
			panic(x)
		}
	}
}
