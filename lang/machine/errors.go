package machine

import (
	"fmt"
	"strings"
)

// BacktraceFrame is one line of a RuntimeError's backtrace, innermost call
// first.
type BacktraceFrame struct {
	Line, Column int
	Function     string
}

// RuntimeError is returned by VM.Run/Interpret when execution fails after
// compilation succeeded: a type mismatch, an undefined variable, an
// out-of-bounds index, a non-callable call, an arity mismatch, or a stack
// overflow. Error() renders it exactly as spec.md's runtime diagnostic
// format: "ERROR: <message>" followed by one "    [line:col] in <fn>" line
// per frame (innermost first), then the "Did you mean" hint last — the same
// order runtimeErrorLog followed by the separate ERR_PRINT hint produces.
type RuntimeError struct {
	Message   string
	Backtrace []BacktraceFrame
	// Hint, when non-empty, is appended as a "Did you mean one of: ..." line
	// (used for undefined-global errors).
	Hint string
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString("ERROR: ")
	b.WriteString(e.Message)
	for _, fr := range e.Backtrace {
		fmt.Fprintf(&b, "\n    [%d:%d] in %s", fr.Line, fr.Column, fr.Function)
	}
	if e.Hint != "" {
		b.WriteByte('\n')
		b.WriteString(e.Hint)
	}
	return b.String()
}
