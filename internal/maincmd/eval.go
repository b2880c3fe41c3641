package maincmd

import (
	"fmt"

	"github.com/mna/mainer"

	"github.com/roguh/clox/lang/machine"
)

// EvalCommand interprets cmd as a complete program and reports any error to
// stdio.Stderr, exactly as a single REPL line or a positional file argument
// would, but for the '-c'/'--command' one-shot mode.
func EvalCommand(stdio mainer.Stdio, cmd string, debug bool) error {
	vm := machine.New()
	vm.Stdout = stdio.Stdout
	vm.Stderr = stdio.Stderr
	vm.DebugTrace = debug
	if err := vm.Interpret([]byte(cmd)); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	return nil
}
