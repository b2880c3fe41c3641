package maincmd

import (
	"bufio"
	"fmt"

	"github.com/mna/mainer"

	"github.com/roguh/clox/lang/machine"
)

// REPL reads one line at a time from stdio.Stdin and feeds each to the same
// *machine.VM, so `var` declarations and function definitions accumulate
// across lines exactly as interpretOrPrint's reuse of the process-wide vm
// does in the original source. A line that fails to compile or run prints
// its diagnostic and the REPL continues; only EOF on stdin ends the loop,
// and reaching EOF is a successful exit per spec.md §6.
func REPL(stdio mainer.Stdio, debug bool) error {
	vm := machine.New()
	vm.Stdout = stdio.Stdout
	vm.Stderr = stdio.Stderr
	vm.DebugTrace = debug

	scanner := bufio.NewScanner(stdio.Stdin)
	for {
		fmt.Fprint(stdio.Stdout, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(stdio.Stdout)
			return nil
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		if err := vm.Interpret([]byte(line)); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
		}
	}
}
