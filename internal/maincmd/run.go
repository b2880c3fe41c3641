package maincmd

import (
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/roguh/clox/lang/machine"
)

// RunFiles interprets each file in order against one shared VM, stopping at
// the first error (matching the original source's argv loop, which never
// attempts the next file once readFile/interpretString fails for one).
func RunFiles(stdio mainer.Stdio, debug bool, files ...string) error {
	vm := machine.New()
	vm.Stdout = stdio.Stdout
	vm.Stderr = stdio.Stderr
	vm.DebugTrace = debug

	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "ERROR: cannot read %s: %s\n", path, err)
			return err
		}
		if err := vm.Interpret(src); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
	}
	return nil
}
