package maincmd

import (
	"fmt"

	"github.com/mna/mainer"

	"github.com/roguh/clox/lang/compiler"
)

// DisCommand compiles cmd and prints the disassembly of its top-level
// script, for the '-d'/'--dis' CLI mode. Nested function bodies are not
// disassembled.
func DisCommand(stdio mainer.Stdio, cmd string) error {
	_, dumps, err := compiler.CompileDebug([]byte(cmd))
	for _, d := range dumps {
		fmt.Fprintln(stdio.Stdout, d)
	}
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	return nil
}
