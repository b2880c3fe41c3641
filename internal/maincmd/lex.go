package maincmd

import (
	"fmt"

	"github.com/mna/mainer"

	"github.com/roguh/clox/lang/scanner"
)

// LexCommand prints one line per token scanned from cmd, for the
// '-x'/'--lex' CLI mode.
func LexCommand(stdio mainer.Stdio, cmd string) error {
	for _, tok := range scanner.ScanAll([]byte(cmd)) {
		fmt.Fprintln(stdio.Stdout, scanner.FormatToken(tok))
	}
	return nil
}
