package gpt

import (
	"fmt"
	"io"
	"os"
)

// debug is a single package-level flag, read freely and never fed back
// into control flow.
var debug = false

// debugOut is where logf writes when debug is enabled; it defaults to
// os.Stderr.
var debugOut io.Writer = os.Stderr

// SetDebug toggles diagnostic logging. Messages never affect behaviour;
// they exist purely for a human watching the output.
func SetDebug(on bool) { debug = on }

func logf(format string, args ...any) {
	if !debug {
		return
	}
	fmt.Fprintf(debugOut, "gpt: "+format+"\n", args...)
}
