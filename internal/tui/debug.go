package tui

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// debugLogPath is read once at startup from TACKLE_TUI_DEBUG_LOG. When empty,
// debug logging is off and debugLogf is a no-op.
var debugLogPath = strings.TrimSpace(os.Getenv("TACKLE_TUI_DEBUG_LOG"))

// debugLogf appends one compact line to the debug log file. Failures are
// swallowed; diagnostics must never take the TUI down.
func debugLogf(format string, args ...any) {
	if debugLogPath == "" {
		return
	}
	f, err := os.OpenFile(debugLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s "+format+"\n", append([]any{time.Now().Format("15:04:05.000")}, args...)...)
}
