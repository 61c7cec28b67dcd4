package log

import (
	"fmt"
	"os"
	"time"
)

// Log lines are written to stderr only. Stdout is reserved for the primary
// byte stream and must never carry diagnostics.

func writeLine(line *logLine) {
	fmt.Fprintln(os.Stderr, formatLine(line, colorsEnabled()))
}

func colorsEnabled() bool {
	return !noColorFlag
}

func startWriter() {
	shutdownWaitGroup.Add(1)
	go writer()
}

func writer() {
	defer shutdownWaitGroup.Done()

	for {
		// wait until logs need to be processed
		select {
		case <-logsWaiting:
			logsWaitingFlag.UnSet()
		case <-forceEmptyingOfBuffer:
		case <-shutdownSignal:
			finalizeWriting()
			return
		}

		// write all waiting logs
	writeLoop:
		for {
			select {
			case line := <-logBuffer:
				writeLine(line)
			default:
				break writeLoop
			}
		}
	}
}

func finalizeWriting() {
	for {
		select {
		case line := <-logBuffer:
			writeLine(line)
		case <-time.After(10 * time.Millisecond):
			return
		}
	}
}
