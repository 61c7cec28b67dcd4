package run

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/tickseed/tickseed/log"
	"github.com/tickseed/tickseed/modules"
)

var printStackOnExit bool

func init() {
	flag.BoolVar(&printStackOnExit, "print-stack-on-exit", false, "prints the stack before shutting down")
}

// Run executes a full program lifecycle (including signal handling) based on
// modules. Just empty-import required packages and do os.Exit(run.Run()).
func Run() int {

	// Start
	err := modules.Start()
	if err != nil {
		if err == modules.ErrCleanExit {
			return 0
		}

		if printStackOnExit {
			printStackTo(os.Stderr)
		}

		modules.SetExitStatusCode(1)
		go func() {
			_ = modules.Shutdown()
		}()
		return modules.GetExitStatusCode()
	}

	// Shutdown
	// catch interrupt for clean shutdown
	signalCh := make(chan os.Signal, 1)
	signal.Notify(
		signalCh,
		os.Interrupt,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)

	select {
	case sig := <-signalCh:
		log.Warningf("main: program was interrupted by %s, shutting down", sig)

		// catch signals during shutdown
		forceCnt := 5
		go func() {
			for {
				<-signalCh
				forceCnt--
				if forceCnt > 0 {
					fmt.Fprintf(os.Stderr, " <INTERRUPT> again, but already shutting down. %d more to force.\n", forceCnt)
				} else {
					fmt.Fprintln(os.Stderr, "===== FORCED EXIT =====")
					printStackTo(os.Stderr)
					os.Exit(1)
				}
			}
		}()

		if printStackOnExit {
			printStackTo(os.Stderr)
		}

		go func() {
			time.Sleep(1 * time.Minute)
			fmt.Fprintln(os.Stderr, "===== TAKING TOO LONG FOR SHUTDOWN =====")
			printStackTo(os.Stderr)
			os.Exit(1)
		}()

		go func() {
			_ = modules.Shutdown()
		}()

	case <-modules.ShuttingDown():
	}

	// wait for shutdown to complete, then exit
	return modules.GetExitStatusCode()
}

func printStackTo(writer io.Writer) {
	fmt.Fprintln(writer, "=== PRINTING TRACES ===")
	_ = pprof.Lookup("goroutine").WriteTo(writer, 1)
	fmt.Fprintln(writer, "=== END TRACES ===")
}
