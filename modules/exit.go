package modules

import "sync"

var (
	exitStatusCode int
	exitStatusLock sync.Mutex
)

// SetExitStatusCode sets the exit code that the program shall return to the host after shutdown.
func SetExitStatusCode(n int) {
	exitStatusLock.Lock()
	defer exitStatusLock.Unlock()
	exitStatusCode = n
}

// GetExitStatusCode waits for the shutdown to complete and then returns the exit code.
func GetExitStatusCode() int {
	<-shutdownCompleteSignal

	exitStatusLock.Lock()
	defer exitStatusLock.Unlock()
	return exitStatusCode
}
