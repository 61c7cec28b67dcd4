package modules

import (
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/tevino/abool"

	"github.com/tickseed/tickseed/log"
)

var (
	shutdownSignal         = make(chan struct{})
	shutdownSignalClosed   = abool.NewBool(false)
	shutdownCompleteSignal = make(chan struct{})

	moduleStopTimeout = 3 * time.Second
)

// ShuttingDown returns a channel read on the global shutdown signal.
func ShuttingDown() <-chan struct{} {
	return shutdownSignal
}

// Shutdown stops all modules in the correct order.
func Shutdown() error {
	if shutdownSignalClosed.SetToIf(false, true) {
		close(shutdownSignal)
	} else {
		// shutdown was already issued
		return nil
	}

	modulesLock.RLock()
	defer modulesLock.RUnlock()

	if startComplete.IsSet() {
		log.Warning("modules: starting shutdown...")
	} else {
		log.Warning("modules: aborting, shutting down...")
	}

	var lastErr *multierror.Error
	stoppedCnt := 0

	for {
		execCnt := 0
		for _, m := range modules {
			if m.readyToStop() {
				execCnt++
				m.inTransition.Set()

				err := m.shutdown()
				if err != nil {
					log.Errorf("modules: could not stop module %s: %s", m.Name, err)
					lastErr = multierror.Append(lastErr, err)
				}

				m.Stopped.Set()
				m.inTransition.UnSet()
				stoppedCnt++
				log.Infof("modules: stopped %s", m.Name)
			}
		}

		if execCnt == 0 {
			break
		}
	}

	if stoppedCnt > 0 || startComplete.IsSet() {
		log.Info("modules: shutdown complete")
	}
	log.Shutdown()

	close(shutdownCompleteSignal)
	return lastErr.ErrorOrNil()
}

func (m *Module) shutdown() error {
	// signal shutdown
	m.shutdownFlag.Set()
	m.cancelCtx()

	// wait for workers
	done := make(chan struct{})
	go func() {
		m.workerGroup.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(moduleStopTimeout):
		log.Warningf("modules: timed out while waiting for workers of %s to finish", m.Name)
	}

	// call shutdown function
	return m.runCtrlFn("stop module", m.stopFn)
}
