package modules

import (
	"fmt"
	"os"

	"github.com/tevino/abool"

	"github.com/tickseed/tickseed/log"
)

var (
	startComplete       = abool.NewBool(false)
	startCompleteSignal = make(chan struct{})
)

// StartCompleted returns whether starting has completed.
func StartCompleted() bool {
	return startComplete.IsSet()
}

// WaitForStartCompletion returns as soon as starting has completed.
func WaitForStartCompletion() <-chan struct{} {
	return startCompleteSignal
}

// Start starts all modules in the correct order. In case of an error, it will automatically shutdown again.
func Start() error {
	modulesLock.RLock()
	defer modulesLock.RUnlock()

	// inter-link modules
	err := initDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: failed to initialize modules: %s\n", err)
		return err
	}

	// parse flags
	err = parseFlags()
	if err != nil {
		if err != ErrCleanExit {
			fmt.Fprintf(os.Stderr, "CRITICAL ERROR: failed to parse flags: %s\n", err)
		}
		return err
	}

	// prep modules
	err = prepareModules()
	if err != nil {
		if err != ErrCleanExit {
			fmt.Fprintf(os.Stderr, "CRITICAL ERROR: %s\n", err)
		}
		return err
	}

	// start logging
	err = log.Start()
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: failed to start logging: %s\n", err)
		return err
	}

	// start modules
	log.Info("modules: initiating...")
	err = startModules()
	if err != nil {
		log.Critical(err.Error())
		return err
	}

	// complete startup
	log.Infof("modules: started %d modules", len(modules))
	if startComplete.SetToIf(false, true) {
		close(startCompleteSignal)
	}

	return nil
}

func prepareModules() error {
	reportCnt := 0

	for reportCnt < len(modules) {
		execCnt := 0

		for _, m := range modules {
			if m.readyToPrep() {
				execCnt++
				m.inTransition.Set()

				err := m.runCtrlFn("prep module", m.prepFn)
				m.inTransition.UnSet()
				if err != nil {
					if err == ErrCleanExit {
						return err
					}
					return fmt.Errorf("failed to prep module %s: %w", m.Name, err)
				}
				m.Prepped.Set()
				reportCnt++
			}
		}

		// check for dep loop
		if execCnt == 0 {
			return fmt.Errorf("modules: dependency loop detected, cannot continue")
		}
	}

	return nil
}

func startModules() error {
	reportCnt := 0

	for reportCnt < len(modules) {
		execCnt := 0

		for _, m := range modules {
			if m.readyToStart() {
				execCnt++
				m.inTransition.Set()

				err := m.runCtrlFn("start module", m.startFn)
				m.inTransition.UnSet()
				if err != nil {
					return fmt.Errorf("failed to start module %s: %w", m.Name, err)
				}
				m.Started.Set()
				reportCnt++
				log.Infof("modules: started %s", m.Name)
			}
		}

		// check for dep loop
		if execCnt == 0 {
			return fmt.Errorf("modules: dependency loop detected, cannot continue")
		}
	}

	return nil
}
