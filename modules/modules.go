package modules

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tevino/abool"
)

var (
	modulesLock sync.RWMutex
	modules     = make(map[string]*Module)

	// ErrCleanExit is returned by Start() when the program is interrupted
	// before starting, for example when only version output was requested.
	ErrCleanExit = errors.New("clean exit requested")
)

// Module represents a module.
type Module struct {
	Name string

	// lifecycle mgmt
	Prepped      *abool.AtomicBool
	Started      *abool.AtomicBool
	Stopped      *abool.AtomicBool
	inTransition *abool.AtomicBool

	// lifecycle callback functions
	prepFn  func() error
	startFn func() error
	stopFn  func() error

	// shutdown mgmt
	Ctx          context.Context
	cancelCtx    func()
	shutdownFlag *abool.AtomicBool
	workerGroup  sync.WaitGroup

	// dependency mgmt
	depNames   []string
	depModules []*Module
	depReverse []*Module
}

// ShutdownInProgress returns whether the module has started shutting down.
func (m *Module) ShutdownInProgress() bool {
	return m.shutdownFlag.IsSet()
}

// ShuttingDown lets you listen for the module shutdown signal.
func (m *Module) ShuttingDown() <-chan struct{} {
	return m.Ctx.Done()
}

// Register registers a new module. The control functions prep, start and stop
// are optional. stop is called after all module workers finished.
func Register(name string, prep, start, stop func() error, dependencies ...string) *Module {
	newModule := initNewModule(name, prep, start, stop, dependencies...)

	modulesLock.Lock()
	defer modulesLock.Unlock()
	modules[name] = newModule

	return newModule
}

func initNewModule(name string, prep, start, stop func() error, dependencies ...string) *Module {
	ctx, cancelCtx := context.WithCancel(context.Background())

	return &Module{
		Name:         name,
		Prepped:      abool.NewBool(false),
		Started:      abool.NewBool(false),
		Stopped:      abool.NewBool(false),
		inTransition: abool.NewBool(false),
		prepFn:       prep,
		startFn:      start,
		stopFn:       stop,
		Ctx:          ctx,
		cancelCtx:    cancelCtx,
		shutdownFlag: abool.NewBool(false),
		depNames:     dependencies,
	}
}

func initDependencies() error {
	for _, m := range modules {
		for _, depName := range m.depNames {

			// get dependency
			depModule, ok := modules[depName]
			if !ok {
				return fmt.Errorf("module %s declares dependency on non-existent module %s", m.Name, depName)
			}

			// link together
			m.depModules = append(m.depModules, depModule)
			depModule.depReverse = append(depModule.depReverse, m)
		}
	}
	return nil
}

// readyToPrep returns whether all dependencies are prepped.
func (m *Module) readyToPrep() bool {
	if m.inTransition.IsSet() || m.Prepped.IsSet() {
		return false
	}
	for _, dep := range m.depModules {
		if !dep.Prepped.IsSet() {
			return false
		}
	}
	return true
}

// readyToStart returns whether all dependencies are started.
func (m *Module) readyToStart() bool {
	if m.inTransition.IsSet() || m.Started.IsSet() {
		return false
	}
	for _, dep := range m.depModules {
		if !dep.Started.IsSet() {
			return false
		}
	}
	return true
}

// readyToStop returns whether all reverse dependencies are stopped.
func (m *Module) readyToStop() bool {
	if !m.Started.IsSet() || m.inTransition.IsSet() || m.Stopped.IsSet() {
		return false
	}
	for _, revDep := range m.depReverse {
		// can only stop if all modules that depend on this module are stopped
		if revDep.Started.IsSet() && !revDep.Stopped.IsSet() {
			return false
		}
	}
	return true
}
