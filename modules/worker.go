package modules

import (
	"context"
	"errors"

	"github.com/tickseed/tickseed/log"
)

var errNoModule = errors.New("missing module (is nil!)")

// StartWorker starts a generic worker. A call to StartWorker starts a new
// goroutine and returns immediately.
func (m *Module) StartWorker(name string, fn func(context.Context) error) {
	go func() {
		err := m.RunWorker(name, fn)
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			log.Debugf("%s: worker %s was canceled: %s", m.Name, name, err)
		default:
			log.Errorf("%s: worker %s failed: %s", m.Name, name, err)
		}
	}()
}

// RunWorker runs a generic worker and blocks until the worker is finished.
func (m *Module) RunWorker(name string, fn func(context.Context) error) error {
	if m == nil {
		log.Errorf(`modules: cannot start worker "%s" with nil module`, name)
		return errNoModule
	}

	m.workerGroup.Add(1)
	defer m.workerGroup.Done()

	return m.runWorker(name, fn)
}

func (m *Module) runWorker(name string, fn func(context.Context) error) (err error) {
	defer func() {
		// recover from panic
		panicVal := recover()
		if panicVal != nil {
			me := m.NewPanicError(name, "worker", panicVal)
			log.Critical(me.Error())
			err = me
		}
	}()

	err = fn(m.Ctx)
	return
}

func (m *Module) runCtrlFn(name string, fn func() error) (err error) {
	if fn == nil {
		return
	}

	defer func() {
		// recover from panic
		panicVal := recover()
		if panicVal != nil {
			me := m.NewPanicError(name, "module-control", panicVal)
			log.Critical(me.Error())
			err = me
		}
	}()

	err = fn()
	return
}
