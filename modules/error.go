package modules

import (
	"fmt"
	"runtime/debug"
)

// ModuleError wraps a panic, error or message into an error that can be reported.
type ModuleError struct {
	Message string

	ModuleName string
	TaskName   string
	TaskType   string // one of "worker", "module-control" or custom

	PanicValue interface{}
	StackTrace string
}

// NewPanicError creates a new reportable panic error (including a stack trace).
func (m *Module) NewPanicError(taskName, taskType string, panicValue interface{}) *ModuleError {
	me := &ModuleError{
		ModuleName: m.Name,
		TaskName:   taskName,
		TaskType:   taskType,
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
	}
	me.Message = fmt.Sprintf("%s: %s %s panicked: %s\n%s", me.ModuleName, me.TaskType, me.TaskName, panicValue, me.StackTrace)
	return me
}

// Error returns the string representation of the error.
func (me *ModuleError) Error() string {
	return me.Message
}
