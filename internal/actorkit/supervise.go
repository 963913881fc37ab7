package actorkit

import (
	"fmt"
	"log"
)

// TerminationReason distinguishes a clean exit from a recovered panic, the
// two outcomes a supervisor must react to differently: a terminated
// child stops the whole process; a panicked child is logged and counted,
// the process otherwise continuing.
type TerminationReason struct {
	Panicked bool
	Err      error
}

// RunSupervised runs fn on the current goroutine, recovering any panic and
// reporting it through the returned TerminationReason instead of letting it
// crash the process. Callers typically invoke this inside a `go` statement
// per child actor.
func RunSupervised(childName string, fn func() error) (reason TerminationReason) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Supervisor] child %q panicked: %v", childName, r)
			reason = TerminationReason{Panicked: true, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	err := fn()
	return TerminationReason{Panicked: false, Err: err}
}
