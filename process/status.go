package process

import (
	"os"
	"strconv"

	"github.com/kbukum/cmdutil/util"
)

// ExitStatus is how a process terminated.
type ExitStatus struct {
	// Success reports a zero exit code.
	Success bool
	// Code is the exit code, or nil when the process was terminated by a signal.
	Code *int
}

func statusFromState(state *os.ProcessState) ExitStatus {
	if state == nil {
		return ExitStatus{}
	}
	status := ExitStatus{Success: state.Success()}
	if code := state.ExitCode(); code >= 0 {
		status.Code = util.Ptr(code)
	}
	return status
}

// String renders the status the way error messages do.
func (s ExitStatus) String() string {
	if s.Success {
		return "success"
	}
	if s.Code == nil {
		return "terminated by signal"
	}
	return "exit code " + strconv.Itoa(*s.Code)
}
