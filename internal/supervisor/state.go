// Package supervisor implements ProcessSupervisor: spawning the
// nockchain node and miner binaries, draining their output into
// LogStore without blocking them, and tracking liveness through the
// state machine spec §4.5 defines (spec.md §4.5).
package supervisor

import "fmt"

// State is one point in the Absent -> Spawning -> Running -> Stopping
// -> Stopped lifecycle, with Running -> Crashed on a non-zero exit
// observed by the waiter.
type State int

const (
	StateAbsent State = iota
	StateSpawning
	StateRunning
	StateStopping
	StateStopped
	StateCrashed
)

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateSpawning:
		return "spawning"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateCrashed:
		return "crashed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DefaultStderrTailLines is how many trailing stderr lines a Crashed
// process carries for diagnosis (spec §4.5: "the last N (default 50)
// lines of stderr").
const DefaultStderrTailLines = 50
