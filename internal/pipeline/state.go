package pipeline

// State names one phase of a run. Transitions only move forward; any
// failure diverts to StateAborting.
type State string

const (
	StateValidating State = "validating"
	StateBuilding   State = "building"
	StateBackingUp  State = "backing-up"
	StateIsolating  State = "isolating"
	StateVerifying  State = "verifying"
	StatePublishing State = "publishing"
	StateDone       State = "done"
	StateAborting   State = "aborting"
)
