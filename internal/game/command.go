package game

// Command is a request to the controller. The set of commands is closed;
// the controller dispatches on the concrete type.
type Command interface {
	command()
}

// Pause stops automatic ticking.
type Pause struct{}

// Unpause resumes automatic ticking.
type Unpause struct{}

// StepForward advances exactly one generation and pauses.
type StepForward struct{}

// StepBackward restores the previous generation from history and pauses.
type StepBackward struct{}

// SaveSeed writes the seed and audit trail to Path.
type SaveSeed struct {
	Path string
}

// SaveState writes the full game state to Path.
type SaveState struct {
	Path string
}

// Quit stops the controller.
type Quit struct{}

// snapshotRequest asks the controller for a copy of its state.
type snapshotRequest struct {
	reply chan<- Snapshot
}

func (Pause) command()           {}
func (Unpause) command()         {}
func (StepForward) command()     {}
func (StepBackward) command()    {}
func (SaveSeed) command()        {}
func (SaveState) command()       {}
func (Quit) command()            {}
func (snapshotRequest) command() {}

// Sender accepts commands without blocking.
type Sender interface {
	Send(Command)
}
