package timer

import "log"

// CuePlayer is the audio collaborator. Every call is fire-and-forget:
// implementations must never block the tick loop and their failures are
// swallowed, not surfaced.
type CuePlayer interface {
	PlayBeep()              // countdown tick in the last seconds of a phase
	PlayHighBeep()          // work interval starts
	PlayLowBeep()           // rest interval starts
	PlayChime()             // flow phase boundary
	PlayTransitionBeep()    // recovery between sets starts
	PlayCompletionFanfare() // session complete
}

// NopCuePlayer discards every cue. Used when audio is disabled.
type NopCuePlayer struct{}

func (NopCuePlayer) PlayBeep()              {}
func (NopCuePlayer) PlayHighBeep()          {}
func (NopCuePlayer) PlayLowBeep()           {}
func (NopCuePlayer) PlayChime()             {}
func (NopCuePlayer) PlayTransitionBeep()    {}
func (NopCuePlayer) PlayCompletionFanfare() {}

// TerminalCuePlayer writes a BEL to the terminal for every cue and records
// which cue fired in the log. tview passes the bell through to the
// emulator, which is as much audio as a terminal app gets.
type TerminalCuePlayer struct {
	logger *log.Logger
	bell   func()
}

// NewTerminalCuePlayer creates a TerminalCuePlayer. bell is invoked once
// per cue and may be nil; errors inside it are the caller's problem, never
// the timer's.
func NewTerminalCuePlayer(logger *log.Logger, bell func()) *TerminalCuePlayer {
	if logger == nil {
		panic("TerminalCuePlayer: logger cannot be nil")
	}
	return &TerminalCuePlayer{logger: logger, bell: bell}
}

func (p *TerminalCuePlayer) play(name string) {
	p.logger.Printf("Cue: %s", name)
	if p.bell != nil {
		p.bell()
	}
}

func (p *TerminalCuePlayer) PlayBeep()              { p.play("beep") }
func (p *TerminalCuePlayer) PlayHighBeep()          { p.play("high_beep") }
func (p *TerminalCuePlayer) PlayLowBeep()           { p.play("low_beep") }
func (p *TerminalCuePlayer) PlayChime()             { p.play("chime") }
func (p *TerminalCuePlayer) PlayTransitionBeep()    { p.play("transition_beep") }
func (p *TerminalCuePlayer) PlayCompletionFanfare() { p.play("completion_fanfare") }
