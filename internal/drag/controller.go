// Package drag tracks the ephemeral state of an in-progress
// move-a-card interaction: which deal was grabbed, where it came from,
// and which stage is currently targeted. It is pure UI state; the
// actual stage mutation is the transition service's job.
package drag

import "errors"

// Drag session errors. These are programmer-error class conditions: the
// UI logs and ignores them rather than crashing the view.
var (
	// ErrDragInProgress indicates Begin was called while a session is active
	ErrDragInProgress = errors.New("a drag session is already active")

	// ErrNoDragSession indicates Target or Drop was called with no active session
	ErrNoDragSession = errors.New("no active drag session")
)

// State is the controller's position in the session lifecycle.
type State int

const (
	// Idle means no deal is grabbed
	Idle State = iota
	// Dragging means a deal is grabbed and a target is being chosen
	Dragging
)

// Session is the ephemeral drag state. It exists only between Begin and
// Drop/Cancel and is cleared unconditionally on both.
type Session struct {
	DealID      string
	SourceStage string
	TargetStage string
}

// Move is a resolved drop: the stage change the caller should hand to
// the transition service.
type Move struct {
	DealID string
	From   string
	To     string
}

// Controller is the drag session state machine. Single-pointer
// assumption: at most one active session at a time. All methods are
// called from the UI event loop, so no locking is needed.
type Controller struct {
	state   State
	session Session
}

// NewController returns a controller in the Idle state.
func NewController() *Controller {
	return &Controller{state: Idle}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Session returns the active session, if any.
func (c *Controller) Session() (Session, bool) {
	if c.state != Dragging {
		return Session{}, false
	}
	return c.session, true
}

// Begin starts a drag session for the given deal. The target starts at
// the source stage, so an immediate drop is a no-op.
func (c *Controller) Begin(dealID, sourceStage string) error {
	if c.state == Dragging {
		return ErrDragInProgress
	}
	c.state = Dragging
	c.session = Session{
		DealID:      dealID,
		SourceStage: sourceStage,
		TargetStage: sourceStage,
	}
	return nil
}

// Target updates the hovered stage for visual feedback. No side effects
// beyond the session itself.
func (c *Controller) Target(stage string) error {
	if c.state != Dragging {
		return ErrNoDragSession
	}
	c.session.TargetStage = stage
	return nil
}

// Drop ends the session on the given stage. Dropping back onto the
// source stage is not a transition: ok is false and the caller must not
// invoke the transition service. The controller returns to Idle either
// way, before any network activity starts.
func (c *Controller) Drop(stage string) (Move, bool, error) {
	if c.state != Dragging {
		return Move{}, false, ErrNoDragSession
	}
	session := c.session
	c.reset()

	if stage == session.SourceStage {
		return Move{}, false, nil
	}
	return Move{
		DealID: session.DealID,
		From:   session.SourceStage,
		To:     stage,
	}, true, nil
}

// Cancel discards the session with no mutation (Escape, drag outside a
// valid target, component teardown). Safe to call in any state.
func (c *Controller) Cancel() {
	c.reset()
}

func (c *Controller) reset() {
	c.state = Idle
	c.session = Session{}
}
