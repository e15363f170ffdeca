package drag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_BeginTargetDrop(t *testing.T) {
	c := NewController()
	assert.Equal(t, Idle, c.State())

	require.NoError(t, c.Begin("deal-1", "sourcing"))
	assert.Equal(t, Dragging, c.State())

	session, ok := c.Session()
	require.True(t, ok)
	assert.Equal(t, "deal-1", session.DealID)
	assert.Equal(t, "sourcing", session.SourceStage)
	// Target starts at the source, so an immediate drop is a no-op.
	assert.Equal(t, "sourcing", session.TargetStage)

	require.NoError(t, c.Target("negotiation"))
	session, _ = c.Session()
	assert.Equal(t, "negotiation", session.TargetStage)

	move, ok, err := c.Drop("negotiation")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Move{DealID: "deal-1", From: "sourcing", To: "negotiation"}, move)

	// Session is cleared unconditionally after a drop.
	assert.Equal(t, Idle, c.State())
	_, ok = c.Session()
	assert.False(t, ok)
}

// Dropping back onto the source column is not a transition.
func TestController_SameStageDropIsNoOp(t *testing.T) {
	c := NewController()
	require.NoError(t, c.Begin("deal-1", "sourcing"))
	require.NoError(t, c.Target("negotiation"))

	move, ok, err := c.Drop("sourcing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, Move{}, move)
	assert.Equal(t, Idle, c.State())
}

// A drag session must be exclusive: single-pointer assumption.
func TestController_BeginWhileDragging(t *testing.T) {
	c := NewController()
	require.NoError(t, c.Begin("deal-1", "sourcing"))

	err := c.Begin("deal-2", "negotiation")
	assert.ErrorIs(t, err, ErrDragInProgress)

	// The original session is untouched.
	session, ok := c.Session()
	require.True(t, ok)
	assert.Equal(t, "deal-1", session.DealID)
}

func TestController_MethodsOutsideDragging(t *testing.T) {
	c := NewController()

	assert.ErrorIs(t, c.Target("negotiation"), ErrNoDragSession)

	_, _, err := c.Drop("negotiation")
	assert.ErrorIs(t, err, ErrNoDragSession)

	// Cancel is safe in any state.
	c.Cancel()
	assert.Equal(t, Idle, c.State())
}

func TestController_Cancel(t *testing.T) {
	c := NewController()
	require.NoError(t, c.Begin("deal-1", "sourcing"))
	require.NoError(t, c.Target("closed_won"))

	c.Cancel()
	assert.Equal(t, Idle, c.State())
	_, ok := c.Session()
	assert.False(t, ok)

	// A fresh session can start after a cancel.
	require.NoError(t, c.Begin("deal-2", "negotiation"))
	assert.Equal(t, Dragging, c.State())
}
