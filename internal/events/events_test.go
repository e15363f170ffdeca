package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBus_PublishFansOutInOrder(t *testing.T) {
	bus := NewBus()

	var got []string
	bus.Subscribe(func(e StageChanged) { got = append(got, "first:"+e.DealID) })
	bus.Subscribe(func(e StageChanged) { got = append(got, "second:"+e.DealID) })

	bus.Publish(StageChanged{DealID: "1", FromStage: "sourcing", ToStage: "negotiation", At: time.Now()})

	assert.Equal(t, []string{"first:1", "second:1"}, got)
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.Publish(StageChanged{DealID: "1"})
	})
}
