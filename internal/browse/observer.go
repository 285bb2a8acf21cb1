package browse

// StateObserver receives every published state, in order, on the controller's
// loop goroutine. Implementations must not block or call back into the controller.
type StateObserver interface {
	OnState(State)
}

// ObserverFunc adapts a function to StateObserver
type ObserverFunc func(State)

// OnState calls f(s)
func (f ObserverFunc) OnState(s State) { f(s) }

// ChannelObserver adapts StateObserver to a channel for Bubble Tea.
// The channel holds at most one pending state; a newer state replaces it.
type ChannelObserver struct {
	ch chan State
}

// NewChannelObserver creates a channel-based observer
func NewChannelObserver() *ChannelObserver {
	return &ChannelObserver{ch: make(chan State, 1)}
}

// C returns the receive side of the observer channel
func (o *ChannelObserver) C() <-chan State { return o.ch }

// OnState replaces any pending state with s (never blocks)
func (o *ChannelObserver) OnState(s State) {
	select {
	case <-o.ch:
	default:
	}
	select {
	case o.ch <- s:
	default:
	}
}
