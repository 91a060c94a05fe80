package session

// Listener receives the two cross-cutting session signals. Subscribers are
// compile-time checked; there are no string event names.
//
// TokenRefreshed fires after a successful refresh, once the new pair is in
// the store. SessionInvalid fires when the session has been torn down
// (refresh rejected or transport failure); the store is already cleared
// when it fires.
type Listener interface {
	TokenRefreshed(accessToken string)
	SessionInvalid()
}

// Subscribe registers a listener and returns its unsubscribe function.
// Signals are delivered in order on a dedicated goroutine: a slow listener
// delays later signals, never the refresh waiters.
func (c *Coordinator) Subscribe(l Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.listenerSeq++
	id := c.listenerSeq
	c.listeners[id] = l

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Coordinator) notifyRefreshed(accessToken string) {
	ls := c.snapshotListeners()
	c.enqueueSignal(func() {
		for _, l := range ls {
			l.TokenRefreshed(accessToken)
		}
	})
}

func (c *Coordinator) notifyInvalid() {
	ls := c.snapshotListeners()
	c.enqueueSignal(func() {
		for _, l := range ls {
			l.SessionInvalid()
		}
	})
}

func (c *Coordinator) snapshotListeners() []Listener {
	c.mu.Lock()
	defer c.mu.Unlock()

	ls := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		ls = append(ls, l)
	}
	return ls
}

func (c *Coordinator) enqueueSignal(fn func()) {
	select {
	case c.signals <- fn:
	case <-c.done:
	}
}

func (c *Coordinator) dispatchSignals() {
	for {
		select {
		case fn := <-c.signals:
			fn()
		case <-c.done:
			return
		}
	}
}
