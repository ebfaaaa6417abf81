package orbit

import "slices"

type notification uint8

const (
	notifyChange notification = iota
	notifyStart
	notifyEnd
	numNotifications
)

type observer struct {
	id uint64
	fn func()
}

// OnChange registers fn to be called whenever Update moves the camera noticeably.
// The returned function unregisters fn.
func (c *Controls) OnChange(fn func()) (remove func()) { return c.observe(notifyChange, fn) }

// OnStart registers fn to be called when a gesture starts.
// The returned function unregisters fn.
func (c *Controls) OnStart(fn func()) (remove func()) { return c.observe(notifyStart, fn) }

// OnEnd registers fn to be called when a gesture ends.
// The returned function unregisters fn.
func (c *Controls) OnEnd(fn func()) (remove func()) { return c.observe(notifyEnd, fn) }

func (c *Controls) observe(kind notification, fn func()) func() {
	if fn == nil {
		return func() {}
	}
	c.lastObserverID++
	id := c.lastObserverID
	c.observers[kind] = append(c.observers[kind], observer{id: id, fn: fn})
	return func() {
		obs := c.observers[kind]
		i := slices.IndexFunc(obs, func(o observer) bool { return o.id == id })
		if i >= 0 {
			c.observers[kind] = slices.Delete(slices.Clone(obs), i, i+1)
		}
	}
}

func (c *Controls) notify(kind notification) {
	for _, o := range c.observers[kind] {
		o.fn()
	}
}
