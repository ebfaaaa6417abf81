package orbit

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

func (c *Controls) onPointerDown(e Event) {
	ev, ok := e.(*PointerEvent)
	if !ok || !c.cfg.Enabled || c.isTracking(ev.PointerID) {
		return
	}
	if len(c.pointers) == 0 {
		c.elem.SetPointerCapture(ev.PointerID)
		c.unsubscribeDrag = append(c.unsubscribeDrag[:0],
			c.elem.AddEventListener(EventPointerMove, c.onPointerMove),
			c.elem.AddEventListener(EventPointerUp, c.onPointerUp),
		)
	}
	c.pointers = append(c.pointers, ev.PointerID)
	c.trackPointer(ev)
	if ev.PointerType == PointerTouch {
		c.onTouchStart(ev)
	} else {
		c.onMouseDown(ev)
	}
}

func (c *Controls) onPointerMove(e Event) {
	ev, ok := e.(*PointerEvent)
	if !ok || !c.cfg.Enabled || !c.isTracking(ev.PointerID) {
		return
	}
	if ev.PointerType == PointerTouch {
		c.onTouchMove(ev)
	} else {
		c.onMouseMove(ev)
	}
}

// onPointerUp handles both release and cancellation. The gesture ends once
// the last active pointer is gone. A two finger gesture keeps going
// with the remaining finger until it is released too.
func (c *Controls) onPointerUp(e Event) {
	ev, ok := e.(*PointerEvent)
	if !ok || !c.removePointer(ev.PointerID) {
		return
	}
	if len(c.pointers) > 0 {
		return
	}
	c.elem.ReleasePointerCapture(ev.PointerID)
	c.removeDragListeners()
	c.notify(notifyEnd)
	c.state = StateNone
}

func (c *Controls) isTracking(pointerID int) bool {
	return slices.Contains(c.pointers, pointerID)
}

func (c *Controls) trackPointer(ev *PointerEvent) {
	c.positions[ev.PointerID] = mgl32.Vec2{ev.PageX, ev.PageY}
}

func (c *Controls) removePointer(pointerID int) bool {
	delete(c.positions, pointerID)
	i := slices.Index(c.pointers, pointerID)
	if i < 0 {
		return false
	}
	c.pointers = slices.Delete(c.pointers, i, i+1)
	return true
}

// secondPointerPosition returns the position of the active pointer that is not pointerID.
func (c *Controls) secondPointerPosition(pointerID int) (mgl32.Vec2, bool) {
	if len(c.pointers) < 2 {
		return mgl32.Vec2{}, false
	}
	other := c.pointers[0]
	if other == pointerID {
		other = c.pointers[1]
	}
	pos, ok := c.positions[other]
	return pos, ok
}
