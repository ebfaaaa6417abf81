package orbit

import (
	"fmt"

	math "github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func (c *Controls) rotateLeft(angle float32) {
	c.sphericalDelta.Theta -= angle
}

func (c *Controls) rotateUp(angle float32) {
	c.sphericalDelta.Phi -= angle
}

// rotateBy accumulates a rotation for a screen space drag of delta pixels.
// A drag the height of the element is a full turn.
func (c *Controls) rotateBy(delta mgl32.Vec2) {
	_, height := c.elem.ClientSize()
	if height <= 0 {
		return
	}
	delta = delta.Mul(c.cfg.RotateSpeed)
	c.rotateLeft(twoPi * delta[0] / height)
	c.rotateUp(twoPi * delta[1] / height)
}

// panLeft moves the target along the camera's right axis, column 0 of its world matrix.
func (c *Controls) panLeft(distance float32, m mgl32.Mat4) {
	v := m.Col(0).Vec3().Mul(-distance)
	c.panOffset = c.panOffset.Add(v)
}

func (c *Controls) panUp(distance float32, m mgl32.Mat4) {
	var v mgl32.Vec3
	if c.cfg.ScreenSpacePanning {
		v = m.Col(1).Vec3()
	} else {
		v = c.cam.Up().Cross(m.Col(0).Vec3())
	}
	c.panOffset = c.panOffset.Add(v.Mul(distance))
}

// pan converts a screen space delta in pixels into a pending target translation.
func (c *Controls) pan(deltaX, deltaY float32) {
	width, height := c.elem.ClientSize()
	if width <= 0 || height <= 0 {
		return
	}
	m := cameraMatrix(c.cam)
	proj := c.cam.Projection()
	switch p := proj.(type) {
	case *PerspectiveProjection:
		if p == nil {
			break
		}
		// Half the visible height at the target's depth.
		targetDistance := c.cam.Position().Sub(c.Target).Len()
		targetDistance *= math.Tan(p.FOV / 2)
		c.panLeft(2*deltaX*targetDistance/height, m)
		c.panUp(2*deltaY*targetDistance/height, m)
		return
	case *OrthographicProjection:
		if p == nil {
			break
		}
		zoom := c.cam.Zoom()
		c.panLeft(deltaX*(p.Right-p.Left)/zoom/width, m)
		c.panUp(deltaY*(p.Top-p.Bottom)/zoom/height, m)
		return
	}
	c.log.Warn("unknown camera projection, pan disabled", "projection", fmt.Sprintf("%T", proj))
	c.cfg.EnablePan = false
}

func (c *Controls) dollyOut(dollyScale float32) {
	proj := c.cam.Projection()
	switch p := proj.(type) {
	case *PerspectiveProjection:
		if p == nil {
			break
		}
		c.scale /= dollyScale
		return
	case *OrthographicProjection:
		if p == nil {
			break
		}
		c.setZoom(c.cam.Zoom() * dollyScale)
		return
	}
	c.log.Warn("unknown camera projection, zoom disabled", "projection", fmt.Sprintf("%T", proj))
	c.cfg.EnableZoom = false
}

func (c *Controls) dollyIn(dollyScale float32) {
	proj := c.cam.Projection()
	switch p := proj.(type) {
	case *PerspectiveProjection:
		if p == nil {
			break
		}
		c.scale *= dollyScale
		return
	case *OrthographicProjection:
		if p == nil {
			break
		}
		c.setZoom(c.cam.Zoom() / dollyScale)
		return
	}
	c.log.Warn("unknown camera projection, zoom disabled", "projection", fmt.Sprintf("%T", proj))
	c.cfg.EnableZoom = false
}

func (c *Controls) setZoom(zoom float32) {
	c.cam.SetZoom(clamp(zoom, c.cfg.MinZoom, c.cfg.MaxZoom))
	c.cam.UpdateProjectionMatrix()
	c.zoomChanged = true
}

//
// Mouse.
//

func (c *Controls) onMouseDown(ev *PointerEvent) {
	pos := mgl32.Vec2{ev.ClientX, ev.ClientY}
	swap := ev.Mods.swapsAction()
	switch c.cfg.MouseButtons.action(ev.Button) {
	case MouseDolly:
		if !c.cfg.EnableZoom {
			return
		}
		c.dollyStart = pos
		c.state = StateDolly

	case MouseRotate:
		if swap {
			if !c.cfg.EnablePan {
				return
			}
			c.panStart = pos
			c.state = StatePan
		} else {
			if !c.cfg.EnableRotate {
				return
			}
			c.rotateStart = pos
			c.state = StateRotate
		}

	case MousePan:
		if swap {
			if !c.cfg.EnableRotate {
				return
			}
			c.rotateStart = pos
			c.state = StateRotate
		} else {
			if !c.cfg.EnablePan {
				return
			}
			c.panStart = pos
			c.state = StatePan
		}

	default:
		c.state = StateNone
	}
	if c.state != StateNone {
		c.notify(notifyStart)
	}
}

func (c *Controls) onMouseMove(ev *PointerEvent) {
	pos := mgl32.Vec2{ev.ClientX, ev.ClientY}
	switch c.state {
	case StateRotate:
		if !c.cfg.EnableRotate {
			return
		}
		// Rotation is applied by the caller's next Update.
		c.rotateEnd = pos
		c.rotateBy(c.rotateEnd.Sub(c.rotateStart))
		c.rotateStart = c.rotateEnd

	case StateDolly:
		if !c.cfg.EnableZoom {
			return
		}
		c.dollyEnd = pos
		dy := c.dollyEnd[1] - c.dollyStart[1]
		if dy > 0 {
			c.dollyOut(c.zoomScale())
		} else if dy < 0 {
			c.dollyIn(c.zoomScale())
		}
		c.dollyStart = c.dollyEnd
		c.Update()

	case StatePan:
		if !c.cfg.EnablePan {
			return
		}
		c.panEnd = pos
		delta := c.panEnd.Sub(c.panStart).Mul(c.cfg.PanSpeed)
		c.pan(delta[0], delta[1])
		c.panStart = c.panEnd
		c.Update()
	}
}

func (c *Controls) onWheel(e Event) {
	ev, ok := e.(*WheelEvent)
	if !ok || !c.cfg.Enabled || !c.cfg.EnableZoom || c.state != StateNone {
		return
	}
	ev.PreventDefault()
	c.notify(notifyStart)
	if ev.DeltaY < 0 {
		c.dollyIn(c.zoomScale())
	} else if ev.DeltaY > 0 {
		c.dollyOut(c.zoomScale())
	}
	c.Update()
	c.notify(notifyEnd)
}

func (c *Controls) onKeyDown(e Event) {
	ev, ok := e.(*KeyEvent)
	if !ok || !c.cfg.Enabled || !c.cfg.EnablePan {
		return
	}
	var rotation float32
	if _, height := c.elem.ClientSize(); height > 0 {
		rotation = twoPi * c.cfg.RotateSpeed / height
	}
	step := c.cfg.KeyPanSpeed
	rotate := ev.Mods.swapsAction()
	keys := c.cfg.Keys
	switch ev.Code {
	case keys.Up:
		if rotate {
			c.rotateUp(rotation)
		} else {
			c.pan(0, step)
		}
	case keys.Bottom:
		if rotate {
			c.rotateUp(-rotation)
		} else {
			c.pan(0, -step)
		}
	case keys.Left:
		if rotate {
			c.rotateLeft(rotation)
		} else {
			c.pan(step, 0)
		}
	case keys.Right:
		if rotate {
			c.rotateLeft(-rotation)
		} else {
			c.pan(-step, 0)
		}
	default:
		return
	}
	ev.PreventDefault()
	c.Update()
}

func (c *Controls) onContextMenu(e Event) {
	if !c.cfg.Enabled {
		return
	}
	e.PreventDefault()
}

//
// Touch.
//

func (c *Controls) onTouchStart(ev *PointerEvent) {
	c.trackPointer(ev)
	switch len(c.pointers) {
	case 1:
		switch c.cfg.Touches.One {
		case TouchRotate:
			if !c.cfg.EnableRotate {
				return
			}
			c.rotateStart = c.touchCenter()
			c.state = StateTouchRotate
		case TouchPan:
			if !c.cfg.EnablePan {
				return
			}
			c.panStart = c.touchCenter()
			c.state = StateTouchPan
		default:
			c.state = StateNone
		}

	case 2:
		switch c.cfg.Touches.Two {
		case TouchDollyPan:
			if !c.cfg.EnableZoom && !c.cfg.EnablePan {
				return
			}
			if c.cfg.EnableZoom {
				c.touchStartDolly()
			}
			if c.cfg.EnablePan {
				c.panStart = c.touchCenter()
			}
			c.state = StateTouchDollyPan
		case TouchDollyRotate:
			if !c.cfg.EnableZoom && !c.cfg.EnableRotate {
				return
			}
			if c.cfg.EnableZoom {
				c.touchStartDolly()
			}
			if c.cfg.EnableRotate {
				c.rotateStart = c.touchCenter()
			}
			c.state = StateTouchDollyRotate
		default:
			c.state = StateNone
		}

	default:
		c.state = StateNone
	}
	if c.state != StateNone {
		c.notify(notifyStart)
	}
}

func (c *Controls) onTouchMove(ev *PointerEvent) {
	c.trackPointer(ev)
	switch c.state {
	case StateTouchRotate:
		if !c.cfg.EnableRotate {
			return
		}
		c.touchMoveRotate(ev)
	case StateTouchPan:
		if !c.cfg.EnablePan {
			return
		}
		c.touchMovePan(ev)
	case StateTouchDollyPan:
		if !c.cfg.EnableZoom && !c.cfg.EnablePan {
			return
		}
		if c.cfg.EnableZoom {
			c.touchMoveDolly(ev)
		}
		if c.cfg.EnablePan {
			c.touchMovePan(ev)
		}
	case StateTouchDollyRotate:
		if !c.cfg.EnableZoom && !c.cfg.EnableRotate {
			return
		}
		if c.cfg.EnableZoom {
			c.touchMoveDolly(ev)
		}
		if c.cfg.EnableRotate {
			c.touchMoveRotate(ev)
		}
	default:
		c.state = StateNone
		return
	}
	c.Update()
}

// touchCenter returns the position of the single active contact
// or the midpoint of the first two.
func (c *Controls) touchCenter() mgl32.Vec2 {
	p0 := c.positions[c.pointers[0]]
	if len(c.pointers) == 1 {
		return p0
	}
	p1 := c.positions[c.pointers[1]]
	return p0.Add(p1).Mul(0.5)
}

func (c *Controls) touchStartDolly() {
	p0 := c.positions[c.pointers[0]]
	p1 := c.positions[c.pointers[1]]
	c.dollyStart = mgl32.Vec2{0, p0.Sub(p1).Len()}
}

// touchMoveCenter is the gesture position after ev moved: ev's position when it is the only
// contact, else the midpoint between ev and the other contact.
func (c *Controls) touchMoveCenter(ev *PointerEvent) mgl32.Vec2 {
	pos := mgl32.Vec2{ev.PageX, ev.PageY}
	if other, ok := c.secondPointerPosition(ev.PointerID); ok {
		return pos.Add(other).Mul(0.5)
	}
	return pos
}

func (c *Controls) touchMoveRotate(ev *PointerEvent) {
	c.rotateEnd = c.touchMoveCenter(ev)
	c.rotateBy(c.rotateEnd.Sub(c.rotateStart))
	c.rotateStart = c.rotateEnd
}

func (c *Controls) touchMovePan(ev *PointerEvent) {
	c.panEnd = c.touchMoveCenter(ev)
	delta := c.panEnd.Sub(c.panStart).Mul(c.cfg.PanSpeed)
	c.pan(delta[0], delta[1])
	c.panStart = c.panEnd
}

// touchMoveDolly scales by the ratio of the current to the previous contact distance.
// It does nothing when the second contact has been released.
func (c *Controls) touchMoveDolly(ev *PointerEvent) {
	other, ok := c.secondPointerPosition(ev.PointerID)
	if !ok {
		return
	}
	distance := mgl32.Vec2{ev.PageX, ev.PageY}.Sub(other).Len()
	c.dollyEnd = mgl32.Vec2{0, distance}
	if c.dollyStart[1] > 0 && c.dollyEnd[1] > 0 {
		c.dollyOut(math.Pow(c.dollyEnd[1]/c.dollyStart[1], c.cfg.ZoomSpeed))
	}
	c.dollyStart = c.dollyEnd
}
