//go:build !tinygo && cgo

// Package glfwinput adapts a GLFW window into an input source for orbit.Controls.
package glfwinput

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/orbit"
)

var (
	_ orbit.Element   = (*Window)(nil)
	_ orbit.KeyTarget = (*Window)(nil)
)

// mouseID is the pointer ID of the single mouse pointer GLFW exposes.
const mouseID = 1

// Window dispatches GLFW cursor, button, scroll and key callbacks as orbit events.
// Events are delivered from within glfw.PollEvents or glfw.WaitEvents.
type Window struct {
	orbit.EventTarget
	win *glfw.Window
	// captured is set while a pointer capture is active. GLFW keeps reporting cursor
	// positions outside the window while a button is held so nothing else is needed.
	captured bool
	// buttons is a bit set of currently pressed orbit buttons.
	buttons uint8
}

// New installs input callbacks on win, replacing previously set ones.
func New(win *glfw.Window) *Window {
	w := &Window{win: win}
	win.SetCursorPosCallback(w.onCursorPos)
	win.SetMouseButtonCallback(w.onMouseButton)
	win.SetScrollCallback(w.onScroll)
	win.SetKeyCallback(w.onKey)
	return w
}

// Detach removes the callbacks installed by [New].
func (w *Window) Detach() {
	w.win.SetCursorPosCallback(nil)
	w.win.SetMouseButtonCallback(nil)
	w.win.SetScrollCallback(nil)
	w.win.SetKeyCallback(nil)
}

// ClientSize returns the window size in screen coordinates, the same units
// cursor positions are reported in.
func (w *Window) ClientSize() (width, height float32) {
	wi, hi := w.win.GetSize()
	return float32(wi), float32(hi)
}

func (w *Window) SetPointerCapture(pointerID int) {
	if pointerID == mouseID {
		w.captured = true
	}
}

func (w *Window) ReleasePointerCapture(pointerID int) {
	if pointerID == mouseID {
		w.captured = false
	}
}

// Captured reports whether the mouse pointer is captured by a listener.
func (w *Window) Captured() bool { return w.captured }

func (w *Window) onCursorPos(_ *glfw.Window, xpos, ypos float64) {
	w.DispatchEvent(w.pointerEvent(orbit.EventPointerMove, -1, xpos, ypos, 0))
}

func (w *Window) onMouseButton(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	b := mouseButton(button)
	if b < 0 {
		return
	}
	x, y := w.win.GetCursorPos()
	m := modifiers(mods)
	switch action {
	case glfw.Press:
		first := w.buttons == 0
		w.buttons |= 1 << b
		if !first {
			// Pointer events only report the first button of a chord.
			return
		}
		w.DispatchEvent(w.pointerEvent(orbit.EventPointerDown, b, x, y, m))
		if b == orbit.ButtonSecondary {
			w.DispatchEvent(&orbit.ContextMenuEvent{})
		}
	case glfw.Release:
		if w.buttons&(1<<b) == 0 {
			return
		}
		w.buttons &^= 1 << b
		if w.buttons == 0 {
			w.DispatchEvent(w.pointerEvent(orbit.EventPointerUp, b, x, y, m))
		}
	}
}

func (w *Window) onScroll(_ *glfw.Window, xoff, yoff float64) {
	if yoff == 0 {
		return
	}
	// GLFW reports positive offsets when scrolling up, DOM wheel events the opposite.
	w.DispatchEvent(&orbit.WheelEvent{DeltaY: -float32(yoff)})
}

func (w *Window) onKey(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Release {
		return
	}
	w.DispatchEvent(&orbit.KeyEvent{Code: orbit.Key(key), Mods: modifiers(mods)})
}

func (w *Window) pointerEvent(kind orbit.EventType, b orbit.MouseButton, x, y float64, mods orbit.Modifier) *orbit.PointerEvent {
	return &orbit.PointerEvent{
		Kind:        kind,
		PointerID:   mouseID,
		PointerType: orbit.PointerMouse,
		Button:      b,
		ClientX:     float32(x),
		ClientY:     float32(y),
		PageX:       float32(x),
		PageY:       float32(y),
		Mods:        mods,
	}
}

func mouseButton(b glfw.MouseButton) orbit.MouseButton {
	switch b {
	case glfw.MouseButtonLeft:
		return orbit.ButtonPrimary
	case glfw.MouseButtonMiddle:
		return orbit.ButtonMiddle
	case glfw.MouseButtonRight:
		return orbit.ButtonSecondary
	}
	return -1
}

func modifiers(mods glfw.ModifierKey) orbit.Modifier {
	var m orbit.Modifier
	if mods&glfw.ModShift != 0 {
		m |= orbit.ModShift
	}
	if mods&glfw.ModControl != 0 {
		m |= orbit.ModControl
	}
	if mods&glfw.ModAlt != 0 {
		m |= orbit.ModAlt
	}
	if mods&glfw.ModSuper != 0 {
		m |= orbit.ModMeta
	}
	return m
}
