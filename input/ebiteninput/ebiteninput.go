// Package ebiteninput converts polled ebiten input state into orbit events.
// Call [Input.Poll] once per tick from the game's Update method.
package ebiteninput

import (
	"slices"

	"github.com/soypat/orbit"
)

var (
	_ orbit.Element   = (*Input)(nil)
	_ orbit.KeyTarget = (*Input)(nil)
)

const (
	mouseID = 1
	// touchIDBase offsets touch IDs so they never collide with the mouse pointer.
	touchIDBase = 1 << 10
)

// Source is polled input state for a single tick. Coordinates are in layout pixels.
type Source interface {
	CursorPosition() (x, y int)
	MouseButtonJustPressed(orbit.MouseButton) bool
	MouseButtonJustReleased(orbit.MouseButton) bool
	// Wheel returns the scroll amount this tick. Positive y scrolls up.
	Wheel() (x, y float64)
	AppendJustPressedTouchIDs(dst []int) []int
	TouchJustReleased(id int) bool
	TouchPosition(id int) (x, y int)
	// AppendKeyDowns appends keys that were pressed or auto repeated this tick.
	AppendKeyDowns(dst []orbit.Key) []orbit.Key
	Modifiers() orbit.Modifier
}

type touchPoint struct {
	id   int
	x, y int
}

// Input is an [orbit.Element] and [orbit.KeyTarget] fed by polling a [Source].
type Input struct {
	orbit.EventTarget
	src Source

	width, height int

	cursorX, cursorY int
	cursorKnown      bool
	buttons          uint8

	touches []touchPoint
	idbuf   []int
	keybuf  []orbit.Key
	capture map[int]bool
}

// NewWithSource returns an Input polling src.
func NewWithSource(src Source) *Input {
	return &Input{src: src, capture: make(map[int]bool)}
}

// SetClientSize sets the element size. Call it from the game's Layout method.
func (in *Input) SetClientSize(width, height int) {
	in.width, in.height = width, height
}

func (in *Input) ClientSize() (width, height float32) {
	return float32(in.width), float32(in.height)
}

func (in *Input) SetPointerCapture(pointerID int)     { in.capture[pointerID] = true }
func (in *Input) ReleasePointerCapture(pointerID int) { delete(in.capture, pointerID) }

// Captured reports whether pointerID is captured by a listener.
func (in *Input) Captured(pointerID int) bool { return in.capture[pointerID] }

// Poll reads the source and dispatches the resulting events: pointer releases
// first, then moves, presses, wheel and keys.
func (in *Input) Poll() {
	in.pollTouches()
	in.pollMouse()
	if _, dy := in.src.Wheel(); dy != 0 {
		in.DispatchEvent(&orbit.WheelEvent{DeltaY: -float32(dy), Mods: in.src.Modifiers()})
	}
	in.keybuf = in.src.AppendKeyDowns(in.keybuf[:0])
	if len(in.keybuf) > 0 {
		mods := in.src.Modifiers()
		for _, k := range in.keybuf {
			in.DispatchEvent(&orbit.KeyEvent{Code: k, Mods: mods})
		}
	}
}

var mouseButtons = [...]orbit.MouseButton{orbit.ButtonPrimary, orbit.ButtonMiddle, orbit.ButtonSecondary}

func (in *Input) pollMouse() {
	x, y := in.src.CursorPosition()
	mods := in.src.Modifiers()
	for _, b := range mouseButtons {
		if in.buttons&(1<<b) == 0 || !in.src.MouseButtonJustReleased(b) {
			continue
		}
		in.buttons &^= 1 << b
		if in.buttons == 0 {
			in.DispatchEvent(in.mouseEvent(orbit.EventPointerUp, b, x, y, mods))
		}
	}
	if in.cursorKnown && (x != in.cursorX || y != in.cursorY) {
		in.DispatchEvent(in.mouseEvent(orbit.EventPointerMove, -1, x, y, mods))
	}
	in.cursorX, in.cursorY, in.cursorKnown = x, y, true
	for _, b := range mouseButtons {
		if !in.src.MouseButtonJustPressed(b) {
			continue
		}
		first := in.buttons == 0
		in.buttons |= 1 << b
		if !first {
			continue
		}
		in.DispatchEvent(in.mouseEvent(orbit.EventPointerDown, b, x, y, mods))
		if b == orbit.ButtonSecondary {
			in.DispatchEvent(&orbit.ContextMenuEvent{})
		}
	}
}

func (in *Input) pollTouches() {
	// Releases and moves of known contacts.
	for i := 0; i < len(in.touches); {
		tp := &in.touches[i]
		if in.src.TouchJustReleased(tp.id) {
			ev := in.touchEvent(orbit.EventPointerUp, tp.id, tp.x, tp.y)
			in.touches = slices.Delete(in.touches, i, i+1)
			in.DispatchEvent(ev)
			continue
		}
		x, y := in.src.TouchPosition(tp.id)
		if x != tp.x || y != tp.y {
			tp.x, tp.y = x, y
			in.DispatchEvent(in.touchEvent(orbit.EventPointerMove, tp.id, x, y))
		}
		i++
	}
	in.idbuf = in.src.AppendJustPressedTouchIDs(in.idbuf[:0])
	for _, id := range in.idbuf {
		if slices.ContainsFunc(in.touches, func(tp touchPoint) bool { return tp.id == id }) {
			continue
		}
		x, y := in.src.TouchPosition(id)
		in.touches = append(in.touches, touchPoint{id: id, x: x, y: y})
		in.DispatchEvent(in.touchEvent(orbit.EventPointerDown, id, x, y))
	}
}

func (in *Input) mouseEvent(kind orbit.EventType, b orbit.MouseButton, x, y int, mods orbit.Modifier) *orbit.PointerEvent {
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

func (in *Input) touchEvent(kind orbit.EventType, id, x, y int) *orbit.PointerEvent {
	return &orbit.PointerEvent{
		Kind:        kind,
		PointerID:   touchIDBase + id,
		PointerType: orbit.PointerTouch,
		ClientX:     float32(x),
		ClientY:     float32(y),
		PageX:       float32(x),
		PageY:       float32(y),
	}
}
