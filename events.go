package orbit

import (
	"slices"
)

// EventType identifies the kind of input event delivered by an [Element] or [KeyTarget].
type EventType uint8

const (
	_ EventType = iota
	EventPointerDown
	EventPointerMove
	EventPointerUp
	EventPointerCancel
	EventWheel
	EventKeyDown
	EventContextMenu
	numEventTypes
)

func (et EventType) String() string {
	switch et {
	case EventPointerDown:
		return "pointerdown"
	case EventPointerMove:
		return "pointermove"
	case EventPointerUp:
		return "pointerup"
	case EventPointerCancel:
		return "pointercancel"
	case EventWheel:
		return "wheel"
	case EventKeyDown:
		return "keydown"
	case EventContextMenu:
		return "contextmenu"
	}
	return "unknown"
}

// PointerType classifies the device behind a pointer event.
type PointerType uint8

const (
	PointerMouse PointerType = iota
	PointerTouch
	PointerPen
)

// MouseButton is the index of the button that changed state in a pointer-down event.
type MouseButton int8

const (
	ButtonPrimary   MouseButton = 0
	ButtonMiddle    MouseButton = 1
	ButtonSecondary MouseButton = 2
)

// Modifier is a bit set of modifier keys held during an event.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModControl
	ModAlt
	ModMeta
)

// swapsAction reports whether the modifier set swaps rotate and pan mouse actions.
func (m Modifier) swapsAction() bool {
	return m&(ModShift|ModControl|ModMeta) != 0
}

// Event is implemented by every input event value.
type Event interface {
	Type() EventType
	// PreventDefault flags the event so the input source suppresses its default handling.
	PreventDefault()
	DefaultPrevented() bool
}

type defaultAction struct {
	prevented bool
}

func (d *defaultAction) PreventDefault()        { d.prevented = true }
func (d *defaultAction) DefaultPrevented() bool { return d.prevented }

// PointerEvent is delivered for pointer down, move, up and cancel.
// Mouse input is represented as a single pointer with a stable ID.
type PointerEvent struct {
	Kind        EventType
	PointerID   int
	PointerType PointerType
	Button      MouseButton
	// Client coordinates are relative to the element's viewport.
	ClientX, ClientY float32
	// Page coordinates are relative to the whole document or screen.
	PageX, PageY float32
	Mods         Modifier
	defaultAction
}

func (ev *PointerEvent) Type() EventType { return ev.Kind }

// WheelEvent carries a signed vertical scroll amount. Negative DeltaY scrolls up.
type WheelEvent struct {
	DeltaY float32
	Mods   Modifier
	defaultAction
}

func (ev *WheelEvent) Type() EventType { return EventWheel }

// KeyEvent is delivered when a key is pressed.
type KeyEvent struct {
	Code Key
	Mods Modifier
	defaultAction
}

func (ev *KeyEvent) Type() EventType { return EventKeyDown }

// ContextMenuEvent is delivered when the input source would open a context menu.
type ContextMenuEvent struct {
	defaultAction
}

func (ev *ContextMenuEvent) Type() EventType { return EventContextMenu }

// EventListener receives events of the type it was registered for.
type EventListener func(Event)

// KeyTarget is a focusable input source of key events.
type KeyTarget interface {
	// AddEventListener registers fn for events of type typ and returns a function
	// that unregisters it. Calling the returned function more than once has no effect.
	AddEventListener(typ EventType, fn EventListener) (remove func())
}

// Element is the pointer and wheel input source [Controls] attaches to.
type Element interface {
	KeyTarget
	// ClientSize returns the inner size of the element in pixels.
	ClientSize() (width, height float32)
	SetPointerCapture(pointerID int)
	ReleasePointerCapture(pointerID int)
}

// EventTarget is a listener registry that input adapters can embed to
// implement the AddEventListener half of [Element] and [KeyTarget].
// The zero value is ready to use.
type EventTarget struct {
	listeners [numEventTypes][]listenerEntry
	lastID    uint64
}

type listenerEntry struct {
	id uint64
	fn EventListener
}

// AddEventListener registers fn to be called on every dispatched event of type typ.
func (et *EventTarget) AddEventListener(typ EventType, fn EventListener) (remove func()) {
	if typ == 0 || typ >= numEventTypes || fn == nil {
		return func() {}
	}
	et.lastID++
	id := et.lastID
	et.listeners[typ] = append(et.listeners[typ], listenerEntry{id: id, fn: fn})
	return func() {
		ls := et.listeners[typ]
		i := slices.IndexFunc(ls, func(e listenerEntry) bool { return e.id == id })
		if i < 0 {
			return
		}
		// Copy so a dispatch in progress keeps iterating its own snapshot.
		et.listeners[typ] = slices.Delete(slices.Clone(ls), i, i+1)
	}
}

// DispatchEvent calls the listeners registered for ev's type in registration order
// and reports whether any of them prevented the default action.
func (et *EventTarget) DispatchEvent(ev Event) (defaultPrevented bool) {
	typ := ev.Type()
	if typ == 0 || typ >= numEventTypes {
		return ev.DefaultPrevented()
	}
	for _, l := range et.listeners[typ] {
		l.fn(ev)
	}
	return ev.DefaultPrevented()
}

// ListenerCount returns the number of listeners registered for typ.
func (et *EventTarget) ListenerCount(typ EventType) int {
	if typ == 0 || typ >= numEventTypes {
		return 0
	}
	return len(et.listeners[typ])
}
