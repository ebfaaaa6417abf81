//go:build !tinygo

package ebiteninput

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/soypat/orbit"
)

// Key auto repeat timing in ticks.
const (
	repeatDelay    = 30
	repeatInterval = 3
)

var keyTable = map[ebiten.Key]orbit.Key{
	ebiten.KeyArrowLeft:  orbit.KeyArrowLeft,
	ebiten.KeyArrowRight: orbit.KeyArrowRight,
	ebiten.KeyArrowUp:    orbit.KeyArrowUp,
	ebiten.KeyArrowDown:  orbit.KeyArrowDown,
	ebiten.KeyPageUp:     orbit.KeyPageUp,
	ebiten.KeyPageDown:   orbit.KeyPageDown,
	ebiten.KeyHome:       orbit.KeyHome,
	ebiten.KeyEnd:        orbit.KeyEnd,
	ebiten.KeySpace:      orbit.KeySpace,
	ebiten.KeyEnter:      orbit.KeyEnter,
	ebiten.KeyEscape:     orbit.KeyEscape,
	ebiten.KeyA:          'A',
	ebiten.KeyB:          'B',
	ebiten.KeyC:          'C',
	ebiten.KeyD:          'D',
	ebiten.KeyE:          'E',
	ebiten.KeyF:          'F',
	ebiten.KeyG:          'G',
	ebiten.KeyH:          'H',
	ebiten.KeyI:          'I',
	ebiten.KeyJ:          'J',
	ebiten.KeyK:          'K',
	ebiten.KeyL:          'L',
	ebiten.KeyM:          'M',
	ebiten.KeyN:          'N',
	ebiten.KeyO:          'O',
	ebiten.KeyP:          'P',
	ebiten.KeyQ:          'Q',
	ebiten.KeyR:          'R',
	ebiten.KeyS:          'S',
	ebiten.KeyT:          'T',
	ebiten.KeyU:          'U',
	ebiten.KeyV:          'V',
	ebiten.KeyW:          'W',
	ebiten.KeyX:          'X',
	ebiten.KeyY:          'Y',
	ebiten.KeyZ:          'Z',
	ebiten.KeyDigit0:     '0',
	ebiten.KeyDigit1:     '1',
	ebiten.KeyDigit2:     '2',
	ebiten.KeyDigit3:     '3',
	ebiten.KeyDigit4:     '4',
	ebiten.KeyDigit5:     '5',
	ebiten.KeyDigit6:     '6',
	ebiten.KeyDigit7:     '7',
	ebiten.KeyDigit8:     '8',
	ebiten.KeyDigit9:     '9',
}

// New returns an Input polling ebiten's global input state.
func New() *Input {
	return NewWithSource(ebitenSource{})
}

type ebitenSource struct{}

func (ebitenSource) CursorPosition() (x, y int) { return ebiten.CursorPosition() }

func (ebitenSource) MouseButtonJustPressed(b orbit.MouseButton) bool {
	eb, ok := ebitenButton(b)
	return ok && inpututil.IsMouseButtonJustPressed(eb)
}

func (ebitenSource) MouseButtonJustReleased(b orbit.MouseButton) bool {
	eb, ok := ebitenButton(b)
	return ok && inpututil.IsMouseButtonJustReleased(eb)
}

func (ebitenSource) Wheel() (x, y float64) { return ebiten.Wheel() }

func (ebitenSource) AppendJustPressedTouchIDs(dst []int) []int {
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		dst = append(dst, int(id))
	}
	return dst
}

func (ebitenSource) TouchJustReleased(id int) bool {
	return inpututil.IsTouchJustReleased(ebiten.TouchID(id))
}

func (ebitenSource) TouchPosition(id int) (x, y int) {
	return ebiten.TouchPosition(ebiten.TouchID(id))
}

func (ebitenSource) AppendKeyDowns(dst []orbit.Key) []orbit.Key {
	for ek, k := range keyTable {
		d := inpututil.KeyPressDuration(ek)
		if d == 1 || (d >= repeatDelay && (d-repeatDelay)%repeatInterval == 0) {
			dst = append(dst, k)
		}
	}
	return dst
}

func (ebitenSource) Modifiers() orbit.Modifier {
	var m orbit.Modifier
	if ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		m |= orbit.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		m |= orbit.ModControl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		m |= orbit.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		m |= orbit.ModMeta
	}
	return m
}

func ebitenButton(b orbit.MouseButton) (ebiten.MouseButton, bool) {
	switch b {
	case orbit.ButtonPrimary:
		return ebiten.MouseButtonLeft, true
	case orbit.ButtonMiddle:
		return ebiten.MouseButtonMiddle, true
	case orbit.ButtonSecondary:
		return ebiten.MouseButtonRight, true
	}
	return 0, false
}
