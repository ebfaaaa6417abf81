package orbit

import (
	"fmt"
	"strconv"
)

// Key is a physical key code. Values match GLFW key codes so glfw input
// can be converted with a plain type conversion.
type Key int32

const (
	KeyUnknown Key = -1
	KeySpace   Key = 32
	Key0       Key = 48
	Key9       Key = 57
	KeyA       Key = 65
	KeyD       Key = 68
	KeyS       Key = 83
	KeyW       Key = 87
	KeyZ       Key = 90
	KeyEscape  Key = 256
	KeyEnter   Key = 257

	KeyArrowRight Key = 262
	KeyArrowLeft  Key = 263
	KeyArrowDown  Key = 264
	KeyArrowUp    Key = 265
	KeyPageUp     Key = 266
	KeyPageDown   Key = 267
	KeyHome       Key = 268
	KeyEnd        Key = 269
)

var keyNames = map[Key]string{
	KeySpace:      "Space",
	KeyEscape:     "Escape",
	KeyEnter:      "Enter",
	KeyArrowRight: "ArrowRight",
	KeyArrowLeft:  "ArrowLeft",
	KeyArrowDown:  "ArrowDown",
	KeyArrowUp:    "ArrowUp",
	KeyPageUp:     "PageUp",
	KeyPageDown:   "PageDown",
	KeyHome:       "Home",
	KeyEnd:        "End",
}

// String returns the key name in the style of DOM key codes, i.e: "ArrowLeft", "KeyW", "Digit3".
func (k Key) String() string {
	switch {
	case k >= KeyA && k <= KeyZ:
		return "Key" + string(rune(k))
	case k >= Key0 && k <= Key9:
		return "Digit" + string(rune(k))
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "Key(" + strconv.Itoa(int(k)) + ")"
}

func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Key) UnmarshalText(text []byte) error {
	s := string(text)
	if len(s) == 4 && s[:3] == "Key" && s[3] >= 'A' && s[3] <= 'Z' {
		*k = Key(s[3])
		return nil
	}
	if len(s) == 6 && s[:5] == "Digit" && s[5] >= '0' && s[5] <= '9' {
		*k = Key(s[5])
		return nil
	}
	for code, name := range keyNames {
		if name == s {
			*k = code
			return nil
		}
	}
	return fmt.Errorf("unknown key name %q", s)
}

// KeyMap assigns the four pan/rotate directions to keys.
type KeyMap struct {
	Left   Key `toml:"left"`
	Up     Key `toml:"up"`
	Right  Key `toml:"right"`
	Bottom Key `toml:"bottom"`
}

// DefaultKeyMap uses the arrow keys.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left:   KeyArrowLeft,
		Up:     KeyArrowUp,
		Right:  KeyArrowRight,
		Bottom: KeyArrowDown,
	}
}
