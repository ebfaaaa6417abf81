package orbit

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	math "github.com/chewxy/math32"
	"github.com/pelletier/go-toml/v2"
)

// MouseAction is the gesture a mouse button drives.
type MouseAction uint8

const (
	MouseNone MouseAction = iota
	MouseRotate
	MouseDolly
	MousePan
)

var mouseActionNames = [...]string{
	MouseNone:   "none",
	MouseRotate: "rotate",
	MouseDolly:  "dolly",
	MousePan:    "pan",
}

func (a MouseAction) String() string {
	if int(a) < len(mouseActionNames) {
		return mouseActionNames[a]
	}
	return "MouseAction(" + fmt.Sprint(uint8(a)) + ")"
}

func (a MouseAction) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *MouseAction) UnmarshalText(text []byte) error {
	for i, name := range mouseActionNames {
		if name == string(text) {
			*a = MouseAction(i)
			return nil
		}
	}
	return fmt.Errorf("unknown mouse action %q", text)
}

// TouchAction is the gesture a number of touch contacts drives.
type TouchAction uint8

const (
	TouchNone TouchAction = iota
	TouchRotate
	TouchPan
	TouchDollyPan
	TouchDollyRotate
)

var touchActionNames = [...]string{
	TouchNone:        "none",
	TouchRotate:      "rotate",
	TouchPan:         "pan",
	TouchDollyPan:    "dolly-pan",
	TouchDollyRotate: "dolly-rotate",
}

func (a TouchAction) String() string {
	if int(a) < len(touchActionNames) {
		return touchActionNames[a]
	}
	return "TouchAction(" + fmt.Sprint(uint8(a)) + ")"
}

func (a TouchAction) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *TouchAction) UnmarshalText(text []byte) error {
	for i, name := range touchActionNames {
		if name == string(text) {
			*a = TouchAction(i)
			return nil
		}
	}
	return fmt.Errorf("unknown touch action %q", text)
}

// MouseButtons maps each mouse button to a gesture.
type MouseButtons struct {
	Left   MouseAction `toml:"left"`
	Middle MouseAction `toml:"middle"`
	Right  MouseAction `toml:"right"`
}

func (mb MouseButtons) action(b MouseButton) MouseAction {
	switch b {
	case ButtonPrimary:
		return mb.Left
	case ButtonMiddle:
		return mb.Middle
	case ButtonSecondary:
		return mb.Right
	}
	return MouseNone
}

// Touches maps the number of touch contacts to a gesture. One only accepts
// [TouchRotate] and [TouchPan], Two only accepts [TouchDollyPan] and [TouchDollyRotate].
type Touches struct {
	One TouchAction `toml:"one"`
	Two TouchAction `toml:"two"`
}

// Config holds the tunable behavior of [Controls]. Angles are in radians.
// Use [DefaultConfig] as a starting point, the zero value disables the controls.
type Config struct {
	Enabled bool `toml:"enabled"`

	// How far the camera can dolly in and out. Perspective cameras only.
	MinDistance float32 `toml:"min_distance"`
	MaxDistance float32 `toml:"max_distance"`
	// How far the camera can zoom in and out. Orthographic cameras only.
	MinZoom float32 `toml:"min_zoom"`
	MaxZoom float32 `toml:"max_zoom"`
	// Vertical orbit limits. Must be within [0, π].
	MinPolarAngle float32 `toml:"min_polar_angle"`
	MaxPolarAngle float32 `toml:"max_polar_angle"`
	// Horizontal orbit limits. If set, the interval [min, max] must be a
	// sub-interval of [-2π, 2π] with max-min < 2π. Infinite values disable the limit.
	MinAzimuthAngle float32 `toml:"min_azimuth_angle"`
	MaxAzimuthAngle float32 `toml:"max_azimuth_angle"`

	// EnableDamping gives a sense of weight to the controls.
	// Update must be called every frame when damping is enabled.
	EnableDamping bool    `toml:"enable_damping"`
	DampingFactor float32 `toml:"damping_factor"`

	EnableZoom   bool    `toml:"enable_zoom"`
	ZoomSpeed    float32 `toml:"zoom_speed"`
	EnableRotate bool    `toml:"enable_rotate"`
	RotateSpeed  float32 `toml:"rotate_speed"`
	EnablePan    bool    `toml:"enable_pan"`
	PanSpeed     float32 `toml:"pan_speed"`
	// ScreenSpacePanning pans in the camera's screen plane when true,
	// else in the plane orthogonal to the camera's up direction.
	ScreenSpacePanning bool `toml:"screen_space_panning"`
	// KeyPanSpeed is the pixel distance moved per arrow key press.
	KeyPanSpeed float32 `toml:"key_pan_speed"`

	// AutoRotate orbits around the target when no gesture is active.
	// Update must be called every frame. AutoRotateSpeed of 2 is 30 seconds per orbit at 60fps.
	AutoRotate      bool    `toml:"auto_rotate"`
	AutoRotateSpeed float32 `toml:"auto_rotate_speed"`

	Keys         KeyMap       `toml:"keys"`
	MouseButtons MouseButtons `toml:"mouse_buttons"`
	Touches      Touches      `toml:"touches"`

	// Logger receives diagnostics. If nil a package level logger writing to stderr is used.
	Logger *log.Logger `toml:"-"`
}

// DefaultConfig returns the default controls configuration: left mouse rotates,
// middle dollies, right pans; one finger rotates, two fingers dolly and pan.
func DefaultConfig() Config {
	return Config{
		Enabled:            true,
		MinDistance:        0,
		MaxDistance:        math.Inf(1),
		MinZoom:            0,
		MaxZoom:            math.Inf(1),
		MinPolarAngle:      0,
		MaxPolarAngle:      math.Pi,
		MinAzimuthAngle:    math.Inf(-1),
		MaxAzimuthAngle:    math.Inf(1),
		DampingFactor:      0.05,
		EnableZoom:         true,
		ZoomSpeed:          1,
		EnableRotate:       true,
		RotateSpeed:        1,
		EnablePan:          true,
		PanSpeed:           1,
		ScreenSpacePanning: true,
		KeyPanSpeed:        7,
		AutoRotateSpeed:    2,
		Keys:               DefaultKeyMap(),
		MouseButtons:       MouseButtons{Left: MouseRotate, Middle: MouseDolly, Right: MousePan},
		Touches:            Touches{One: TouchRotate, Two: TouchDollyPan},
	}
}

// Validate checks cfg for inconsistent limits and unsupported action assignments.
func (cfg *Config) Validate() error {
	var errs []error
	if math.IsNaN(cfg.MinDistance) || math.IsNaN(cfg.MaxDistance) || cfg.MinDistance < 0 || cfg.MinDistance > cfg.MaxDistance {
		errs = append(errs, fmt.Errorf("invalid distance range [%g, %g]", cfg.MinDistance, cfg.MaxDistance))
	}
	if math.IsNaN(cfg.MinZoom) || math.IsNaN(cfg.MaxZoom) || cfg.MinZoom < 0 || cfg.MinZoom > cfg.MaxZoom {
		errs = append(errs, fmt.Errorf("invalid zoom range [%g, %g]", cfg.MinZoom, cfg.MaxZoom))
	}
	if !(cfg.MinPolarAngle >= 0 && cfg.MinPolarAngle <= cfg.MaxPolarAngle && cfg.MaxPolarAngle <= math.Pi) {
		errs = append(errs, fmt.Errorf("polar angle range [%g, %g] not within [0, π]", cfg.MinPolarAngle, cfg.MaxPolarAngle))
	}
	minAz, maxAz := cfg.MinAzimuthAngle, cfg.MaxAzimuthAngle
	if math.IsNaN(minAz) || math.IsNaN(maxAz) {
		errs = append(errs, errors.New("azimuth angle limit is NaN"))
	} else if !math.IsInf(minAz, 0) && !math.IsInf(maxAz, 0) {
		if minAz < -2*math.Pi || maxAz > 2*math.Pi || minAz > 2*math.Pi || maxAz < -2*math.Pi {
			errs = append(errs, fmt.Errorf("azimuth angle range [%g, %g] not within [-2π, 2π]", minAz, maxAz))
		} else if maxAz-minAz >= 2*math.Pi {
			errs = append(errs, fmt.Errorf("azimuth angle span %g must be smaller than 2π", maxAz-minAz))
		}
	}
	if cfg.EnableDamping && !(cfg.DampingFactor > 0 && cfg.DampingFactor <= 1) {
		errs = append(errs, fmt.Errorf("damping factor %g must be in (0, 1]", cfg.DampingFactor))
	}
	if cfg.KeyPanSpeed < 0 || cfg.ZoomSpeed < 0 || cfg.RotateSpeed < 0 || cfg.PanSpeed < 0 {
		errs = append(errs, errors.New("negative speed"))
	}
	if mb := cfg.MouseButtons; mb.Left > MousePan || mb.Middle > MousePan || mb.Right > MousePan {
		errs = append(errs, errors.New("invalid mouse button action"))
	}
	switch cfg.Touches.One {
	case TouchNone, TouchRotate, TouchPan:
	default:
		errs = append(errs, fmt.Errorf("one-finger touch action %s unsupported", cfg.Touches.One))
	}
	switch cfg.Touches.Two {
	case TouchNone, TouchDollyPan, TouchDollyRotate:
	default:
		errs = append(errs, fmt.Errorf("two-finger touch action %s unsupported", cfg.Touches.Two))
	}
	return errors.Join(errs...)
}

// DecodeConfig reads a TOML document from r over the values of [DefaultConfig].
// Fields absent from the document keep their default. Unknown fields are an error.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	err := dec.Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decoding controls config: %w", err)
	}
	err = cfg.Validate()
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// EncodeConfig writes cfg as a TOML document to w.
func EncodeConfig(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}
