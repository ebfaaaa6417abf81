package orbit

import (
	"errors"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	math "github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// GestureState is the gesture currently being interpreted by [Controls].
type GestureState int8

const (
	StateNone GestureState = iota
	StateRotate
	StateDolly
	StatePan
	StateTouchRotate
	StateTouchPan
	StateTouchDollyPan
	StateTouchDollyRotate
)

func (gs GestureState) String() string {
	switch gs {
	case StateNone:
		return "none"
	case StateRotate:
		return "rotate"
	case StateDolly:
		return "dolly"
	case StatePan:
		return "pan"
	case StateTouchRotate:
		return "touch-rotate"
	case StateTouchPan:
		return "touch-pan"
	case StateTouchDollyPan:
		return "touch-dolly-pan"
	case StateTouchDollyRotate:
		return "touch-dolly-rotate"
	}
	return "unknown"
}

// changeEpsilon is the threshold for squared camera displacement and
// small-angle orientation change above which Update reports a change.
const changeEpsilon = 1e-6

const twoPi = 2 * math.Pi

var defaultLogger = sync.OnceValue(func() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "orbit",
	})
})

// Controls orbits a [Camera] around a target point in response to pointer,
// wheel and keyboard input: rotate with one finger or the primary mouse button,
// dolly with two fingers or the wheel, pan with two fingers, the secondary mouse
// button or the arrow keys. Controls is not safe for concurrent use; input events
// and Update must be delivered from a single goroutine.
type Controls struct {
	// Target is the point the camera orbits around. It may be modified between updates.
	Target mgl32.Vec3

	cfg  Config
	log  *log.Logger
	cam  Camera
	elem Element

	state          GestureState
	spherical      Spherical
	sphericalDelta Spherical
	scale          float32
	panOffset      mgl32.Vec3
	zoomChanged    bool

	rotateStart, rotateEnd mgl32.Vec2
	panStart, panEnd       mgl32.Vec2
	dollyStart, dollyEnd   mgl32.Vec2

	// pointers holds active pointer IDs in order of arrival.
	pointers []int
	// positions holds the last known page position of active pointers.
	positions map[int]mgl32.Vec2

	target0   mgl32.Vec3
	position0 mgl32.Vec3
	zoom0     float32

	lastPosition   mgl32.Vec3
	lastQuaternion mgl32.Quat
	// quat rotates the camera up axis onto +Y.
	quat        mgl32.Quat
	quatInverse mgl32.Quat

	listening   bool
	unsubscribe []func()
	// unsubscribeDrag removes move and up listeners added while pointers are active.
	unsubscribeDrag []func()
	unsubscribeKey  func()

	observers      [numNotifications][]observer
	lastObserverID uint64
}

// New creates Controls for cam listening to pointer and wheel events from elem.
// Keyboard input is attached separately with [Controls.ListenToKeyEvents].
func New(cam Camera, elem Element, cfg Config) (*Controls, error) {
	if cam == nil {
		return nil, errors.New("nil camera")
	} else if elem == nil {
		return nil, errors.New("nil element")
	}
	c := &Controls{
		cam:            cam,
		elem:           elem,
		scale:          1,
		positions:      make(map[int]mgl32.Vec2),
		lastQuaternion: mgl32.QuatIdent(),
	}
	err := c.Configure(cfg)
	if err != nil {
		return nil, err
	}
	c.quat = mgl32.QuatBetweenVectors(cam.Up(), mgl32.Vec3{0, 1, 0})
	c.quatInverse = c.quat.Inverse()
	c.SaveState()
	c.listen()
	c.Update()
	return c, nil
}

// Configure replaces the controls configuration. Gestures in progress
// continue under the new configuration.
func (c *Controls) Configure(cfg Config) error {
	err := cfg.Validate()
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.log = cfg.Logger
	if c.log == nil {
		c.log = defaultLogger()
	}
	return nil
}

// Config returns the current configuration. Features disabled at runtime due to an
// unsupported camera projection are reflected in the returned value.
func (c *Controls) Config() Config { return c.cfg }

// Camera returns the camera being controlled.
func (c *Controls) Camera() Camera { return c.cam }

// State returns the gesture currently in progress.
func (c *Controls) State() GestureState { return c.state }

// PolarAngle returns the vertical rotation in radians as of the last Update.
func (c *Controls) PolarAngle() float32 { return c.spherical.Phi }

// AzimuthalAngle returns the horizontal rotation in radians as of the last Update.
func (c *Controls) AzimuthalAngle() float32 { return c.spherical.Theta }

// Distance returns the distance from the camera to the target.
func (c *Controls) Distance() float32 {
	return c.cam.Position().Sub(c.Target).Len()
}

// SaveState stores the current target, camera position and zoom so they can be restored with Reset.
func (c *Controls) SaveState() {
	c.target0 = c.Target
	c.position0 = c.cam.Position()
	c.zoom0 = c.cam.Zoom()
}

// Reset restores the state saved by the last SaveState call, or the state at
// creation if SaveState was never called. Pending motion is discarded and
// exactly one change notification is emitted.
func (c *Controls) Reset() {
	c.Target = c.target0
	c.cam.SetPosition(c.position0)
	c.cam.SetZoom(c.zoom0)
	c.cam.UpdateProjectionMatrix()
	c.sphericalDelta = Spherical{}
	c.panOffset = mgl32.Vec3{}
	c.scale = 1
	c.zoomChanged = true // Forces the change notification.
	c.Update()
	c.state = StateNone
}

// Update applies pending rotation, pan and dolly to the camera and reports whether the
// camera changed noticeably, in which case change observers are notified.
// Update must be called every frame if damping or auto-rotation are enabled.
func (c *Controls) Update() bool {
	position := c.cam.Position()
	offset := c.quat.Rotate(position.Sub(c.Target))
	c.spherical.SetFromVec3(offset)
	initial := c.spherical

	if c.cfg.AutoRotate && c.state == StateNone {
		c.rotateLeft(c.autoRotationAngle())
	}
	if c.cfg.EnableDamping {
		c.spherical.Theta += c.sphericalDelta.Theta * c.cfg.DampingFactor
		c.spherical.Phi += c.sphericalDelta.Phi * c.cfg.DampingFactor
	} else {
		c.spherical.Theta += c.sphericalDelta.Theta
		c.spherical.Phi += c.sphericalDelta.Phi
	}
	minAz, maxAz := c.cfg.MinAzimuthAngle, c.cfg.MaxAzimuthAngle
	if isFinite(minAz) && isFinite(maxAz) {
		c.spherical.Theta = clampAzimuth(c.spherical.Theta, minAz, maxAz)
	}
	c.spherical.Phi = clamp(c.spherical.Phi, c.cfg.MinPolarAngle, c.cfg.MaxPolarAngle)
	c.spherical.MakeSafe()
	c.spherical.Radius *= c.scale
	c.spherical.Radius = clamp(c.spherical.Radius, c.cfg.MinDistance, c.cfg.MaxDistance)

	pan := c.panOffset
	if c.cfg.EnableDamping {
		pan = pan.Mul(c.cfg.DampingFactor)
	}
	c.Target = c.Target.Add(pan)
	if c.spherical != initial || pan != (mgl32.Vec3{}) {
		// Only write back when something moved so a settled camera keeps its exact position.
		offset = c.quatInverse.Rotate(c.spherical.Vec3())
		position = c.Target.Add(offset)
		c.cam.SetPosition(position)
	}
	c.cam.LookAt(c.Target)

	if c.cfg.EnableDamping {
		decay := 1 - c.cfg.DampingFactor
		c.sphericalDelta.Theta *= decay
		c.sphericalDelta.Phi *= decay
		c.panOffset = c.panOffset.Mul(decay)
	} else {
		c.sphericalDelta = Spherical{}
		c.panOffset = mgl32.Vec3{}
	}
	c.scale = 1

	// Small angle approximation cos(x/2) = 1 - x^2/8 for orientation change.
	q := c.cam.Quaternion()
	if c.zoomChanged ||
		c.lastPosition.Sub(position).LenSqr() > changeEpsilon ||
		8*(1-c.lastQuaternion.Dot(q)) > changeEpsilon {
		c.lastPosition = position
		c.lastQuaternion = q
		c.zoomChanged = false
		c.notify(notifyChange)
		return true
	}
	return false
}

// clampAzimuth clamps theta to [lo, hi] after normalizing both limits into [-π, π].
// When the normalized interval wraps around ±π theta is clamped to the nearest limit.
func clampAzimuth(theta, lo, hi float32) float32 {
	if lo < -math.Pi {
		lo += twoPi
	} else if lo > math.Pi {
		lo -= twoPi
	}
	if hi < -math.Pi {
		hi += twoPi
	} else if hi > math.Pi {
		hi -= twoPi
	}
	if lo <= hi {
		return clamp(theta, lo, hi)
	}
	if theta > (lo+hi)/2 {
		return max(lo, theta)
	}
	return min(hi, theta)
}

// ListenToKeyEvents attaches keyboard panning and rotation to kt. Any previously
// attached key target is detached first.
func (c *Controls) ListenToKeyEvents(kt KeyTarget) {
	c.StopListenToKeyEvents()
	c.unsubscribeKey = kt.AddEventListener(EventKeyDown, c.onKeyDown)
}

// StopListenToKeyEvents detaches the key target attached with ListenToKeyEvents, if any.
func (c *Controls) StopListenToKeyEvents() {
	if c.unsubscribeKey != nil {
		c.unsubscribeKey()
		c.unsubscribeKey = nil
	}
}

// Dispose removes every event listener added by the controls. It is safe to call Dispose more than once.
func (c *Controls) Dispose() {
	c.StopListenToKeyEvents()
	if !c.listening {
		return
	}
	for _, remove := range c.unsubscribe {
		remove()
	}
	c.unsubscribe = c.unsubscribe[:0]
	c.removeDragListeners()
	for _, id := range c.pointers {
		c.elem.ReleasePointerCapture(id)
	}
	c.pointers = c.pointers[:0]
	clear(c.positions)
	c.state = StateNone
	c.listening = false
}

func (c *Controls) listen() {
	c.unsubscribe = append(c.unsubscribe[:0],
		c.elem.AddEventListener(EventContextMenu, c.onContextMenu),
		c.elem.AddEventListener(EventPointerDown, c.onPointerDown),
		c.elem.AddEventListener(EventPointerCancel, c.onPointerUp),
		c.elem.AddEventListener(EventWheel, c.onWheel),
	)
	c.listening = true
}

func (c *Controls) removeDragListeners() {
	for _, remove := range c.unsubscribeDrag {
		remove()
	}
	c.unsubscribeDrag = c.unsubscribeDrag[:0]
}

func (c *Controls) autoRotationAngle() float32 {
	return twoPi / 60 / 60 * c.cfg.AutoRotateSpeed
}

func (c *Controls) zoomScale() float32 {
	return math.Pow(0.95, c.cfg.ZoomSpeed)
}

func isFinite(f float32) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
