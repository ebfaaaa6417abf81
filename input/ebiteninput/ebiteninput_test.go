package ebiteninput

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/orbit"
	"github.com/soypat/orbit/camera"
)

// fakeSource holds the input state of one tick.
type fakeSource struct {
	x, y     int
	pressed  map[orbit.MouseButton]bool
	released map[orbit.MouseButton]bool
	wheel    float64
	newTouch []int
	upTouch  map[int]bool
	touchPos map[int][2]int
	keys     []orbit.Key
	mods     orbit.Modifier
}

func newFakeSource() *fakeSource {
	return &fakeSource{touchPos: make(map[int][2]int)}
}

// tick clears per tick state, keeping positions.
func (s *fakeSource) tick() {
	s.pressed, s.released, s.upTouch = nil, nil, nil
	s.wheel, s.newTouch, s.keys = 0, nil, nil
}

func (s *fakeSource) CursorPosition() (int, int)                      { return s.x, s.y }
func (s *fakeSource) MouseButtonJustPressed(b orbit.MouseButton) bool  { return s.pressed[b] }
func (s *fakeSource) MouseButtonJustReleased(b orbit.MouseButton) bool { return s.released[b] }
func (s *fakeSource) Wheel() (float64, float64)                        { return 0, s.wheel }
func (s *fakeSource) AppendJustPressedTouchIDs(dst []int) []int        { return append(dst, s.newTouch...) }
func (s *fakeSource) TouchJustReleased(id int) bool                    { return s.upTouch[id] }
func (s *fakeSource) AppendKeyDowns(dst []orbit.Key) []orbit.Key       { return append(dst, s.keys...) }
func (s *fakeSource) Modifiers() orbit.Modifier                        { return s.mods }
func (s *fakeSource) TouchPosition(id int) (int, int) {
	p := s.touchPos[id]
	return p[0], p[1]
}

type recorder struct {
	events []orbit.Event
}

func (r *recorder) listen(in *Input, types ...orbit.EventType) {
	for _, typ := range types {
		in.AddEventListener(typ, func(ev orbit.Event) { r.events = append(r.events, ev) })
	}
}

func (r *recorder) kinds() []orbit.EventType {
	var k []orbit.EventType
	for _, ev := range r.events {
		k = append(k, ev.Type())
	}
	return k
}

var allTypes = []orbit.EventType{
	orbit.EventPointerDown, orbit.EventPointerMove, orbit.EventPointerUp,
	orbit.EventWheel, orbit.EventKeyDown, orbit.EventContextMenu,
}

func equalKinds(a, b []orbit.EventType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMouseSequence(t *testing.T) {
	src := newFakeSource()
	in := NewWithSource(src)
	var rec recorder
	rec.listen(in, allTypes...)

	src.x, src.y = 10, 10
	in.Poll() // First poll only records the cursor.
	src.tick()
	src.pressed = map[orbit.MouseButton]bool{orbit.ButtonSecondary: true}
	in.Poll()
	src.tick()
	src.x = 20
	in.Poll()
	src.tick()
	src.released = map[orbit.MouseButton]bool{orbit.ButtonSecondary: true}
	in.Poll()

	want := []orbit.EventType{orbit.EventPointerDown, orbit.EventContextMenu, orbit.EventPointerMove, orbit.EventPointerUp}
	if got := rec.kinds(); !equalKinds(got, want) {
		t.Fatalf("want events %v, got %v", want, got)
	}
	down := rec.events[0].(*orbit.PointerEvent)
	if down.Button != orbit.ButtonSecondary || down.PointerType != orbit.PointerMouse || down.ClientX != 10 {
		t.Errorf("unexpected pointer down %+v", down)
	}
	move := rec.events[2].(*orbit.PointerEvent)
	if move.ClientX != 20 || move.PageX != 20 {
		t.Errorf("unexpected move %+v", move)
	}
}

func TestMouseChordSingleDown(t *testing.T) {
	src := newFakeSource()
	in := NewWithSource(src)
	var rec recorder
	rec.listen(in, orbit.EventPointerDown, orbit.EventPointerUp)
	src.pressed = map[orbit.MouseButton]bool{orbit.ButtonPrimary: true, orbit.ButtonMiddle: true}
	in.Poll()
	src.tick()
	src.released = map[orbit.MouseButton]bool{orbit.ButtonPrimary: true}
	in.Poll()
	src.tick()
	src.released = map[orbit.MouseButton]bool{orbit.ButtonMiddle: true}
	in.Poll()
	want := []orbit.EventType{orbit.EventPointerDown, orbit.EventPointerUp}
	if got := rec.kinds(); !equalKinds(got, want) {
		t.Fatalf("want events %v, got %v", want, got)
	}
}

func TestTouchSequence(t *testing.T) {
	src := newFakeSource()
	in := NewWithSource(src)
	var rec recorder
	rec.listen(in, allTypes...)

	src.newTouch = []int{0, 1}
	src.touchPos[0] = [2]int{10, 10}
	src.touchPos[1] = [2]int{30, 10}
	in.Poll()
	src.tick()
	src.touchPos[1] = [2]int{40, 10}
	in.Poll()
	src.tick()
	src.upTouch = map[int]bool{0: true, 1: true}
	in.Poll()

	want := []orbit.EventType{
		orbit.EventPointerDown, orbit.EventPointerDown,
		orbit.EventPointerMove,
		orbit.EventPointerUp, orbit.EventPointerUp,
	}
	if got := rec.kinds(); !equalKinds(got, want) {
		t.Fatalf("want events %v, got %v", want, got)
	}
	ids := map[int]bool{}
	for _, ev := range rec.events {
		pe := ev.(*orbit.PointerEvent)
		if pe.PointerType != orbit.PointerTouch {
			t.Errorf("want touch pointer, got %v", pe.PointerType)
		}
		if pe.PointerID == mouseID {
			t.Error("touch pointer ID collides with mouse")
		}
		ids[pe.PointerID] = true
	}
	if len(ids) != 2 {
		t.Errorf("want 2 distinct pointer IDs, got %d", len(ids))
	}
	if len(in.touches) != 0 {
		t.Errorf("touches not released: %v", in.touches)
	}
}

func TestWheelAndKeys(t *testing.T) {
	src := newFakeSource()
	in := NewWithSource(src)
	var rec recorder
	rec.listen(in, orbit.EventWheel, orbit.EventKeyDown)
	src.wheel = 1
	src.keys = []orbit.Key{orbit.KeyArrowUp}
	src.mods = orbit.ModShift
	in.Poll()
	if len(rec.events) != 2 {
		t.Fatalf("want 2 events, got %d", len(rec.events))
	}
	if w := rec.events[0].(*orbit.WheelEvent); w.DeltaY >= 0 {
		t.Errorf("scrolling up must yield negative DeltaY, got %g", w.DeltaY)
	}
	if k := rec.events[1].(*orbit.KeyEvent); k.Code != orbit.KeyArrowUp || k.Mods != orbit.ModShift {
		t.Errorf("unexpected key event %+v", k)
	}
}

func TestDrivesControls(t *testing.T) {
	src := newFakeSource()
	in := NewWithSource(src)
	in.SetClientSize(800, 600)
	cam := camera.NewPerspective(mgl32.DegToRad(50), 800./600, 0.1, 100)
	cam.SetPosition(mgl32.Vec3{0, 0, 10})
	c, err := orbit.New(cam, in, orbit.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	src.x, src.y = 100, 100
	src.pressed = map[orbit.MouseButton]bool{orbit.ButtonPrimary: true}
	in.Poll()
	if c.State() != orbit.StateRotate {
		t.Fatalf("want rotate state, got %v", c.State())
	}
	if !in.Captured(mouseID) {
		t.Error("pointer not captured during gesture")
	}
	src.tick()
	src.x = 160
	in.Poll()
	c.Update()
	if c.AzimuthalAngle() >= 0 {
		t.Errorf("dragging right must decrease azimuth, got %g", c.AzimuthalAngle())
	}
	src.tick()
	src.released = map[orbit.MouseButton]bool{orbit.ButtonPrimary: true}
	in.Poll()
	if c.State() != orbit.StateNone || in.Captured(mouseID) {
		t.Error("gesture did not end on release")
	}
	src.tick()
	src.wheel = 1
	d := c.Distance()
	in.Poll()
	if c.Distance() >= d {
		t.Errorf("scrolling up must dolly in: %g >= %g", c.Distance(), d)
	}
}
