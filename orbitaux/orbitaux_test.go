package orbitaux

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/orbit/forge/textmesh"
	"golang.org/x/image/font/gofont/goregular"
)

func TestRender(t *testing.T) {
	var fnt textmesh.TTF
	err := fnt.LoadTTFBytes(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	var stl, pic bytes.Buffer
	err = Render("Hi", textmesh.Params{Font: &fnt, Size: 10, Depth: 1}, RenderConfig{
		STLOutput:    &stl,
		VisualOutput: &pic,
		VisualHeight: 32,
		Silent:       true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if stl.Len() < 84 {
		t.Fatalf("short STL output: %d bytes", stl.Len())
	}
	ntri := binary.LittleEndian.Uint32(stl.Bytes()[80:])
	if int(ntri)*50+84 != stl.Len() {
		t.Errorf("STL triangle count %d does not match size %d", ntri, stl.Len())
	}
	img, err := png.Decode(&pic)
	if err != nil {
		t.Fatal(err)
	}
	if h := img.Bounds().Dy(); h != 32 {
		t.Errorf("want image height 32, got %d", h)
	}
	err = Render("Hi", textmesh.Params{Font: &fnt}, RenderConfig{})
	if err == nil {
		t.Error("expected error without outputs")
	}
	err = Render("Hi", textmesh.Params{Font: "not a font"}, RenderConfig{STLOutput: &stl, Silent: true})
	if err == nil {
		t.Error("expected error for empty geometry")
	}
}

func TestMeshBounds(t *testing.T) {
	model := []ms3.Triangle{
		{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
		{{X: -2, Y: 0, Z: 3}, {X: 1, Y: 5, Z: 0}, {X: 0, Y: 1, Z: -1}},
	}
	bb := meshBounds(model)
	if bb.Min != (ms3.Vec{X: -2, Y: 0, Z: -1}) || bb.Max != (ms3.Vec{X: 1, Y: 5, Z: 3}) {
		t.Errorf("unexpected bounds %+v", bb)
	}
	v := interleave(nil, model[:1])
	if len(v) != 18 {
		t.Fatalf("want 18 floats, got %d", len(v))
	}
	// Normal of a counter clockwise triangle in the XY plane is +Z.
	if v[3] != 0 || v[4] != 0 || v[5] != 1 {
		t.Errorf("want +Z normal, got %v", v[3:6])
	}
}

func TestConfigWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "controls.toml")
	err := os.WriteFile(path, []byte("max_distance = 20\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxDistance != 20 {
		t.Fatalf("want max distance 20, got %g", cfg.MaxDistance)
	}

	logger := log.New(&bytes.Buffer{})
	cw, err := WatchConfig(path, logger)
	if err != nil {
		t.Fatal(err)
	}
	defer cw.Close()
	err = os.WriteFile(path, []byte("max_distance = 30\nenable_damping = true\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	timeout := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case cfg := <-cw.Updates():
			// Writes may be observed before the file is complete.
			done = cfg.MaxDistance == 30 && cfg.EnableDamping
		case <-timeout:
			t.Fatal("timed out waiting for config reload")
		}
	}

	err = os.WriteFile(path, []byte("min_distance = 10\nmax_distance = 1\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-cw.Errors():
		if err == nil {
			t.Error("want non nil error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for invalid config error")
	}
	if err := cw.Close(); err != nil {
		t.Errorf("first close: %v", err)
	}
	if err := cw.Close(); err == nil {
		t.Error("want error closing twice")
	}
}
