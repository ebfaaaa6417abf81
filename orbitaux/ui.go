//go:build !tinygo && cgo

package orbitaux

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/orbit"
	"github.com/soypat/orbit/camera"
	"github.com/soypat/orbit/input/glfwinput"
)

const vertexSource = `#version 460
uniform mat4 uViewProj;
in vec3 aPos;
in vec3 aNormal;
out vec3 vNormal;
void main() {
	vNormal = aNormal;
	gl_Position = uViewProj * vec4(aPos, 1.0);
}
` + "\x00"

const fragmentSource = `#version 460
uniform vec3 uColor;
uniform vec3 uLightDir;
in vec3 vNormal;
out vec4 fragColor;
void main() {
	vec3 nor = normalize(vNormal);
	float dif = clamp(dot(nor, uLightDir), 0.0, 1.0);
	float amb = 0.5 + 0.5 * nor.y;
	vec3 col = uColor * (0.3 * amb + 0.7 * dif);
	fragColor = vec4(sqrt(col), 1.0);
}
` + "\x00"

func ui(model []ms3.Triangle, cfg UIConfig) error {
	logger := cfg.Logger
	window, term, err := startGLFW(cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	defer term()

	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   vertexSource,
		Fragment: fragmentSource,
	})
	if err != nil {
		return err
	}
	prog.Bind()
	viewProjUniform, err := prog.UniformLocation("uViewProj\x00")
	if err != nil {
		return err
	}
	colorUniform, err := prog.UniformLocation("uColor\x00")
	if err != nil {
		return err
	}
	lightUniform, err := prog.UniformLocation("uLightDir\x00")
	if err != nil {
		return err
	}
	posAttrib, err := prog.AttribLocation("aPos\x00")
	if err != nil {
		return err
	}
	normalAttrib, err := prog.AttribLocation("aNormal\x00")
	if err != nil {
		return err
	}

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	vertices := interleave(make([]float32, 0, 18*len(model)), model)
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(vertices), gl.Ptr(vertices), gl.STATIC_DRAW)
	const stride = 6 * 4
	gl.EnableVertexAttribArray(posAttrib)
	gl.VertexAttribPointer(posAttrib, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(normalAttrib)
	gl.VertexAttribPointer(normalAttrib, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))

	r, g, b := colorToFloats(cfg.MeshColor)
	gl.Uniform3f(colorUniform, r, g, b)
	light := mgl32.Vec3{0.57703, 0.57703, 0.57703}
	gl.Uniform3f(lightUniform, light[0], light[1], light[2])
	gl.Enable(gl.DEPTH_TEST)

	// Frame the model's bounding box.
	bb := meshBounds(model)
	center := ms3.Scale(0.5, ms3.Add(bb.Min, bb.Max))
	diag := ms3.Norm(ms3.Sub(bb.Max, bb.Min))
	width, height := window.GetSize()
	cam := camera.NewPerspective(mgl32.DegToRad(50), float32(width)/float32(height), diag*0.01, diag*100)
	target := mgl32.Vec3{center.X, center.Y, center.Z}
	cam.SetPosition(target.Add(mgl32.Vec3{0, 0, 1.5 * diag}))

	input := glfwinput.New(window)
	defer input.Detach()
	controls, err := orbit.New(cam, input, cfg.Controls)
	if err != nil {
		return err
	}
	defer controls.Dispose()
	controls.Target = target
	controls.Update()
	controls.SaveState()
	controls.ListenToKeyEvents(input)
	refresh := true
	removeOnChange := controls.OnChange(func() { refresh = true })
	defer removeOnChange()
	input.AddEventListener(orbit.EventKeyDown, func(e orbit.Event) {
		if ev := e.(*orbit.KeyEvent); ev.Code == orbit.Key('R') {
			controls.Reset()
		}
	})

	var updates <-chan orbit.Config
	var watchErrs <-chan error
	if cfg.ControlsFile != "" {
		watcher, err := WatchConfig(cfg.ControlsFile, logger)
		if err != nil {
			return err
		}
		defer watcher.Close()
		updates, watchErrs = watcher.Updates(), watcher.Errors()
	}

	ctx := cfg.Context
	for !window.ShouldClose() {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		select {
		case newCfg := <-updates:
			newCfg.Logger = cfg.Controls.Logger
			if err := controls.Configure(newCfg); err != nil {
				logger.Error("applying controls config", "err", err)
			}
			refresh = true
		case err := <-watchErrs:
			logger.Warn("watching controls config", "err", err)
		default:
		}

		w, h := window.GetSize()
		if (w != width || h != height) && w > 0 && h > 0 {
			width, height = w, h
			cam.SetAspect(float32(width) / float32(height))
			refresh = true
		}
		// Damping and auto rotation require an update every frame.
		controls.Update()
		if refresh {
			refresh = false
			fbWidth, fbHeight := window.GetFramebufferSize()
			gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
			gl.ClearColor(0.0, 0.0, 0.0, 1.0)
			gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
			prog.Bind()
			vp := cam.ViewProjection()
			gl.UniformMatrix4fv(viewProjUniform, 1, false, &vp[0])
			gl.BindVertexArray(vao)
			gl.DrawArrays(gl.TRIANGLES, 0, int32(3*len(model)))
			window.SwapBuffers()
		}
		// Limit frame rate.
		time.Sleep(time.Second / 60)
		glfw.PollEvents()
	}
	return nil
}

func startGLFW(width, height int) (window *glfw.Window, term func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, fmt.Errorf("initializing GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	window, err = glfw.CreateWindow(width, height, "orbit mesh viewer", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("creating GLFW window: %w", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	return window, glfw.Terminate, nil
}
