//go:build !nogl
// +build !nogl

package opengl

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"math"

	"github.com/PrincetonUniversity/toxinswarm"
	"github.com/PrincetonUniversity/toxinswarm/render"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Config holds the parameters of the OpenGL driver.
type Config struct {
	Step       func() // go to next step
	ForcePause bool   // step manually only?
	TPS        int    // maximum steps per second, 0 for no cap

	Title   string
	Width   int
	Height  int
	Palette *render.Palette
	Logger  *slog.Logger

	// bounds of default viewport
	Xmin float64
	Ymin float64
	Xmax float64
	Ymax float64
}

// Run runs an interactive simulation in an OpenGL window.
// It returns when the window is closed, Esc is pressed or ctx is done.
func Run(ctx context.Context, s *toxinswarm.Simulation, conf *Config) error {
	step := conf.Step
	if step == nil {
		step = s.Step
	}
	logger := conf.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// init GLFW
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Samples, 4)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	// create OpenGL window
	w, err := glfw.CreateWindow(conf.Width, conf.Height, conf.Title, nil, nil)
	if err != nil {
		return err
	}
	defer w.Destroy()
	w.MakeContextCurrent()

	// functions can only be loaded once a context is current
	if err := gl.Init(); err != nil {
		return err
	}

	// enable alpha blending
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	fw, fh := w.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fw), int32(fh))

	// initialize OpenGL objects
	d, err := newDisplay(w)
	if err != nil {
		return err
	}
	defer d.delete()

	// handle scrolling zoom
	home := viewport{{float32(conf.Xmin), float32(conf.Ymin)}, {float32(conf.Xmax), float32(conf.Ymax)}}
	vp := home
	d.updateViewport(vp)
	w.SetScrollCallback(func(w *glfw.Window, xo, yo float64) {
		xc, yc := w.GetCursorPos()
		xs, ys := w.GetSize()
		x, y := float32(xc)/float32(xs), float32(yc)/float32(ys)
		dx, dy := vp[1].X-vp[0].X, vp[1].Y-vp[0].Y
		z := 0.05 * float32(yo)
		vp[0].X += z * x * dx
		vp[0].Y += z * y * dy
		vp[1].X -= z * (1 - x) * dx
		vp[1].Y -= z * (1 - y) * dy
		d.updateViewport(vp)
	})

	var quit, single bool
	pause := conf.ForcePause
	w.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		switch {
		case key == glfw.KeyEscape && action == glfw.Press:
			quit = true
		case key == glfw.KeySpace && action == glfw.Press && !conf.ForcePause:
			pause = !pause
		case key == glfw.KeyRight && (action == glfw.Press || action == glfw.Repeat):
			if pause {
				single = true
			}
		case key == glfw.KeyR && action == glfw.Press:
			vp = home
			d.updateViewport(vp)
		}
	})

	clock := render.NewClock(conf.TPS)
	for !(quit || w.ShouldClose()) && ctx.Err() == nil {
		if !pause || single {
			single = false
			step()
		}
		if err := render.Draw(d, s, conf.Palette); err != nil {
			logger.Warn("frame not presented", "tick", s.Ticks, "err", err)
		}
		glfw.PollEvents()
		clock.Wait()
	}
	return nil
}

// A viewport is a rectangle delimiting the area of simulation space shown on screen.
// The first point is the top left corner, the second point is the bottom right corner.
type viewport [2]struct{ X, Y float32 }

// segments is the number of sides of the polygons approximating circles.
const segments = 64

// display contains all the OpenGL objects required to draw shapes.
// It implements render.Surface.
type display struct {
	win  *glfw.Window
	prog uint32
	vao  uint32
	vbo  uint32
	uni  struct {
		vp    int32 // viewport
		color int32 // fill color
	}
	verts []float32 // scratch vertex buffer
}

// Clear fills the whole window with c.
func (d *display) Clear(c color.Color) {
	r, g, b, a := rgba(c)
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// DrawCircle draws a filled circle.
func (d *display) DrawCircle(center toxinswarm.Vec2, radius float64, c color.Color) {
	d.fan(center, radius, radius, c)
}

// DrawEllipse draws a filled ellipse inscribed in box.
func (d *display) DrawEllipse(box render.Rect, c color.Color) {
	d.fan(box.Center(), box.W/2, box.H/2, c)
}

// DrawOutlineCircle draws a ring of the given width centered on the circle.
func (d *display) DrawOutlineCircle(center toxinswarm.Vec2, radius float64, c color.Color, width float64) {
	in, out := radius-width/2, radius+width/2
	if in < 0 {
		in = 0
	}
	d.verts = d.verts[:0]
	for k := 0; k <= segments; k++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(k) / segments)
		d.verts = append(d.verts,
			float32(center.X+in*cos), float32(center.Y+in*sin),
			float32(center.X+out*cos), float32(center.Y+out*sin),
		)
	}
	d.drawArrays(gl.TRIANGLE_STRIP, c)
}

// Present swaps buffers and reports pending OpenGL errors.
func (d *display) Present() error {
	d.win.SwapBuffers()
	if e := gl.GetError(); e != gl.NO_ERROR {
		return fmt.Errorf("opengl: error 0x%x", e)
	}
	return nil
}

// fan draws a filled ellipse of radii rx and ry as a triangle fan.
func (d *display) fan(center toxinswarm.Vec2, rx, ry float64, c color.Color) {
	d.verts = append(d.verts[:0], float32(center.X), float32(center.Y))
	for k := 0; k <= segments; k++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(k) / segments)
		d.verts = append(d.verts, float32(center.X+rx*cos), float32(center.Y+ry*sin))
	}
	d.drawArrays(gl.TRIANGLE_FAN, c)
}

// drawArrays uploads the scratch vertices and draws them with color c.
func (d *display) drawArrays(mode uint32, c color.Color) {
	r, g, b, a := rgba(c)
	gl.UseProgram(d.prog)
	gl.Uniform4f(d.uni.color, r, g, b, a)
	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(d.verts), gl.Ptr(d.verts), gl.STREAM_DRAW)
	gl.DrawArrays(mode, 0, int32(len(d.verts)/2))
}

// updateViewport sends the new viewport to OpenGL.
func (d *display) updateViewport(vp viewport) {
	gl.UseProgram(d.prog)
	gl.Uniform2fv(d.uni.vp, 2, &vp[0].X)
}

// delete releases the OpenGL objects.
func (d *display) delete() {
	gl.DeleteBuffers(1, &d.vbo)
	gl.DeleteVertexArrays(1, &d.vao)
	gl.DeleteProgram(d.prog)
}

// rgba converts c to non-premultiplied OpenGL color components.
func rgba(c color.Color) (r, g, b, a float32) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return float32(n.R) / 255, float32(n.G) / 255, float32(n.B) / 255, float32(n.A) / 255
}

// newDisplay compiles shaders and initializes a display.
func newDisplay(w *glfw.Window) (*display, error) {
	d := &display{win: w, verts: make([]float32, 0, 4*(segments+2))}

	// compile and link shaders
	var err error
	d.prog, err = makeProg([]shader{
		{"Vertex", vertexShader, gl.CreateShader(gl.VERTEX_SHADER)},
		{"Fragment", fragmentShader, gl.CreateShader(gl.FRAGMENT_SHADER)},
	})
	if err != nil {
		return nil, err
	}

	// uniform location cannot be specified in the shaders in OpenGL 3.3 core
	d.uni.vp = gl.GetUniformLocation(d.prog, gl.Str("vp\x00"))
	d.uni.color = gl.GetUniformLocation(d.prog, gl.Str("color\x00"))

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	gl.GenBuffers(1, &d.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)

	// attribute location is specified in the shader with layout(location=0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 0, nil)

	return d, nil
}

// World Y axis points down, as on screen.
const vertexShader = `
#version 330 core
uniform vec2 vp[2];
layout(location = 0) in vec2 pos;
void main() {
	vec2 p = 2.0 * (pos - vp[0]) / (vp[1] - vp[0]) - 1.0;
	gl_Position = vec4(p.x, -p.y, 0.0, 1.0);
}
`

const fragmentShader = `
#version 330 core
uniform vec4 color;
out vec4 frag;
void main() {
	frag = color;
}
`

// A shader wraps an OpenGL shader.
type shader struct {
	name   string
	src    string
	shader uint32
}

// makeProg builds OpenGL programs.
func makeProg(shaders []shader) (uint32, error) {
	var fail bool
	for _, s := range shaders {
		str, free := gl.Strs(s.src + "\x00")
		gl.ShaderSource(s.shader, 1, str, nil)
		free()
		gl.CompileShader(s.shader)
		var status int32
		gl.GetShaderiv(s.shader, gl.COMPILE_STATUS, &status)
		if status != gl.TRUE {
			var n int32
			gl.GetShaderiv(s.shader, gl.INFO_LOG_LENGTH, &n)
			log := make([]uint8, n+1)
			gl.GetShaderInfoLog(s.shader, n, &n, &log[0])
			slog.Error("shader compilation failed", "shader", s.name, "log", gl.GoStr(&log[0]))
			fail = true
			gl.DeleteShader(s.shader)
		}
	}
	if fail {
		return 0, fmt.Errorf("toxinswarm: GLSL errors")
	}
	prog := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(prog, s.shader)
	}
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status != gl.TRUE {
		return 0, fmt.Errorf("toxinswarm: GLSL link error")
	}
	for _, s := range shaders {
		gl.DeleteShader(s.shader)
	}
	return prog, nil
}
