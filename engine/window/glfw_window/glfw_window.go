// Package glfw_window implements window.Window on GLFW. All functions must be called
// from the main goroutine; the first window locks it to the OS thread.
package glfw_window

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-dualview/common"
	"github.com/Carmen-Shannon/oxy-dualview/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var (
	initMu   sync.Mutex
	initRefs int

	// Swapped in tests so init failures can be exercised without a display.
	glfwInit     = glfw.Init
	lockThread   = runtime.LockOSThread
	unlockThread = runtime.UnlockOSThread
)

// acquire initializes GLFW for the first live window.
func acquire() error {
	initMu.Lock()
	defer initMu.Unlock()
	if initRefs == 0 {
		lockThread()
		if err := glfwInit(); err != nil {
			unlockThread()
			return fmt.Errorf("failed to initialize GLFW: %w", err)
		}
	}
	initRefs++
	return nil
}

// release terminates GLFW once the last window is gone.
func release() {
	initMu.Lock()
	defer initMu.Unlock()
	if initRefs == 0 {
		return
	}
	initRefs--
	if initRefs == 0 {
		glfw.Terminate()
		unlockThread()
	}
}

// PollEvents processes pending events for every open window without blocking.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PollEvents
func PollEvents() {
	initMu.Lock()
	live := initRefs > 0
	initMu.Unlock()
	if live {
		glfw.PollEvents()
	}
}

// ScreenSize reports the primary monitor's resolution in screen coordinates.
//
// Returns:
//   - int: monitor width
//   - int: monitor height
//   - error: error if GLFW cannot be initialized or no monitor is attached
func ScreenSize() (int, int, error) {
	if err := acquire(); err != nil {
		return 0, 0, err
	}
	defer release()
	monitor := glfw.GetPrimaryMonitor()
	if monitor == nil {
		return 0, 0, fmt.Errorf("no primary monitor")
	}
	mode := monitor.GetVideoMode()
	return mode.Width, mode.Height, nil
}

// glfwWindow holds the GLFW-specific window state and the registered callbacks.
type glfwWindow struct {
	mu     sync.Mutex
	config window.Config
	window *glfw.Window

	width   int
	height  int
	scale   float32
	running bool
	closed  bool

	triggers map[string]func()
	keys     map[glfw.Key]string

	onResize func(width, height int)
	onScroll func(delta float32)
	onDrag   func(button window.MouseButton, dx, dy float32)

	dragging   bool
	dragButton window.MouseButton
	lastX      float64
	lastY      float64
}

var _ window.Window = &glfwWindow{}

// NewWindow creates and shows a GLFW window without a client API, ready for a WebGPU surface.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - window.Window: the created window
//   - error: error if GLFW or the window could not be created
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
func NewWindow(options ...window.WindowBuilderOption) (window.Window, error) {
	cfg := window.NewConfig(options...)
	if err := acquire(); err != nil {
		return nil, err
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints_ctx
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		release()
		return nil, fmt.Errorf("failed to create GLFW window %q: %w", cfg.Title, err)
	}
	win.SetSizeLimits(cfg.MinWidth, cfg.MinHeight, cfg.MaxWidth, cfg.MaxHeight)
	if cfg.X >= 0 && cfg.Y >= 0 {
		win.SetPos(cfg.X, cfg.Y)
	}

	gw := &glfwWindow{
		config:   cfg,
		window:   win,
		running:  true,
		triggers: map[string]func(){},
		keys:     map[glfw.Key]string{},
	}
	for id, code := range cfg.Triggers {
		gw.keys[glfw.Key(code)] = id
	}
	gw.width, gw.height = win.GetFramebufferSize()
	sx, _ := win.GetContentScale()
	gw.scale = common.Coalesce(sx, 1)

	gw.registerCallbacks()
	common.Logger().Debug("window created", "title", cfg.Title, "width", gw.width, "height", gw.height, "scale", gw.scale)
	return gw, nil
}

func (w *glfwWindow) registerCallbacks() {
	win := w.window

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetKeyCallback
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		if key == glfw.Key(common.KeyEsc) {
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			win.SetShouldClose(true)
			return
		}
		w.mu.Lock()
		fn := w.triggers[w.keys[key]]
		w.mu.Unlock()
		if fn != nil {
			fn()
		}
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetScrollCallback
	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		w.mu.Lock()
		cb := w.onScroll
		w.mu.Unlock()
		if cb != nil {
			cb(float32(yoff))
		}
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetMouseButtonCallback
	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		mb, ok := mouseButton(button)
		if !ok {
			return
		}
		w.mu.Lock()
		defer w.mu.Unlock()
		switch action {
		case glfw.Press:
			if !w.dragging {
				w.dragging = true
				w.dragButton = mb
				w.lastX, w.lastY = win.GetCursorPos()
			}
		case glfw.Release:
			if w.dragging && w.dragButton == mb {
				w.dragging = false
			}
		}
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetCursorPosCallback
	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		w.mu.Lock()
		if !w.dragging {
			w.mu.Unlock()
			return
		}
		dx, dy := xpos-w.lastX, ypos-w.lastY
		w.lastX, w.lastY = xpos, ypos
		button, cb := w.dragButton, w.onDrag
		w.mu.Unlock()
		if cb != nil {
			cb(button, float32(dx), float32(dy))
		}
	})

	// Framebuffer size, not window size: on high-DPI displays the two differ and the
	// surface must be configured in pixels.
	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetFramebufferSizeCallback
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.mu.Lock()
		w.width = width
		w.height = height
		cb := w.onResize
		w.mu.Unlock()
		if cb != nil {
			cb(width, height)
		}
	})

	win.SetContentScaleCallback(func(_ *glfw.Window, x, y float32) {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.scale = common.Coalesce(x, 1)
	})
}

func mouseButton(b glfw.MouseButton) (window.MouseButton, bool) {
	switch b {
	case glfw.MouseButtonLeft:
		return window.MouseButtonLeft, true
	case glfw.MouseButtonRight:
		return window.MouseButtonRight, true
	case glfw.MouseButtonMiddle:
		return window.MouseButtonMiddle, true
	}
	return 0, false
}

func (w *glfwWindow) Title() string {
	return w.config.Title
}

func (w *glfwWindow) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

func (w *glfwWindow) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

func (w *glfwWindow) ContentScale() float32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scale
}

func (w *glfwWindow) SetResizeCallback(callback func(width, height int)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onResize = callback
}

func (w *glfwWindow) SetScrollCallback(callback func(delta float32)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onScroll = callback
}

func (w *glfwWindow) SetDragCallback(callback func(button window.MouseButton, dx, dy float32)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onDrag = callback
}

func (w *glfwWindow) BindTrigger(id string, fn func()) bool {
	if _, ok := w.config.Triggers[id]; !ok {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.triggers[id] = fn
	return true
}

// SurfaceDescriptor returns a platform-appropriate wgpu.SurfaceDescriptor created by the
// wgpuglfw bridge (Windows HWND, X11, Wayland, macOS Metal layer).
//
// Returns:
//   - *wgpu.SurfaceDescriptor: the descriptor, or nil once the window is closed
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func (w *glfwWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(w.window)
}

func (w *glfwWindow) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.closed && w.running && !w.window.ShouldClose()
}

func (w *glfwWindow) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return fmt.Errorf("window %q is already closed", w.config.Title)
	}
	w.closed = true
	w.running = false
	w.mu.Unlock()

	w.window.SetShouldClose(true)
	w.window.Destroy()
	release()
	return nil
}
