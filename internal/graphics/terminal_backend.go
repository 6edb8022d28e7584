package graphics

import "fmt"

// TerminalBackend implements Backend as an ANSI terminal renderer, for
// running the emulator over SSH or in a plain console.
type TerminalBackend struct {
	initialized bool
	config      Config
}

// TerminalWindow implements Window by drawing a downsampled ASCII
// approximation of each frame.
type TerminalWindow struct {
	title   string
	width   int
	height  int
	running bool
}

// shades is a luminance ramp from darkest to brightest, indexed by a
// pixel's brightness to pick the ASCII glyph that approximates it.
var shades = []rune(" .:-=+*#%@")

// NewTerminalBackend creates a terminal graphics backend.
func NewTerminalBackend() Backend {
	return &TerminalBackend{}
}

func (b *TerminalBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("terminal backend already initialized")
	}
	b.config = config
	b.initialized = true
	return nil
}

func (b *TerminalBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("backend not initialized")
	}
	return &TerminalWindow{title: title, width: width, height: height, running: true}, nil
}

func (b *TerminalBackend) Cleanup() error  { b.initialized = false; return nil }
func (b *TerminalBackend) IsHeadless() bool { return false }
func (b *TerminalBackend) GetName() string  { return "Terminal" }

func (w *TerminalWindow) SetTitle(title string) {
	w.title = title
	fmt.Printf("\033]0;%s\007", title)
}

func (w *TerminalWindow) GetSize() (width, height int) { return w.width, w.height }
func (w *TerminalWindow) ShouldClose() bool            { return !w.running }
func (w *TerminalWindow) SwapBuffers()                 {}
func (w *TerminalWindow) PollEvents() []InputEvent     { return nil }

// RenderFrame draws a coarse ASCII-art approximation of the frame,
// sampling one pixel per terminal cell (8 rows by 4 columns) and mapping
// its luminance onto the shades ramp.
func (w *TerminalWindow) RenderFrame(frameBuffer [256 * 240]uint32) error {
	fmt.Print("\033[2J\033[H")

	for y := 0; y < 240; y += 8 {
		for x := 0; x < 256; x += 4 {
			pixel := frameBuffer[y*256+x]
			r := (pixel >> 16) & 0xFF
			g := (pixel >> 8) & 0xFF
			b := pixel & 0xFF
			luma := (r*299 + g*587 + b*114) / 1000
			index := int(luma) * (len(shades) - 1) / 255
			fmt.Printf("%c", shades[index])
		}
		fmt.Println()
	}

	return nil
}

func (w *TerminalWindow) Cleanup() error { w.running = false; return nil }
