// Package app wires the cartridge, bus, emulator, and a graphics backend
// into a runnable NES frontend, and loads/saves its JSON configuration.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the full on-disk application configuration, round-tripped to
// JSON via LoadFromFile/SaveToFile.
type Config struct {
	Window    WindowConfig    `json:"window"`
	Video     VideoConfig     `json:"video"`
	Audio     AudioConfig     `json:"audio"`
	Input     InputConfig     `json:"input"`
	Emulation EmulationConfig `json:"emulation"`
	Debug     DebugConfig     `json:"debug"`
	Paths     PathsConfig     `json:"paths"`

	configPath string
	loaded     bool
}

// WindowConfig controls the host window the renderer draws into.
type WindowConfig struct {
	Width      int  `json:"width"`
	Height     int  `json:"height"`
	Fullscreen bool `json:"fullscreen"`
	Resizable  bool `json:"resizable"`
	Centered   bool `json:"centered"`
	Scale      int  `json:"scale"` // NES resolution multiplier
}

// VideoConfig controls how frames are filtered and presented.
type VideoConfig struct {
	VSync        bool    `json:"vsync"`
	FrameSkip    int     `json:"frame_skip"`
	AspectRatio  string  `json:"aspect_ratio"` // "4:3", "16:9", "original"
	Filter       string  `json:"filter"`       // "nearest", "linear", "cubic"
	Backend      string  `json:"backend"`      // "ebitengine", "headless", "terminal"
	Brightness   float32 `json:"brightness"`
	Contrast     float32 `json:"contrast"`
	Saturation   float32 `json:"saturation"`
	ShowOverscan bool    `json:"show_overscan"`
	CropOverscan bool    `json:"crop_overscan"`
}

// AudioConfig controls APU sample output.
type AudioConfig struct {
	Enabled    bool    `json:"enabled"`
	SampleRate int     `json:"sample_rate"`
	BufferSize int     `json:"buffer_size"`
	Volume     float32 `json:"volume"`
	Channels   int     `json:"channels"`
	Latency    int     `json:"latency"` // target latency in milliseconds
}

// InputConfig maps host keys onto the two controller ports.
type InputConfig struct {
	Player1Keys        KeyMapping `json:"player1_keys"`
	Player2Keys        KeyMapping `json:"player2_keys"`
	ControllerDeadzone float32    `json:"controller_deadzone"`
	AutofireRate       int        `json:"autofire_rate"`
	EnableAutofire     bool       `json:"enable_autofire"`
}

// KeyMapping is one controller's button-to-key bindings.
type KeyMapping struct {
	Up     string `json:"up"`
	Down   string `json:"down"`
	Left   string `json:"left"`
	Right  string `json:"right"`
	A      string `json:"a"`
	B      string `json:"b"`
	Start  string `json:"start"`
	Select string `json:"select"`
}

// EmulationConfig controls core emulation behavior.
type EmulationConfig struct {
	Region           string  `json:"region"` // "NTSC", "PAL", "Dendy"
	FrameRate        float64 `json:"frame_rate"`
	CycleAccuracy    bool    `json:"cycle_accuracy"`
	EnableSound      bool    `json:"enable_sound"`
	RewindBuffer     int     `json:"rewind_buffer"`
	SaveStateSlots   int     `json:"save_state_slots"`
	AutoSave         bool    `json:"auto_save"`
	PauseOnFocusLoss bool    `json:"pause_on_focus_loss"`
}

// DebugConfig gates the tracing hooks exposed by the CPU, PPU, and bus.
type DebugConfig struct {
	ShowFPS         bool   `json:"show_fps"`
	ShowDebugInfo   bool   `json:"show_debug_info"`
	EnableLogging   bool   `json:"enable_logging"`
	LogLevel        string `json:"log_level"`
	CPUTracing      bool   `json:"cpu_tracing"`
	PPUDebugging    bool   `json:"ppu_debugging"`
	MemoryDebugging bool   `json:"memory_debugging"`
}

// PathsConfig holds the directories the app reads ROMs from and writes
// save data, states, screenshots, and logs to.
type PathsConfig struct {
	ROMs        string `json:"roms"`
	SaveData    string `json:"save_data"`
	SaveStates  string `json:"save_states"`
	Screenshots string `json:"screenshots"`
	Config      string `json:"config"`
	Logs        string `json:"logs"`
}

// NewConfig returns the default configuration used before any JSON file
// has been loaded.
func NewConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width: 800, Height: 600, Fullscreen: false,
			Resizable: true, Centered: true, Scale: 2,
		},
		Video: VideoConfig{
			VSync: true, AspectRatio: "4:3", Filter: "nearest",
			Backend: "ebitengine", Brightness: 1.0, Contrast: 1.0,
			Saturation: 1.0, CropOverscan: true,
		},
		Audio: AudioConfig{
			Enabled: true, SampleRate: 44100, BufferSize: 1024,
			Volume: 0.8, Channels: 2, Latency: 50,
		},
		Input: InputConfig{
			Player1Keys: KeyMapping{
				Up: "W", Down: "S", Left: "A", Right: "D",
				A: "J", B: "K", Start: "Return", Select: "Space",
			},
			Player2Keys: KeyMapping{
				Up: "Up", Down: "Down", Left: "Left", Right: "Right",
				A: "N", B: "M", Start: "RShift", Select: "RCtrl",
			},
			ControllerDeadzone: 0.1, AutofireRate: 10,
		},
		Emulation: EmulationConfig{
			Region: "NTSC", FrameRate: 60.0, CycleAccuracy: true,
			EnableSound: true, RewindBuffer: 30, SaveStateSlots: 10,
			AutoSave: true, PauseOnFocusLoss: true,
		},
		Debug: DebugConfig{LogLevel: "INFO"},
		Paths: PathsConfig{
			ROMs: "./roms", SaveData: "./saves", SaveStates: "./states",
			Screenshots: "./screenshots", Config: "./config", Logs: "./logs",
		},
	}
}

// LoadFromFile populates c from a JSON config file, writing out the
// current defaults first if the file doesn't exist yet.
func (c *Config) LoadFromFile(path string) error {
	c.configPath = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return c.SaveToFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	c.clampToValid()
	if err := c.ensureDirectories(); err != nil {
		return fmt.Errorf("create config directories: %w", err)
	}
	c.loaded = true
	return nil
}

// SaveToFile writes c to path as indented JSON, creating the containing
// directory if needed.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	c.configPath = path
	return nil
}

// Save rewrites the config file it was last loaded from or saved to.
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("no config file path set")
	}
	return c.SaveToFile(c.configPath)
}

type clampRule struct {
	value *float32
	min   float32
	max   float32
	fallback float32
}

// clampToValid resets any out-of-range field loaded from a config file
// back to a sane default rather than rejecting the whole file.
func (c *Config) clampToValid() {
	if c.Window.Width <= 0 {
		c.Window.Width = 800
	}
	if c.Window.Height <= 0 {
		c.Window.Height = 600
	}
	if c.Window.Scale <= 0 {
		c.Window.Scale = 1
	}

	for _, rule := range []clampRule{
		{&c.Video.Brightness, 0.1, 3.0, 1.0},
		{&c.Video.Contrast, 0.1, 3.0, 1.0},
		{&c.Video.Saturation, 0.0, 3.0, 1.0},
	} {
		if *rule.value < rule.min || *rule.value > rule.max {
			*rule.value = rule.fallback
		}
	}

	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = 44100
	}
	if c.Audio.BufferSize <= 0 {
		c.Audio.BufferSize = 1024
	}
	if c.Audio.Volume < 0.0 || c.Audio.Volume > 1.0 {
		c.Audio.Volume = 0.8
	}
	if c.Audio.Channels != 1 && c.Audio.Channels != 2 {
		c.Audio.Channels = 2
	}

	if c.Emulation.FrameRate <= 0 {
		c.Emulation.FrameRate = 60.0
	}
	if c.Emulation.RewindBuffer < 0 {
		c.Emulation.RewindBuffer = 0
	}
	if c.Emulation.SaveStateSlots <= 0 {
		c.Emulation.SaveStateSlots = 10
	}

	if c.Input.ControllerDeadzone < 0.0 || c.Input.ControllerDeadzone > 1.0 {
		c.Input.ControllerDeadzone = 0.1
	}
	if c.Input.AutofireRate <= 0 {
		c.Input.AutofireRate = 10
	}
}

func (c *Config) ensureDirectories() error {
	for _, dir := range []string{
		c.Paths.ROMs, c.Paths.SaveData, c.Paths.SaveStates,
		c.Paths.Screenshots, c.Paths.Config, c.Paths.Logs,
	} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetNESResolution returns the console's native picture size.
func (c *Config) GetNESResolution() (int, int) { return 256, 240 }

// GetWindowResolution returns the host window size implied by the
// configured scale factor.
func (c *Config) GetWindowResolution() (int, int) {
	w, h := c.GetNESResolution()
	return w * c.Window.Scale, h * c.Window.Scale
}

// GetAspectRatio returns the configured aspect ratio as width/height.
func (c *Config) GetAspectRatio() float32 {
	switch c.Video.AspectRatio {
	case "16:9":
		return 16.0 / 9.0
	case "original":
		w, h := c.GetNESResolution()
		return float32(w) / float32(h)
	default:
		return 4.0 / 3.0
	}
}

// IsLoaded reports whether the config came from an on-disk file rather
// than pure defaults.
func (c *Config) IsLoaded() bool { return c.loaded }

// GetConfigPath returns the file this config was loaded from or last
// saved to, empty if neither has happened.
func (c *Config) GetConfigPath() string { return c.configPath }

// Clone returns an independent deep copy of c.
func (c *Config) Clone() *Config {
	data, err := json.Marshal(c)
	if err != nil {
		return NewConfig()
	}
	clone := &Config{}
	if err := json.Unmarshal(data, clone); err != nil {
		return NewConfig()
	}
	clone.configPath = c.configPath
	clone.loaded = c.loaded
	return clone
}

// UpdateDebug replaces the three most commonly toggled debug flags.
func (c *Config) UpdateDebug(showFPS, showDebugInfo, enableLogging bool) {
	c.Debug.ShowFPS = showFPS
	c.Debug.ShowDebugInfo = showDebugInfo
	c.Debug.EnableLogging = enableLogging
}

// GetDefaultConfigPath returns where the app looks for its config file
// when none is specified on the command line.
func GetDefaultConfigPath() string { return "./config/gones.json" }

// GetDefaultConfigDir returns the directory containing the default
// config file.
func GetDefaultConfigDir() string { return "./config" }
