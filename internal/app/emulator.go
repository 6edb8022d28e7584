// Package app provides emulator integration for the main application.
package app

import (
	"fmt"
	"time"

	"gones/internal/bus"
)

// ntscCyclesPerFrame is the number of CPU cycles in one NTSC frame: 341
// PPU dots/scanline * 262 scanlines / 3 PPU dots per CPU cycle, rounded to
// the console's actual 29,780.5 — alternating 29780/29781 to track the PPU
// exactly would require sub-cycle bookkeeping the rest of the bus doesn't
// do, so every frame here runs the same 29,781 cycles.
const ntscCyclesPerFrame = 29781

// ntscFrameInterval is 60.0988 Hz expressed as a duration, the real NTSC
// NES frame rate rather than an even 60.
const ntscFrameInterval = time.Second * 1000000 / 60098800

// Emulator drives the bus one fixed-length NTSC frame at a time and holds
// onto the most recent frame buffer and audio samples for the renderer
// and audio backend to pull from.
type Emulator struct {
	bus    *bus.Bus
	config *Config

	cyclesPerFrame uint64
	frameInterval  time.Duration

	running bool

	frameBuffer  []uint32
	audioSamples []float32

	frameCount    uint64
	cycleCount    uint64
	emulationTime time.Duration
	lastResetTime time.Time
}

// NewEmulator wires an emulator to a running bus, ready to be Start()ed.
func NewEmulator(b *bus.Bus, config *Config) *Emulator {
	e := &Emulator{
		bus:            b,
		config:         config,
		cyclesPerFrame: ntscCyclesPerFrame,
		frameInterval:  ntscFrameInterval,
		frameBuffer:    make([]uint32, 256*240),
		audioSamples:   make([]float32, 0, 1024),
	}
	e.Reset()
	return e
}

// Reset clears frame/audio/cycle bookkeeping without touching the bus.
func (e *Emulator) Reset() {
	e.frameCount = 0
	e.cycleCount = 0
	e.emulationTime = 0
	e.lastResetTime = time.Now()
	for i := range e.frameBuffer {
		e.frameBuffer[i] = 0
	}
	e.audioSamples = e.audioSamples[:0]
}

// Start marks the emulator runnable; Update is a no-op until this is called.
func (e *Emulator) Start() { e.running = true }

// Stop halts Update without touching accumulated state.
func (e *Emulator) Stop() { e.running = false }

// IsRunning reports whether Start has been called since the last Stop.
func (e *Emulator) IsRunning() bool { return e.running }

// Update runs exactly one NTSC frame of emulation, meant to be called once
// per host vsync tick (Ebitengine calls Update() at a fixed 60Hz).
func (e *Emulator) Update() error {
	if !e.running {
		return nil
	}

	start := time.Now()
	if err := e.runFrame(); err != nil {
		return fmt.Errorf("frame execution error: %w", err)
	}
	e.emulationTime = time.Since(start)
	return nil
}

// runFrame steps the bus exactly cyclesPerFrame CPU cycles, then pulls the
// finished picture and any audio the APU queued during it.
func (e *Emulator) runFrame() error {
	target := e.bus.GetCycleCount() + e.cyclesPerFrame
	for e.bus.GetCycleCount() < target {
		e.bus.Step()
	}
	e.frameCount++
	e.cycleCount = e.bus.GetCycleCount()

	if picture := e.bus.GetFrameBuffer(); len(picture) == len(e.frameBuffer) {
		copy(e.frameBuffer, picture)
	}
	if samples := e.bus.GetAudioSamples(); len(samples) > 0 {
		e.setAudioSamples(samples)
	}
	return nil
}

func (e *Emulator) setAudioSamples(samples []float32) {
	if cap(e.audioSamples) < len(samples) {
		e.audioSamples = make([]float32, len(samples))
	} else {
		e.audioSamples = e.audioSamples[:len(samples)]
	}
	copy(e.audioSamples, samples)
}

// StepFrame runs one frame outside the Start/Update cycle, for debug and
// test harnesses driving the emulator frame by frame instead of through
// the normal render loop.
func (e *Emulator) StepFrame() error {
	if e.bus == nil {
		return fmt.Errorf("bus not initialized")
	}
	return e.runFrame()
}

// StepInstruction executes a single CPU instruction.
func (e *Emulator) StepInstruction() error {
	if e.bus == nil {
		return fmt.Errorf("bus not initialized")
	}
	e.bus.Step()
	e.cycleCount = e.bus.GetCycleCount()
	return nil
}

// GetFrameBuffer returns the most recently completed frame's pixels.
func (e *Emulator) GetFrameBuffer() []uint32 { return e.frameBuffer }

// GetAudioSamples returns the audio samples produced by the last frame.
func (e *Emulator) GetAudioSamples() []float32 { return e.audioSamples }

// GetFrameCount returns the number of frames run since the last Reset.
func (e *Emulator) GetFrameCount() uint64 { return e.frameCount }

// GetCycleCount returns the bus's total CPU cycle count.
func (e *Emulator) GetCycleCount() uint64 { return e.cycleCount }

// GetEmulationTime returns how long the last Update's frame took to run.
func (e *Emulator) GetEmulationTime() time.Duration { return e.emulationTime }

// GetUptime returns the time elapsed since the last Reset.
func (e *Emulator) GetUptime() time.Duration { return time.Since(e.lastResetTime) }

// GetCPUState returns the current CPU state for debugging.
func (e *Emulator) GetCPUState() bus.CPUState {
	if e.bus == nil {
		return bus.CPUState{}
	}
	return e.bus.GetCPUState()
}

// GetPPUState returns the current PPU state for debugging.
func (e *Emulator) GetPPUState() bus.PPUState {
	if e.bus == nil {
		return bus.PPUState{}
	}
	return e.bus.GetPPUState()
}

// Cleanup releases the emulator's buffers.
func (e *Emulator) Cleanup() error {
	e.Stop()
	e.frameBuffer = nil
	e.audioSamples = nil
	return nil
}
