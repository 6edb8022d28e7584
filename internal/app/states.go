package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gones/internal/bus"
)

// StateManager persists and restores emulator snapshots to numbered save
// slots on disk, one JSON file per slot per ROM.
type StateManager struct {
	saveDirectory string
	maxSlots      int
	initialized   bool
}

// SaveState is the on-disk representation of one snapshot.
type SaveState struct {
	Version     string    `json:"version"`
	Timestamp   time.Time `json:"timestamp"`
	ROMPath     string    `json:"rom_path"`
	ROMChecksum string    `json:"rom_checksum"`
	SlotNumber  int       `json:"slot_number"`
	Description string    `json:"description"`

	CPUState CPUStateData `json:"cpu_state"`
	PPUState PPUStateData `json:"ppu_state"`

	FrameCount uint64 `json:"frame_count"`
	CycleCount uint64 `json:"cycle_count"`
}

// CPUStateData is the CPU register snapshot stored in a SaveState.
type CPUStateData struct {
	PC     uint16       `json:"pc"`
	A      uint8        `json:"a"`
	X      uint8        `json:"x"`
	Y      uint8        `json:"y"`
	SP     uint8        `json:"sp"`
	Cycles uint64       `json:"cycles"`
	Flags  CPUFlagsData `json:"flags"`
}

// CPUFlagsData is the processor status register, broken into named bits.
type CPUFlagsData struct {
	N bool `json:"n"`
	V bool `json:"v"`
	B bool `json:"b"`
	D bool `json:"d"`
	I bool `json:"i"`
	Z bool `json:"z"`
	C bool `json:"c"`
}

// PPUStateData is the PPU rendering-position snapshot stored in a
// SaveState.
type PPUStateData struct {
	Scanline    int    `json:"scanline"`
	Cycle       int    `json:"cycle"`
	FrameCount  uint64 `json:"frame_count"`
	VBlankFlag  bool   `json:"vblank_flag"`
	RenderingOn bool   `json:"rendering_on"`
	NMIEnabled  bool   `json:"nmi_enabled"`
}

// StateSlotInfo summarizes one save slot for a "load state" menu without
// requiring a full SaveState unmarshal.
type StateSlotInfo struct {
	SlotNumber  int       `json:"slot_number"`
	Used        bool      `json:"used"`
	Timestamp   time.Time `json:"timestamp"`
	ROMPath     string    `json:"rom_path"`
	Description string    `json:"description"`
	FilePath    string    `json:"file_path"`
	FileSize    int64     `json:"file_size"`
}

// NewStateManager creates a manager rooted at saveDirectory, creating it
// if necessary.
func NewStateManager(saveDirectory string) *StateManager {
	sm := &StateManager{saveDirectory: saveDirectory, maxSlots: 10}
	if err := sm.initialize(); err != nil {
		fmt.Printf("warning: state manager init failed: %v\n", err)
	}
	return sm
}

func (sm *StateManager) initialize() error {
	if err := os.MkdirAll(sm.saveDirectory, 0755); err != nil {
		return fmt.Errorf("create save directory: %w", err)
	}
	sm.initialized = true
	return nil
}

func captureState(b *bus.Bus, romPath string, slot int, description string) *SaveState {
	cpu := b.GetCPUState()
	ppu := b.GetPPUState()
	return &SaveState{
		Version:     "1.0",
		Timestamp:   time.Now(),
		ROMPath:     romPath,
		ROMChecksum: romChecksum(romPath),
		SlotNumber:  slot,
		Description: description,
		FrameCount:  b.GetFrameCount(),
		CycleCount:  b.GetCycleCount(),
		CPUState: CPUStateData{
			PC: cpu.PC, A: cpu.A, X: cpu.X, Y: cpu.Y, SP: cpu.SP, Cycles: cpu.Cycles,
			Flags: CPUFlagsData{
				N: cpu.Flags.N, V: cpu.Flags.V, B: cpu.Flags.B,
				D: cpu.Flags.D, I: cpu.Flags.I, Z: cpu.Flags.Z, C: cpu.Flags.C,
			},
		},
		PPUState: PPUStateData{
			Scanline: ppu.Scanline, Cycle: ppu.Cycle, FrameCount: ppu.FrameCount,
			VBlankFlag: ppu.VBlankFlag, RenderingOn: ppu.RenderingOn, NMIEnabled: ppu.NMIEnabled,
		},
	}
}

// SaveState snapshots the bus into the given slot for romPath.
func (sm *StateManager) SaveState(b *bus.Bus, slot int, romPath string) error {
	if !sm.initialized {
		return fmt.Errorf("state manager not initialized")
	}
	if slot < 0 || slot >= sm.maxSlots {
		return fmt.Errorf("invalid save slot: %d (must be 0-%d)", slot, sm.maxSlots-1)
	}
	if b == nil {
		return fmt.Errorf("bus cannot be nil")
	}

	description := fmt.Sprintf("Save %s", time.Now().Format("2006-01-02 15:04:05"))
	state := captureState(b, romPath, slot, description)
	return sm.writeFile(state, sm.slotFilePath(slot, romPath))
}

// LoadState checks that the given slot holds a valid save for romPath and
// then resets the bus.
//
// None of the saved CPU, PPU or frame/cycle values are written back, and
// RAM, VRAM, OAM and mapper state are not part of a save at all, so after
// a load the emulator starts again from the reset vector.
func (sm *StateManager) LoadState(b *bus.Bus, slot int, romPath string) error {
	if !sm.initialized {
		return fmt.Errorf("state manager not initialized")
	}
	if slot < 0 || slot >= sm.maxSlots {
		return fmt.Errorf("invalid save slot: %d (must be 0-%d)", slot, sm.maxSlots-1)
	}
	if b == nil {
		return fmt.Errorf("bus cannot be nil")
	}

	filePath := sm.slotFilePath(slot, romPath)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("save state not found in slot %d", slot)
	}

	state, err := sm.readFile(filePath)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	if err := sm.validate(state, romPath); err != nil {
		return fmt.Errorf("invalid save state: %w", err)
	}

	b.Reset()
	return nil
}

func (sm *StateManager) writeFile(state *SaveState, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("create save directory: %w", err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal save state: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("write save state: %w", err)
	}
	return nil
}

func (sm *StateManager) readFile(filePath string) (*SaveState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read save state: %w", err)
	}
	var state SaveState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal save state: %w", err)
	}
	return &state, nil
}

func (sm *StateManager) validate(state *SaveState, currentROMPath string) error {
	if state.Version == "" {
		return fmt.Errorf("missing version information")
	}
	if state.ROMPath != currentROMPath {
		return fmt.Errorf("save state is for a different ROM")
	}
	return nil
}

func (sm *StateManager) slotFilePath(slot int, romPath string) string {
	name := filepath.Base(romPath)
	name = name[:len(name)-len(filepath.Ext(name))]
	return filepath.Join(sm.saveDirectory, fmt.Sprintf("%s_slot_%d.save", name, slot))
}

// romChecksum is a placeholder ROM identity tag; a real implementation
// would hash the file contents rather than just its name.
func romChecksum(romPath string) string {
	return fmt.Sprintf("checksum_%s", filepath.Base(romPath))
}

// GetSlotInfo reports the status of every save slot for romPath, for
// rendering a load-state menu.
func (sm *StateManager) GetSlotInfo(romPath string) []StateSlotInfo {
	slots := make([]StateSlotInfo, sm.maxSlots)
	for i := range slots {
		info := StateSlotInfo{SlotNumber: i}
		filePath := sm.slotFilePath(i, romPath)
		if stat, err := os.Stat(filePath); err == nil {
			info.Used = true
			info.FilePath = filePath
			info.FileSize = stat.Size()
			info.Timestamp = stat.ModTime()
			if state, err := sm.readFile(filePath); err == nil {
				info.ROMPath = state.ROMPath
				info.Description = state.Description
				info.Timestamp = state.Timestamp
			}
		}
		slots[i] = info
	}
	return slots
}

// DeleteState removes a slot's save file, if one exists.
func (sm *StateManager) DeleteState(slot int, romPath string) error {
	if slot < 0 || slot >= sm.maxSlots {
		return fmt.Errorf("invalid save slot: %d", slot)
	}
	filePath := sm.slotFilePath(slot, romPath)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("save state not found in slot %d", slot)
	}
	return os.Remove(filePath)
}

// HasSaveState reports whether a slot is occupied.
func (sm *StateManager) HasSaveState(slot int, romPath string) bool {
	if slot < 0 || slot >= sm.maxSlots {
		return false
	}
	_, err := os.Stat(sm.slotFilePath(slot, romPath))
	return err == nil
}

// Cleanup marks the manager uninitialized; further Save/Load calls fail
// until a new one is constructed.
func (sm *StateManager) Cleanup() error {
	sm.initialized = false
	return nil
}
