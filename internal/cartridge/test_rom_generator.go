package cartridge

import (
	"bytes"
	"fmt"
)

// TestROMConfig describes a synthetic iNES image: one PRG bank's worth of
// bytes plus the handful of header fields a mapper cares about.
type TestROMConfig struct {
	PRGSize      uint8
	CHRSize      uint8 // 0 = CHR RAM
	MapperID     uint8
	Mirroring    MirrorMode
	HasBattery   bool
	HasTrainer   bool
	Instructions []uint8
	InitialData  map[uint16]uint8
	ResetVector  uint16
	IRQVector    uint16
	NMIVector    uint16
	CHRData      []uint8
	TrainerData  []uint8
	Description  string
}

// TestROMBuilder is a fluent constructor for TestROMConfig, letting tests
// describe just the fields a given case cares about.
type TestROMBuilder struct {
	config TestROMConfig
}

// NewTestROMBuilder starts from a one-bank NROM image with the reset, IRQ
// and NMI vectors all pointing at $8000.
func NewTestROMBuilder() *TestROMBuilder {
	return &TestROMBuilder{
		config: TestROMConfig{
			PRGSize:     1,
			CHRSize:     1,
			Mirroring:   MirrorHorizontal,
			InitialData: make(map[uint16]uint8),
			ResetVector: 0x8000,
			IRQVector:   0x8000,
			NMIVector:   0x8000,
			Description: "Generated test ROM",
		},
	}
}

func (b *TestROMBuilder) WithPRGSize(size uint8) *TestROMBuilder { b.config.PRGSize = size; return b }
func (b *TestROMBuilder) WithCHRSize(size uint8) *TestROMBuilder { b.config.CHRSize = size; return b }
func (b *TestROMBuilder) WithCHRRAM() *TestROMBuilder            { b.config.CHRSize = 0; return b }
func (b *TestROMBuilder) WithMapper(id uint8) *TestROMBuilder    { b.config.MapperID = id; return b }
func (b *TestROMBuilder) WithMirroring(m MirrorMode) *TestROMBuilder {
	b.config.Mirroring = m
	return b
}
func (b *TestROMBuilder) WithBattery() *TestROMBuilder { b.config.HasBattery = true; return b }

func (b *TestROMBuilder) WithTrainer(data []uint8) *TestROMBuilder {
	b.config.HasTrainer = true
	if len(data) > 512 {
		data = data[:512]
	}
	b.config.TrainerData = make([]uint8, 512)
	copy(b.config.TrainerData, data)
	return b
}

func (b *TestROMBuilder) WithInstructions(instructions []uint8) *TestROMBuilder {
	b.config.Instructions = append([]uint8{}, instructions...)
	return b
}

// WithData pokes literal bytes into the PRG image starting at address,
// independent of (and applied after) WithInstructions.
func (b *TestROMBuilder) WithData(address uint16, data []uint8) *TestROMBuilder {
	for i, value := range data {
		b.config.InitialData[address+uint16(i)] = value
	}
	return b
}

func (b *TestROMBuilder) WithResetVector(address uint16) *TestROMBuilder {
	b.config.ResetVector = address
	return b
}
func (b *TestROMBuilder) WithIRQVector(address uint16) *TestROMBuilder {
	b.config.IRQVector = address
	return b
}
func (b *TestROMBuilder) WithNMIVector(address uint16) *TestROMBuilder {
	b.config.NMIVector = address
	return b
}

func (b *TestROMBuilder) WithCHRData(data []uint8) *TestROMBuilder {
	b.config.CHRData = append([]uint8{}, data...)
	return b
}

func (b *TestROMBuilder) WithDescription(description string) *TestROMBuilder {
	b.config.Description = description
	return b
}

// Build renders the configured iNES image.
func (b *TestROMBuilder) Build() ([]byte, error) {
	return GenerateTestROM(b.config)
}

// BuildCartridge renders and immediately parses the image, the form
// every test in this tree actually reaches for.
func (b *TestROMBuilder) BuildCartridge() (*Cartridge, error) {
	romData, err := b.Build()
	if err != nil {
		return nil, err
	}
	return LoadFromReader(bytes.NewReader(romData))
}

// GenerateTestROM serializes config into iNES bytes: header, optional
// trainer, PRG bank(s), optional CHR bank(s).
func GenerateTestROM(config TestROMConfig) ([]byte, error) {
	header, err := buildINESHeader(config)
	if err != nil {
		return nil, fmt.Errorf("build iNES header: %w", err)
	}

	result := append([]byte{}, header...)

	if config.HasTrainer {
		trainer := make([]uint8, 512)
		copy(trainer, config.TrainerData)
		result = append(result, trainer...)
	}

	prgROM, err := buildPRGROM(config)
	if err != nil {
		return nil, fmt.Errorf("build PRG ROM: %w", err)
	}
	result = append(result, prgROM...)

	if config.CHRSize > 0 {
		result = append(result, buildCHRROM(config)...)
	}

	return result, nil
}

func buildINESHeader(config TestROMConfig) ([]byte, error) {
	if config.PRGSize == 0 {
		return nil, fmt.Errorf("PRG ROM size cannot be zero")
	}

	header := make([]byte, 16)
	copy(header[0:4], "NES\x1A")
	header[4] = config.PRGSize
	header[5] = config.CHRSize

	flags6 := config.MapperID & 0x0F << 4
	if config.Mirroring == MirrorVertical {
		flags6 |= 0x01
	}
	if config.HasBattery {
		flags6 |= 0x02
	}
	if config.HasTrainer {
		flags6 |= 0x04
	}
	if config.Mirroring == MirrorFourScreen {
		flags6 |= 0x08
	}
	header[6] = flags6
	header[7] = config.MapperID & 0xF0

	return header, nil
}

func buildPRGROM(config TestROMConfig) ([]byte, error) {
	size := int(config.PRGSize) * 16384
	prgROM := make([]byte, size)

	if len(config.Instructions) > size {
		return nil, fmt.Errorf("instructions too large for PRG ROM")
	}
	copy(prgROM, config.Instructions)

	for address, value := range config.InitialData {
		if int(address) < size {
			prgROM[address] = value
		}
	}

	vectorOffset := size - 6
	putVector := func(offset int, vector uint16) {
		prgROM[offset] = uint8(vector)
		prgROM[offset+1] = uint8(vector >> 8)
	}
	putVector(vectorOffset, config.NMIVector)
	putVector(vectorOffset+2, config.ResetVector)
	putVector(vectorOffset+4, config.IRQVector)

	return prgROM, nil
}

func buildCHRROM(config TestROMConfig) []byte {
	size := int(config.CHRSize) * 8192
	chrROM := make([]byte, size)
	copySize := len(config.CHRData)
	if copySize > size {
		copySize = size
	}
	copy(chrROM, config.CHRData[:copySize])
	return chrROM
}

// PrebuiltTestROMs holds canned configurations exercising one 6502
// feature each: loads/stores, addressing modes, arithmetic, branches,
// the stack, battery SRAM, CHR RAM, and bank mirroring.
var PrebuiltTestROMs = struct {
	MinimalNROM          TestROMConfig
	BasicTest            TestROMConfig
	MemoryTest           TestROMConfig
	ArithmeticTest       TestROMConfig
	BranchingTest        TestROMConfig
	StackTest            TestROMConfig
	InterruptTest        TestROMConfig
	SRAMTest             TestROMConfig
	CHRRAMTest           TestROMConfig
	MirroringTest        TestROMConfig
	MaximalConfiguration TestROMConfig
}{
	MinimalNROM: TestROMConfig{
		PRGSize: 1, CHRSize: 1, Mirroring: MirrorHorizontal,
		Instructions: []uint8{0x4C, 0x00, 0x80}, // JMP $8000
		ResetVector:  0x8000,
		Description:  "Minimal NROM ROM with infinite loop",
	},
	BasicTest: TestROMConfig{
		PRGSize: 1, CHRSize: 1, Mirroring: MirrorHorizontal,
		Instructions: []uint8{
			0xA9, 0x42, // LDA #$42
			0x85, 0x00, // STA $00
			0xA9, 0x55, // LDA #$55
			0x85, 0x01, // STA $01
			0x4C, 0x08, 0x80, // JMP $8008
		},
		ResetVector: 0x8000,
		Description: "Basic load and store test",
	},
	MemoryTest: TestROMConfig{
		PRGSize: 1, CHRSize: 0, Mirroring: MirrorVertical,
		Instructions: []uint8{
			0xA9, 0x11, 0x85, 0x10, // LDA #$11; STA $10 (zero page)
			0xA9, 0x22, 0x8D, 0x00, 0x03, // LDA #$22; STA $0300 (absolute)
			0xA9, 0x33, 0x8D, 0x00, 0x60, // LDA #$33; STA $6000 (SRAM)
			0x4C, 0x12, 0x80, // JMP $8012
		},
		ResetVector: 0x8000,
		Description: "Memory addressing mode test",
	},
	ArithmeticTest: TestROMConfig{
		PRGSize: 1, CHRSize: 1, Mirroring: MirrorHorizontal,
		Instructions: []uint8{
			0x18, 0xA9, 0x10, 0x69, 0x05, 0x85, 0x20, // CLC;LDA #$10;ADC #$05;STA $20 (=$15)
			0x38, 0xE9, 0x03, 0x85, 0x21, // SEC;SBC #$03;STA $21 (=$12)
			0x4C, 0x0C, 0x80, // JMP $800C
		},
		ResetVector: 0x8000,
		Description: "Arithmetic operations test",
	},
	BranchingTest: TestROMConfig{
		PRGSize: 1, CHRSize: 1, Mirroring: MirrorHorizontal,
		Instructions: []uint8{
			0xA9, 0x00, 0xC9, 0x00, 0xF0, 0x04, // LDA #0;CMP #0;BEQ +4
			0xA9, 0xFF, 0x85, 0x30, // skipped: LDA #$FF;STA $30
			0xA9, 0x42, 0x85, 0x30, // branch target: LDA #$42;STA $30
			0x4C, 0x0E, 0x80, // JMP $800E
		},
		ResetVector: 0x8000,
		Description: "Conditional branching test",
	},
	StackTest: TestROMConfig{
		PRGSize: 1, CHRSize: 1, Mirroring: MirrorHorizontal,
		Instructions: []uint8{
			0xA9, 0x11, 0x48, // LDA #$11; PHA
			0xA9, 0x22, 0x48, // LDA #$22; PHA
			0x68, 0x85, 0x40, // PLA (=$22); STA $40
			0x68, 0x85, 0x41, // PLA (=$11); STA $41
			0x4C, 0x0E, 0x80, // JMP $800E
		},
		ResetVector: 0x8000,
		Description: "Stack push/pull test",
	},
	SRAMTest: TestROMConfig{
		PRGSize: 1, CHRSize: 1, Mirroring: MirrorHorizontal, HasBattery: true,
		Instructions: []uint8{
			0xA9, 0xAA, 0x8D, 0x00, 0x60, // LDA #$AA; STA $6000
			0xA9, 0xBB, 0x8D, 0xFF, 0x7F, // LDA #$BB; STA $7FFF
			0xAD, 0x00, 0x60, 0x85, 0x50, // LDA $6000; STA $50
			0xAD, 0xFF, 0x7F, 0x85, 0x51, // LDA $7FFF; STA $51
			0x4C, 0x14, 0x80, // JMP $8014
		},
		ResetVector: 0x8000,
		Description: "SRAM functionality test with battery backup",
	},
	CHRRAMTest: TestROMConfig{
		PRGSize: 1, CHRSize: 0, Mirroring: MirrorHorizontal,
		Instructions: []uint8{
			0xA9, 0x77, 0x85, 0x60, // LDA #$77; STA $60
			0x4C, 0x04, 0x80, // JMP $8004
		},
		ResetVector: 0x8000,
		Description: "CHR RAM configuration test",
	},
	MirroringTest: TestROMConfig{
		PRGSize: 1, CHRSize: 1, Mirroring: MirrorVertical,
		Instructions: []uint8{
			0xAD, 0x00, 0x80, 0x85, 0x70, // LDA $8000 (first bank); STA $70
			0xAD, 0x00, 0xC0, 0x85, 0x71, // LDA $C000 (mirrored bank); STA $71
			0x4C, 0x0C, 0x80, // JMP $800C
		},
		ResetVector: 0x8000,
		Description: "ROM mirroring test for 16KB NROM",
	},
	MaximalConfiguration: TestROMConfig{
		PRGSize: 2, CHRSize: 2, Mirroring: MirrorFourScreen,
		HasBattery: true, HasTrainer: true,
		TrainerData: []uint8{0xDE, 0xAD, 0xBE, 0xEF},
		Instructions: []uint8{
			0xA9, 0xFF, 0x85, 0xFF, // LDA #$FF; STA $FF
			0x4C, 0x04, 0x80, // JMP $8004
		},
		ResetVector: 0x8000, IRQVector: 0x8000, NMIVector: 0x8000,
		Description: "Maximal configuration test with all features",
	},
}
