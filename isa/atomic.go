package isa

const (
	opAMO = 0b0101111

	amoLR      = 0b00010
	amoSC      = 0b00011
	amoSWAP    = 0b00001
	amoADD     = 0b00000
	amoXOR     = 0b00100
	amoAND     = 0b01100
	amoOR      = 0b01000
	amoMIN     = 0b10000
	amoMAX     = 0b10100
	amoMINU    = 0b11000
	amoMAXU    = 0b11100
)

// reqAMO builds a mask/required pair over opcode+funct3+funct5, deliberately
// excluding the aq/rl bits (word bits [25:26]) so a descriptor matches an
// AMO instruction regardless of which ordering flags the compiler set; this
// single-hart core has no weaker-than-sequential ordering to distinguish.
func reqAMO(funct3, funct5 uint32) (mask, required uint32) {
	mask = maskOpcodeFunct3 | (0x1F << 27)
	required = reqF3(opAMO, funct3) | (funct5 << 27)
	return
}

func makeLR(width int) func(Core, uint32, uint64) error {
	return func(c Core, word uint32, pc uint64) error {
		f := ParseR(word)
		addr := uint64(c.Int().Get(ir(f.Rs1)))
		var value int64
		if width == 4 {
			v, err := c.Memory().ReadUint32(pc, addr)
			if err != nil {
				return err
			}
			value = int64(int32(v))
		} else {
			v, err := c.Memory().ReadUint64(pc, addr)
			if err != nil {
				return err
			}
			value = int64(v)
		}
		c.SetLoadReservation(addr)
		c.Int().Set(ir(f.Rd), value)
		c.SetPC(pc + 4)
		return nil
	}
}

func makeSC(width int) func(Core, uint32, uint64) error {
	return func(c Core, word uint32, pc uint64) error {
		f := ParseR(word)
		addr := uint64(c.Int().Get(ir(f.Rs1)))
		reserved, ok := c.LoadReservation()
		success := ok && reserved == addr
		if success {
			val := c.Int().Get(ir(f.Rs2))
			var err error
			if width == 4 {
				err = c.Memory().WriteUint32(pc, addr, uint32(val))
			} else {
				err = c.Memory().WriteUint64(pc, addr, uint64(val))
			}
			if err != nil {
				return err
			}
		}
		c.ClearLoadReservation()
		if success {
			c.Int().Set(ir(f.Rd), 0)
		} else {
			c.Int().Set(ir(f.Rd), 1)
		}
		c.SetPC(pc + 4)
		return nil
	}
}

func makeAMO32(combine func(old, val int32) int32) func(Core, uint32, uint64) error {
	return func(c Core, word uint32, pc uint64) error {
		f := ParseR(word)
		addr := uint64(c.Int().Get(ir(f.Rs1)))
		oldRaw, err := c.Memory().ReadUint32(pc, addr)
		if err != nil {
			return err
		}
		old := int32(oldRaw)
		val := int32(c.Int().Get(ir(f.Rs2)))
		if err := c.Memory().WriteUint32(pc, addr, uint32(combine(old, val))); err != nil {
			return err
		}
		c.Int().Set(ir(f.Rd), int64(old))
		c.SetPC(pc + 4)
		return nil
	}
}

func makeAMO64(combine func(old, val int64) int64) func(Core, uint32, uint64) error {
	return func(c Core, word uint32, pc uint64) error {
		f := ParseR(word)
		addr := uint64(c.Int().Get(ir(f.Rs1)))
		old, err := c.Memory().ReadUint64(pc, addr)
		if err != nil {
			return err
		}
		val := c.Int().Get(ir(f.Rs2))
		if err := c.Memory().WriteUint64(pc, addr, uint64(combine(int64(old), val))); err != nil {
			return err
		}
		c.Int().Set(ir(f.Rd), int64(old))
		c.SetPC(pc + 4)
		return nil
	}
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
func min32u(a, b int32) int32 {
	if uint32(a) < uint32(b) {
		return a
	}
	return b
}
func max32u(a, b int32) int32 {
	if uint32(a) > uint32(b) {
		return a
	}
	return b
}
func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
func min64u(a, b int64) int64 {
	if uint64(a) < uint64(b) {
		return a
	}
	return b
}
func max64u(a, b int64) int64 {
	if uint64(a) > uint64(b) {
		return a
	}
	return b
}

// atomicInstructions is assembled by a var initializer (rather than an
// init() func appending to a separate slice) so construction does not
// depend on which file the Go toolchain happens to process first.
var atomicInstructions = buildAtomicInstructions()

func buildAtomicInstructions() []Descriptor {
	type entry struct {
		mnemonic string
		funct5   uint32
		w32      func(old, val int32) int32
		w64      func(old, val int64) int64
	}
	entries := []entry{
		{"AMOSWAP", amoSWAP, func(_, v int32) int32 { return v }, func(_, v int64) int64 { return v }},
		{"AMOADD", amoADD, func(o, v int32) int32 { return o + v }, func(o, v int64) int64 { return o + v }},
		{"AMOXOR", amoXOR, func(o, v int32) int32 { return o ^ v }, func(o, v int64) int64 { return o ^ v }},
		{"AMOAND", amoAND, func(o, v int32) int32 { return o & v }, func(o, v int64) int64 { return o & v }},
		{"AMOOR", amoOR, func(o, v int32) int32 { return o | v }, func(o, v int64) int64 { return o | v }},
		{"AMOMIN", amoMIN, min32, min64},
		{"AMOMAX", amoMAX, max32, max64},
		{"AMOMINU", amoMINU, min32u, min64u},
		{"AMOMAXU", amoMAXU, max32u, max64u},
	}

	var out []Descriptor
	for _, e := range entries {
		mask, required := reqAMO(0b010, e.funct5)
		out = append(out, Descriptor{
			Mask: mask, Required: required, Mnemonic: e.mnemonic + ".W", Extension: "RV64A", Exec: makeAMO32(e.w32),
		})
		mask, required = reqAMO(0b011, e.funct5)
		out = append(out, Descriptor{
			Mask: mask, Required: required, Mnemonic: e.mnemonic + ".D", Extension: "RV64A", Exec: makeAMO64(e.w64),
		})
	}

	maskLRW, reqLRW := reqAMO(0b010, amoLR)
	maskLRD, reqLRD := reqAMO(0b011, amoLR)
	maskSCW, reqSCW := reqAMO(0b010, amoSC)
	maskSCD, reqSCD := reqAMO(0b011, amoSC)
	out = append(out,
		Descriptor{Mask: maskLRW, Required: reqLRW, Mnemonic: "LR.W", Extension: "RV64A", Exec: makeLR(4)},
		Descriptor{Mask: maskLRD, Required: reqLRD, Mnemonic: "LR.D", Extension: "RV64A", Exec: makeLR(8)},
		Descriptor{Mask: maskSCW, Required: reqSCW, Mnemonic: "SC.W", Extension: "RV64A", Exec: makeSC(4)},
		Descriptor{Mask: maskSCD, Required: reqSCD, Mnemonic: "SC.D", Extension: "RV64A", Exec: makeSC(8)},
	)
	return out
}
