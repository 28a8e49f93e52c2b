package inspector

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/shemnei/rv64sim/cpu"
	"github.com/shemnei/rv64sim/isa"
	"github.com/shemnei/rv64sim/register"
)

// Session wraps a cpu.CPU with the bookkeeping an interactive front-end
// needs: a mutex (the TUI event loop and the run loop are different
// goroutines), breakpoints, watchpoints, and command history. Step and
// Continue advance the CPU under the mutex; the other commands (register
// dumps, disassembly, status) read CPU state without taking it.
type Session struct {
	mu sync.Mutex

	CPU *cpu.CPU

	Breakpoints *BreakpointManager
	Watchpoints *WatchpointManager
	History     *CommandHistory

	Symbols map[string]uint64
}

// NewSession wraps an already-initialized CPU (memory populated, PC set).
func NewSession(c *cpu.CPU, historySize int) *Session {
	return &Session{
		CPU:         c,
		Breakpoints: NewBreakpointManager(),
		Watchpoints: NewWatchpointManager(),
		History:     NewCommandHistory(historySize),
		Symbols:     make(map[string]uint64),
	}
}

// Step executes exactly one instruction and reports any watchpoints that
// changed value as a side effect.
func (s *Session) Step() (error, []*Watchpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.CPU.Tick()
	changed := s.Watchpoints.Poll(s.readWatch)
	return err, changed
}

// Continue steps until a breakpoint is hit, the CPU halts or traps, or
// maxSteps is exhausted (0 means unbounded). It returns the breakpoint that
// stopped it, if any, alongside the terminal error (nil if halted cleanly).
func (s *Session) Continue(maxSteps uint64) (*Breakpoint, error) {
	for i := uint64(0); maxSteps == 0 || i < maxSteps; i++ {
		s.mu.Lock()
		if s.CPU.Status() == cpu.StatusHalted || s.CPU.Status() == cpu.StatusTrapped {
			s.mu.Unlock()
			return nil, s.CPU.LastTrap
		}
		pc := s.CPU.PC()
		if bp := s.Breakpoints.Hit(pc); bp != nil {
			s.mu.Unlock()
			return bp, nil
		}
		err := s.CPU.Tick()
		s.Watchpoints.Poll(s.readWatch)
		s.mu.Unlock()
		if err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("inspector: exceeded step budget of %d", maxSteps)
}

func (s *Session) readWatch(wp *Watchpoint) uint64 {
	if wp.IsRegister {
		return uint64(s.CPU.Int().Get(wp.Register))
	}
	v, err := s.CPU.Memory().ReadUint64(s.CPU.PC(), wp.Address)
	if err != nil {
		return wp.LastValue
	}
	return v
}

// Disassemble returns a short textual line for the word at addr: the
// matched mnemonic and extension, or "???" if no descriptor matches.
func (s *Session) Disassemble(addr uint64) string {
	word, err := s.CPU.Memory().ReadUint32(addr, addr)
	if err != nil {
		return "????????"
	}
	d, ok := isa.Decode(word)
	if !ok {
		return fmt.Sprintf("0x%08X  ???", word)
	}
	return fmt.Sprintf("0x%08X  %-8s (%s)", word, d.Mnemonic, d.Extension)
}

// Execute runs one command line against the session, returning the text to
// display in the output pane.
func (s *Session) Execute(line string) (string, error) {
	s.History.Add(line)
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}

	switch fields[0] {
	case "step", "s":
		err, changed := s.Step()
		out := fmt.Sprintf("stepped to PC=0x%X", s.CPU.PC())
		for _, wp := range changed {
			out += fmt.Sprintf("\nwatch %d (%s) -> 0x%X", wp.ID, wp.Expression, wp.LastValue)
		}
		return out, err

	case "continue", "c":
		bp, err := s.Continue(0)
		if bp != nil {
			return fmt.Sprintf("breakpoint %d hit at 0x%X", bp.ID, bp.Address), nil
		}
		return fmt.Sprintf("stopped at PC=0x%X, status=%s", s.CPU.PC(), s.CPU.Status()), err

	case "break", "b":
		if len(fields) < 2 {
			return "", fmt.Errorf("usage: break <addr>")
		}
		addr, err := parseAddr(fields[1])
		if err != nil {
			return "", err
		}
		bp := s.Breakpoints.Add(addr, false)
		return fmt.Sprintf("breakpoint %d set at 0x%X", bp.ID, bp.Address), nil

	case "delete", "d":
		if len(fields) < 2 {
			return "", fmt.Errorf("usage: delete <id>")
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			return "", err
		}
		if err := s.Breakpoints.Delete(id); err != nil {
			return "", err
		}
		return fmt.Sprintf("breakpoint %d deleted", id), nil

	case "watch", "w":
		if len(fields) < 2 {
			return "", fmt.Errorf("usage: watch <reg>|<addr>")
		}
		if reg, ok := lookupIntReg(fields[1]); ok {
			wp := s.Watchpoints.AddRegister(fields[1], reg)
			return fmt.Sprintf("watchpoint %d on register %s", wp.ID, fields[1]), nil
		}
		addr, err := parseAddr(fields[1])
		if err != nil {
			return "", fmt.Errorf("unknown register or address %q", fields[1])
		}
		wp := s.Watchpoints.AddMemory(fields[1], addr)
		return fmt.Sprintf("watchpoint %d on 0x%X", wp.ID, addr), nil

	case "regs", "r":
		return s.dumpRegisters(), nil

	default:
		return "", fmt.Errorf("unknown command %q", fields[0])
	}
}

func (s *Session) dumpRegisters() string {
	var b strings.Builder
	for i := 0; i < 32; i += 4 {
		for j := 0; j < 4; j++ {
			reg := register.IntReg(i + j)
			fmt.Fprintf(&b, "%-4s=0x%016X  ", reg.Name(), s.CPU.Int().Get(reg))
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "pc  =0x%016X  status=%s  cycles=%d", s.CPU.PC(), s.CPU.Status(), s.CPU.Cycles)
	return b.String()
}

func parseAddr(s string) (uint64, error) {
	s = strings.TrimPrefix(s, "0x")
	return strconv.ParseUint(s, 16, 64)
}

func lookupIntReg(name string) (register.IntReg, bool) {
	for i := 0; i < 32; i++ {
		r := register.IntReg(i)
		if r.Name() == name {
			return r, true
		}
	}
	return 0, false
}
