package inspector

import (
	"fmt"
	"sync"

	"github.com/shemnei/rv64sim/register"
)

// Watchpoint tracks either an integer register or a memory word for a
// change between ticks; unlike a breakpoint it does not itself stop
// execution, Session.Step/Continue checks it and records the transition.
type Watchpoint struct {
	ID         int
	Expression string
	IsRegister bool
	Register   register.IntReg
	Address    uint64
	LastValue  uint64
	HitCount   int
}

type WatchpointManager struct {
	mu          sync.RWMutex
	watchpoints map[int]*Watchpoint
	nextID      int
}

func NewWatchpointManager() *WatchpointManager {
	return &WatchpointManager{watchpoints: make(map[int]*Watchpoint), nextID: 1}
}

func (wm *WatchpointManager) AddRegister(expr string, reg register.IntReg) *Watchpoint {
	return wm.add(expr, true, reg, 0)
}

func (wm *WatchpointManager) AddMemory(expr string, address uint64) *Watchpoint {
	return wm.add(expr, false, 0, address)
}

func (wm *WatchpointManager) add(expr string, isReg bool, reg register.IntReg, addr uint64) *Watchpoint {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	wp := &Watchpoint{ID: wm.nextID, Expression: expr, IsRegister: isReg, Register: reg, Address: addr}
	wm.watchpoints[wp.ID] = wp
	wm.nextID++
	return wp
}

func (wm *WatchpointManager) Delete(id int) error {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	if _, exists := wm.watchpoints[id]; !exists {
		return fmt.Errorf("watchpoint %d not found", id)
	}
	delete(wm.watchpoints, id)
	return nil
}

func (wm *WatchpointManager) All() []*Watchpoint {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	out := make([]*Watchpoint, 0, len(wm.watchpoints))
	for _, wp := range wm.watchpoints {
		out = append(out, wp)
	}
	return out
}

// Poll reads every watchpoint's current value via read, comparing against
// LastValue; it returns the watchpoints whose value changed since the
// previous poll, after updating LastValue.
func (wm *WatchpointManager) Poll(read func(wp *Watchpoint) uint64) []*Watchpoint {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	var changed []*Watchpoint
	for _, wp := range wm.watchpoints {
		v := read(wp)
		if v != wp.LastValue {
			wp.LastValue = v
			wp.HitCount++
			cp := *wp
			changed = append(changed, &cp)
		}
	}
	return changed
}
