package inspector

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TUI is the tview-driven terminal front-end over a Session.
type TUI struct {
	Session *Session

	App   *tview.Application
	Pages *tview.Pages

	MainLayout *tview.Flex
	LeftPanel  *tview.Flex
	RightPanel *tview.Flex

	RegisterView    *tview.TextView
	MemoryView      *tview.TextView
	DisassemblyView *tview.TextView
	BreakpointsView *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField

	MemoryAddress uint64
}

// NewTUI builds a TUI over an already-constructed Session.
func NewTUI(session *Session) *TUI {
	t := &TUI{Session: session, App: tview.NewApplication()}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

func (t *TUI) initializeViews() {
	t.RegisterView = tview.NewTextView().SetDynamicColors(true)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.MemoryView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.MemoryView.SetBorder(true).SetTitle(" Memory ")

	t.DisassemblyView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.DisassemblyView.SetBorder(true).SetTitle(" Disassembly ")

	t.BreakpointsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.BreakpointsView.SetBorder(true).SetTitle(" Breakpoints/Watchpoints ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	t.LeftPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.DisassemblyView, 0, 2, false).
		AddItem(t.MemoryView, 0, 1, false)

	t.RightPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.RegisterView, 0, 2, false).
		AddItem(t.BreakpointsView, 0, 1, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.LeftPanel, 0, 2, false).
		AddItem(t.RightPanel, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.Pages = tview.NewPages().AddPage("main", t.MainLayout, true, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF5:
			t.run("continue")
			return nil
		case tcell.KeyF11:
			t.run("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	if cmd != "" {
		t.run(cmd)
		t.CommandInput.SetText("")
	}
}

func (t *TUI) run(cmd string) {
	out, err := t.Session.Execute(cmd)
	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]error:[white] %v\n", err))
	}
	if out != "" {
		t.WriteOutput(out + "\n")
	}
	t.RefreshAll()
}

func (t *TUI) WriteOutput(text string) {
	_, _ = t.OutputView.Write([]byte(text))
	t.OutputView.ScrollToEnd()
}

func (t *TUI) RefreshAll() {
	t.UpdateRegisterView()
	t.UpdateMemoryView()
	t.UpdateDisassemblyView()
	t.UpdateBreakpointsView()
	t.App.Draw()
}

func (t *TUI) UpdateRegisterView() {
	t.RegisterView.SetText(t.Session.dumpRegisters())
}

func (t *TUI) UpdateMemoryView() {
	addr := t.MemoryAddress
	if addr == 0 {
		addr = t.Session.CPU.PC()
	}

	var lines []string
	for row := 0; row < 12; row++ {
		rowAddr := addr + uint64(row*16)
		line := fmt.Sprintf("0x%016X: ", rowAddr)
		var hexBytes []string
		var ascii []byte
		for col := 0; col < 16; col++ {
			b, err := t.Session.CPU.Memory().ReadUint8(rowAddr, rowAddr+uint64(col))
			if err != nil {
				hexBytes = append(hexBytes, "??")
				ascii = append(ascii, '.')
				continue
			}
			hexBytes = append(hexBytes, fmt.Sprintf("%02X", b))
			if b >= 32 && b < 127 {
				ascii = append(ascii, b)
			} else {
				ascii = append(ascii, '.')
			}
		}
		line += strings.Join(hexBytes, " ") + "  " + string(ascii)
		lines = append(lines, line)
	}
	t.MemoryView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) UpdateDisassemblyView() {
	pc := t.Session.CPU.PC()
	var start uint64
	if pc >= 32 {
		start = pc - 32
	}

	var lines []string
	for i := 0; i < 16; i++ {
		addr := start + uint64(i*4)
		marker, color := "  ", "white"
		if addr == pc {
			marker, color = "->", "yellow"
		}
		if t.Session.Breakpoints.Get(addr) != nil {
			marker = "* "
		}
		lines = append(lines, fmt.Sprintf("[%s]%s 0x%016X: %s[white]", color, marker, addr, t.Session.Disassemble(addr)))
	}
	t.DisassemblyView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) UpdateBreakpointsView() {
	var lines []string
	bps := t.Session.Breakpoints.All()
	if len(bps) == 0 {
		lines = append(lines, "[yellow]No breakpoints set[white]")
	}
	for _, bp := range bps {
		lines = append(lines, fmt.Sprintf("  %d: 0x%016X (hits: %d)", bp.ID, bp.Address, bp.HitCount))
	}

	lines = append(lines, "")
	for _, wp := range t.Session.Watchpoints.All() {
		lines = append(lines, fmt.Sprintf("  %d: watch %s = 0x%X (hits: %d)", wp.ID, wp.Expression, wp.LastValue, wp.HitCount))
	}
	t.BreakpointsView.SetText(strings.Join(lines, "\n"))
}

// Run starts the TUI event loop; it blocks until the user quits.
func (t *TUI) Run() error {
	t.RefreshAll()
	t.WriteOutput("[green]rv64sim inspector[white]\n")
	t.WriteOutput("F5 continue, F11 step, Ctrl-C quit\n\n")
	return t.App.SetRoot(t.Pages, true).SetFocus(t.CommandInput).Run()
}

func (t *TUI) Stop() { t.App.Stop() }
