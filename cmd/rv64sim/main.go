// Command rv64sim loads an ELF image, runs it on the RV64GC-oriented
// interpretive core to completion (halt or trap), and optionally attaches
// the terminal inspector instead of free-running.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shemnei/rv64sim/config"
	"github.com/shemnei/rv64sim/cpu"
	"github.com/shemnei/rv64sim/elf"
	"github.com/shemnei/rv64sim/inspector"
	"github.com/shemnei/rv64sim/memory"
)

// Version can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var Version = "dev"

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		configPath  = flag.String("config", "", "Path to a TOML configuration file")
		debugMode   = flag.Bool("debug", false, "Attach the terminal inspector instead of free-running")
		maxCycles   = flag.Uint64("max-cycles", 0, "Override the configured cycle budget (0 keeps the config value)")
	)
	flag.Usage = printHelp
	flag.Parse()

	if *showVersion {
		fmt.Printf("rv64sim %s\n", Version)
		return
	}

	args := flag.Args()
	if len(args) != 1 {
		printHelp()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rv64sim: %v\n", err)
		os.Exit(1)
	}
	if *maxCycles != 0 {
		cfg.Execution.MaxCycles = *maxCycles
	}

	c, err := load(args[0], cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rv64sim: %v\n", err)
		os.Exit(1)
	}

	if *debugMode {
		session := inspector.NewSession(c, cfg.Inspector.HistorySize)
		tui := inspector.NewTUI(session)
		if err := tui.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "rv64sim: inspector: %v\n", err)
			os.Exit(1)
		}
		return
	}

	_ = c.Run(cfg.Execution.MaxCycles)
	fmt.Printf("status=%s cycles=%d exit=%d\n", c.Status(), c.Cycles, c.ExitCode)
	if c.Status() == cpu.StatusTrapped {
		os.Exit(1)
	}
	os.Exit(int(c.ExitCode))
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadFrom(path)
}

// load parses the ELF image at path, copies its PT_LOAD segments into a
// fresh memory image, and seeds a CPU at the entry point. The caller
// decides whether to run it to completion or hand it to the inspector for
// interactive stepping.
func load(path string, cfg *config.Config) (*cpu.CPU, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- user-supplied binary path
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	f, err := elf.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if f.Header.Machine != elf.EM_RISCV {
		return nil, fmt.Errorf("%s: machine type %s is not RISC-V", path, f.Header.Machine)
	}

	mem := memory.New(cfg.Execution.MemorySize)
	if err := f.LoadInto(mem); err != nil {
		return nil, fmt.Errorf("loading segments: %w", err)
	}
	// mem stays writable: unlike the debugger's code-patch guard this locks
	// against, a running guest needs a writable stack and data segment.

	entry := f.Header.Entry
	if entry == 0 {
		var perr error
		entry, perr = parseEntry(cfg.Execution.DefaultEntry)
		if perr != nil {
			return nil, perr
		}
	}

	return cpu.New(mem, entry), nil
}

func parseEntry(s string) (uint64, error) {
	s = strings.TrimPrefix(s, "0x")
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid entry address %q: %w", s, err)
	}
	return v, nil
}

func printHelp() {
	fmt.Println(`rv64sim - a RV64GC-oriented instruction-set simulator

Usage:
  rv64sim [flags] <elf-binary>

Flags:`)
	flag.PrintDefaults()
}
