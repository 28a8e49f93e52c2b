package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the simulator configuration.
type Config struct {
	// Execution settings
	Execution struct {
		MaxCycles     uint64 `toml:"max_cycles"`
		MemorySize    uint64 `toml:"memory_size"`
		DefaultEntry  string `toml:"default_entry"`
		EnableTrace   bool   `toml:"enable_trace"`
		EnableMemTrace bool  `toml:"enable_mem_trace"`
	} `toml:"execution"`

	// Inspector settings (the terminal debugger, see the inspector package)
	Inspector struct {
		HistorySize    int  `toml:"history_size"`
		AutoSaveBreaks bool `toml:"auto_save_breakpoints"`
		ShowSource     bool `toml:"show_source"`
		ShowRegisters  bool `toml:"show_registers"`
	} `toml:"inspector"`

	// Display settings
	Display struct {
		ColorOutput   bool   `toml:"color_output"`
		BytesPerLine  int    `toml:"bytes_per_line"`
		DisasmContext int    `toml:"disasm_context"`
		NumberFormat  string `toml:"number_format"` // hex, dec, both
	} `toml:"display"`

	// Trace settings
	Trace struct {
		OutputFile   string `toml:"output_file"`
		FilterRegs   string `toml:"filter_registers"` // comma-separated: "a0,a1,pc"
		IncludeCSRs  bool   `toml:"include_csrs"`
		MaxEntries   int    `toml:"max_entries"`
	} `toml:"trace"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Execution defaults
	cfg.Execution.MaxCycles = 10_000_000
	cfg.Execution.MemorySize = 64 << 20 // 64MiB flat image
	cfg.Execution.DefaultEntry = "0x10000"
	cfg.Execution.EnableTrace = false
	cfg.Execution.EnableMemTrace = false

	// Inspector defaults
	cfg.Inspector.HistorySize = 1000
	cfg.Inspector.AutoSaveBreaks = true
	cfg.Inspector.ShowSource = true
	cfg.Inspector.ShowRegisters = true

	// Display defaults
	cfg.Display.ColorOutput = true
	cfg.Display.BytesPerLine = 16
	cfg.Display.DisasmContext = 5
	cfg.Display.NumberFormat = "hex"

	// Trace defaults
	cfg.Trace.OutputFile = "trace.log"
	cfg.Trace.FilterRegs = ""
	cfg.Trace.IncludeCSRs = true
	cfg.Trace.MaxEntries = 100000

	return cfg
}

const appName = "rv64sim"

// configPathEnvVar, when set, names the config file directly and bypasses
// the platform-specific search GetConfigPath otherwise performs: useful
// for CI and for running more than one profile side by side.
const configPathEnvVar = "RV64SIM_CONFIG"

// GetConfigPath returns the config file path: $RV64SIM_CONFIG if set,
// otherwise $XDG_CONFIG_HOME/rv64sim/config.toml on Linux/macOS (falling
// back to ~/.config), or %APPDATA%\rv64sim\config.toml on Windows.
func GetConfigPath() string {
	if p := os.Getenv(configPathEnvVar); p != "" {
		return p
	}

	var configDir string
	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, appName)

	case "darwin", "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			configDir = filepath.Join(xdg, appName)
			break
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to current directory
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", appName)

	default:
		// Unknown platform: use current directory
		return "config.toml"
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0750); err != nil {
		// If we can't create the directory, fall back to current directory
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// GetLogPath returns the log directory: $XDG_DATA_HOME/rv64sim/logs on
// Linux/macOS (falling back to ~/.local/share), or %APPDATA%\rv64sim\logs
// on Windows.
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, appName, "logs")

	case "darwin", "linux":
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			logDir = filepath.Join(xdg, appName, "logs")
			break
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", appName, "logs")

	default:
		return "logs"
	}

	// Ensure directory exists
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load loads configuration from the default config file
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	// If file doesn't exist, return default config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read and parse config file
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create file
	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	// Encode to TOML
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
