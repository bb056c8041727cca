/*
Package cli facilitates building command-line beacon applications. It defines a [Config] type that
registers common command-line flags (using the Golang flag package) and their environment variable
equivalents, and builds the radio, command catalog, input source and renderer they describe.

# Examples

	import flag

	config := NewConfig(FlagAll)
	config.RegisterCommandLineFlags() // Adds -radio, -commands, -input, etc.
	flag.Parse()
	config.ReadFromEnvironment()      // Fills in missing fields using environment variables

	radio, err := config.OpenRadio()
	if err != nil {
		panic(err)
	}
	defer radio.Close()

Use a [Flag] mask to control which options are registered. A tool that only encodes packets does
not need a radio:

	config := NewConfig(FlagCatalog)
*/
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beaconmesh/beacon-remote/internal/log"
	"github.com/beaconmesh/beacon-remote/pkg/command"
	"github.com/beaconmesh/beacon-remote/pkg/connector"
	"github.com/beaconmesh/beacon-remote/pkg/connector/ble/goble"
	"github.com/beaconmesh/beacon-remote/pkg/connector/ble/tinygo"
	"github.com/beaconmesh/beacon-remote/pkg/connector/sim"
	"github.com/beaconmesh/beacon-remote/pkg/display"
	"github.com/beaconmesh/beacon-remote/pkg/input"
	"github.com/beaconmesh/beacon-remote/pkg/protocol"
)

// Environment variable names used are used by [Config.ReadFromEnvironment] to set common parameters.
const (
	EnvBeaconRadio       = "BEACON_RADIO"
	EnvBeaconBtAdapter   = "BEACON_BT_ADAPTER"
	EnvBeaconCommands    = "BEACON_COMMANDS"
	EnvBeaconServiceUUID = "BEACON_SERVICE_UUID"
	EnvBeaconInput       = "BEACON_INPUT"
	EnvBeaconOutput      = "BEACON_OUTPUT"
	EnvBeaconLogLevel    = "BEACON_LOG_LEVEL"
	EnvBeaconVerbose     = "BEACON_VERBOSE"
)

// Radio backends.
const (
	RadioHCI   = "hci"   // Raw HCI socket (Linux only), github.com/go-ble/ble.
	RadioBlueZ = "bluez" // BlueZ over D-Bus, or the platform stack elsewhere; tinygo.org/x/bluetooth.
	RadioSim   = "sim"   // In-memory radio that logs payloads.
)

// Input sources.
const (
	InputAuto     = "auto"     // Terminal if stdin is a terminal, otherwise a script.
	InputTerminal = "terminal" // Arrow keys in a raw-mode terminal.
	InputScript   = "script"   // Instructions from -script, or stdin.
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Flag controls what options should be scanned from the command line and/or environment variables.
type Flag int

func (f Flag) isSet(other Flag) bool {
	return (f & other) == other
}

const (
	FlagRadio   Flag = 1 // Enable radio options.
	FlagCatalog Flag = 2 // Enable command catalog and service UUID options.
	FlagInput   Flag = 4 // Enable input source options.
	FlagOutput  Flag = 8 // Enable output and logging options.
	FlagAll     Flag = FlagRadio | FlagCatalog | FlagInput | FlagOutput
)

var (
	ErrUnknownRadio  = errors.New("unknown radio type")
	ErrUnknownInput  = errors.New("unknown input type")
	ErrUnknownOutput = errors.New("unknown output format")
	ErrNotATerminal  = errors.New("terminal input requires stdin to be a terminal")
)

// choice is a flag.Value restricted to a fixed set of names.
type choice struct {
	value   *string
	allowed []string
	err     error
}

func (c choice) String() string {
	if c.value == nil {
		return ""
	}
	return *c.value
}

func (c choice) Set(value string) error {
	value = strings.ToLower(value)
	for _, a := range c.allowed {
		if a == value {
			*c.value = value
			return nil
		}
	}
	return fmt.Errorf("%w '%s' (expected %s)", c.err, value, strings.Join(c.allowed, "|"))
}

// Config fields determine how a beacon is assembled.
type Config struct {
	Flags       Flag   // Controls which set of environment variables/CLI flags to use.
	Radio       string // One of RadioHCI, RadioBlueZ or RadioSim.
	BtAdapterID string
	Commands    string // Comma-separated command labels.
	ServiceUUID string
	Input       string // One of InputAuto, InputTerminal or InputScript.
	ScriptFile  string // "-" reads the script from stdin.
	Output      string // One of OutputText or OutputJSON.
	LogLevel    string
	Debug       bool
}

func NewConfig(flags Flag) *Config {
	return &Config{Flags: flags}
}

// RegisterCommandLineFlags adds the options selected by c.Flags to flag.CommandLine.
func (c *Config) RegisterCommandLineFlags() {
	c.RegisterFlags(flag.CommandLine)
}

// RegisterFlags adds the options selected by c.Flags to fs.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	if c.Flags.isSet(FlagRadio) {
		fs.Var(choice{&c.Radio, []string{RadioHCI, RadioBlueZ, RadioSim}, ErrUnknownRadio}, "radio",
			"Radio `type` (hci|bluez|sim). Defaults to $BEACON_RADIO or "+defaultRadio+".")
		c.registerFlagsOsSpecific(fs)
	}
	if c.Flags.isSet(FlagCatalog) {
		fs.StringVar(&c.Commands, "commands", "", "Comma-separated command `labels` to cycle through. Defaults to $BEACON_COMMANDS or "+command.Default().String()+".")
		fs.StringVar(&c.ServiceUUID, "service-uuid", "", "128-bit service `UUID` listeners filter on. Defaults to $BEACON_SERVICE_UUID or "+protocol.DefaultServiceUUID+".")
	}
	if c.Flags.isSet(FlagInput) {
		fs.Var(choice{&c.Input, []string{InputAuto, InputTerminal, InputScript}, ErrUnknownInput}, "input",
			"Input `source` (auto|terminal|script). Defaults to $BEACON_INPUT or auto.")
		fs.StringVar(&c.ScriptFile, "script", "", "Read key presses from `file` (- for stdin) instead of the terminal.")
	}
	if c.Flags.isSet(FlagOutput) {
		fs.Var(choice{&c.Output, []string{OutputText, OutputJSON}, ErrUnknownOutput}, "output",
			"Output `format` (text|json). Defaults to $BEACON_OUTPUT or text.")
		fs.StringVar(&c.LogLevel, "log-level", "", "Log `level` (none|error|warn|info|debug). Defaults to $BEACON_LOG_LEVEL or warn.")
		fs.BoolVar(&c.Debug, "debug", false, "Enable verbose debugging messages. Defaults to $BEACON_VERBOSE.")
	}
}

// ReadFromEnvironment populates c using environment variables. Values that are already populated
// are not overwritten.
//
// Calling ReadFromEnvironment after flag.Parse() (or other initialization method) will prevent the
// environment from overriding explicit command-line parameters and avoid potentially misleading
// debug log messages.
func (c *Config) ReadFromEnvironment() {
	if c.Flags.isSet(FlagOutput) {
		if c.LogLevel == "" {
			c.LogLevel = os.Getenv(EnvBeaconLogLevel)
		}
		if !c.Debug {
			if verbose, ok := os.LookupEnv(EnvBeaconVerbose); ok {
				c.Debug = verbose != "false" && verbose != "0"
			}
		}
		c.ConfigureLogging()

		if c.Output == "" {
			c.Output = strings.ToLower(os.Getenv(EnvBeaconOutput))
			log.Debug("Set output format to '%s'", c.Output)
		}
	}
	if c.Flags.isSet(FlagRadio) {
		if c.Radio == "" {
			c.Radio = strings.ToLower(os.Getenv(EnvBeaconRadio))
			log.Debug("Set radio to '%s'", c.Radio)
		}
		if c.BtAdapterID == "" {
			c.BtAdapterID = os.Getenv(EnvBeaconBtAdapter)
			log.Debug("Set Bluetooth adapter to '%s'", c.BtAdapterID)
		}
	}
	if c.Flags.isSet(FlagCatalog) {
		if c.Commands == "" {
			c.Commands = os.Getenv(EnvBeaconCommands)
			log.Debug("Set commands to '%s'", c.Commands)
		}
		if c.ServiceUUID == "" {
			c.ServiceUUID = os.Getenv(EnvBeaconServiceUUID)
			log.Debug("Set service UUID to '%s'", c.ServiceUUID)
		}
	}
	if c.Flags.isSet(FlagInput) {
		if c.Input == "" {
			c.Input = strings.ToLower(os.Getenv(EnvBeaconInput))
			log.Debug("Set input to '%s'", c.Input)
		}
	}
}

// ConfigureLogging applies c.Debug and c.LogLevel to the global logger. Debug wins.
func (c *Config) ConfigureLogging() {
	if c.Debug {
		log.SetLevel(log.LevelDebug)
		return
	}
	if c.LogLevel == "" {
		return
	}
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Warning("Ignoring log level: %s", err)
		return
	}
	log.SetLevel(level)
}

// Catalog returns the configured command catalog, or command.Default() if none is configured.
func (c *Config) Catalog() (*command.Catalog, error) {
	if c.Commands == "" {
		return command.Default(), nil
	}
	return command.Parse(c.Commands)
}

// ServiceID returns the configured service ID, or protocol.DefaultServiceID if none is configured.
func (c *Config) ServiceID() (protocol.ServiceID, error) {
	if c.ServiceUUID == "" {
		return protocol.DefaultServiceID, nil
	}
	return protocol.ParseServiceID(c.ServiceUUID)
}

// OpenRadio opens the configured radio backend. Callers must Close the radio.
func (c *Config) OpenRadio() (connector.Radio, error) {
	radio := c.Radio
	if radio == "" {
		radio = defaultRadio
	}
	log.Debug("Opening %s radio", radio)
	switch radio {
	case RadioHCI:
		r, err := goble.NewRadio(c.BtAdapterID)
		if err != nil {
			return nil, err
		}
		return r, nil
	case RadioBlueZ:
		r, err := tinygo.NewRadio(c.BtAdapterID)
		if err != nil {
			return nil, err
		}
		return r, nil
	case RadioSim:
		return sim.New(), nil
	}
	return nil, fmt.Errorf("%w '%s'", ErrUnknownRadio, radio)
}

// IsAdapterError reports whether err came from a radio backend failing to open its adapter.
func IsAdapterError(err error) bool {
	return goble.IsAdapterError(err) || tinygo.IsAdapterError(err)
}

// AdapterErrorHelpMessage returns advice for fixing an adapter error on this platform.
func (c *Config) AdapterErrorHelpMessage(err error) string {
	if c.Radio == RadioBlueZ {
		return tinygo.AdapterErrorHelpMessage(err)
	}
	return goble.AdapterErrorHelpMessage(err)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenInput returns the configured input source. When the source takes over the terminal,
// interactive is true and text written to the terminal needs CRLF line endings. The returned
// closer restores the terminal or closes the script file.
func (c *Config) OpenInput(stdin *os.File) (src input.Source, closer io.Closer, interactive bool, err error) {
	mode := c.Input
	if mode == "" {
		mode = InputAuto
	}
	if mode == InputAuto {
		if c.ScriptFile != "" || !input.IsTerminal(stdin) {
			mode = InputScript
		} else {
			mode = InputTerminal
		}
	}
	log.Debug("Reading input from %s", mode)

	switch mode {
	case InputTerminal:
		if !input.IsTerminal(stdin) {
			return nil, nil, false, ErrNotATerminal
		}
		t := input.NewTerminal(stdin)
		return t, t, true, nil
	case InputScript:
		if c.ScriptFile == "" || c.ScriptFile == "-" {
			return input.NewScript(stdin), nopCloser{}, false, nil
		}
		f, err := os.Open(c.ScriptFile)
		if err != nil {
			return nil, nil, false, fmt.Errorf("failed to open script: %w", err)
		}
		return input.NewScript(f), f, false, nil
	}
	return nil, nil, false, fmt.Errorf("%w '%s'", ErrUnknownInput, mode)
}

// Renderer returns a renderer for the configured output format writing to w. Set crlf when w is
// a terminal in raw mode.
func (c *Config) Renderer(w io.Writer, crlf bool) (display.Renderer, error) {
	switch c.Output {
	case "", OutputText:
		return display.NewText(w, crlf), nil
	case OutputJSON:
		return display.NewJSON(w), nil
	}
	return nil, fmt.Errorf("%w '%s'", ErrUnknownOutput, c.Output)
}
