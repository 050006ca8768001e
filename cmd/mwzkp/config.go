package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btclog"
	flags "github.com/jessevdk/go-flags"
	"github.com/ltcsuite/mwzkp/mw"
)

const (
	defaultLogLevel    = "info"
	defaultLogDirname  = "logs"
	defaultLogFilename = "mwzkp.log"
)

var (
	defaultHomeDir = appDataDir("mwzkp")
	defaultLogDir  = filepath.Join(defaultHomeDir, defaultLogDirname)
)

// config defines the global options. Every command carries its own option
// struct.
type config struct {
	DebugLevel  string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	LogDir      string `long:"logdir" description:"Directory to log output"`
	NoFileLog   bool   `long:"nofilelogging" description:"Disable file logging"`
	ScratchSize int    `long:"scratchsize" description:"Working memory budget in bytes of each range proof"`
}

// appDataDir returns the per user application data directory.
func appDataDir(appName string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, "."+strings.ToLower(appName))
}

// validLogLevel returns whether or not logLevel is a valid debug log level.
func validLogLevel(logLevel string) bool {
	_, ok := btclog.LevelFromString(logLevel)
	return ok
}

// parseAndSetDebugLevels attempts to parse the specified debug level and set
// the levels accordingly. An appropriate error is returned if anything is
// invalid.
func parseAndSetDebugLevels(debugLevel string) error {
	// When the specified string doesn't have any delimters, treat it as
	// the log level for all subsystems.
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		// Validate debug log level.
		if !validLogLevel(debugLevel) {
			str := "the specified debug level [%v] is invalid"
			return fmt.Errorf(str, debugLevel)
		}

		// Change the logging level for all subsystems.
		setLogLevels(debugLevel)

		return nil
	}

	// Split the specified string into subsystem/level pairs while detecting
	// issues and update the log levels accordingly.
	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		if !strings.Contains(logLevelPair, "=") {
			str := "the specified debug level contains an invalid " +
				"subsystem/level pair [%v]"
			return fmt.Errorf(str, logLevelPair)
		}

		// Extract the specified subsystem and log level.
		fields := strings.Split(logLevelPair, "=")
		subsysID, logLevel := fields[0], fields[1]

		// Validate subsystem.
		if _, exists := subsystemLoggers[subsysID]; !exists {
			str := "the specified subsystem [%v] is invalid -- " +
				"supported subsystems %v"
			return fmt.Errorf(str, subsysID, supportedSubsystems())
		}

		// Validate log level.
		if !validLogLevel(logLevel) {
			str := "the specified debug level [%v] is invalid"
			return fmt.Errorf(str, logLevel)
		}

		setLogLevel(subsysID, logLevel)
	}

	return nil
}

// newConfig returns the global options with their defaults.
func newConfig() *config {
	return &config{
		DebugLevel:  defaultLogLevel,
		LogDir:      defaultLogDir,
		ScratchSize: mw.DefaultScratchSize,
	}
}

// apply validates the global options once they have been parsed, sets up
// logging and returns the Context configuration they select.
func (cfg *config) apply() (*mw.Config, error) {
	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", supportedSubsystems())
		os.Exit(0)
	}

	if !cfg.NoFileLog {
		logFile := filepath.Join(cfg.LogDir, defaultLogFilename)
		if err := initLogRotator(logFile); err != nil {
			return nil, err
		}
	}
	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return nil, err
	}

	if cfg.ScratchSize <= 0 {
		return nil, fmt.Errorf("the scratch size must be positive, got %d",
			cfg.ScratchSize)
	}
	return &mw.Config{ScratchSize: cfg.ScratchSize}, nil
}

// newParser returns the command line parser with every command registered.
// The handler runs after parsing with the command that was selected.
func newParser(cfg *config, handler func(flags.Commander, []string) error) *flags.Parser {
	parser := flags.NewParser(cfg, flags.Default)
	for _, c := range newCommands() {
		_, err := parser.AddCommand(c.name, c.short, c.long, c.data)
		if err != nil {
			// Only reachable with malformed option tags.
			panic(err)
		}
	}
	parser.CommandHandler = handler
	return parser
}
