package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagStrict  = flag.Bool("strict", false, "Enable strict validation")
	flagWorkers = flag.Int("workers", 0, "Parallel model decoders")
	flagAddr    = flag.String("addr", "", "HTTP listen address for serve")
	flagRoot    = flag.String("root", "", "Directory served by serve")
)

// ParseFlags parses command-line flags. Call this early in main().
// Arguments after the flags are available through flag.Args.
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagStrict {
		cfg.Decode.Validate = true
		cfg.Decode.Strict = true
	}
	if *flagWorkers > 0 {
		cfg.Decode.Workers = *flagWorkers
	}
	if *flagAddr != "" {
		cfg.Server.Addr = *flagAddr
	}
	if *flagRoot != "" {
		cfg.Server.Root = *flagRoot
	}
}
