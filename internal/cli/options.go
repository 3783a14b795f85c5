package cli

import "os"

// Options holds global CLI flags
type Options struct {
	ConfigPath string
	Output     string
	Verbose    bool
}

// DefaultOptions returns Options with default values
func DefaultOptions() *Options {
	return &Options{
		ConfigPath: os.Getenv("FLASHDECK_CONFIG"),
		Output:     getEnvOrDefault("FLASHDECK_OUTPUT", "text"),
		Verbose:    false,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
