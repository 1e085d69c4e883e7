package logging

import "time"

// Config is read from internal/config at boot to pick which sinks a
// station runs with: the serial console always, a JSON capture file
// only when internal/config.Config.LogJSONPath (env
// RAYTAG_LOG_JSON_PATH) is set.
type Config struct {
	EnabledSinks     []string
	BufferSize       int
	MinimumSeverity  Severity
	Fields           map[string]any
	JSON             JSONConfig
	Console          ConsoleConfig
	DropWarnInterval time.Duration
}

// JSONConfig configures the sinks.JSON capture-to-flash sink.
// FilePath names the file sinks.OpenJSONFile appends to; MaxBatch caps
// how many events can sit unflushed before a crash would lose them.
type JSONConfig struct {
	FilePath      string
	MaxBatch      int
	FlushInterval time.Duration
}

// ConsoleConfig configures the sinks.ConsoleSink. UseColor is left off
// by default since a serial terminal can't be assumed to support ANSI
// escapes; an operator on a real terminal can turn it on explicitly.
type ConsoleConfig struct {
	UseColor bool
}

func DefaultConfig() Config {
	return Config{
		EnabledSinks:     []string{"console"},
		BufferSize:       512,
		MinimumSeverity:  SeverityInfo,
		DropWarnInterval: 5 * time.Second,
		JSON: JSONConfig{
			MaxBatch:      32,
			FlushInterval: 2 * time.Second,
		},
	}
}

func (c Config) HasSink(name string) bool {
	for _, s := range c.EnabledSinks {
		if s == name {
			return true
		}
	}
	return false
}

func (c Config) CloneFields() map[string]any {
	if len(c.Fields) == 0 {
		return nil
	}
	cloned := make(map[string]any, len(c.Fields))
	for k, v := range c.Fields {
		cloned[k] = v
	}
	return cloned
}
