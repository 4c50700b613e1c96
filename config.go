package clasp

import "fmt"

// Config is a serialisable representation of the engine configuration. It can
// be populated from JSON, YAML, environment variables, etc. The zero-value is
// useful; all nested fields inherit their package defaults.
type Config struct {
	Queue     QueueConfig     `json:"queue" yaml:"queue"`
	Documents DocumentsConfig `json:"documents" yaml:"documents"`
}

// QueueConfig selects and sizes the event queue vendor.
type QueueConfig struct {
	Vendor     string `json:"vendor" yaml:"vendor"`
	BufferSize int    `json:"bufferSize" yaml:"bufferSize"`
	// BasePath is required by the fs vendor; it may use any afs scheme.
	BasePath string `json:"basePath,omitempty" yaml:"basePath,omitempty"`
}

// DocumentsConfig locates policy documents.
type DocumentsConfig struct {
	BaseURL string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
}

// DefaultConfig returns a Config populated with the defaults the constructors
// would otherwise hard-code. Callers may modify the returned struct before
// passing it to NewFromConfig.
func DefaultConfig() *Config {
	return &Config{
		Queue: QueueConfig{
			Vendor:     "memory",
			BufferSize: 100,
		},
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	switch c.Queue.Vendor {
	case "", "memory":
	case "fs":
		if c.Queue.BasePath == "" {
			return fmt.Errorf("queue.basePath is required for the fs vendor")
		}
	default:
		return fmt.Errorf("unsupported queue.vendor: %s", c.Queue.Vendor)
	}
	if c.Queue.BufferSize < 0 {
		return fmt.Errorf("queue.bufferSize must be >= 0")
	}
	return nil
}
