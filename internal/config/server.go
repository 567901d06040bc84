package config

import (
	"fmt"
	"time"
)

const (
	EnvServerHost            = "ISOGUARD_SERVER_HOST"
	EnvServerPort            = "ISOGUARD_SERVER_PORT"
	EnvServerReadTimeout     = "ISOGUARD_SERVER_READ_TIMEOUT"
	EnvServerWriteTimeout    = "ISOGUARD_SERVER_WRITE_TIMEOUT"
	EnvServerShutdownTimeout = "ISOGUARD_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig carries the HTTP listener settings.
type ServerConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	ReadTimeout     string `toml:"read_timeout"`
	WriteTimeout    string `toml:"write_timeout"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
}

// Addr renders the host:port listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ReadTimeoutDuration parses ReadTimeout; validated in Finalize.
func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return duration(c.ReadTimeout)
}

// WriteTimeoutDuration parses WriteTimeout; validated in Finalize.
func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	return duration(c.WriteTimeout)
}

// ShutdownTimeoutDuration parses ShutdownTimeout; validated in Finalize.
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return duration(c.ShutdownTimeout)
}

// Finalize fills defaults, applies env overrides, and validates.
func (c *ServerConfig) Finalize() error {
	setString(&c.Host, "0.0.0.0", EnvServerHost)
	setInt(&c.Port, 8080, EnvServerPort)
	setString(&c.ReadTimeout, "1m", EnvServerReadTimeout)
	setString(&c.WriteTimeout, "5m", EnvServerWriteTimeout)
	setString(&c.ShutdownTimeout, "30s", EnvServerShutdownTimeout)

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for _, field := range []struct{ name, value string }{
		{"read_timeout", c.ReadTimeout},
		{"write_timeout", c.WriteTimeout},
		{"shutdown_timeout", c.ShutdownTimeout},
	} {
		if err := checkDuration(field.name, field.value); err != nil {
			return err
		}
	}
	return nil
}

// Merge applies non-zero overlay values.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	if overlay.ReadTimeout != "" {
		c.ReadTimeout = overlay.ReadTimeout
	}
	if overlay.WriteTimeout != "" {
		c.WriteTimeout = overlay.WriteTimeout
	}
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
}
