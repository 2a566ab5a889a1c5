package portfwd

import (
	"fmt"
	"time"
)

// Direction is one of the two unidirectional streams of a session.
type Direction uint8

// Directions.
const (
	// Upstream carries bytes read from the client and written to the target.
	Upstream Direction = iota
	// Downstream carries bytes read from the target and written to the client.
	Downstream
)

func (d Direction) String() string {
	switch d {
	case Upstream:
		return "client to target"
	case Downstream:
		return "target to client"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// Arrow renders the direction between a "client target" address pair.
func (d Direction) Arrow() string {
	if d == Downstream {
		return "<<<"
	}
	return ">>>"
}

// OutcomeKind classifies how a session ended.
type OutcomeKind uint8

// Outcome kinds.
const (
	OutcomeCleanEOF OutcomeKind = iota
	OutcomeError
	OutcomeConnectFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCleanEOF:
		return "clean_eof"
	case OutcomeError:
		return "error"
	case OutcomeConnectFailed:
		return "connect_failed"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(k))
	}
}

// Outcome is the terminal state of a session.
// Dir is the direction that ended first and is meaningless for OutcomeConnectFailed.
type Outcome struct {
	Kind  OutcomeKind
	Dir   Direction
	Err   error
	Bytes [2]int64 // indexed by Direction
}

// OK reports whether the session ended on a clean end-of-stream.
func (o Outcome) OK() bool { return o.Kind == OutcomeCleanEOF }

// Config configures a Forwarder and its relays.
type Config struct {
	// ChunkSize is the read buffer size of each copy direction.
	ChunkSize int
	// DialTimeout bounds the outbound connect. Zero leaves it to the OS.
	DialTimeout time.Duration
	// ProxyProtocol is the PROXY protocol version (1 or 2) announced to the target.
	// Zero disables the header.
	ProxyProtocol byte
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ChunkSize: DefaultChunkSize,
	}
}

func (c *Config) ensureDefaults() {
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
}

// Validate checks the config for values that cannot be served.
func (c Config) Validate() error {
	if c.ChunkSize < 0 {
		return fmt.Errorf("chunk size must not be negative, got %d", c.ChunkSize)
	}
	if c.DialTimeout < 0 {
		return fmt.Errorf("dial timeout must not be negative, got %s", c.DialTimeout)
	}
	switch c.ProxyProtocol {
	case 0, 1, 2:
	default:
		return fmt.Errorf("unsupported PROXY protocol version %d", c.ProxyProtocol)
	}
	return nil
}
