package sink

import (
	"fmt"
	"net"
	"sync"

	"github.com/north-cloud/richlog/encoding"
	"github.com/north-cloud/richlog/level"
)

// Syslog facility codes per RFC 5424.
const (
	FacilityKern   = 0
	FacilityUser   = 1
	FacilityDaemon = 3
	FacilityLocal0 = 16
	FacilityLocal7 = 23
)

// SyslogConfig configures the syslog sink.
type SyslogConfig struct {
	// Network is "udp" or "tcp".
	Network string `yaml:"network" env:"SYSLOG_NETWORK"`
	Address string `yaml:"address" env:"SYSLOG_ADDRESS"`
	// Facility is the syslog facility code (default user).
	Facility int    `yaml:"facility" env:"SYSLOG_FACILITY"`
	Level    string `yaml:"level"    env:"SYSLOG_LEVEL"`
}

// SetDefaults applies default values to the config if not set. The
// zero facility defaults to user; kern frames are not something a
// logging library should ever emit.
func (c *SyslogConfig) SetDefaults() {
	if c.Network == "" {
		c.Network = "udp"
	}
	if c.Address == "" {
		c.Address = "localhost:514"
	}
	if c.Facility == 0 {
		c.Facility = FacilityUser
	}
}

// Syslog sends entries over UDP or TCP framed with the syslog priority
// header "<facility*8+severity>". The severity comes from the level's
// syslog mapping, so EMERGENCY really arrives as severity 0.
type Syslog struct {
	mu       sync.Mutex
	conn     net.Conn
	network  string
	address  string
	facility int
	enc      encoding.Encoder
	min      level.Level
}

// NewSyslog dials the syslog endpoint. Message bodies use the plain
// line layout without a timestamp; syslog daemons add their own.
func NewSyslog(cfg SyslogConfig, min level.Level) (*Syslog, error) {
	cfg.SetDefaults()
	if cfg.Network != "udp" && cfg.Network != "tcp" {
		return nil, fmt.Errorf("syslog network must be udp or tcp, got %q", cfg.Network)
	}

	conn, err := net.Dial(cfg.Network, cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("dial syslog %s://%s: %w", cfg.Network, cfg.Address, err)
	}

	layout := encoding.ANSIConfig{
		Color:     encoding.ColorNever,
		Icon:      encoding.IconOff,
		ShowName:  true,
		ShowPID:   true,
		ShowLevel: true,
		ShowPath:  true,
	}
	return &Syslog{
		conn:     conn,
		network:  cfg.Network,
		address:  cfg.Address,
		facility: cfg.Facility,
		enc:      encoding.NewANSIEncoder(layout),
		min:      min,
	}, nil
}

// Emit frames and sends the entry. On a write failure the connection is
// redialed once; a second failure is returned to the caller.
func (s *Syslog) Emit(e *encoding.Entry) error {
	body, err := s.enc.Encode(e)
	if err != nil {
		return err
	}

	priority := s.facility*8 + e.Level.SyslogSeverity()
	frame := []byte(fmt.Sprintf("<%d>%s", priority, body))
	if s.network == "tcp" {
		frame = append(frame, 0)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.conn.Write(frame); err != nil {
		if redialErr := s.redial(); redialErr != nil {
			return fmt.Errorf("syslog write failed and redial failed: %w", redialErr)
		}
		if _, err := s.conn.Write(frame); err != nil {
			return fmt.Errorf("syslog write: %w", err)
		}
	}
	return nil
}

// redial replaces the connection after a write failure. Caller holds the lock.
func (s *Syslog) redial() error {
	s.conn.Close()
	conn, err := net.Dial(s.network, s.address)
	if err != nil {
		return err
	}
	s.conn = conn
	return nil
}

// MinLevel returns the sink threshold.
func (s *Syslog) MinLevel() level.Level { return s.min }

// Sync is a no-op; datagrams and stream writes are unbuffered.
func (s *Syslog) Sync() error { return nil }

// Close closes the connection.
func (s *Syslog) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}
