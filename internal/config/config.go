package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"loopdrum-service/internal/hardware"
	"loopdrum-service/internal/matrix"
)

// Duration is a time.Duration that reads and writes as a string such as "200ms".
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) D() time.Duration {
	return time.Duration(d)
}

// GPIOConfig describes the matrix wiring
type GPIOConfig struct {
	hardware.PinMap
	RealtimePriority int `json:"realtime_priority,omitempty"`
}

// ScanConfig tunes the scan loop and debounce filter
type ScanConfig struct {
	MaxDebounce  int      `json:"max_debounce"`
	SettleDelay  Duration `json:"settle_delay"`
	HoldDelay    Duration `json:"hold_delay"`
	PassInterval Duration `json:"pass_interval"`
}

// TimingConfig holds the gesture thresholds
type TimingConfig struct {
	DoubleTapWindow Duration `json:"double_tap_window"`
	OverdubHold     Duration `json:"overdub_hold"`
	OptionsHold     Duration `json:"options_hold"`
}

type MenuConfig struct {
	TotalKits int `json:"total_kits"`
}

// RedisConfig locates the audio engine queues and the status board hash
type RedisConfig struct {
	Host       string `json:"host"`
	Port       int    `json:"port"`
	ActionList string `json:"action_list"`
	StatusList string `json:"status_list"`
	BoardHash  string `json:"board_hash"`
}

type Config struct {
	GPIO   GPIOConfig   `json:"gpio"`
	Scan   ScanConfig   `json:"scan"`
	Timing TimingConfig `json:"timing"`
	Menu   MenuConfig   `json:"menu"`
	Redis  RedisConfig  `json:"redis"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		GPIO: GPIOConfig{
			PinMap: hardware.DefaultPinMap(),
		},
		Scan: ScanConfig{
			MaxDebounce:  matrix.DefaultMaxDebounce,
			SettleDelay:  Duration(matrix.DefaultSettleDelay),
			HoldDelay:    Duration(matrix.DefaultHoldDelay),
			PassInterval: Duration(matrix.DefaultPassInterval),
		},
		Timing: TimingConfig{
			DoubleTapWindow: Duration(200 * time.Millisecond),
			OverdubHold:     Duration(200 * time.Millisecond),
			OptionsHold:     Duration(500 * time.Millisecond),
		},
		Menu: MenuConfig{
			TotalKits: 4,
		},
		Redis: RedisConfig{
			Host:       "127.0.0.1",
			Port:       6379,
			ActionList: "looper:actions",
			StatusList: "looper:engine",
			BoardHash:  "looper",
		},
	}
}

// Load reads the config from path, or returns defaults if the file does not
// exist. Fields missing from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.GPIO.PinMap.Validate(); err != nil {
		return err
	}
	if c.GPIO.RealtimePriority < 0 || c.GPIO.RealtimePriority > 99 {
		return fmt.Errorf("realtime_priority %d out of range 0-99", c.GPIO.RealtimePriority)
	}
	if c.Scan.MaxDebounce < 1 {
		return fmt.Errorf("max_debounce must be at least 1, got %d", c.Scan.MaxDebounce)
	}
	if c.Scan.SettleDelay < 0 || c.Scan.HoldDelay < 0 || c.Scan.PassInterval < 0 {
		return fmt.Errorf("scan delays must not be negative")
	}
	if c.Timing.DoubleTapWindow <= 0 || c.Timing.OverdubHold <= 0 || c.Timing.OptionsHold <= 0 {
		return fmt.Errorf("timing thresholds must be positive")
	}
	if c.Menu.TotalKits < 1 {
		return fmt.Errorf("total_kits must be at least 1, got %d", c.Menu.TotalKits)
	}
	if c.Redis.ActionList == "" || c.Redis.StatusList == "" || c.Redis.BoardHash == "" {
		return fmt.Errorf("redis keys must not be empty")
	}
	return nil
}

func (c *Config) ScannerConfig() matrix.ScannerConfig {
	return matrix.ScannerConfig{
		SettleDelay:  c.Scan.SettleDelay.D(),
		HoldDelay:    c.Scan.HoldDelay.D(),
		PassInterval: c.Scan.PassInterval.D(),
	}
}
