package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/textmarquee/marquee"
)

// Display kinds.
const (
	DisplayLines  = "lines"
	DisplayScreen = "screen"
)

type Config struct {
	Display  string          `yaml:"display"`
	Logs     LogsConfig      `yaml:"logs"`
	Control  ControlConfig   `yaml:"control"`
	Marquees []MarqueeConfig `yaml:"marquees"`
}

type LogsConfig struct {
	// File, if set, receives log output instead of stderr.
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

type ControlConfig struct {
	// Listen is the HTTP control API address, empty disables it.
	Listen string `yaml:"listen"`
}

// MarqueeConfig describes one marquee. Unset fields fall back to marquee
// package defaults.
type MarqueeConfig struct {
	Name         string        `yaml:"name"`
	Text         string        `yaml:"text"`
	ViewSize     int           `yaml:"view_size"`
	Padding      *int          `yaml:"padding"`
	PadSeparator *string       `yaml:"pad_separator"`
	Direction    string        `yaml:"direction"`
	Interval     time.Duration `yaml:"interval"`
	ScrollStep   float64       `yaml:"scroll_step"`
	// Row counts up from the bottom in lines display and down from the
	// top in screen display.
	Row    int  `yaml:"row"`
	Indent int  `yaml:"indent"`
	Paused bool `yaml:"paused"`
	// Stdin makes every line read from standard input the new text.
	Stdin bool `yaml:"stdin"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := &Config{
		Display: DisplayLines,
		Logs: LogsConfig{
			Level: "info",
		},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Display {
	case DisplayLines, DisplayScreen:
	default:
		return fmt.Errorf("unknown display %q", c.Display)
	}
	if len(c.Marquees) == 0 {
		return fmt.Errorf("no marquees configured")
	}
	seen := make(map[string]bool, len(c.Marquees))
	var stdin string
	for i, m := range c.Marquees {
		if m.Name == "" {
			return fmt.Errorf("marquee #%d: missing name", i)
		}
		if seen[m.Name] {
			return fmt.Errorf("marquee %q: duplicate name", m.Name)
		}
		seen[m.Name] = true
		if m.Stdin {
			if stdin != "" {
				return fmt.Errorf("marquee %q: stdin already read by %q", m.Name, stdin)
			}
			stdin = m.Name
		}
		if _, err := m.Options(); err != nil {
			return fmt.Errorf("marquee %q: %w", m.Name, err)
		}
	}
	return nil
}

// Options converts m into marquee options. Renderer is left to the caller.
func (m MarqueeConfig) Options() ([]marquee.Option, error) {
	var opts []marquee.Option
	if m.ViewSize != 0 {
		opts = append(opts, marquee.WithViewSize(m.ViewSize))
	}
	if m.Padding != nil {
		opts = append(opts, marquee.WithPadding(*m.Padding))
	}
	if m.PadSeparator != nil {
		opts = append(opts, marquee.WithPadSeparator(*m.PadSeparator))
	}
	if m.Direction != "" {
		d, err := marquee.ParseDirection(m.Direction)
		if err != nil {
			return nil, err
		}
		opts = append(opts, marquee.WithDirection(d))
	}
	if m.Interval != 0 {
		opts = append(opts, marquee.WithUpdateInterval(m.Interval))
	}
	if m.ScrollStep != 0 {
		opts = append(opts, marquee.WithScrollStep(m.ScrollStep))
	}
	return opts, nil
}
