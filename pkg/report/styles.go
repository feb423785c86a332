package report

import (
	_ "embed"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/composer-merge/pkg/errors"
)

//go:embed styles.yaml
var stylesYAML []byte

// ColorDef is an adaptive color definition
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef is a style definition
type StyleDef struct {
	Bold        bool   `yaml:"bold,omitempty"`
	Italic      bool   `yaml:"italic,omitempty"`
	Foreground  string `yaml:"foreground,omitempty"`
	PaddingLeft int    `yaml:"paddingLeft,omitempty"`
}

// StylesConfig is the content of styles.yaml
type StylesConfig struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

// Styles maps semantic names to lipgloss styles bound to one renderer
type Styles struct {
	registry map[string]lipgloss.Style
}

// LoadStyles builds the embedded styles for r
func LoadStyles(r *lipgloss.Renderer) (*Styles, error) {
	return ParseStyles(r, stylesYAML)
}

// ParseStyles builds styles from a YAML definition
func ParseStyles(r *lipgloss.Renderer, data []byte) (*Styles, error) {
	var config StylesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to parse styles")
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(config.Colors))
	for name, def := range config.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	s := &Styles{registry: make(map[string]lipgloss.Style, len(config.Styles))}
	for name, def := range config.Styles {
		style := r.NewStyle()
		if def.Bold {
			style = style.Bold(true)
		}
		if def.Italic {
			style = style.Italic(true)
		}
		if color, ok := colors[def.Foreground]; ok {
			style = style.Foreground(color)
		}
		if def.PaddingLeft > 0 {
			style = style.PaddingLeft(def.PaddingLeft)
		}
		s.registry[name] = style
	}
	return s, nil
}

// Get returns the named style, or a plain one when it is not defined
func (s *Styles) Get(name string) lipgloss.Style {
	if style, ok := s.registry[name]; ok {
		return style
	}
	return lipgloss.NewStyle()
}
