package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"redbook_copy_assistant/generator"
)

// Key is the fixed name the API settings are stored under.
const Key = "redbook-ai-config"

// Preset is a known OpenAI-compatible provider.
type Preset struct {
	Name     string
	Label    string
	Endpoint string
	Models   []string
}

var presets = []Preset{
	{
		Name:     "deepseek",
		Label:    "DeepSeek",
		Endpoint: "https://api.deepseek.com/v1/chat/completions",
		Models:   []string{"deepseek-chat", "deepseek-reasoner"},
	},
	{
		Name:     "openai",
		Label:    "OpenAI",
		Endpoint: "https://api.openai.com/v1/chat/completions",
		Models:   []string{"gpt-4o-mini"},
	},
}

// DefaultPreset is what a fresh install starts with.
const DefaultPreset = "deepseek"

func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

func LookupPreset(name string) (Preset, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// Apply 切换到预设的地址和默认模型，保留已有的 API Key。
func (p Preset) Apply(api generator.APIConfig) generator.APIConfig {
	api.Endpoint = p.Endpoint
	if len(p.Models) > 0 {
		api.Model = p.Models[0]
	}
	return api
}

// Defaults returns the default preset with an empty key.
func Defaults() generator.APIConfig {
	p, _ := LookupPreset(DefaultPreset)
	return p.Apply(generator.APIConfig{})
}

// Store 把 API 配置保存在本地 YAML 文件里。
type Store struct {
	path string
}

func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, Key+".yaml")}
}

// DefaultDir resolves $XDG_CONFIG_HOME/redbook, falling back to ~/.config/redbook.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "redbook"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "redbook"), nil
}

func DefaultStore() (*Store, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return NewStore(dir), nil
}

func (s *Store) Path() string { return s.path }

type document map[string]generator.APIConfig

// Load 读取保存的配置。文件不存在时返回默认预设，found 为 false。
func (s *Store) Load() (api generator.APIConfig, found bool, err error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Defaults(), false, nil
		}
		return generator.APIConfig{}, false, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return generator.APIConfig{}, false, fmt.Errorf("parse %s: %w", s.path, err)
	}
	api, found = doc[Key]
	if !found {
		return Defaults(), false, nil
	}
	return api, true, nil
}

func (s *Store) Save(api generator.APIConfig) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(document{Key: api})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Masked hides all but the last four characters of the key, for display.
func Masked(key string) string {
	if key == "" {
		return "（未设置）"
	}
	r := []rune(key)
	if len(r) <= 4 {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", len(r)-4) + string(r[len(r)-4:])
}
