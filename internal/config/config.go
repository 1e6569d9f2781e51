package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/taskmirror/taskmirror/internal/utils"
)

var (
	home, _           = os.UserHomeDir()
	DefaultConfigPath = filepath.Join(home, ".taskmirror", "config.json")
	DefaultIndexPath  = filepath.Join(home, ".taskmirror", "task_index.json")
	DefaultHistoryDB  = filepath.Join(home, ".taskmirror", "history.db")
	DefaultHTTPAddr   = "localhost:7438"
)

// TrackerConfig is the credential bundle for the task tracker.
type TrackerConfig struct {
	BaseURL   string   `json:"base_url" mapstructure:"base_url"`
	APIToken  string   `json:"api_token" mapstructure:"api_token"`
	Workspace string   `json:"workspace" mapstructure:"workspace"`
	Space     string   `json:"space" mapstructure:"space"`
	Folder    string   `json:"folder" mapstructure:"folder"`
	List      string   `json:"list" mapstructure:"list"`
	TaskTags  []string `json:"task_tags,omitempty" mapstructure:"task_tags"`
}

// ContainerPath is the ordered space/folder/list path under which
// mirrored tasks are created.
func (t *TrackerConfig) ContainerPath() []string {
	return []string{t.Space, t.Folder, t.List}
}

// SourceConfig is the credential bundle for the remote file source.
type SourceConfig struct {
	BaseURL      string   `json:"base_url" mapstructure:"base_url"`
	APIToken     string   `json:"api_token" mapstructure:"api_token"`
	RootFolderID string   `json:"root_folder_id" mapstructure:"root_folder_id"`
	MirrorTag    string   `json:"mirror_tag" mapstructure:"mirror_tag"`
	ScanDepth    int      `json:"scan_depth" mapstructure:"scan_depth"`
	Include      []string `json:"include,omitempty" mapstructure:"include"`
	Exclude      []string `json:"exclude,omitempty" mapstructure:"exclude"`
}

// HTTPConfig configures the local control plane server.
type HTTPConfig struct {
	Addr      string `json:"addr" mapstructure:"addr"`
	AuthToken string `json:"auth_token" mapstructure:"auth_token"`
}

// Config is the full process configuration, constructed once at startup
// and passed by reference into every component that needs it.
type Config struct {
	Tracker         TrackerConfig `json:"tracker" mapstructure:"tracker"`
	Source          SourceConfig  `json:"source" mapstructure:"source"`
	HTTP            HTTPConfig    `json:"http" mapstructure:"http"`
	IndexPath       string        `json:"index_path" mapstructure:"index_path"`
	HistoryDBPath   string        `json:"history_db_path" mapstructure:"history_db_path"`
	IntervalMinutes int           `json:"interval_minutes" mapstructure:"interval_minutes"`

	Path string `json:"-" mapstructure:"-"`
}

// Validate checks the config for startup-time errors. Missing credentials
// are a configuration error here, never a runtime one.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Tracker.APIToken) == "" {
		return fmt.Errorf("config: tracker api token is required")
	}
	if strings.TrimSpace(c.Tracker.Workspace) == "" {
		return fmt.Errorf("config: tracker workspace is required")
	}
	if err := validateURL("tracker base url", c.Tracker.BaseURL); err != nil {
		return err
	}
	for _, level := range []struct{ name, val string }{
		{"space", c.Tracker.Space},
		{"folder", c.Tracker.Folder},
		{"list", c.Tracker.List},
	} {
		if strings.TrimSpace(level.val) == "" {
			return fmt.Errorf("config: tracker %s name is required", level.name)
		}
	}

	if strings.TrimSpace(c.Source.APIToken) == "" {
		return fmt.Errorf("config: source api token is required")
	}
	if strings.TrimSpace(c.Source.RootFolderID) == "" {
		return fmt.Errorf("config: source root folder id is required")
	}
	if err := validateURL("source base url", c.Source.BaseURL); err != nil {
		return err
	}
	if c.Source.MirrorTag == "" {
		return fmt.Errorf("config: source mirror tag is required")
	}
	if c.Source.ScanDepth <= 0 {
		c.Source.ScanDepth = 1
	}

	if c.IntervalMinutes < 1 {
		return fmt.Errorf("config: interval must be at least 1 minute, got %d", c.IntervalMinutes)
	}

	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}
	if c.HTTP.AuthToken == "" {
		// per-process token; the control plane logs it on start
		c.HTTP.AuthToken = utils.TokenHex(16)
	}

	indexPath, err := utils.ResolvePath(c.IndexPath)
	if err != nil {
		return fmt.Errorf("config: index path: %w", err)
	}
	c.IndexPath = indexPath

	historyPath, err := utils.ResolvePath(c.HistoryDBPath)
	if err != nil {
		return fmt.Errorf("config: history db path: %w", err)
	}
	c.HistoryDBPath = historyPath

	return nil
}

func (c *Config) Save() error {
	if err := utils.EnsureParent(c.Path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(c.Path, data, 0o644)
}

func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.Path = path
	return &cfg, nil
}

func validateURL(what, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("config: %s: %w", what, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("config: %s %q must be http(s)", what, raw)
	}
	return nil
}
