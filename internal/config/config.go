package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Default locations inside the openclaw workspace.
const (
	DefaultDataDir      = "~/.openclaw/workspace/mission-control-bridge/data"
	DefaultSkillsDir    = "~/.openclaw/workspace/skills"
	DefaultWorkflowsDir = "~/.openclaw/workspace/antfarm"
)

const (
	DefaultBinary       = "openclaw"
	DefaultLogUnit      = "openclaw"
	DefaultJournalLines = 10
	DefaultLogLines     = 5
	DefaultQueryTimeout = 30 * time.Second
	DefaultLogTimeout   = 10 * time.Second
	DefaultInterval     = 5 * time.Minute
	DefaultRemote       = "origin"
	DefaultBranch       = "main"
	DefaultLogLevel     = "warn"
)

// Config holds mcbridge configuration
type Config struct {
	DataDir      string
	SkillsDir    string
	WorkflowsDir string
	// RepoDir is the git working tree published after each export.
	// Empty means the parent of DataDir.
	RepoDir string

	OpenClawBin  string
	LogUnit      string
	JournalLines int
	LogLines     int
	QueryTimeout time.Duration
	LogTimeout   time.Duration
	HostPattern  string

	Publish bool
	Remote  string
	Branch  string

	Interval time.Duration
	LogLevel string
}

// fileConfig is the on-disk shape; empty values leave the merged config
// untouched. Durations are Go duration strings ("30s", "5m").
type fileConfig struct {
	DataDir      string `yaml:"data_dir"`
	SkillsDir    string `yaml:"skills_dir"`
	WorkflowsDir string `yaml:"workflows_dir"`
	AntfarmDir   string `yaml:"antfarm_dir"`
	RepoDir      string `yaml:"repo_dir"`
	OpenClawBin  string `yaml:"openclaw_bin"`
	LogUnit      string `yaml:"log_unit"`
	JournalLines int    `yaml:"journal_lines"`
	LogLines     int    `yaml:"log_lines"`
	QueryTimeout string `yaml:"query_timeout"`
	LogTimeout   string `yaml:"log_timeout"`
	HostPattern  string `yaml:"host_pattern"`
	Publish      *bool  `yaml:"publish"`
	Remote       string `yaml:"remote"`
	Branch       string `yaml:"branch"`
	Interval     string `yaml:"interval"`
	LogLevel     string `yaml:"log_level"`
}

// configFile is the name of the config file
const configFile = "config.yaml"

// repoConfigDir is the per-directory config folder searched upward from cwd
const repoConfigDir = ".mcbridge"

// Default returns the built-in configuration with paths expanded.
func Default() *Config {
	return &Config{
		DataDir:      ExpandPath(DefaultDataDir, ""),
		SkillsDir:    ExpandPath(DefaultSkillsDir, ""),
		WorkflowsDir: ExpandPath(DefaultWorkflowsDir, ""),
		OpenClawBin:  DefaultBinary,
		LogUnit:      DefaultLogUnit,
		JournalLines: DefaultJournalLines,
		LogLines:     DefaultLogLines,
		QueryTimeout: DefaultQueryTimeout,
		LogTimeout:   DefaultLogTimeout,
		Publish:      true,
		Remote:       DefaultRemote,
		Branch:       DefaultBranch,
		Interval:     DefaultInterval,
		LogLevel:     DefaultLogLevel,
	}
}

// Load loads configuration with the following precedence (highest first):
// 1. explicitPath, when non-empty
// 2. Repo-local .mcbridge/config.yaml in the current directory
// 3. Parent .mcbridge/config.yaml files (searched upward from cwd)
// 4. Environment variables
// 5. Global ~/.config/mcbridge/config.yaml
// 6. Built-in defaults
func Load(explicitPath string) (*Config, error) {
	cfg := Default()

	// Load global config first (lowest precedence)
	globalPath := globalConfigPath()
	if globalPath != "" {
		if err := loadFromFile(globalPath, cfg); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	// Apply environment variables (higher precedence than global config)
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	// Load repo-local config files
	repoPaths, err := findRepoConfigs()
	if err != nil {
		return nil, err
	}
	for _, repoPath := range repoPaths {
		if err := loadFromFile(repoPath, cfg); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	if explicitPath != "" {
		if err := loadFromFile(ExpandPath(explicitPath, ""), cfg); err != nil {
			return nil, fmt.Errorf("load config %s: %w", explicitPath, err)
		}
	}

	return cfg, nil
}

// RepoConfigDir returns the path to .mcbridge directory if found, empty string otherwise
func RepoConfigDir() string {
	paths, _ := findRepoConfigs()
	if len(paths) == 0 {
		return ""
	}
	return filepath.Dir(paths[len(paths)-1])
}

// findRepoConfigs searches upward from cwd for .mcbridge/config.yaml files.
// Returned paths are ordered from furthest ancestor to closest (highest precedence last).
func findRepoConfigs() ([]string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	dir := cwd
	var paths []string
	for {
		configPath := filepath.Join(dir, repoConfigDir, configFile)
		if _, err := os.Stat(configPath); err == nil {
			paths = append(paths, configPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	for i, j := 0, len(paths)-1; i < j; i, j = i+1, j-1 {
		paths[i], paths[j] = paths[j], paths[i]
	}

	return paths, nil
}

// globalConfigPath returns the path to global config
func globalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "mcbridge", configFile)
}

// loadFromFile loads config from a YAML file, merging into existing cfg.
// Relative directories are resolved against the directory that holds the
// .mcbridge folder, or the config file's own directory otherwise.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fileCfg fileConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	configDir := filepath.Dir(path)
	baseDir := configDir
	if filepath.Base(configDir) == repoConfigDir {
		baseDir = filepath.Dir(configDir)
	}

	if fileCfg.DataDir != "" {
		cfg.DataDir = ExpandPath(fileCfg.DataDir, baseDir)
	}
	if fileCfg.SkillsDir != "" {
		cfg.SkillsDir = ExpandPath(fileCfg.SkillsDir, baseDir)
	}
	workflowsDir := fileCfg.WorkflowsDir
	if workflowsDir == "" {
		workflowsDir = fileCfg.AntfarmDir
	}
	if workflowsDir != "" {
		cfg.WorkflowsDir = ExpandPath(workflowsDir, baseDir)
	}
	if fileCfg.RepoDir != "" {
		cfg.RepoDir = ExpandPath(fileCfg.RepoDir, baseDir)
	}
	if fileCfg.OpenClawBin != "" {
		cfg.OpenClawBin = fileCfg.OpenClawBin
	}
	if fileCfg.LogUnit != "" {
		cfg.LogUnit = fileCfg.LogUnit
	}
	if fileCfg.JournalLines > 0 {
		cfg.JournalLines = fileCfg.JournalLines
	}
	if fileCfg.LogLines > 0 {
		cfg.LogLines = fileCfg.LogLines
	}
	if err := setDuration(&cfg.QueryTimeout, fileCfg.QueryTimeout, "query_timeout"); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := setDuration(&cfg.LogTimeout, fileCfg.LogTimeout, "log_timeout"); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := setDuration(&cfg.Interval, fileCfg.Interval, "interval"); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if fileCfg.HostPattern != "" {
		cfg.HostPattern = fileCfg.HostPattern
	}
	if fileCfg.Publish != nil {
		cfg.Publish = *fileCfg.Publish
	}
	if fileCfg.Remote != "" {
		cfg.Remote = fileCfg.Remote
	}
	if fileCfg.Branch != "" {
		cfg.Branch = fileCfg.Branch
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}

	return nil
}

// setDuration parses raw into dst when raw is non-empty
func setDuration(dst *time.Duration, raw, key string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d <= 0 {
		return fmt.Errorf("invalid %s %q: must be positive", key, raw)
	}
	*dst = d
	return nil
}

// applyEnv applies environment variables to config
func applyEnv(cfg *Config) error {
	if v := os.Getenv("MCBRIDGE_DATA_DIR"); v != "" {
		cfg.DataDir = ExpandPath(v, "")
	}
	if v := os.Getenv("MCBRIDGE_SKILLS_DIR"); v != "" {
		cfg.SkillsDir = ExpandPath(v, "")
	}
	if v := os.Getenv("MCBRIDGE_WORKFLOWS_DIR"); v != "" {
		cfg.WorkflowsDir = ExpandPath(v, "")
	}
	if v := os.Getenv("MCBRIDGE_REPO_DIR"); v != "" {
		cfg.RepoDir = ExpandPath(v, "")
	}
	if v := os.Getenv("MCBRIDGE_OPENCLAW_BIN"); v != "" {
		cfg.OpenClawBin = v
	}
	if v := os.Getenv("MCBRIDGE_LOG_UNIT"); v != "" {
		cfg.LogUnit = v
	}
	if v := os.Getenv("MCBRIDGE_LOG_LINES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid MCBRIDGE_LOG_LINES %q", v)
		}
		cfg.LogLines = n
	}
	if err := setDuration(&cfg.QueryTimeout, os.Getenv("MCBRIDGE_QUERY_TIMEOUT"), "MCBRIDGE_QUERY_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&cfg.LogTimeout, os.Getenv("MCBRIDGE_LOG_TIMEOUT"), "MCBRIDGE_LOG_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Interval, os.Getenv("MCBRIDGE_INTERVAL"), "MCBRIDGE_INTERVAL"); err != nil {
		return err
	}
	if v := os.Getenv("MCBRIDGE_HOST_PATTERN"); v != "" {
		cfg.HostPattern = v
	}
	if v := os.Getenv("MCBRIDGE_PUBLISH"); v != "" {
		cfg.Publish = v == "true" || v == "1" || v == "yes"
	}
	if v := os.Getenv("MCBRIDGE_REMOTE"); v != "" {
		cfg.Remote = v
	}
	if v := os.Getenv("MCBRIDGE_BRANCH"); v != "" {
		cfg.Branch = v
	}
	if v := os.Getenv("MCBRIDGE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

// PublishDir returns the git working tree to publish: RepoDir when set,
// otherwise the parent of DataDir.
func (c *Config) PublishDir() string {
	if c.RepoDir != "" {
		return c.RepoDir
	}
	return filepath.Dir(c.DataDir)
}

// YAML renders the effective configuration.
func (c *Config) YAML() ([]byte, error) {
	out := struct {
		DataDir      string `yaml:"data_dir"`
		SkillsDir    string `yaml:"skills_dir"`
		WorkflowsDir string `yaml:"workflows_dir"`
		RepoDir      string `yaml:"repo_dir"`
		OpenClawBin  string `yaml:"openclaw_bin"`
		LogUnit      string `yaml:"log_unit"`
		JournalLines int    `yaml:"journal_lines"`
		LogLines     int    `yaml:"log_lines"`
		QueryTimeout string `yaml:"query_timeout"`
		LogTimeout   string `yaml:"log_timeout"`
		HostPattern  string `yaml:"host_pattern,omitempty"`
		Publish      bool   `yaml:"publish"`
		Remote       string `yaml:"remote"`
		Branch       string `yaml:"branch"`
		Interval     string `yaml:"interval"`
		LogLevel     string `yaml:"log_level"`
	}{
		DataDir:      c.DataDir,
		SkillsDir:    c.SkillsDir,
		WorkflowsDir: c.WorkflowsDir,
		RepoDir:      c.PublishDir(),
		OpenClawBin:  c.OpenClawBin,
		LogUnit:      c.LogUnit,
		JournalLines: c.JournalLines,
		LogLines:     c.LogLines,
		QueryTimeout: c.QueryTimeout.String(),
		LogTimeout:   c.LogTimeout.String(),
		HostPattern:  c.HostPattern,
		Publish:      c.Publish,
		Remote:       c.Remote,
		Branch:       c.Branch,
		Interval:     c.Interval.String(),
		LogLevel:     c.LogLevel,
	}
	return yaml.Marshal(out)
}

// ExpandPath expands ~ and makes path absolute relative to base
func ExpandPath(path, base string) string {
	if path == "" {
		return ""
	}

	// Expand ~
	if path[0] == '~' {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[1:])
	}

	// Make absolute if relative
	if !filepath.IsAbs(path) && base != "" {
		path = filepath.Join(base, path)
	}

	return path
}
