package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/gpp/internal/output"
)

// Config holds user-tunable defaults. Every field has a working default so a
// missing config file is never an error.
type Config struct {
	BaseBranch  string `yaml:"base_branch" json:"base_branch"`
	Remote      string `yaml:"remote" json:"remote"`
	MergeLabel  string `yaml:"merge_label" json:"merge_label"`
	EnvFile     string `yaml:"env_file" json:"env_file"`
	PostCreate  string `yaml:"post_create" json:"post_create"`
	BranchCount int    `yaml:"branch_count" json:"branch_count"`
	PRAuthor    string `yaml:"pr_author" json:"pr_author"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseBranch:  "master",
		Remote:      "origin",
		MergeLabel:  "merge",
		EnvFile:     ".envrc",
		PostCreate:  "uv sync",
		BranchCount: 10,
		PRAuthor:    "@me",
	}
}

// Load reads path over the defaults. A missing file yields the defaults;
// a malformed one is a user error naming the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, output.NewSystemErrorWithCause(fmt.Sprintf("reading config %s: %v", path, err), err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), output.NewUserErrorf("invalid config %s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), output.NewUserErrorf("invalid config %s: %v", path, err)
	}
	return cfg, nil
}

// LoadDefault loads config.yaml from Dir and applies environment overrides.
func LoadDefault() (Config, error) {
	cfg, err := Load(Path())
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// envOverrides maps environment variables to the field they replace.
var envOverrides = []struct {
	key   string
	field func(*Config) *string
}{
	{"GPP_BASE_BRANCH", func(c *Config) *string { return &c.BaseBranch }},
	{"GPP_REMOTE", func(c *Config) *string { return &c.Remote }},
	{"GPP_MERGE_LABEL", func(c *Config) *string { return &c.MergeLabel }},
	{"GPP_ENV_FILE", func(c *Config) *string { return &c.EnvFile }},
	{"GPP_POST_CREATE", func(c *Config) *string { return &c.PostCreate }},
}

// ApplyEnv overrides fields from GPP_* variables. GPP_POST_CREATE may be set
// to the empty string to disable the post-create command; the other
// variables are ignored when empty.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	for _, o := range envOverrides {
		val, ok := lookup(o.key)
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		if val == "" && o.key != "GPP_POST_CREATE" {
			continue
		}
		*o.field(c) = val
	}
}

// Validate rejects values that would produce broken git invocations.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.BaseBranch) == "":
		return errors.New("base_branch must not be empty")
	case strings.TrimSpace(c.Remote) == "":
		return errors.New("remote must not be empty")
	case strings.TrimSpace(c.EnvFile) == "":
		return errors.New("env_file must not be empty")
	case c.BranchCount < 1:
		return fmt.Errorf("branch_count must be at least 1, got %d", c.BranchCount)
	}
	return nil
}
