package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/addrbook/contacts/internal/contact"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvBook     = "CONTACTS_BOOK"
	EnvPageSize = "CONTACTS_PAGE_SIZE"
)

// ErrInvalidPageSize is returned when page_size is not a positive number.
var ErrInvalidPageSize = errors.New("page_size must be a positive integer")

// Config represents configuration stored in ~/.config/contacts/config.yml.
type Config struct {
	BookPath string `yaml:"book_path,omitempty"`
	PageSize int    `yaml:"page_size,omitempty"`
}

// LoadFile reads a config file. Returns an empty config (not an error) if the
// file doesn't exist.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Load builds the effective configuration: the config file, then a .env file
// in the working directory and the process environment, then defaults.
func Load() (*Config, error) {
	// .env is optional; existing environment variables win over it.
	_ = godotenv.Load()

	cfg, err := LoadFile(ConfigPath())
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(EnvBook); v != "" {
		c.BookPath = v
	}
	if v := getenv(EnvPageSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvPageSize, v, ErrInvalidPageSize)
		}
		c.PageSize = n
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.BookPath == "" {
		c.BookPath = DefaultBookPath()
	}
	c.BookPath = ExpandPath(c.BookPath)
	if c.PageSize == 0 {
		c.PageSize = contact.DefaultPageSize
	}
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if c.PageSize < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, c.PageSize)
	}
	return nil
}

// Save writes the config as YAML to path, creating its directory.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := EnsureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// HelpfulConfigMessage explains how to point the CLI at a book.
func HelpfulConfigMessage() string {
	configPath := ConfigPath()
	return fmt.Sprintf(`Contacts are read from %s by default.

Tip: Create %s to choose another book:
  echo 'book_path: ~/contacts.db' > %s

or set %s for a single run.`,
		DefaultBookPath(),
		configPath,
		configPath,
		EnvBook)
}
