// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves API credentials. A credential is looked up in the
// process environment first (optionally seeded from a .env file), then in a
// directory of plain-text files where the filename is the key name and the
// trimmed file contents are the value.
//
// Known credentials: TAVILY_API_KEY (tavily-api-key), HF_TOKEN (hf-token),
// ANTHROPIC_API_KEY (anthropic-api-key), GEMINI_API_KEY (gemini-api-key).
package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// ErrMissingCredential is the configuration failure raised when a required
// credential is absent at startup.
var ErrMissingCredential = errors.New("missing credential")

// Credential names one secret by its environment variable and file name.
type Credential struct {
	Env  string
	File string
}

var (
	Tavily      = Credential{Env: "TAVILY_API_KEY", File: "tavily-api-key"}
	HuggingFace = Credential{Env: "HF_TOKEN", File: "hf-token"}
	Anthropic   = Credential{Env: "ANTHROPIC_API_KEY", File: "anthropic-api-key"}
	Gemini      = Credential{Env: "GEMINI_API_KEY", File: "gemini-api-key"}
)

// MissingError names the credential that could not be resolved.
type MissingError struct {
	Credential Credential
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s not found: set it in the environment, a .env file, or .secrets/%s",
		e.Credential.Env, e.Credential.File)
}

// Is makes errors.Is(err, ErrMissingCredential) hold for every MissingError.
func (e *MissingError) Is(target error) bool {
	return target == ErrMissingCredential
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Store resolves credentials from the environment and a set of secret files.
type Store struct {
	files  map[string]string
	getenv func(string) string
}

// NewStore returns a Store over the given secret files (as returned by Load).
func NewStore(files map[string]string) *Store {
	if files == nil {
		files = map[string]string{}
	}
	return &Store{files: files, getenv: os.Getenv}
}

// Get returns the credential value, or "" when it is not set anywhere.
func (s *Store) Get(c Credential) string {
	if v := strings.TrimSpace(s.getenv(c.Env)); v != "" {
		return v
	}
	return s.files[c.File]
}

// Require returns the credential value or a *MissingError.
func (s *Store) Require(c Credential) (string, error) {
	v := s.Get(c)
	if v == "" {
		return "", &MissingError{Credential: c}
	}
	return v, nil
}

// FileKeys returns the sorted names of the loaded secret files.
func (s *Store) FileKeys() []string {
	keys := make([]string, 0, len(s.files))
	for k := range s.files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
