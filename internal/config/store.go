package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const DefaultLabel = "Default"

var ErrNoConfig = errors.New("no config selected")

// Store manages labelled config profiles below one root directory:
// <root>/configs/<label>.yaml plus <root>/current_config naming the active one.
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

// DefaultStore uses the per-user config directory.
func DefaultStore() *Store {
	return NewStore(DefaultRoot())
}

func DefaultRoot() string {
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return filepath.Join(appdata, "nelodl")
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "nelodl")
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "nelodl")
}

type ConfigInfo struct {
	Label  string
	Path   string
	Active bool
}

func (s *Store) Root() string       { return s.root }
func (s *Store) ConfigsDir() string { return filepath.Join(s.root, "configs") }

func (s *Store) currentFile() string { return filepath.Join(s.root, "current_config") }

func (s *Store) PathFor(label string) string {
	return filepath.Join(s.ConfigsDir(), label+".yaml")
}

func (s *Store) ensureDirs() error {
	return os.MkdirAll(s.ConfigsDir(), 0o755)
}

func validLabel(label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return errors.New("label cannot be empty")
	}
	if strings.ContainsAny(label, `/\`) || label == "." || label == ".." {
		return fmt.Errorf("invalid label %q", label)
	}

	return nil
}

func (s *Store) CurrentLabel() (string, error) {
	b, err := os.ReadFile(s.currentFile())
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoConfig
	}
	if err != nil {
		return "", err
	}

	label := strings.TrimSpace(string(b))
	if label == "" {
		return "", ErrNoConfig
	}

	return label, nil
}

func (s *Store) ActivePath() (string, error) {
	label, err := s.CurrentLabel()
	if err != nil {
		return "", err
	}

	return s.PathFor(label), nil
}

func (s *Store) List() ([]ConfigInfo, error) {
	entries, err := os.ReadDir(s.ConfigsDir())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	active, _ := s.CurrentLabel()

	var out []ConfigInfo
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}

		label := strings.TrimSuffix(name, ".yaml")
		out = append(out, ConfigInfo{
			Label:  label,
			Path:   filepath.Join(s.ConfigsDir(), name),
			Active: label == active,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })

	return out, nil
}

// Create writes a new profile with default values. It fails if label exists.
func (s *Store) Create(label string) (string, error) {
	if err := validLabel(label); err != nil {
		return "", err
	}
	if err := s.ensureDirs(); err != nil {
		return "", err
	}

	path := s.PathFor(label)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config %q already exists", label)
	}

	if err := SaveYAML(DefaultConfig(), path); err != nil {
		return "", err
	}

	return path, nil
}

func (s *Store) Switch(label string) error {
	if err := validLabel(label); err != nil {
		return err
	}

	if _, err := os.Stat(s.PathFor(label)); err != nil {
		return fmt.Errorf("config %q does not exist", label)
	}

	return os.WriteFile(s.currentFile(), []byte(label), 0o644)
}

// Reset overwrites the active profile with default values.
func (s *Store) Reset() (string, error) {
	path, err := s.ActivePath()
	if err != nil {
		return "", err
	}

	return path, SaveYAML(DefaultConfig(), path)
}

// Remove deletes a profile. Removing the active one falls back to Default.
func (s *Store) Remove(label string) error {
	if err := validLabel(label); err != nil {
		return err
	}
	if label == DefaultLabel {
		return errors.New("cannot remove the Default config")
	}

	path := s.PathFor(label)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config %q does not exist", label)
	}

	if active, _ := s.CurrentLabel(); active == label {
		if err := s.Switch(DefaultLabel); err != nil {
			if err := os.Remove(s.currentFile()); err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
		}
	}

	return os.Remove(path)
}
