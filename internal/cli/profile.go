package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	appName        = "fortressctl"
	profileRelPath = appName + "/config.yaml"
	defaultAPIURL  = "http://localhost:8080"
)

// Profile is the persisted CLI configuration.
type Profile struct {
	APIURL      string `yaml:"api_url"`
	AccessToken string `yaml:"access_token,omitempty"`
	ClientID    string `yaml:"client_id,omitempty"`
}

// DefaultProfilePath resolves the profile under $XDG_CONFIG_HOME, creating
// the parent directory when needed.
func DefaultProfilePath() (string, error) {
	path, err := xdg.ConfigFile(profileRelPath)
	if err != nil {
		return "", fmt.Errorf("xdg.ConfigFile: %w", err)
	}

	return path, nil
}

// LoadProfile reads the profile at path. A missing file yields the defaults.
func LoadProfile(path string) (Profile, error) {
	p := Profile{APIURL: defaultAPIURL}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}

	if err != nil {
		return Profile{}, fmt.Errorf("os.ReadFile: %w", err)
	}

	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("yaml.Unmarshal: %w", err)
	}

	if p.APIURL == "" {
		p.APIURL = defaultAPIURL
	}

	return p, nil
}

// SaveProfile writes p to path with owner-only permissions.
func SaveProfile(path string, p Profile) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("yaml.Marshal: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("os.MkdirAll: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("os.WriteFile: %w", err)
	}

	return nil
}
