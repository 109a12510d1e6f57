package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths locates every file libaas reads or writes.
type Paths struct {
	Home       string
	RuntimeDir string
}

// ResolvePaths picks the home directory (LIBAAS_HOME or ~/.libaas) and the
// per-login runtime directory ($XDG_RUNTIME_DIR/libaas, falling back to a
// per-user directory under the system temp dir).
func ResolvePaths(getenv func(string) string) (Paths, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	home := getenv("LIBAAS_HOME")
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, err
		}
		home = filepath.Join(userHome, ".libaas")
	}

	runtime := getenv("XDG_RUNTIME_DIR")
	if runtime != "" {
		runtime = filepath.Join(runtime, "libaas")
	} else {
		runtime = filepath.Join(os.TempDir(), fmt.Sprintf("libaas-%d", os.Getuid()))
	}

	return Paths{Home: home, RuntimeDir: runtime}, nil
}

// ConfigFile is the YAML configuration file.
func (p Paths) ConfigFile() string {
	return filepath.Join(p.Home, "config.yaml")
}

// EnvFile is the optional dotenv file next to the configuration.
func (p Paths) EnvFile() string {
	return filepath.Join(p.Home, ".env")
}

// RememberStore holds the sign-in state of users who chose to be remembered.
func (p Paths) RememberStore() string {
	return filepath.Join(p.Home, "session.json")
}

// SessionStore holds sign-in state that should not survive a reboot.
func (p Paths) SessionStore() string {
	return filepath.Join(p.RuntimeDir, "session.json")
}

// PreferencesStore holds UI preferences such as the theme.
func (p Paths) PreferencesStore() string {
	return filepath.Join(p.Home, "preferences.json")
}

// LogFile is the default log destination for the interactive UI.
func (p Paths) LogFile() string {
	return filepath.Join(p.Home, "libaas.log")
}
