package domain

import (
	"os"
	"path/filepath"
	"strings"
)

// PlistExt is the file extension of agent definitions.
const PlistExt = ".plist"

// Label returns the agent label for a task.
// Format: <domain>.<task>
func Label(domain, task string) string {
	return domain + "." + task
}

// PlistFilename returns the on-disk name of a task's agent definition.
// Format: <domain>.<task>.plist
func PlistFilename(domain, task string) string {
	return Label(domain, task) + PlistExt
}

// PlistPath returns the agent definition path of a task under dir.
func PlistPath(dir, domain, task string) string {
	return filepath.Join(dir, PlistFilename(domain, task))
}

// DomainPrefix returns the filename prefix owned by domain.
func DomainPrefix(domain string) string {
	return domain + "."
}

// MatchesDomain reports whether filename is an agent definition owned by domain.
// The match is anchored at "<domain>." so that "com.foo" never claims
// "com.foobar.task.plist", and the task segment must be non-empty.
func MatchesDomain(filename, domain string) bool {
	prefix := DomainPrefix(domain)
	if !strings.HasPrefix(filename, prefix) || !strings.HasSuffix(filename, PlistExt) {
		return false
	}
	return len(filename) > len(prefix)+len(PlistExt)
}

// ExtractTaskName returns the task segment of an agent definition path.
// Only the fixed "<domain>." prefix and ".plist" suffix are stripped.
func ExtractTaskName(path, domain string) string {
	name := filepath.Base(path)
	name = strings.TrimPrefix(name, DomainPrefix(domain))
	return strings.TrimSuffix(name, PlistExt)
}

// DefaultAgentsDir returns the per-user LaunchAgents directory.
func DefaultAgentsDir(home string) string {
	return filepath.Join(home, "Library", "LaunchAgents")
}

// GlobalConfigDir returns the den config directory under configHome.
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, "den")
}

// DefaultConfigDir returns the den config directory, honouring XDG_CONFIG_HOME.
// Returns an empty string if the home directory cannot be determined.
func DefaultConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return GlobalConfigDir(configHome)
}

// LogPath returns the default log file path.
func LogPath(configDir string) string {
	return filepath.Join(configDir, "logs", "den.log")
}

// CredentialsPath returns the path of the file credential store.
func CredentialsPath(configDir string) string {
	return filepath.Join(configDir, "auth.json")
}
