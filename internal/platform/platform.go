// Package platform supplies OS-specific defaults and capability checks
// for the vmx daemon and client.
//
// Capabilities is resolved once at startup via [Detect] and injected
// where needed; no other package branches on the operating system.
package platform

import (
	"strings"
)

// Process names. The daemon writes its settings to a central location
// named after the daemon process; the client writes per-user settings
// named after the client process.
const (
	DaemonName = "vmxd"
	ClientName = "vmx"
)

// Capabilities provides platform-dependent settings defaults and
// capability checks.
type Capabilities interface {
	// DefaultDriver returns the virtualization backend used when none
	// is configured.
	DefaultDriver() string

	// IsBackendSupported reports whether the named virtualization
	// backend can run on this host.
	IsBackendSupported(name string) bool

	// DefaultPrivilegedMounts returns the default for the
	// privileged-mounts flag ("true" or "false").
	DefaultPrivilegedMounts() string

	// DefaultHotkey returns the GUI hotkey default rendered in this
	// platform's native notation.
	DefaultHotkey() string

	// ExtraSettingsDefaults returns additional platform-specific
	// setting keys and their defaults.
	ExtraSettingsDefaults() map[string]string

	// InterpretSetting rewrites the value of a platform-specific key
	// (hotkey, terminal integration) into its canonical stored form.
	InterpretSetting(key, value string) string

	// DaemonConfigHome returns the central directory holding the
	// daemon's configuration file.
	DaemonConfigHome() string
}

// Detect returns the capability provider for the host OS.
func Detect() Capabilities {
	return hostCapabilities()
}

// normalizeHotkey canonicalizes a key-sequence string: trims spaces
// around each chord element and title-cases modifier names, so that
// "ctrl+alt+u" and "Ctrl + Alt + U" store identically.
func normalizeHotkey(value string) string {
	if value == "" {
		return ""
	}
	parts := strings.Split(value, "+")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
	}
	return strings.Join(parts, "+")
}
