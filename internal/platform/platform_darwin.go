//go:build darwin

package platform

import (
	"os"
	"path/filepath"
)

// Virtualization backends that can run on a macOS host.
var darwinBackends = map[string]struct{}{
	"qemu":       {},
	"virtualbox": {},
}

type darwinCapabilities struct{}

func hostCapabilities() Capabilities {
	return darwinCapabilities{}
}

func (darwinCapabilities) DefaultDriver() string {
	return "qemu"
}

func (darwinCapabilities) IsBackendSupported(name string) bool {
	_, ok := darwinBackends[name]
	return ok
}

func (darwinCapabilities) DefaultPrivilegedMounts() string {
	return "true"
}

func (darwinCapabilities) DefaultHotkey() string {
	return "Cmd+Alt+U"
}

func (darwinCapabilities) ExtraSettingsDefaults() map[string]string {
	return nil
}

func (darwinCapabilities) InterpretSetting(key, value string) string {
	if key == "client.gui.hotkey" {
		return normalizeHotkey(value)
	}
	return value
}

// DaemonConfigHome returns the central daemon config directory. The
// daemon runs as root; VMXD_CONFIG_HOME overrides the default.
func (darwinCapabilities) DaemonConfigHome() string {
	if dir := os.Getenv("VMXD_CONFIG_HOME"); dir != "" {
		return dir
	}
	return filepath.Join("/var/root", "Library", "Preferences", DaemonName)
}
