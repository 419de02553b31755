//go:build linux

package platform

import (
	"os"
	"path/filepath"
)

// Virtualization backends that can run on a Linux host.
var linuxBackends = map[string]struct{}{
	"qemu":    {},
	"lxd":     {},
	"libvirt": {},
}

type linuxCapabilities struct{}

func hostCapabilities() Capabilities {
	return linuxCapabilities{}
}

func (linuxCapabilities) DefaultDriver() string {
	return "qemu"
}

func (linuxCapabilities) IsBackendSupported(name string) bool {
	_, ok := linuxBackends[name]
	return ok
}

func (linuxCapabilities) DefaultPrivilegedMounts() string {
	return "true"
}

func (linuxCapabilities) DefaultHotkey() string {
	return "Ctrl+Alt+U"
}

func (linuxCapabilities) ExtraSettingsDefaults() map[string]string {
	return nil
}

func (linuxCapabilities) InterpretSetting(key, value string) string {
	if key == "client.gui.hotkey" {
		return normalizeHotkey(value)
	}
	return value
}

// DaemonConfigHome returns the central daemon config directory. The
// daemon runs as root, so this is root's config dir rather than the
// invoking user's. VMXD_CONFIG_HOME overrides it (used by tests and
// confined packaging).
func (linuxCapabilities) DaemonConfigHome() string {
	if dir := os.Getenv("VMXD_CONFIG_HOME"); dir != "" {
		return dir
	}
	return filepath.Join("/root", ".config", DaemonName)
}
