//go:build !linux && !darwin

package platform

import (
	"os"
	"path/filepath"
	"strings"
)

const wintermKey = "client.apps.windows-terminal.profiles"

type otherCapabilities struct{}

func hostCapabilities() Capabilities {
	return otherCapabilities{}
}

func (otherCapabilities) DefaultDriver() string {
	return "virtualbox"
}

func (otherCapabilities) IsBackendSupported(name string) bool {
	return name == "virtualbox"
}

func (otherCapabilities) DefaultPrivilegedMounts() string {
	return "false"
}

func (otherCapabilities) DefaultHotkey() string {
	return "Ctrl+Alt+U"
}

func (otherCapabilities) ExtraSettingsDefaults() map[string]string {
	return map[string]string{wintermKey: "primary"}
}

func (otherCapabilities) InterpretSetting(key, value string) string {
	switch key {
	case "client.gui.hotkey":
		return normalizeHotkey(value)
	case wintermKey:
		return strings.ToLower(strings.TrimSpace(value))
	}
	return value
}

func (otherCapabilities) DaemonConfigHome() string {
	if dir := os.Getenv("VMXD_CONFIG_HOME"); dir != "" {
		return dir
	}
	if programData := os.Getenv("ProgramData"); programData != "" {
		return filepath.Join(programData, DaemonName)
	}
	return filepath.Join(string(filepath.Separator), DaemonName)
}
