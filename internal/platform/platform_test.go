package platform

import "testing"

func TestDetect(t *testing.T) {
	caps := Detect()
	if caps == nil {
		t.Fatal("Detect() returned nil")
	}

	if d := caps.DefaultDriver(); d == "" {
		t.Error("DefaultDriver() is empty")
	}
	if !caps.IsBackendSupported(caps.DefaultDriver()) {
		t.Errorf("default driver %q not reported as supported", caps.DefaultDriver())
	}
	if caps.IsBackendSupported("bogus-driver") {
		t.Error("bogus driver reported as supported")
	}

	switch caps.DefaultPrivilegedMounts() {
	case "true", "false":
	default:
		t.Errorf("DefaultPrivilegedMounts() = %q, want true or false", caps.DefaultPrivilegedMounts())
	}

	if caps.DefaultHotkey() == "" {
		t.Error("DefaultHotkey() is empty")
	}
}

func TestDaemonConfigHomeOverride(t *testing.T) {
	t.Setenv("VMXD_CONFIG_HOME", "/tmp/vmxd-test-home")

	if got := Detect().DaemonConfigHome(); got != "/tmp/vmxd-test-home" {
		t.Errorf("DaemonConfigHome() = %q, want override", got)
	}
}

func TestNormalizeHotkey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ctrl+alt+u", "Ctrl+Alt+U"},
		{"Ctrl + Alt + U", "Ctrl+Alt+U"},
		{"SHIFT+f1", "Shift+F1"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeHotkey(tt.in); got != tt.want {
			t.Errorf("normalizeHotkey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInterpretSetting_PassThrough(t *testing.T) {
	caps := Detect()
	// Non-platform keys come back verbatim.
	if got := caps.InterpretSetting("local.driver", "qemu"); got != "qemu" {
		t.Errorf("InterpretSetting() = %q, want %q", got, "qemu")
	}
}
