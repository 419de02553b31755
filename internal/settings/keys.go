package settings

// Scope roots. A key's prefix decides which of the two backing files
// it lives in: daemon-scoped keys go to a central file owned by the
// daemon process, client-scoped keys to the invoking user's config dir.
const (
	DaemonRoot = "local"
	ClientRoot = "client"
)

// Recognized setting keys. Platform capability providers may contribute
// extra keys through ExtraSettingsDefaults.
const (
	// PetenvKey names the primary (pet) instance.
	PetenvKey = "client.primary-name"

	// DriverKey selects the virtualization backend.
	DriverKey = "local.driver"

	// AutostartKey controls whether the GUI starts on login.
	AutostartKey = "client.gui.autostart"

	// HotkeyKey holds the GUI hotkey in platform notation.
	HotkeyKey = "client.gui.hotkey"

	// BridgedInterfaceKey names the host interface used for bridging.
	BridgedInterfaceKey = "local.bridged-network"

	// MountsKey controls whether privileged mounts are allowed.
	MountsKey = "local.privileged-mounts"
)

const petenvDefault = "primary"
const autostartDefault = "true"
