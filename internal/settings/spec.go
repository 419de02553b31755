package settings

import (
	"regexp"
	"strings"

	"github.com/thoreinstein/vmx/internal/platform"
)

// SettingSpec couples a key with its default and its interpret
// function. Interpretation validates and normalizes in one step: the
// value it returns is what gets persisted.
type SettingSpec struct {
	Key       string
	Default   string
	Interpret func(value string) (string, error)
}

var hostnameRE = regexp.MustCompile(`^[A-Za-z]([A-Za-z0-9-]*[A-Za-z0-9])?$`)

// verbatim accepts any value unchanged.
func verbatim(value string) (string, error) {
	return value, nil
}

func interpretPetenv(value string) (string, error) {
	if value != "" && !hostnameRE.MatchString(value) {
		return "", &InvalidSettingError{Key: PetenvKey, Value: value, Reason: "Invalid hostname"}
	}
	return value, nil
}

func interpretDriver(caps platform.Capabilities) func(string) (string, error) {
	return func(value string) (string, error) {
		if !caps.IsBackendSupported(value) {
			return "", &InvalidSettingError{Key: DriverKey, Value: value, Reason: "Invalid driver"}
		}
		return value, nil
	}
}

// Accepted aliases when normalizing flag values. The set is closed on
// purpose: loose boolean conversion would read any non-empty string
// (such as "nope") as true.
var (
	convertToTrue  = map[string]struct{}{"on": {}, "yes": {}, "1": {}}
	convertToFalse = map[string]struct{}{"off": {}, "no": {}, "0": {}}
)

func interpretBool(value string) string {
	lowered := strings.ToLower(value)
	if _, ok := convertToTrue[lowered]; ok {
		return "true"
	}
	if _, ok := convertToFalse[lowered]; ok {
		return "false"
	}
	return lowered
}

func interpretFlag(key string) func(string) (string, error) {
	return func(value string) (string, error) {
		normalized := interpretBool(value)
		if normalized != "true" && normalized != "false" {
			return "", &InvalidSettingError{Key: key, Value: normalized,
				Reason: `Invalid flag, try "true" or "false"`}
		}
		return normalized, nil
	}
}

// interpretPlatform delegates to the capability provider's rewrite; no
// independent validity check happens here.
func interpretPlatform(caps platform.Capabilities, key string) func(string) (string, error) {
	return func(value string) (string, error) {
		return caps.InterpretSetting(key, value), nil
	}
}

// defaultSpecs builds the per-key rule table: the fixed entries first,
// then the platform's extras, which may override fixed defaults.
func defaultSpecs(caps platform.Capabilities) map[string]SettingSpec {
	specs := map[string]SettingSpec{}
	add := func(key, def string, interpret func(string) (string, error)) {
		specs[key] = SettingSpec{Key: key, Default: def, Interpret: interpret}
	}

	add(PetenvKey, petenvDefault, interpretPetenv)
	add(DriverKey, caps.DefaultDriver(), interpretDriver(caps))
	add(AutostartKey, autostartDefault, interpretFlag(AutostartKey))
	add(HotkeyKey, caps.InterpretSetting(HotkeyKey, caps.DefaultHotkey()), interpretPlatform(caps, HotkeyKey))
	add(BridgedInterfaceKey, "", verbatim)
	add(MountsKey, caps.DefaultPrivilegedMounts(), interpretFlag(MountsKey))

	for key, def := range caps.ExtraSettingsDefaults() {
		add(key, def, interpretPlatform(caps, key))
	}

	return specs
}
