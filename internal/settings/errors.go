package settings

import "fmt"

// Causes reported by PersistentSettingsError.
const (
	causeFormat = "format error"
	causeAccess = "access error (consider running with an administrative role)"
)

// Operations reported by PersistentSettingsError.
const (
	opRead      = "read"
	opReadWrite = "read/write"
)

// UnrecognizedSettingError is returned when a key is not in the
// defaults table. It is raised before any I/O, on both Get and Set.
type UnrecognizedSettingError struct {
	Key string
}

func (e *UnrecognizedSettingError) Error() string {
	return fmt.Sprintf("unrecognized setting: %s", e.Key)
}

// InvalidSettingError is returned when a value fails validation.
// It is raised before any I/O, on Set only.
type InvalidSettingError struct {
	Key    string
	Value  string
	Reason string
}

func (e *InvalidSettingError) Error() string {
	return fmt.Sprintf("invalid setting %q=%q: %s", e.Key, e.Value, e.Reason)
}

// PersistentSettingsError is returned when the backing store fails.
// Cause distinguishes corrupt file content ("format error") from
// permission problems ("access error ...").
type PersistentSettingsError struct {
	Operation string
	Cause     string
}

func (e *PersistentSettingsError) Error() string {
	return fmt.Sprintf("unable to %s settings: %s", e.Operation, e.Cause)
}

// IsFormatError reports whether the failure was caused by corrupt file
// content rather than access problems.
func (e *PersistentSettingsError) IsFormatError() bool {
	return e.Cause == causeFormat
}
