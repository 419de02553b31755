package settings

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/vmx/internal/settings/store"
)

// testCaps is a deterministic capability provider for registry tests.
type testCaps struct {
	configHome string
	interprets []string // keys InterpretSetting was called with
	mu         sync.Mutex
}

func (c *testCaps) DefaultDriver() string { return "qemu" }

func (c *testCaps) IsBackendSupported(name string) bool {
	return name == "qemu" || name == "lxd"
}

func (c *testCaps) DefaultPrivilegedMounts() string { return "false" }

func (c *testCaps) DefaultHotkey() string { return "Ctrl+Alt+U" }

func (c *testCaps) ExtraSettingsDefaults() map[string]string {
	return map[string]string{"local.test-extra": "extra-default"}
}

func (c *testCaps) InterpretSetting(key, value string) string {
	c.mu.Lock()
	c.interprets = append(c.interprets, key)
	c.mu.Unlock()
	return strings.ToUpper(value)
}

func (c *testCaps) DaemonConfigHome() string { return c.configHome }

// fakeStore records the order of calls so tests can assert pipeline
// ordering (sync before status).
type fakeStore struct {
	values   map[string]string
	status   store.Status
	fileName string
	calls    []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}, fileName: "/fake/settings.conf"}
}

func (s *fakeStore) Value(key, fallback string) string {
	s.calls = append(s.calls, "value")
	if v, ok := s.values[key]; ok {
		return v
	}
	return fallback
}

func (s *fakeStore) SetValue(key, value string) {
	s.calls = append(s.calls, "set")
	s.values[key] = value
}

func (s *fakeStore) Sync() { s.calls = append(s.calls, "sync") }

func (s *fakeStore) Status() store.Status {
	s.calls = append(s.calls, "status")
	return s.status
}

func (s *fakeStore) FileName() string { return s.fileName }

type fakeFactory struct {
	store *fakeStore
	opens int
}

func (f *fakeFactory) Open(path string) store.Store {
	f.opens++
	return f.store
}

// fakeProbe returns a fixed error from OpenRead.
type fakeProbe struct {
	err   error
	calls int
}

func (p *fakeProbe) OpenRead(path string) error {
	p.calls++
	return p.err
}

// newTestRegistry builds a registry whose two scope files live in a
// temp dir, backed by the real INI store unless opts override it.
func newTestRegistry(t *testing.T, opts ...Option) (*Registry, *testCaps) {
	t.Helper()

	dir := t.TempDir()
	caps := &testCaps{configHome: filepath.Join(dir, "daemon")}
	resolver := NewPathResolverForFiles(
		filepath.Join(dir, "daemon", "vmxd.conf"),
		filepath.Join(dir, "client", "vmx.conf"),
	)

	reg, err := New(caps, append([]Option{WithResolver(resolver)}, opts...)...)
	require.NoError(t, err)
	return reg, caps
}

func TestKeys(t *testing.T) {
	reg, _ := newTestRegistry(t)

	keys := reg.Keys()
	for _, want := range []string{PetenvKey, DriverKey, AutostartKey, HotkeyKey,
		BridgedInterfaceKey, MountsKey, "local.test-extra"} {
		assert.Contains(t, keys, want)
	}
	assert.IsIncreasing(t, keys)
}

func TestGetReturnsDefaultsWithNoBackingFile(t *testing.T) {
	reg, _ := newTestRegistry(t)

	for _, key := range reg.Keys() {
		want, err := reg.Default(key)
		require.NoError(t, err)

		got, err := reg.Get(key)
		require.NoError(t, err, "Get(%s)", key)
		assert.Equal(t, want, got, "Get(%s)", key)
	}
}

func TestSetThenGetReturnsNormalizedValue(t *testing.T) {
	reg, _ := newTestRegistry(t)

	require.NoError(t, reg.Set(MountsKey, "YES"))

	got, err := reg.Get(MountsKey)
	require.NoError(t, err)
	assert.Equal(t, "true", got)
}

func TestBoolAliases(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"on", "true"}, {"yes", "true"}, {"1", "true"}, {"ON", "true"}, {"Yes", "true"},
		{"off", "false"}, {"no", "false"}, {"0", "false"}, {"OFF", "false"},
		{"true", "true"}, {"FALSE", "false"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			reg, _ := newTestRegistry(t)
			require.NoError(t, reg.Set(AutostartKey, tt.in))

			got, err := reg.Get(AutostartKey)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetRejectsNonBoolFlag(t *testing.T) {
	reg, _ := newTestRegistry(t)

	err := reg.Set(MountsKey, "nope")
	var invalid *InvalidSettingError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, MountsKey, invalid.Key)
	assert.Contains(t, invalid.Reason, "true")
}

func TestUnknownKeyNoIO(t *testing.T) {
	factory := &fakeFactory{store: newFakeStore()}
	probe := &fakeProbe{}
	reg, _ := newTestRegistry(t, WithFactory(factory), WithProbe(probe))

	_, err := reg.Get("local.unheard-of")
	var unrecognized *UnrecognizedSettingError
	require.ErrorAs(t, err, &unrecognized)
	assert.Equal(t, "local.unheard-of", unrecognized.Key)

	err = reg.Set("client.unheard-of", "v")
	require.ErrorAs(t, err, &unrecognized)

	assert.Zero(t, factory.opens, "no store may be opened for unknown keys")
	assert.Zero(t, probe.calls, "no probe may run for unknown keys")
}

func TestSetInvalidDriverLeavesFileUntouched(t *testing.T) {
	reg, _ := newTestRegistry(t)

	err := reg.Set(DriverKey, "bogus-driver")
	var invalid *InvalidSettingError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "bogus-driver", invalid.Value)

	_, statErr := os.Stat(reg.DaemonSettingsFilePath())
	assert.True(t, os.IsNotExist(statErr), "no file may be written on rejection")
}

func TestSetPetenv(t *testing.T) {
	reg, _ := newTestRegistry(t)

	assert.NoError(t, reg.Set(PetenvKey, ""))
	assert.NoError(t, reg.Set(PetenvKey, "valid-host"))

	err := reg.Set(PetenvKey, "not a valid host!")
	var invalid *InvalidSettingError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "Invalid hostname", invalid.Reason)
}

func TestHostnameRules(t *testing.T) {
	reg, _ := newTestRegistry(t)

	for _, ok := range []string{"a", "host1", "pet-name", "A-1"} {
		assert.NoError(t, reg.Set(PetenvKey, ok), "hostname %q", ok)
	}
	for _, bad := range []string{"1host", "-host", "host-", "ho st", "host_"} {
		var invalid *InvalidSettingError
		assert.ErrorAs(t, reg.Set(PetenvKey, bad), &invalid, "hostname %q", bad)
	}
}

func TestPlatformInterpretedKeys(t *testing.T) {
	reg, caps := newTestRegistry(t)

	require.NoError(t, reg.Set(HotkeyKey, "ctrl+alt+h"))

	got, err := reg.Get(HotkeyKey)
	require.NoError(t, err)
	assert.Equal(t, "CTRL+ALT+H", got, "platform rewrite is what persists")
	assert.Contains(t, caps.interprets, HotkeyKey)

	require.NoError(t, reg.Set("local.test-extra", "abc"))
	got, err = reg.Get("local.test-extra")
	require.NoError(t, err)
	assert.Equal(t, "ABC", got)
}

func TestGetFormatError(t *testing.T) {
	st := newFakeStore()
	st.status = store.StatusFormatError
	reg, _ := newTestRegistry(t, WithFactory(&fakeFactory{store: st}), WithProbe(&fakeProbe{}))

	_, err := reg.Get(DriverKey)
	var perr *PersistentSettingsError
	require.ErrorAs(t, err, &perr)
	assert.True(t, perr.IsFormatError())
	assert.Equal(t, "read", perr.Operation)
	assert.Contains(t, err.Error(), "format")
}

func TestSetFormatError(t *testing.T) {
	st := newFakeStore()
	st.status = store.StatusFormatError
	reg, _ := newTestRegistry(t, WithFactory(&fakeFactory{store: st}), WithProbe(&fakeProbe{}))

	err := reg.Set(DriverKey, "qemu")
	var perr *PersistentSettingsError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, err.Error(), "write")
	assert.Contains(t, err.Error(), "format")
}

func TestAccessErrorFromStatus(t *testing.T) {
	st := newFakeStore()
	st.status = store.StatusAccessError
	reg, _ := newTestRegistry(t, WithFactory(&fakeFactory{store: st}), WithProbe(&fakeProbe{}))

	_, err := reg.Get(DriverKey)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access")
}

func TestProbeFailureTrumpsOkStatus(t *testing.T) {
	st := newFakeStore() // status ok
	probe := &fakeProbe{err: fmt.Errorf("open: %w", fs.ErrPermission)}
	reg, _ := newTestRegistry(t, WithFactory(&fakeFactory{store: st}), WithProbe(probe))

	_, err := reg.Get(DriverKey)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access")

	err = reg.Set(DriverKey, "qemu")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access")
}

func TestProbeMissingFileIsNotAnError(t *testing.T) {
	st := newFakeStore()
	probe := &fakeProbe{err: fmt.Errorf("open: %w", fs.ErrNotExist)}
	reg, _ := newTestRegistry(t, WithFactory(&fakeFactory{store: st}), WithProbe(probe))

	_, err := reg.Get(DriverKey)
	assert.NoError(t, err, "a missing file just means no settings saved yet")
}

func TestSetSyncsBeforeStatusCheck(t *testing.T) {
	st := newFakeStore()
	reg, _ := newTestRegistry(t, WithFactory(&fakeFactory{store: st}), WithProbe(&fakeProbe{}))

	require.NoError(t, reg.Set(DriverKey, "qemu"))

	syncIdx, statusIdx := -1, -1
	for i, call := range st.calls {
		switch call {
		case "sync":
			if syncIdx < 0 {
				syncIdx = i
			}
		case "status":
			if statusIdx < 0 {
				statusIdx = i
			}
		}
	}
	require.GreaterOrEqual(t, syncIdx, 0, "Sync must be invoked")
	require.GreaterOrEqual(t, statusIdx, 0, "Status must be consulted")
	assert.Less(t, syncIdx, statusIdx, "flush must happen before the status check")
}

func TestConcurrentSets(t *testing.T) {
	reg, _ := newTestRegistry(t)

	const workers = 16
	attempts := make([]string, workers)
	for i := range attempts {
		attempts[i] = fmt.Sprintf("pet-%d", i)
	}

	var wg sync.WaitGroup
	for _, val := range attempts {
		wg.Add(1)
		go func(v string) {
			defer wg.Done()
			assert.NoError(t, reg.Set(PetenvKey, v))
		}(val)
	}
	wg.Wait()

	got, err := reg.Get(PetenvKey)
	require.NoError(t, err)
	assert.Contains(t, attempts, got, "final value must be exactly one of the attempts")
}

type staticHandler struct{ keys []string }

func (h staticHandler) Keys() []string { return h.keys }

func TestRegisterHandler(t *testing.T) {
	reg, _ := newTestRegistry(t)

	first := staticHandler{keys: []string{"local.foo"}}
	second := staticHandler{keys: []string{"client.bar"}}
	reg.RegisterHandler(first)
	reg.RegisterHandler(second)

	handlers := reg.Handlers()
	require.Len(t, handlers, 2)
	assert.Equal(t, []string{"local.foo"}, handlers[0].Keys())
	assert.Equal(t, []string{"client.bar"}, handlers[1].Keys())
}

func TestSettingsFilePaths(t *testing.T) {
	reg, _ := newTestRegistry(t)

	assert.True(t, strings.HasSuffix(reg.DaemonSettingsFilePath(), "vmxd.conf"))
	assert.True(t, strings.HasSuffix(reg.ClientSettingsFilePath(), "vmx.conf"))
	assert.NotEqual(t, reg.DaemonSettingsFilePath(), reg.ClientSettingsFilePath())
}

func TestScopeRouting(t *testing.T) {
	reg, _ := newTestRegistry(t)

	require.NoError(t, reg.Set(DriverKey, "lxd"))
	require.NoError(t, reg.Set(PetenvKey, "pet"))

	daemon, err := os.ReadFile(reg.DaemonSettingsFilePath())
	require.NoError(t, err)
	client, err := os.ReadFile(reg.ClientSettingsFilePath())
	require.NoError(t, err)

	assert.Contains(t, string(daemon), DriverKey)
	assert.NotContains(t, string(daemon), PetenvKey)
	assert.Contains(t, string(client), PetenvKey)
	assert.NotContains(t, string(client), DriverKey)
}
