package settings

import (
	"path/filepath"
	"strings"

	"github.com/thoreinstein/vmx/internal/paths"
	"github.com/thoreinstein/vmx/internal/platform"
)

const fileExtension = "conf"

// PathResolver maps a key's scope prefix to one of two fixed backing
// files, computed once at construction.
//
// We make up our own file names to:
//   - avoid an unknown org/domain in the path;
//   - write daemon config to a central location rather than a
//     user-dependent one.
//
// Examples:
//   - ${HOME}/.config/vmx/vmx.conf
//   - /root/.config/vmxd/vmxd.conf
type PathResolver struct {
	daemonFile string
	clientFile string
}

// NewPathResolver computes the two scope files from the platform's
// daemon config home and the user's config dir.
func NewPathResolver(caps platform.Capabilities) *PathResolver {
	return &PathResolver{
		daemonFile: filepath.Join(caps.DaemonConfigHome(), platform.DaemonName+"."+fileExtension),
		clientFile: filepath.Join(paths.ClientConfigDir(platform.ClientName), platform.ClientName+"."+fileExtension),
	}
}

// NewPathResolverForFiles builds a resolver with explicit file
// locations. Tests and external tooling use it to redirect both scopes.
func NewPathResolverForFiles(daemonFile, clientFile string) *PathResolver {
	return &PathResolver{daemonFile: daemonFile, clientFile: clientFile}
}

// FileFor returns the backing file for the key's scope. Keys come from
// the defaults table, so an unprefixed key is a contract violation and
// surfaces as UnrecognizedSettingError.
func (r *PathResolver) FileFor(key string) (string, error) {
	switch {
	case strings.HasPrefix(key, DaemonRoot):
		return r.daemonFile, nil
	case strings.HasPrefix(key, ClientRoot):
		return r.clientFile, nil
	}
	return "", &UnrecognizedSettingError{Key: key}
}

// DaemonFile returns the daemon-scope settings file path.
func (r *PathResolver) DaemonFile() string { return r.daemonFile }

// ClientFile returns the client-scope settings file path.
func (r *PathResolver) ClientFile() string { return r.clientFile }
