// Package manifest reads simplestreams image catalogs into a list of
// selectable VM image records, filtered by host architecture.
//
// The record shape depends on the consuming backend: the container
// based driver ("lxd") needs only a combined-disk checksum, while the
// image-file drivers need a disk image location plus derived kernel and
// initrd sibling paths. Which shape applies is decided by the driver
// value the caller reads from the settings registry.
package manifest

import (
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
)

// Sentinel errors for manifest parsing.
var (
	// ErrInvalidManifest indicates the document is not a manifest object.
	ErrInvalidManifest = errors.New("invalid manifest object")

	// ErrNoProducts indicates the manifest carries no products at all.
	ErrNoProducts = errors.New("no products found")

	// ErrNoSupportedProducts indicates no product matched the host
	// architecture and driver requirements.
	ErrNoSupportedProducts = errors.New("no supported products found")

	// ErrUnsupportedArch indicates the host CPU architecture has no
	// manifest equivalent.
	ErrUnsupportedArch = errors.New("unsupported cloud image architecture")
)

// archToManifest maps GOARCH names to simplestreams architecture names.
var archToManifest = map[string]string{
	"amd64":   "amd64",
	"arm":     "armhf",
	"arm64":   "arm64",
	"386":     "i386",
	"ppc64le": "ppc64el",
	"s390x":   "s390x",
}

// ImageInfo is one selectable product/version record.
type ImageInfo struct {
	// Aliases are bound only to the product's most recent version.
	Aliases        []string
	OS             string
	Release        string
	ReleaseTitle   string
	Supported      bool
	ImageLocation  string
	KernelLocation string
	InitrdLocation string
	SHA256         string
	StreamLocation string
	Version        string
	Size           int64
}

// Manifest is a parsed image catalog with records addressable by
// product id or alias.
type Manifest struct {
	Updated  string
	Products []ImageInfo

	records map[string]int // id or alias -> index into Products
}

// ImageRecord looks a product up by id or alias.
func (m *Manifest) ImageRecord(query string) (*ImageInfo, bool) {
	idx, ok := m.records[query]
	if !ok {
		return nil, false
	}
	return &m.Products[idx], true
}

// FromJSON parses a manifest for the host CPU architecture. The driver
// value decides which image items qualify and what each record carries.
func FromJSON(data []byte, hostURL, driver string) (*Manifest, error) {
	arch, ok := archToManifest[runtime.GOARCH]
	if !ok {
		return nil, ErrUnsupportedArch
	}
	return fromJSONForArch(data, hostURL, driver, arch)
}

func fromJSONForArch(data []byte, hostURL, driver, arch string) (*Manifest, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.Wrap(ErrInvalidManifest, "malformed JSON")
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, ErrInvalidManifest
	}

	updated := root.Get("updated").String()
	manifestProducts := root.Get("products")
	if !manifestProducts.IsObject() || len(manifestProducts.Map()) == 0 {
		return nil, ErrNoProducts
	}

	m := &Manifest{Updated: updated, records: map[string]int{}}

	manifestProducts.ForEach(func(id, product gjson.Result) bool {
		if product.Get("arch").String() != arch {
			return true
		}

		versions := product.Get("versions").Map()
		if len(versions) == 0 {
			return true
		}
		latest := latestVersionIn(versions)

		productAliases := splitAliases(product.Get("aliases").String())
		release := product.Get("release").String()
		releaseTitle := product.Get("release_title").String()
		supported := product.Get("supported").Bool()

		bestIdx, bestVersion := -1, ""
		for versionString, version := range versions {
			items := version.Get("items")
			if !items.IsObject() || len(items.Map()) == 0 {
				continue
			}

			info := ImageInfo{
				OS:             "Ubuntu",
				Release:        release,
				ReleaseTitle:   releaseTitle,
				Supported:      supported,
				StreamLocation: hostURL,
				Version:        versionString,
				Size:           -1,
			}

			if driver == "lxd" {
				image := items.Get(`lxd\.tar\.xz`)
				info.SHA256 = image.Get("combined_disk-kvm-img_sha256").String()
				if info.SHA256 == "" {
					info.SHA256 = image.Get("combined_disk1-img_sha256").String()
				}
				if info.SHA256 == "" {
					continue
				}
			} else {
				image := items.Get(`disk1\.img`)
				info.ImageLocation = image.Get("path").String()
				info.SHA256 = image.Get("sha256").String()
				if size := image.Get("size"); size.Exists() {
					info.Size = size.Int()
				}

				// Not defined in the manifest itself, so not guaranteed
				// to exist on the server.
				prefix := unpackedFilePrefix(info.ImageLocation)
				info.KernelLocation = prefix + "-vmlinuz-generic"
				info.InitrdLocation = prefix + "-initrd-generic"
			}

			// Aliases always alias to the latest version.
			if versionString == latest {
				info.Aliases = productAliases
			}

			m.Products = append(m.Products, info)
			idx := len(m.Products) - 1
			for _, alias := range info.Aliases {
				m.records[alias] = idx
			}
			if bestIdx < 0 || versionString > bestVersion {
				bestIdx, bestVersion = idx, versionString
			}
		}

		// The product id addresses its most recent qualifying version.
		if bestIdx >= 0 {
			m.records[id.String()] = bestIdx
		}

		return true
	})

	if len(m.Products) == 0 {
		return nil, ErrNoSupportedProducts
	}

	return m, nil
}

// latestVersionIn returns the lexicographically greatest version key;
// simplestreams versions are dated strings, so that is the most recent.
func latestVersionIn(versions map[string]gjson.Result) string {
	var max string
	for version := range versions {
		if version > max {
			max = version
		}
	}
	return max
}

func splitAliases(csv string) []string {
	if csv == "" {
		return nil
	}
	return strings.Split(csv, ",")
}

// unpackedFilePrefix derives the location of a disk image's extracted
// kernel/initrd siblings: <dir>/unpacked/<name without image suffix>.
func unpackedFilePrefix(imageLocation string) string {
	name := imageLocation
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.ReplaceAll(name, "-disk1.img", "")
	name = strings.ReplaceAll(name, ".img", "")

	dir := ""
	if i := strings.LastIndex(imageLocation, "/"); i >= 0 {
		dir = imageLocation[:i]
	}
	return dir + "/unpacked/" + name
}
