package mtp

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Mount is a gvfs mount point for a connected device.
type Mount struct {
	// Name is the gvfs mount directory name, e.g. "mtp:host=SAMSUNG_...".
	Name string
	// Path is the absolute path of the mount directory.
	Path string
}

// IsMTP reports whether the mount is an MTP device mount.
func (m Mount) IsMTP() bool {
	return strings.HasPrefix(m.Name, "mtp:")
}

// DefaultGvfsDir returns the per-user gvfs directory, /run/user/<uid>/gvfs.
func DefaultGvfsDir() string {
	return filepath.Join("/run/user", fmt.Sprintf("%d", os.Getuid()), "gvfs")
}

// ListMounts returns the mounts currently present under gvfsDir, sorted by
// name. A missing gvfs directory means no device is mounted and yields an
// empty list, not an error.
func ListMounts(gvfsDir string) ([]Mount, error) {
	entries, err := os.ReadDir(gvfsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list gvfs mounts in %s: %w", gvfsDir, err)
	}

	mounts := make([]Mount, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		mounts = append(mounts, Mount{
			Name: entry.Name(),
			Path: filepath.Join(gvfsDir, entry.Name()),
		})
	}
	return mounts, nil
}

// StorageRoot returns the single storage directory a device exposes inside
// its mount. MTP devices present exactly one root ("Internal shared
// storage"); anything else means the device is locked or not an MTP mount.
func StorageRoot(mount Mount) (string, error) {
	entries, err := os.ReadDir(mount.Path)
	if err != nil {
		return "", fmt.Errorf("list storage roots of %s: %w", mount.Name, err)
	}
	var roots []string
	for _, entry := range entries {
		if entry.IsDir() {
			roots = append(roots, filepath.Join(mount.Path, entry.Name()))
		}
	}
	if len(roots) != 1 {
		return "", fmt.Errorf("mount %s exposes %d storage roots, expected exactly one; unlock the device and retry", mount.Name, len(roots))
	}
	return roots[0], nil
}

// ResolveMount picks the mount to copy from. With an explicit name it must
// match one of the current mounts; without one, exactly one MTP mount must
// be present.
func ResolveMount(gvfsDir, name string) (Mount, error) {
	mounts, err := ListMounts(gvfsDir)
	if err != nil {
		return Mount{}, err
	}

	if name != "" {
		for _, mount := range mounts {
			if mount.Name == name {
				return mount, nil
			}
		}
		return Mount{}, fmt.Errorf("no mount named %q under %s", name, gvfsDir)
	}

	var mtpMounts []Mount
	for _, mount := range mounts {
		if mount.IsMTP() {
			mtpMounts = append(mtpMounts, mount)
		}
	}
	switch len(mtpMounts) {
	case 0:
		return Mount{}, fmt.Errorf("no MTP mount under %s; is the device connected and unlocked?", gvfsDir)
	case 1:
		return mtpMounts[0], nil
	default:
		return Mount{}, fmt.Errorf("%d MTP mounts under %s; pass the mount name explicitly", len(mtpMounts), gvfsDir)
	}
}
