package resource

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Extensions lists the file suffixes a Catalog picks up.
var Extensions = []string{".png", ".bmp"}

// Catalog is a Store over the image files of one directory in an fs.FS.
// Files are sorted by name and numbered from the base ID.
type Catalog struct {
	fsys  fs.FS
	base  ID
	names []string
}

// NewCatalog lists dir in fsys and assigns IDs from base.
func NewCatalog(fsys fs.FS, dir string, base ID) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("resource: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !isImage(e.Name()) {
			continue
		}
		names = append(names, path.Join(dir, e.Name()))
	}
	sort.Strings(names)

	return &Catalog{fsys: fsys, base: base, names: names}, nil
}

func isImage(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Len returns the number of cataloged files.
func (c *Catalog) Len() int { return len(c.names) }

// Resolve implements Store.
func (c *Catalog) Resolve(id ID) (Handle, error) {
	i := int(id - c.base)
	if i < 0 || i >= len(c.names) {
		return Handle{}, ErrNotFound
	}
	fi, err := fs.Stat(c.fsys, c.names[i])
	if errors.Is(err, fs.ErrNotExist) {
		return Handle{}, ErrNotFound
	}
	if err != nil {
		return Handle{}, err
	}
	return Handle{ID: id, Name: c.names[i], size: int(fi.Size())}, nil
}

// Size implements Store.
func (c *Catalog) Size(h Handle) int { return h.size }

// Load implements Store.
func (c *Catalog) Load(h Handle, buf []byte) error {
	if len(buf) < h.size {
		return errors.New("resource: buffer too small")
	}
	f, err := c.fsys.Open(h.Name)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.ReadFull(f, buf[:h.size])
	return err
}
