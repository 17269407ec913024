package wire

import (
	"encoding/binary"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/spaolacci/murmur3"
	"github.com/vmihailenco/msgpack/v5"
)

// Layout is the streamed member layout of one class version.
type Layout struct {
	Class    string   `msgpack:"class"`
	Version  int16    `msgpack:"version"`
	Checksum uint32   `msgpack:"checksum"`
	Members  []Member `msgpack:"members"`
}

// LayoutChecksum fingerprints a member layout. Two layouts with the same
// checksum stream identically.
func LayoutChecksum(members []Member) uint32 {
	h := murmur3.New32()
	var scratch [4]byte
	for _, m := range members {
		h.Write([]byte(m.Name))
		h.Write([]byte{0})
		h.Write([]byte(m.Type.String()))
		h.Write([]byte{0})
		h.Write([]byte(m.Index))
		binary.BigEndian.PutUint32(scratch[:], uint32(m.Type.Kind))
		h.Write(scratch[:])
	}
	return h.Sum32()
}

type layoutKey struct {
	class   string
	version int16
}

// Catalog records the layouts of the class versions written to a stream so
// a later reader can decode versions older than the ones it was built with.
// It is safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	layouts map[layoutKey]*Layout
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{layouts: map[layoutKey]*Layout{}}
}

// Record adds the current layout of info. Recording the same version twice
// with a different layout is an error: the class changed without a version
// bump.
func (c *Catalog) Record(info *ClassInfo) error {
	l := &Layout{
		Class:    info.Name,
		Version:  info.Version,
		Checksum: LayoutChecksum(info.Members),
		Members:  slices.Clone(info.Members),
	}
	return c.Add(l)
}

// Add inserts a layout.
func (c *Catalog) Add(l *Layout) error {
	key := layoutKey{class: l.Class, version: l.Version}
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.layouts[key]; ok {
		if old.Checksum != l.Checksum {
			return fmt.Errorf("wire: %s version %d recorded with two layouts (checksum %08x and %08x)", l.Class, l.Version, old.Checksum, l.Checksum)
		}
		return nil
	}
	c.layouts[key] = l
	return nil
}

// Layout returns the recorded layout of class at version v.
func (c *Catalog) Layout(class string, v int16) (*Layout, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.layouts[layoutKey{class: class, version: v}]
	return l, ok
}

// Layouts returns every recorded layout ordered by class and version.
func (c *Catalog) Layouts() []*Layout {
	c.mu.RLock()
	out := make([]*Layout, 0, len(c.layouts))
	for _, l := range c.layouts {
		out = append(out, l)
	}
	c.mu.RUnlock()
	slices.SortFunc(out, func(a, b *Layout) int {
		if n := strings.Compare(a.Class, b.Class); n != 0 {
			return n
		}
		return int(a.Version) - int(b.Version)
	})
	return out
}

// MarshalBinary encodes the catalog with msgpack.
func (c *Catalog) MarshalBinary() ([]byte, error) {
	data, err := msgpack.Marshal(c.Layouts())
	if err != nil {
		return nil, fmt.Errorf("wire: encode catalog: %w", err)
	}
	return data, nil
}

// UnmarshalBinary replaces the catalog contents with the encoded layouts.
// Layout checksums are verified.
func (c *Catalog) UnmarshalBinary(data []byte) error {
	var layouts []*Layout
	if err := msgpack.Unmarshal(data, &layouts); err != nil {
		return fmt.Errorf("wire: decode catalog: %w", err)
	}
	fresh := NewCatalog()
	for _, l := range layouts {
		if sum := LayoutChecksum(l.Members); sum != l.Checksum {
			return fmt.Errorf("wire: decode catalog: %s version %d checksum %08x, members hash to %08x", l.Class, l.Version, l.Checksum, sum)
		}
		if err := fresh.Add(l); err != nil {
			return err
		}
	}
	c.mu.Lock()
	c.layouts = fresh.layouts
	c.mu.Unlock()
	return nil
}
