package mstable

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmarcote/mstools/codec"
	"github.com/bmarcote/mstools/internal/mmap"
)

// DiskTable is the out-of-core Table implementation: a directory holding
// one binary file per fixed-width column, a JSON manifest, and one
// subdirectory per keyword subtable. This is this module's native layout,
// not the casacore one; casacore-backed access plugs in behind the Table
// interface instead.
//
// Read-only tables serve chunk reads from a memory mapping. Read-write
// tables use plain ReadAt/WriteAt so chunk write-back hits the file
// directly.
type DiskTable struct {
	dir      string
	readonly bool
	man      manifest
	byName   map[string]columnManifest

	files   map[string]*os.File
	maps    map[string]*mmap.File
	strcols map[string][]string
	subs    map[string]*DiskTable
}

const manifestFile = "table.json"

type manifest struct {
	Codec    string           `json:"codec"`
	NumRows  int              `json:"nrows"`
	Columns  []columnManifest `json:"columns"`
	Keywords []string         `json:"keywords,omitempty"`
}

type columnManifest struct {
	Name  string `json:"name"`
	DType DType  `json:"dtype"`
	Cell  []int  `json:"cell,omitempty"`
}

// OpenDisk opens a table directory. With readonly set, PutColumn fails and
// reads go through mmap.
func OpenDisk(dir string, readonly bool) (*DiskTable, error) {
	raw, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, fmt.Errorf("open table %s: %w", dir, err)
	}
	var man manifest
	if err := codec.Default.Unmarshal(raw, &man); err != nil {
		return nil, fmt.Errorf("open table %s: %w", dir, err)
	}
	if man.Codec != "" {
		if _, ok := codec.ByName(man.Codec); !ok {
			return nil, fmt.Errorf("open table %s: unknown manifest codec %q", dir, man.Codec)
		}
	}
	t := &DiskTable{
		dir:      dir,
		readonly: readonly,
		man:      man,
		byName:   make(map[string]columnManifest, len(man.Columns)),
		files:    make(map[string]*os.File),
		maps:     make(map[string]*mmap.File),
		strcols:  make(map[string][]string),
		subs:     make(map[string]*DiskTable),
	}
	for _, cm := range man.Columns {
		t.byName[cm.Name] = cm
	}
	return t, nil
}

func (t *DiskTable) Name() string { return t.dir }

func (t *DiskTable) NumRows() int { return t.man.NumRows }

func (t *DiskTable) ColumnNames() []string {
	names := make([]string, len(t.man.Columns))
	for i, cm := range t.man.Columns {
		names[i] = cm.Name
	}
	return names
}

func (t *DiskTable) HasColumn(name string) bool {
	_, ok := t.byName[name]
	return ok
}

func (t *DiskTable) colPath(cm columnManifest) string {
	if cm.DType == DTypeString {
		return filepath.Join(t.dir, cm.Name+".json")
	}
	return filepath.Join(t.dir, cm.Name+".col")
}

func (t *DiskTable) GetColumn(name string, start, n int) (Column, error) {
	cm, ok := t.byName[name]
	if !ok {
		return nil, &ErrColumnNotFound{Column: name}
	}
	if err := checkRange(t, start, n); err != nil {
		return nil, fmt.Errorf("column %s: %w", name, err)
	}
	if cm.DType == DTypeString {
		values, err := t.stringColumn(cm)
		if err != nil {
			return nil, err
		}
		return NewDense([]int{n}, slices.Clone(values[start:start+n]))
	}

	cell := 1
	for _, s := range cm.Cell {
		cell *= s
	}
	elemSize := cm.DType.Size()
	off := int64(start) * int64(cell) * int64(elemSize)
	buf := make([]byte, n*cell*elemSize)
	if err := t.readAt(cm, buf, off); err != nil {
		return nil, fmt.Errorf("column %s: %w", name, err)
	}
	shape := append([]int{n}, cm.Cell...)
	col, err := decodeElems(cm.DType, shape, buf)
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", name, err)
	}
	return col, nil
}

func (t *DiskTable) readAt(cm columnManifest, buf []byte, off int64) error {
	if len(buf) == 0 {
		return nil
	}
	if t.readonly {
		m, err := t.mapping(cm)
		if err != nil {
			return err
		}
		_, err = m.ReadAt(buf, off)
		return err
	}
	f, err := t.file(cm)
	if err != nil {
		return err
	}
	_, err = f.ReadAt(buf, off)
	return err
}

func (t *DiskTable) PutColumn(name string, col Column, start, n int) error {
	if t.readonly {
		return ErrReadOnly
	}
	cm, ok := t.byName[name]
	if !ok {
		return &ErrColumnNotFound{Column: name}
	}
	if err := checkPut(t, col, start, n); err != nil {
		return fmt.Errorf("column %s: %w", name, err)
	}
	if col.DType() != cm.DType {
		return fmt.Errorf("column %s holds %s, got %s", name, cm.DType, col.DType())
	}
	if !slices.Equal(col.Shape()[1:], cm.Cell) {
		return fmt.Errorf("column %s: cell shape mismatch: %v vs %v", name, col.Shape()[1:], cm.Cell)
	}

	if cm.DType == DTypeString {
		values, err := t.stringColumn(cm)
		if err != nil {
			return err
		}
		chunk, err := Values[string](col)
		if err != nil {
			return err
		}
		copy(values[start:], chunk)
		return t.writeStringColumn(cm, values)
	}

	buf, err := encodeElems(col)
	if err != nil {
		return fmt.Errorf("column %s: %w", name, err)
	}
	cell := 1
	for _, s := range cm.Cell {
		cell *= s
	}
	off := int64(start) * int64(cell) * int64(cm.DType.Size())
	f, err := t.file(cm)
	if err != nil {
		return fmt.Errorf("column %s: %w", name, err)
	}
	if _, err := f.WriteAt(buf, off); err != nil {
		return fmt.Errorf("column %s: %w", name, err)
	}
	return nil
}

func (t *DiskTable) stringColumn(cm columnManifest) ([]string, error) {
	if values, ok := t.strcols[cm.Name]; ok {
		return values, nil
	}
	raw, err := os.ReadFile(t.colPath(cm))
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", cm.Name, err)
	}
	var values []string
	if err := codec.Default.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("column %s: %w", cm.Name, err)
	}
	if len(values) != t.man.NumRows {
		return nil, fmt.Errorf("column %s holds %d values, table has %d rows", cm.Name, len(values), t.man.NumRows)
	}
	t.strcols[cm.Name] = values
	return values, nil
}

func (t *DiskTable) writeStringColumn(cm columnManifest, values []string) error {
	raw, err := codec.Default.Marshal(values)
	if err != nil {
		return fmt.Errorf("column %s: %w", cm.Name, err)
	}
	if err := os.WriteFile(t.colPath(cm), raw, 0o644); err != nil {
		return fmt.Errorf("column %s: %w", cm.Name, err)
	}
	t.strcols[cm.Name] = values
	return nil
}

func (t *DiskTable) file(cm columnManifest) (*os.File, error) {
	if f, ok := t.files[cm.Name]; ok {
		return f, nil
	}
	flag := os.O_RDWR
	if t.readonly {
		flag = os.O_RDONLY
	}
	f, err := os.OpenFile(t.colPath(cm), flag, 0)
	if err != nil {
		return nil, err
	}
	t.files[cm.Name] = f
	return f, nil
}

func (t *DiskTable) mapping(cm columnManifest) (*mmap.File, error) {
	if m, ok := t.maps[cm.Name]; ok {
		return m, nil
	}
	m, err := mmap.Open(t.colPath(cm))
	if err != nil {
		return nil, err
	}
	t.maps[cm.Name] = m
	return m, nil
}

func (t *DiskTable) Keyword(name string) (Table, error) {
	if sub, ok := t.subs[name]; ok {
		return sub, nil
	}
	if !slices.Contains(t.man.Keywords, name) {
		return nil, &ErrKeywordNotFound{Keyword: name}
	}
	sub, err := OpenDisk(filepath.Join(t.dir, name), t.readonly)
	if err != nil {
		return nil, err
	}
	t.subs[name] = sub
	return sub, nil
}

func (t *DiskTable) KeywordNames() []string { return slices.Clone(t.man.Keywords) }

// Close releases file handles and mappings, recursively closing any
// keyword subtables opened through this handle. Read-write column files
// are synced first.
func (t *DiskTable) Close() error {
	var first error
	for _, f := range t.files {
		if err := f.Sync(); err != nil && first == nil {
			first = err
		}
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	for _, m := range t.maps {
		if err := m.Close(); err != nil && first == nil {
			first = err
		}
	}
	for _, sub := range t.subs {
		if err := sub.Close(); err != nil && first == nil {
			first = err
		}
	}
	t.files = make(map[string]*os.File)
	t.maps = make(map[string]*mmap.File)
	t.subs = make(map[string]*DiskTable)
	return first
}

// WriteDisk materializes any Table (typically a MemTable) into the on-disk
// layout at dir, streaming fixed-width columns in chunks so the source can
// be larger than memory. Keyword subtables are written recursively.
func WriteDisk(dir string, src Table, chunkSize int) error {
	if chunkSize <= 0 {
		chunkSize = 100
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	man := manifest{
		Codec:   codec.Default.Name(),
		NumRows: src.NumRows(),
	}

	for _, name := range src.ColumnNames() {
		probe, err := src.GetColumn(name, 0, 0)
		if err != nil {
			return err
		}
		cm := columnManifest{Name: name, DType: probe.DType(), Cell: probe.Shape()[1:]}
		man.Columns = append(man.Columns, cm)

		if cm.DType == DTypeString {
			col, err := src.GetColumn(name, 0, src.NumRows())
			if err != nil {
				return err
			}
			values, err := Values[string](col)
			if err != nil {
				return err
			}
			raw, err := codec.Default.Marshal(values)
			if err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(dir, name+".json"), raw, 0o644); err != nil {
				return err
			}
			continue
		}

		f, err := os.Create(filepath.Join(dir, name+".col"))
		if err != nil {
			return err
		}
		for start := 0; start < src.NumRows(); start += chunkSize {
			n := min(chunkSize, src.NumRows()-start)
			col, err := src.GetColumn(name, start, n)
			if err != nil {
				f.Close()
				return err
			}
			buf, err := encodeElems(col)
			if err != nil {
				f.Close()
				return err
			}
			if _, err := f.Write(buf); err != nil {
				f.Close()
				return err
			}
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	for _, kw := range src.KeywordNames() {
		sub, err := src.Keyword(kw)
		if err != nil {
			return err
		}
		if err := WriteDisk(filepath.Join(dir, kw), sub, chunkSize); err != nil {
			return err
		}
		man.Keywords = append(man.Keywords, kw)
	}

	raw, err := codec.Default.Marshal(man)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, manifestFile), raw, 0o644)
}
