package mstable

import (
	"fmt"
	"slices"
)

// MemTable is an in-memory Table implementation. It backs the unit tests
// and serves as the staging area when synthesizing or materializing tables.
type MemTable struct {
	name     string
	nrows    int
	order    []string
	cols     map[string]Column
	keywords map[string]*MemTable
	kworder  []string
	readonly bool
}

// NewMemTable creates an empty in-memory table with a fixed row count.
func NewMemTable(name string, nrows int) *MemTable {
	return &MemTable{
		name:     name,
		nrows:    nrows,
		cols:     make(map[string]Column),
		keywords: make(map[string]*MemTable),
	}
}

// AddColumn installs a full-length column. The column keeps its identity;
// callers should not retain references to it.
func (t *MemTable) AddColumn(name string, col Column) error {
	if col.NumRows() != t.nrows {
		return fmt.Errorf("column %s carries %d rows, table has %d", name, col.NumRows(), t.nrows)
	}
	if _, exists := t.cols[name]; !exists {
		t.order = append(t.order, name)
	}
	t.cols[name] = col
	return nil
}

// AddKeyword attaches a subtable under the given keyword name.
func (t *MemTable) AddKeyword(name string, sub *MemTable) {
	if _, exists := t.keywords[name]; !exists {
		t.kworder = append(t.kworder, name)
	}
	t.keywords[name] = sub
}

// SetReadOnly marks the table (and its subtables) as read-only.
func (t *MemTable) SetReadOnly() {
	t.readonly = true
	for _, sub := range t.keywords {
		sub.SetReadOnly()
	}
}

func (t *MemTable) Name() string { return t.name }

func (t *MemTable) NumRows() int { return t.nrows }

func (t *MemTable) ColumnNames() []string { return slices.Clone(t.order) }

func (t *MemTable) HasColumn(name string) bool {
	_, ok := t.cols[name]
	return ok
}

func (t *MemTable) GetColumn(name string, start, n int) (Column, error) {
	col, ok := t.cols[name]
	if !ok {
		return nil, &ErrColumnNotFound{Column: name}
	}
	if err := checkRange(t, start, n); err != nil {
		return nil, fmt.Errorf("column %s: %w", name, err)
	}
	return col.SliceRows(start, n)
}

func (t *MemTable) PutColumn(name string, col Column, start, n int) error {
	if t.readonly {
		return ErrReadOnly
	}
	dst, ok := t.cols[name]
	if !ok {
		return &ErrColumnNotFound{Column: name}
	}
	if err := checkPut(t, col, start, n); err != nil {
		return fmt.Errorf("column %s: %w", name, err)
	}
	return dst.CopyRowsFrom(col, start)
}

func (t *MemTable) Keyword(name string) (Table, error) {
	sub, ok := t.keywords[name]
	if !ok {
		return nil, &ErrKeywordNotFound{Keyword: name}
	}
	return sub, nil
}

func (t *MemTable) KeywordNames() []string { return slices.Clone(t.kworder) }

func (t *MemTable) Close() error { return nil }
