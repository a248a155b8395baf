package msmeta

import (
	"github.com/bmarcote/mstools/mstable"
)

// RenameProject rewrites the PROJECT code in the OBSERVATION subtable.
// When the OBSERVER cell carries the same code (the usual convention for
// these observations) it is renamed along with it.
func RenameProject(tbl mstable.Table, newName string) error {
	obs, err := tbl.Keyword(mstable.KwObservation)
	if err != nil {
		return err
	}
	projects, err := stringColumn(obs, mstable.ColProject)
	if err != nil {
		return err
	}
	observers, err := stringColumn(obs, mstable.ColObserver)
	if err != nil {
		return err
	}

	for i := range projects {
		if observers[i] == projects[i] {
			observers[i] = newName
		}
		projects[i] = newName
	}
	if err := putStrings(obs, mstable.ColProject, projects); err != nil {
		return err
	}
	return putStrings(obs, mstable.ColObserver, observers)
}

// RenameSource rewrites one field name in the FIELD subtable. The old
// name must match exactly.
func RenameSource(tbl mstable.Table, oldName, newName string) error {
	field, err := tbl.Keyword(mstable.KwField)
	if err != nil {
		return err
	}
	names, err := stringColumn(field, mstable.ColName)
	if err != nil {
		return err
	}

	found := false
	for i, name := range names {
		if name == oldName {
			names[i] = newName
			found = true
		}
	}
	if !found {
		return &ErrSourceNotFound{Name: oldName, Known: names}
	}
	return putStrings(field, mstable.ColName, names)
}

func putStrings(tbl mstable.Table, name string, values []string) error {
	col, err := mstable.NewDense([]int{len(values)}, values)
	if err != nil {
		return err
	}
	return tbl.PutColumn(name, col, 0, len(values))
}
