// Package msmeta reads observation metadata out of a measurement-set
// table: antennas, sources, frequency setup and the observation epoch.
// Antennas and sources are ordered sequences with a name index built once
// at load time, so lookups by name are O(1) and a miss is a typed error
// carrying the valid names.
package msmeta

import (
	"fmt"
	"strings"
	"time"

	"github.com/bmarcote/mstools/mjd"
	"github.com/bmarcote/mstools/mstable"
	"github.com/bmarcote/mstools/stokes"
)

// Antenna describes one station of the array.
type Antenna struct {
	Name string
	// Observed reports whether the antenna has non-null data.
	Observed bool
	// Subbands lists the spectral windows the antenna covered; possibly a
	// subset of the observation's windows.
	Subbands []int
}

// Antennas is an ordered antenna sequence with case-insensitive name
// lookup.
type Antennas struct {
	items []Antenna
	index map[string]int
}

// NewAntennas builds the sequence and its name index.
func NewAntennas(items ...Antenna) *Antennas {
	a := &Antennas{items: items, index: make(map[string]int, len(items))}
	for i, ant := range items {
		a.index[strings.ToUpper(ant.Name)] = i
	}
	return a
}

func (a *Antennas) Len() int         { return len(a.items) }
func (a *Antennas) At(i int) Antenna { return a.items[i] }

// Names lists all antenna names in table order.
func (a *Antennas) Names() []string {
	names := make([]string, len(a.items))
	for i, ant := range a.items {
		names[i] = ant.Name
	}
	return names
}

// Observed lists the names of antennas with data.
func (a *Antennas) Observed() []string {
	var names []string
	for _, ant := range a.items {
		if ant.Observed {
			names = append(names, ant.Name)
		}
	}
	return names
}

// IndexOf resolves an antenna name (case insensitive) to its table index.
func (a *Antennas) IndexOf(name string) (int, error) {
	if i, ok := a.index[strings.ToUpper(name)]; ok {
		return i, nil
	}
	return 0, &ErrAntennaNotFound{Name: name, Known: a.Names()}
}

// ByName resolves an antenna by name (case insensitive).
func (a *Antennas) ByName(name string) (Antenna, error) {
	i, err := a.IndexOf(name)
	if err != nil {
		return Antenna{}, err
	}
	return a.items[i], nil
}

// Source is an observed field with its phase-center coordinates in
// radians.
type Source struct {
	Name   string
	RA     float64
	Dec    float64
	Intent string
}

// Sources is an ordered source sequence with name lookup.
type Sources struct {
	items []Source
	index map[string]int
}

// NewSources builds the sequence and its name index.
func NewSources(items ...Source) *Sources {
	s := &Sources{items: items, index: make(map[string]int, len(items))}
	for i, src := range items {
		s.index[src.Name] = i
	}
	return s
}

func (s *Sources) Len() int        { return len(s.items) }
func (s *Sources) At(i int) Source { return s.items[i] }

// Names lists all source names in table order.
func (s *Sources) Names() []string {
	names := make([]string, len(s.items))
	for i, src := range s.items {
		names[i] = src.Name
	}
	return names
}

// ByName resolves a source by its exact name.
func (s *Sources) ByName(name string) (Source, error) {
	if i, ok := s.index[name]; ok {
		return s.items[i], nil
	}
	return Source{}, &ErrSourceNotFound{Name: name, Known: s.Names()}
}

// FreqSetup describes the frequency configuration of the observation.
type FreqSetup struct {
	// MeanFreqHz is the mean observing frequency.
	MeanFreqHz float64
	// BandwidthHz is the bandwidth of one subband.
	BandwidthHz float64
	// NSpw and NChan are the subband count and channels per subband.
	NSpw  int
	NChan int
	// Polarizations are the correlation products of the setup.
	Polarizations []stokes.Code
}

// ObsEpoch is the recorded time range of the observation.
type ObsEpoch struct {
	Start time.Time
	End   time.Time
}

// Date returns the observation date (from the start time).
func (e ObsEpoch) Date() time.Time {
	return time.Date(e.Start.Year(), e.Start.Month(), e.Start.Day(), 0, 0, 0, 0, time.UTC)
}

// YMD formats the observation date as YYYYMMDD.
func (e ObsEpoch) YMD() string { return e.Start.Format("20060102") }

// MJD returns the Modified Julian Date of the observation start.
func (e ObsEpoch) MJD() float64 { return mjd.Days(e.Start) }

// DOY returns the day of year of the observation.
func (e ObsEpoch) DOY() int { return e.Start.YearDay() }

// Duration returns the observation length.
func (e ObsEpoch) Duration() time.Duration { return e.End.Sub(e.Start) }

// Metadata aggregates the observation description of one table.
type Metadata struct {
	Project  string
	Epoch    ObsEpoch
	Freq     FreqSetup
	Antennas *Antennas
	Sources  *Sources
}

// ErrAntennaNotFound reports an unknown antenna name.
type ErrAntennaNotFound struct {
	Name  string
	Known []string
}

func (e *ErrAntennaNotFound) Error() string {
	return fmt.Sprintf("antenna %q not found; available antennas: %s",
		e.Name, strings.Join(e.Known, ", "))
}

// ErrSourceNotFound reports an unknown source name.
type ErrSourceNotFound struct {
	Name  string
	Known []string
}

func (e *ErrSourceNotFound) Error() string {
	return fmt.Sprintf("source %q not found; the only source names found are: %s",
		e.Name, strings.Join(e.Known, ", "))
}

// Load reads the metadata of a table from its keyword subtables.
func Load(tbl mstable.Table) (*Metadata, error) {
	meta := &Metadata{}

	// Subband ids come from DATA_DESCRIPTION; the frequency axes from
	// SPECTRAL_WINDOW.
	dd, err := tbl.Keyword(mstable.KwDataDescription)
	if err != nil {
		return nil, err
	}
	spwIDs, err := intColumn(dd, mstable.ColSpectralWindow)
	if err != nil {
		return nil, err
	}
	subbands := make([]int, len(spwIDs))
	for i, id := range spwIDs {
		subbands[i] = int(id)
	}

	spw, err := tbl.Keyword(mstable.KwSpectralWindow)
	if err != nil {
		return nil, err
	}
	numChan, err := intColumn(spw, mstable.ColNumChan)
	if err != nil {
		return nil, err
	}
	if len(numChan) == 0 {
		return nil, fmt.Errorf("%s: empty SPECTRAL_WINDOW table", tbl.Name())
	}
	chanFreqCol, err := spw.GetColumn(mstable.ColChanFreq, 0, spw.NumRows())
	if err != nil {
		return nil, err
	}
	chanFreqs, err := mstable.Values[float64](chanFreqCol)
	if err != nil {
		return nil, err
	}
	mean := 0.0
	for _, f := range chanFreqs {
		mean += f
	}
	if len(chanFreqs) > 0 {
		mean /= float64(len(chanFreqs))
	}
	totalBW, err := floatColumn(spw, mstable.ColTotalBandwidth)
	if err != nil {
		return nil, err
	}

	pols, err := polarizations(tbl)
	if err != nil {
		return nil, err
	}
	meta.Freq = FreqSetup{
		MeanFreqHz:    mean,
		BandwidthHz:   totalBW[0],
		NSpw:          len(subbands),
		NChan:         int(numChan[0]),
		Polarizations: pols,
	}

	ant, err := tbl.Keyword(mstable.KwAntenna)
	if err != nil {
		return nil, err
	}
	antNames, err := stringColumn(ant, mstable.ColName)
	if err != nil {
		return nil, err
	}
	antennas := make([]Antenna, len(antNames))
	for i, name := range antNames {
		antennas[i] = Antenna{Name: name, Observed: true, Subbands: subbands}
	}
	meta.Antennas = NewAntennas(antennas...)

	field, err := tbl.Keyword(mstable.KwField)
	if err != nil {
		return nil, err
	}
	srcNames, err := stringColumn(field, mstable.ColName)
	if err != nil {
		return nil, err
	}
	dirCol, err := field.GetColumn(mstable.ColPhaseDir, 0, field.NumRows())
	if err != nil {
		return nil, err
	}
	dirs, err := mstable.Values[float64](dirCol)
	if err != nil {
		return nil, err
	}
	if len(dirs) != 2*len(srcNames) {
		return nil, fmt.Errorf("%s: PHASE_DIR carries %d values for %d fields", tbl.Name(), len(dirs), len(srcNames))
	}
	sources := make([]Source, len(srcNames))
	for i, name := range srcNames {
		sources[i] = Source{Name: name, RA: dirs[2*i], Dec: dirs[2*i+1]}
	}
	meta.Sources = NewSources(sources...)

	obs, err := tbl.Keyword(mstable.KwObservation)
	if err != nil {
		return nil, err
	}
	trCol, err := obs.GetColumn(mstable.ColTimeRange, 0, 1)
	if err != nil {
		return nil, err
	}
	tr, err := mstable.Values[float64](trCol)
	if err != nil {
		return nil, err
	}
	if len(tr) != 2 {
		return nil, fmt.Errorf("%s: TIME_RANGE carries %d values", tbl.Name(), len(tr))
	}
	meta.Epoch = ObsEpoch{Start: mjd.ToTime(tr[0]), End: mjd.ToTime(tr[1])}

	projects, err := stringColumn(obs, mstable.ColProject)
	if err != nil {
		return nil, err
	}
	if len(projects) > 0 {
		meta.Project = projects[0]
	}

	return meta, nil
}

func polarizations(tbl mstable.Table) ([]stokes.Code, error) {
	pol, err := tbl.Keyword(mstable.KwPolarization)
	if err != nil {
		return nil, err
	}
	col, err := pol.GetColumn(mstable.ColCorrType, 0, 1)
	if err != nil {
		return nil, err
	}
	raw, err := mstable.Values[int32](col)
	if err != nil {
		return nil, err
	}
	codes := make([]stokes.Code, len(raw))
	for i, v := range raw {
		codes[i] = stokes.Code(v)
	}
	return codes, nil
}

func intColumn(tbl mstable.Table, name string) ([]int32, error) {
	col, err := tbl.GetColumn(name, 0, tbl.NumRows())
	if err != nil {
		return nil, err
	}
	return mstable.Values[int32](col)
}

func floatColumn(tbl mstable.Table, name string) ([]float64, error) {
	col, err := tbl.GetColumn(name, 0, tbl.NumRows())
	if err != nil {
		return nil, err
	}
	return mstable.Values[float64](col)
}

func stringColumn(tbl mstable.Table, name string) ([]string, error) {
	col, err := tbl.GetColumn(name, 0, tbl.NumRows())
	if err != nil {
		return nil, err
	}
	return mstable.Values[string](col)
}
