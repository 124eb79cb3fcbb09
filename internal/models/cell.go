package models

import (
	"github.com/google/uuid"
)

// PairedCell is a nucleus matched with the whole-cell region that contains
// it. Every input nucleus produces exactly one PairedCell.
type PairedCell struct {
	// ID identifies the cell in logs and exported tables
	ID string

	// Membrane is the whole-cell outline, either matched from the membrane
	// segmentation or estimated from the nucleus
	Membrane *Region

	// Nucleus is the nuclear region the cell was built from
	Nucleus *Region

	// Estimated is true when Membrane was synthesized by boundary estimation
	Estimated bool

	// Measurements holds the named per-cell features. Only the goroutine
	// processing this cell writes to it.
	Measurements *Measurements
}

// NewPairedCell creates a cell with a fresh identifier and an empty
// measurement record
func NewPairedCell(membrane, nucleus *Region, estimated bool) *PairedCell {
	return &PairedCell{
		ID:           uuid.NewString(),
		Membrane:     membrane,
		Nucleus:      nucleus,
		Estimated:    estimated,
		Measurements: NewMeasurements(),
	}
}

// Measurement is a single named value
type Measurement struct {
	Name  string
	Value float64
}

// Measurements is a name to value mapping that remembers insertion order,
// so that exported columns are deterministic
type Measurements struct {
	names  []string
	values map[string]float64
}

// NewMeasurements returns an empty measurement record
func NewMeasurements() *Measurements {
	return &Measurements{values: make(map[string]float64)}
}

// Put stores a value. Replacing an existing name keeps its original position.
func (m *Measurements) Put(name string, value float64) {
	if _, ok := m.values[name]; !ok {
		m.names = append(m.names, name)
	}
	m.values[name] = value
}

// Merge stores every entry in order
func (m *Measurements) Merge(entries []Measurement) {
	for _, e := range entries {
		m.Put(e.Name, e.Value)
	}
}

// Get returns the value stored under name
func (m *Measurements) Get(name string) (float64, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Len returns the number of stored measurements
func (m *Measurements) Len() int { return len(m.names) }

// Keys returns the names in insertion order
func (m *Measurements) Keys() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Entries returns the measurements in insertion order
func (m *Measurements) Entries() []Measurement {
	out := make([]Measurement, len(m.names))
	for i, name := range m.names {
		out[i] = Measurement{Name: name, Value: m.values[name]}
	}
	return out
}

// Map returns an unordered copy of the measurements
func (m *Measurements) Map() map[string]float64 {
	out := make(map[string]float64, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}
