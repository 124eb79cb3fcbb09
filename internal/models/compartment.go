package models

import (
	"fmt"
	"strings"
)

// Compartment identifies a spatial subset of a cell used for localized
// intensity statistics
type Compartment int

const (
	Cell Compartment = iota
	Nucleus
	Cytoplasm
	Membrane
)

// AllCompartments lists every compartment in canonical order
var AllCompartments = []Compartment{Cell, Nucleus, Cytoplasm, Membrane}

// String returns the upper-case identifier, e.g. "CYTOPLASM"
func (c Compartment) String() string {
	switch c {
	case Cell:
		return "CELL"
	case Nucleus:
		return "NUCLEUS"
	case Cytoplasm:
		return "CYTOPLASM"
	case Membrane:
		return "MEMBRANE"
	default:
		return fmt.Sprintf("Compartment(%d)", int(c))
	}
}

// DisplayName returns the name used in measurement keys: lower case with
// the first letter capitalized, e.g. "Cytoplasm"
func (c Compartment) DisplayName() string {
	s := strings.ToLower(c.String())
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseCompartment accepts either the identifier or the display name,
// case-insensitively
func ParseCompartment(s string) (Compartment, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for _, c := range AllCompartments {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown compartment %q", s)
}
