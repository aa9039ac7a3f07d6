package rank

import (
	"fmt"
	"math"
)

// A bound maps every score from Min (inclusive) up to the Min of the
// next bound (exclusive) to Tier
type Bound struct {
	Tier Tier
	Min  float64
}

// Non-overlapping, ascending mapping from rank points to tiers
type Table struct {
	bounds []Bound
}

var (
	Bronze      = Tier{Ordinal: 0, Name: "Bronze", Color: Color}
	Silver      = Tier{Ordinal: 1, Name: "Silver", Color: Color}
	Gold        = Tier{Ordinal: 2, Name: "Gold", Color: Color}
	Platinum    = Tier{Ordinal: 3, Name: "Platinum", Color: Color}
	Diamond     = Tier{Ordinal: 4, Name: "Diamond", Color: Color}
	Elite       = Tier{Ordinal: 5, Name: "Elite", Color: Color}
	Master      = Tier{Ordinal: 6, Name: "Master", Color: Color}
	GrandMaster = Tier{Ordinal: 7, Name: "GrandMaster", Color: Color}
)

var Default = MustTable(
	Bound{Bronze, 0},
	Bound{Silver, 1400},
	Bound{Gold, 1500},
	Bound{Platinum, 1600},
	Bound{Diamond, 1700},
	Bound{Elite, 1800},
	Bound{Master, 1900},
	Bound{GrandMaster, 2000},
)

func NewTable(bounds ...Bound) (Table, error) {

	if len(bounds) == 0 {
		return Table{}, fmt.Errorf("a rank table needs at least one tier")
	}

	names := make(map[string]struct{}, len(bounds))
	for i, bound := range bounds {
		if math.IsNaN(bound.Min) || math.IsInf(bound.Min, 0) {
			return Table{}, fmt.Errorf("tier %s has an invalid lower bound", bound.Tier.Name)
		}
		if bound.Tier.Name == "" {
			return Table{}, fmt.Errorf("tier at position %d has no name", i)
		}
		if _, ok := names[bound.Tier.Name]; ok {
			return Table{}, fmt.Errorf("tier %s appears more than once", bound.Tier.Name)
		}
		names[bound.Tier.Name] = struct{}{}
		if i == 0 {
			continue
		}
		previous := bounds[i-1]
		if bound.Min <= previous.Min {
			return Table{}, fmt.Errorf("tier %s does not start above tier %s", bound.Tier.Name, previous.Tier.Name)
		}
		if bound.Tier.Ordinal <= previous.Tier.Ordinal {
			return Table{}, fmt.Errorf("tier %s is not ordered after tier %s", bound.Tier.Name, previous.Tier.Name)
		}
	}

	table := Table{bounds: make([]Bound, len(bounds))}
	copy(table.bounds, bounds)
	return table, nil
}

func MustTable(bounds ...Bound) Table {
	table, err := NewTable(bounds...)
	if err != nil {
		panic(err)
	}
	return table
}

// Tiers in ascending order
func (table Table) Tiers() []Tier {
	tiers := make([]Tier, len(table.bounds))
	for i, bound := range table.bounds {
		tiers[i] = bound.Tier
	}
	return tiers
}

// Find the tier a score belongs to. Scores below the first bound,
// and scores that are not numbers, fall into the lowest tier
func (table Table) Lookup(points float64) Tier {

	tier := table.bounds[0].Tier
	if math.IsNaN(points) {
		return tier
	}
	for _, bound := range table.bounds[1:] {
		if points < bound.Min {
			break
		}
		tier = bound.Tier
	}
	return tier
}

// Map the best score among the populated modes of the snapshot to a tier.
// Returns false when no mode is populated.
// Only the maximum value matters, never the mode that produced it
func (table Table) Classify(snapshot Snapshot) (Tier, bool) {

	if snapshot.Populated() == 0 {
		return Tier{}, false
	}

	best := math.Inf(-1)
	for _, stats := range snapshot.Modes {
		// NaN never compares greater. If every mode is NaN, best stays at -Inf
		// and Lookup clamps it to the lowest tier
		if stats.RankPoints > best {
			best = stats.RankPoints
		}
	}
	return table.Lookup(best), true
}
