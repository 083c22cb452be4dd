package interaction

import (
	"fmt"
	"sort"
)

// Checker answers interaction questions over a medication list. It is a thin
// stateless layer over an immutable Repository and is safe for concurrent use.
type Checker struct {
	repo Repository
}

func NewChecker(repo Repository) *Checker {
	return &Checker{repo: repo}
}

// CheckInteraction returns the known interaction between two drugs, or nil.
// A nil result means "no known interaction", NOT "verified safe": the lookup
// table is not a complete pharmacology source, and an unrecorded pair is
// treated the same as a verified-clear one. Changing that default changes
// clinical semantics and needs a domain-owner decision.
func (c *Checker) CheckInteraction(drugA, drugB string) *DrugInteraction {
	return c.repo.Lookup(drugA, drugB)
}

// CheckAllInteractions examines every unique unordered pair in the list
// exactly once (N*(N-1)/2 comparisons) and returns the matches sorted by
// severity, most dangerous first. The sort is stable so equal-severity
// results keep pair-discovery order and repeated calls are deterministic.
func (c *Checker) CheckAllInteractions(medications []string) []DrugInteraction {
	var found []DrugInteraction
	seen := make(map[string]bool)

	for i, drugA := range medications {
		for _, drugB := range medications[i+1:] {
			key := PairKey(drugA, drugB)
			if seen[key] {
				continue
			}
			seen[key] = true
			if in := c.repo.Lookup(drugA, drugB); in != nil {
				found = append(found, *in)
			}
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Severity.Rank() < found[j].Severity.Rank()
	})
	return found
}

// InteractionSummary aggregates CheckAllInteractions into per-severity counts
// and management recommendations. RequiresAction is set when any
// contraindicated or major interaction is present.
func (c *Checker) InteractionSummary(medications []string) *Summary {
	interactions := c.CheckAllInteractions(medications)

	s := &Summary{
		TotalInteractions: len(interactions),
		BySeverity: map[Severity]int{
			SeverityContraindicated: 0,
			SeverityMajor:           0,
			SeverityModerate:        0,
			SeverityMinor:           0,
			SeverityUnknown:         0,
		},
		Interactions: interactions,
	}

	for _, in := range interactions {
		s.BySeverity[in.Severity]++
		if in.Management != nil {
			s.Recommendations = append(s.Recommendations, *in.Management)
		}
	}

	if s.BySeverity[SeverityContraindicated] > 0 || s.BySeverity[SeverityMajor] > 0 {
		s.RequiresAction = true
	}
	return s
}

// SeparationRequirements extracts the pairs that must be time-separated,
// keyed by the canonical unordered pair key, value in hours.
func (c *Checker) SeparationRequirements(medications []string) map[string]int {
	separations := make(map[string]int)
	for _, in := range c.CheckAllInteractions(medications) {
		if in.SeparationHours > 0 {
			separations[PairKey(in.DrugA, in.DrugB)] = in.SeparationHours
		}
	}
	return separations
}

// CanTakeTogether decides whether two drugs may be taken at the same moment.
// Decision precedence: contraindicated, then avoid-combination, then a
// required separation, then major severity; anything else is allowed, with a
// monitoring note when a record exists. The result is symmetric in its
// arguments because the lookup is over the unordered pair.
func (c *Checker) CanTakeTogether(drugA, drugB string) (bool, string) {
	in := c.repo.Lookup(drugA, drugB)
	if in == nil {
		return true, "No known interaction"
	}

	if in.Severity == SeverityContraindicated {
		return false, fmt.Sprintf("CONTRAINDICATED: %s", in.Description)
	}
	if in.AvoidCombination {
		return false, fmt.Sprintf("Should be avoided: %s", in.Description)
	}
	if in.SeparationHours > 0 {
		return false, fmt.Sprintf("Separate by %d hours: %s", in.SeparationHours, in.Description)
	}
	if in.Severity == SeverityMajor {
		return false, fmt.Sprintf("Major interaction - use caution: %s", in.Description)
	}
	return true, fmt.Sprintf("Can take together but monitor: %s", in.Description)
}
