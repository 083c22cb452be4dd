package interaction

import (
	"fmt"
	"strings"
)

// Severity classifies how dangerous a drug-drug interaction is. The set is
// closed; consumers switch exhaustively on it so a new level cannot be added
// without updating every decision path.
type Severity string

const (
	SeverityContraindicated Severity = "contraindicated"
	SeverityMajor           Severity = "major"
	SeverityModerate        Severity = "moderate"
	SeverityMinor           Severity = "minor"
	SeverityUnknown         Severity = "unknown"
)

// Rank orders severities for sorting, most dangerous first.
func (s Severity) Rank() int {
	switch s {
	case SeverityContraindicated:
		return 0
	case SeverityMajor:
		return 1
	case SeverityModerate:
		return 2
	case SeverityMinor:
		return 3
	case SeverityUnknown:
		return 4
	}
	return 5
}

// ParseSeverity validates a severity string coming from storage or the API.
func ParseSeverity(s string) (Severity, error) {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityContraindicated:
		return SeverityContraindicated, nil
	case SeverityMajor:
		return SeverityMajor, nil
	case SeverityModerate:
		return SeverityModerate, nil
	case SeverityMinor:
		return SeverityMinor, nil
	case SeverityUnknown:
		return SeverityUnknown, nil
	}
	return "", fmt.Errorf("invalid severity: %q", s)
}

// DrugInteraction describes a known pairwise interaction. Values are loaded
// once at startup and never mutated afterwards, so they are safe to share
// across concurrent requests.
type DrugInteraction struct {
	DrugA              string   `json:"drug_a"`
	DrugB              string   `json:"drug_b"`
	Severity           Severity `json:"severity"`
	Description        string   `json:"description"`
	Mechanism          *string  `json:"mechanism,omitempty"`
	Management         *string  `json:"management,omitempty"`
	SeparationHours    int      `json:"separation_hours"`
	MonitoringRequired bool     `json:"monitoring_required"`
	AvoidCombination   bool     `json:"avoid_combination"`
}

// NormalizeDrugName lowercases a drug name and strips spaces and hyphens so
// "Levo-Thyroxine" and "levothyroxine" hit the same record.
func NormalizeDrugName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "-", "")
	n = strings.ReplaceAll(n, " ", "")
	return n
}

// PairKey builds the canonical unordered-pair key for two drug names.
func PairKey(a, b string) string {
	na, nb := NormalizeDrugName(a), NormalizeDrugName(b)
	if na > nb {
		na, nb = nb, na
	}
	return na + "|" + nb
}

// Summary aggregates the interactions found across a medication list.
type Summary struct {
	TotalInteractions int               `json:"total_interactions"`
	BySeverity        map[Severity]int  `json:"by_severity"`
	Interactions      []DrugInteraction `json:"interactions"`
	Recommendations   []string          `json:"recommendations"`
	RequiresAction    bool              `json:"requires_action"`
}
