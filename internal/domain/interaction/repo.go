package interaction

// Repository is a read-only lookup of known pairwise drug interactions.
// Implementations must be immutable after construction; the checker and the
// scheduler share one instance across all requests without locking.
type Repository interface {
	// Lookup returns the interaction for an unordered drug pair, or nil when
	// nothing is known about the pair.
	Lookup(drugA, drugB string) *DrugInteraction
	// All returns every known interaction, in no particular order.
	All() []DrugInteraction
}

type staticRepository struct {
	byPair map[string]DrugInteraction
}

// NewStaticRepository builds a repository from a fixed interaction list,
// typically the built-in reference table.
func NewStaticRepository(interactions []DrugInteraction) Repository {
	byPair := make(map[string]DrugInteraction, len(interactions))
	for _, in := range interactions {
		byPair[PairKey(in.DrugA, in.DrugB)] = in
	}
	return &staticRepository{byPair: byPair}
}

func (r *staticRepository) Lookup(drugA, drugB string) *DrugInteraction {
	if in, ok := r.byPair[PairKey(drugA, drugB)]; ok {
		cp := in
		return &cp
	}
	return nil
}

func (r *staticRepository) All() []DrugInteraction {
	out := make([]DrugInteraction, 0, len(r.byPair))
	for _, in := range r.byPair {
		out = append(out, in)
	}
	return out
}
