package discovery

// Deduper is the per-run identity set of provider place IDs. A place is
// processed at most once per run no matter how many overlapping queries
// surface it. Cross-run deduplication is structural: records are keyed by
// slug and overwritten.
type Deduper struct {
	seen map[string]struct{}
}

// NewDeduper creates an empty identity set.
func NewDeduper() *Deduper {
	return &Deduper{seen: make(map[string]struct{})}
}

// Seen reports whether the id was already processed this run.
func (d *Deduper) Seen(id string) bool {
	_, ok := d.seen[id]
	return ok
}

// Mark records the id as processed.
func (d *Deduper) Mark(id string) {
	d.seen[id] = struct{}{}
}

// Len returns the number of unique ids seen.
func (d *Deduper) Len() int {
	return len(d.seen)
}
