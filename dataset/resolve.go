package dataset

// Resolver maps column ids to display names and to the keys present in
// materialized rows.
type Resolver struct {
	names map[string]string
	ids   map[string]string
}

// NewResolver maps the ids of headers to the keys of their columns in
// materialized rows. A name shared by several headers gets the same suffix
// as in ArrayToPoints.
func NewResolver(headers []Header) Resolver {
	r := Resolver{
		names: make(map[string]string, len(headers)),
		ids:   make(map[string]string, len(headers)),
	}
	keys := columnKeys(headers)
	for i, h := range headers {
		r.names[h.ID] = keys[i]
		r.ids[keys[i]] = h.ID
	}
	return r
}

// Resolve is a shortcut for NewResolver(ds.Headers). A nil dataset gives a
// resolver that maps every id to itself.
func Resolve(ds *Dataset) Resolver {
	if ds == nil {
		return NewResolver(nil)
	}
	return NewResolver(ds.Headers)
}

// Name returns the display name of id or id itself when no header matches.
func (r Resolver) Name(id string) string {
	if n, ok := r.names[id]; ok {
		return n
	}
	return id
}

// ID returns the id of the column whose display name is name or name itself
// when no header matches.
func (r Resolver) ID(name string) string {
	if id, ok := r.ids[name]; ok {
		return id
	}
	return name
}

// DataKey returns the key to use to read the column id from sample: the
// display name when it is a key of sample, else the id when it is a key,
// else the display name.
func (r Resolver) DataKey(id string, sample Point) string {
	name := r.Name(id)
	if sample.Has(name) {
		return name
	}
	if sample.Has(id) {
		return id
	}
	return name
}

// Names applies Name to every id.
func (r Resolver) Names(ids []string) []string {
	return mapKeys(ids, r.Name)
}

// IDs applies ID to every name.
func (r Resolver) IDs(names []string) []string {
	return mapKeys(names, r.ID)
}

func mapKeys(list []string, fn func(string) string) []string {
	if list == nil {
		return nil
	}
	out := make([]string, len(list))
	for i := range list {
		out[i] = fn(list[i])
	}
	return out
}
