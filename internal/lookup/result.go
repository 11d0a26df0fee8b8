package lookup

// DefaultIcon is substituted for results that arrive without an icon.
const DefaultIcon = "custom:custom5"

// Result is one candidate produced by a Provider. Only ID and Title are
// interpreted by the machine; everything else is carried for the host.
type Result struct {
	ID       string
	Title    string
	Subtitle string
	Icon     string
	ParentID string            // Owning record (e.g. the team a contact belongs to)
	Fields   map[string]string // Opaque provider data
}

func (r Result) clone() Result {
	if r.Fields != nil {
		fields := make(map[string]string, len(r.Fields))
		for k, v := range r.Fields {
			fields[k] = v
		}
		r.Fields = fields
	}
	return r
}

// withDefaultIcons copies results, filling in missing icons.
func withDefaultIcons(results []Result, icon string) []Result {
	if icon == "" {
		icon = DefaultIcon
	}
	out := make([]Result, len(results))
	for i, r := range results {
		r = r.clone()
		if r.Icon == "" {
			r.Icon = icon
		}
		out[i] = r
	}
	return out
}

func findResult(results []Result, id string) (Result, bool) {
	for _, r := range results {
		if r.ID == id {
			return r, true
		}
	}
	return Result{}, false
}
