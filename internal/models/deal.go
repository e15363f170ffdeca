package models

// Deal represents a single pipeline entity on the stage board.
// Attributes carry the display and filterable fields (name, company,
// value, priority, ...); the pipeline engine itself only interprets
// ID and Stage.
type Deal struct {
	ID         string         `json:"id"`
	Stage      string         `json:"stage"`
	Attributes map[string]any `json:"attributes"`
}

// Attr returns the string form of an attribute, or "" if absent.
func (d Deal) Attr(field string) string {
	v, ok := d.Attributes[field]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return stringify(v)
}

// Clone returns a deep copy of the deal. The attribute map is copied
// one level deep, which is enough for the flat attribute shape the
// backend returns.
func (d Deal) Clone() Deal {
	out := d
	if d.Attributes != nil {
		out.Attributes = make(map[string]any, len(d.Attributes))
		for k, v := range d.Attributes {
			out.Attributes[k] = v
		}
	}
	return out
}
