package lifecycle

// LabelTable maps a categorical label from the service to its display label.
type LabelTable map[string]string

// DefaultLabels returns the built-in pt-BR display labels.
func DefaultLabels() LabelTable {
	return LabelTable{
		"positive":    "positivo",
		"negative":    "negativo",
		"litigious":   "litigioso",
		"uncertainty": "incerto",
	}
}

// Display returns the display label for label. Labels outside the table pass
// through unchanged.
func (t LabelTable) Display(label string) string {
	if v, ok := t[label]; ok {
		return v
	}
	return label
}

// With returns a copy of t with overrides applied. Empty values are skipped.
func (t LabelTable) With(overrides map[string]string) LabelTable {
	out := make(LabelTable, len(t)+len(overrides))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range overrides {
		if v != "" {
			out[k] = v
		}
	}
	return out
}
