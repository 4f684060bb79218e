package catalog

// Jurisdiction is a (code, display name) pair from the reference table.
type Jurisdiction struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// Jurisdictions is the loaded reference table in source order.
type Jurisdictions struct {
	Items []Jurisdiction
}

func (j *Jurisdictions) Len() int {
	return len(j.Items)
}

// Names returns a code to display-name map.
func (j *Jurisdictions) Names() map[string]string {
	names := make(map[string]string, len(j.Items))
	for _, item := range j.Items {
		names[item.Code] = item.Name
	}
	return names
}
