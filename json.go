package docview

import (
	"encoding/json"
	"fmt"
)

type propertyJSON struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Multi     bool     `json:"multi"`
	Reference bool     `json:"reference,omitempty"`
	Values    []string `json:"values"`
}

// MarshalJSON encodes the structured form of p, not its docview string.
func (p *Property) MarshalJSON() ([]byte, error) {
	return json.Marshal(propertyJSON{
		Name:      p.name,
		Type:      p.typ.String(),
		Multi:     p.multi,
		Reference: p.ref,
		Values:    p.Values(),
	})
}

// UnmarshalJSON decodes the form written by MarshalJSON. An empty type
// means String.
func (p *Property) UnmarshalJSON(data []byte) error {
	var pj propertyJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return err
	}
	typ := TypeString
	if pj.Type != "" {
		t, err := TypeFromName(pj.Type)
		if err != nil {
			return err
		}
		typ = t
	}
	np, err := NewProperty(pj.Name, pj.Values, pj.Multi, typ, pj.Reference)
	if err != nil {
		return fmt.Errorf("property %q: %w", pj.Name, err)
	}
	*p = *np
	return nil
}
