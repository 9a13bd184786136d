package skyview

import (
	"encoding/json"
)

// docSource is one entry in the rendered configuration's urls array.
type docSource struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// renderConfig produces the JSON document served at the reserved
// configuration endpoint. Registered specs become the urls array in
// selector order; display options pass through verbatim. Map keys are
// sorted by the encoder, so the same inputs always yield the same bytes.
func renderConfig(basePath string, specs []Spec, uiOptions map[string]any) ([]byte, error) {
	doc := make(map[string]any, len(uiOptions)+1)
	for k, v := range uiOptions {
		doc[k] = v
	}
	if len(specs) > 0 {
		sources := make([]docSource, 0, len(specs))
		for _, s := range specs {
			sources = append(sources, docSource{
				URL:  s.href(basePath),
				Name: s.Name,
			})
		}
		// A urls key smuggled in through WithUIOption would be shadowed
		// here; registered specs are the single source of truth.
		doc["urls"] = sources
	}
	return json.Marshal(doc)
}
