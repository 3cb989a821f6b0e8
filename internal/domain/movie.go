package domain

// Property is a weighted categorical attribute of a movie, e.g. a genre or a director.
type Property struct {
	Kind   string  `json:"kind" yaml:"kind"`
	Value  string  `json:"value" yaml:"value"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// Key identifies the property independently of its weight.
func (p Property) Key() string {
	return p.Kind + ":" + p.Value
}

type Movie struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Properties []Property `json:"properties,omitempty"`
}

func NewMovie(id int64, title string, props ...Property) Movie {
	m := Movie{ID: id, Title: title}
	if len(props) > 0 {
		m.Properties = make([]Property, len(props))
		copy(m.Properties, props)
	}
	return m
}

// Catalog maps movie ID to movie.
type Catalog map[int64]Movie
