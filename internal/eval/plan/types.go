package plan

// Plan describes one evaluation: where the data comes from, which recommenders and
// metrics to run and where to write the results. Unset evaluation fields fall back to
// the environment configuration.
type Plan struct {
	Source       Source     `yaml:"source"`
	Recommenders []string   `yaml:"recommenders"`
	Metrics      []string   `yaml:"metrics"`
	Evaluation   Evaluation `yaml:"evaluation"`
	Output       Output     `yaml:"output"`
}

type Source struct {
	Type       string `yaml:"type"`
	Connection string `yaml:"connection,omitempty"`
	Dir        string `yaml:"dir,omitempty"`
}

type Evaluation struct {
	KValues         []int    `yaml:"k_values"`
	Folds           *int     `yaml:"folds"`
	TrainingSetSize *float64 `yaml:"training_set_size"`
	Seed            *uint64  `yaml:"seed"`
	MinRating       *int     `yaml:"min_rating"`
	MaxRating       *int     `yaml:"max_rating"`
	Quantize        *bool    `yaml:"quantize"`
	Parallelism     *int     `yaml:"parallelism"`
}

type Output struct {
	JSON          string         `yaml:"json,omitempty"`
	FoldFile      string         `yaml:"fold_file,omitempty"`
	ReuseFolds    bool           `yaml:"reuse_folds"`
	Elasticsearch *Elasticsearch `yaml:"elasticsearch,omitempty"`
}

type Elasticsearch struct {
	Addresses []string `yaml:"addresses"`
	Index     string   `yaml:"index"`
	Username  string   `yaml:"username,omitempty"`
	Password  string   `yaml:"password,omitempty"`
}
