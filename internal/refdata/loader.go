package refdata

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dpriskorn/riksdagen-sentences/internal/pipeline"
	"github.com/dpriskorn/riksdagen-sentences/internal/refcache"
	"github.com/dpriskorn/riksdagen-sentences/internal/store"
)

// Paths names the four config files of §6.
type Paths struct {
	Languages         string
	LexicalCategories string
	EntityTypeLabels  string
	Datasets          string
}

// Dataset is a hydrated dataset ready for the dataset walker of §4.6.
type Dataset struct {
	ID            int64
	Title         string
	Workdirectory string
}

// Loader is the reference loader of §4.2: a one-shot initialiser that
// populates the static reference tables from declarative configuration.
// It is idempotent — safe to run against an already-populated store.
type Loader struct {
	store *store.Store
	cache *refcache.Cache
}

// New constructs a reference loader over the given store and cache.
func New(s *store.Store, c *refcache.Cache) *Loader {
	return &Loader{store: s, cache: c}
}

// Load reads all four config files and upserts their rows, returning
// the hydrated dataset list for the orchestrator to iterate (§4.7).
// A missing or malformed config file is a FatalConfig error (§7): it
// aborts the process at startup.
func (l *Loader) Load(paths Paths) ([]Dataset, error) {
	if err := l.loadLanguages(paths.Languages); err != nil {
		return nil, err
	}
	if err := l.loadLexicalCategories(paths.LexicalCategories); err != nil {
		return nil, err
	}
	if err := l.loadEntityTypeLabels(paths.EntityTypeLabels); err != nil {
		return nil, err
	}
	datasets, err := l.loadDatasets(paths.Datasets)
	if err != nil {
		return nil, err
	}
	return datasets, nil
}

func (l *Loader) loadLanguages(path string) error {
	var cfg LanguagesConfig
	if err := readYAML(path, &cfg); err != nil {
		return err
	}
	for _, byISO := range cfg {
		for iso, entry := range byISO {
			qid, err := store.QID(entry.QID)
			if err != nil {
				return pipeline.FatalConfigf("refdata: language %q: %w", iso, err)
			}
			id, err := l.store.UpsertLanguage(entry.NameEN, iso, qid)
			if err != nil {
				return pipeline.FatalConfigf("refdata: upsert language %q: %w", iso, err)
			}
			l.cache.PutLanguage(iso, id)
		}
	}
	return nil
}

func (l *Loader) loadLexicalCategories(path string) error {
	var cfg LexicalCategoriesConfig
	if err := readYAML(path, &cfg); err != nil {
		return err
	}
	for posTag, qid := range cfg {
		id, err := l.store.UpsertLexicalCategory(posTag, qid)
		if err != nil {
			return pipeline.FatalConfigf("refdata: upsert lexical category %q: %w", posTag, err)
		}
		l.cache.PutLexicalCategory(posTag, qid, id)
	}
	return nil
}

func (l *Loader) loadEntityTypeLabels(path string) error {
	var cfg EntityTypeLabelsConfig
	if err := readYAML(path, &cfg); err != nil {
		return err
	}
	for label, description := range cfg {
		id, err := l.store.UpsertEntityTypeLabel(label, description)
		if err != nil {
			return pipeline.FatalConfigf("refdata: upsert entity type label %q: %w", label, err)
		}
		l.cache.PutEntityTypeLabel(label, id)
	}
	return nil
}

func (l *Loader) loadDatasets(path string) ([]Dataset, error) {
	var cfg DatasetsConfig
	if err := readYAML(path, &cfg); err != nil {
		return nil, err
	}
	out := make([]Dataset, 0, len(cfg))
	for title, entry := range cfg {
		qid, err := store.QID(entry.QID)
		if err != nil {
			return nil, pipeline.FatalConfigf("refdata: dataset %q: %w", title, err)
		}
		var collection *uint32
		if entry.Collection != "" {
			c, err := store.QID(entry.Collection)
			if err != nil {
				return nil, pipeline.FatalConfigf("refdata: dataset %q collection: %w", title, err)
			}
			collection = &c
		}
		id, err := l.store.UpsertDataset(title, entry.Workdirectory, qid, collection)
		if err != nil {
			return nil, pipeline.FatalConfigf("refdata: upsert dataset %q: %w", title, err)
		}
		out = append(out, Dataset{ID: id, Title: title, Workdirectory: entry.Workdirectory})
	}
	return out, nil
}

func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.FatalConfigf("refdata: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return pipeline.FatalConfigf("refdata: parse %q: %w", path, err)
	}
	return nil
}
