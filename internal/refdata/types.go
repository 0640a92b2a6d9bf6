// Package refdata loads the four declarative reference configuration
// files of §6 and upserts their rows into the store, populating the
// in-memory refcache as it goes. It is the reference loader of §4.2.
package refdata

// LanguageEntry is one row of the languages config: mapping
// `environment -> {iso_code -> {language_name_en, language_qid}}`.
type LanguageEntry struct {
	NameEN string `yaml:"language_name_en"`
	QID    string `yaml:"language_qid"`
}

// LanguagesConfig is the top-level shape of the languages YAML file.
type LanguagesConfig map[string]map[string]LanguageEntry

// LexicalCategoriesConfig maps a POS tag to its reference QID integer.
type LexicalCategoriesConfig map[string]uint32

// EntityTypeLabelsConfig maps a NER label to its human description.
type EntityTypeLabelsConfig map[string]string

// DatasetEntry is one row of the datasets config.
type DatasetEntry struct {
	QID           string `yaml:"qid"`
	Workdirectory string `yaml:"workdirectory"`
	Collection    string `yaml:"collection,omitempty"`
}

// DatasetsConfig maps a dataset title to its entry.
type DatasetsConfig map[string]DatasetEntry
