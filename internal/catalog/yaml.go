package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/avosdroits/avosdroits-backend/internal/domain/catalog"
)

type seedFile struct {
	Questions []catalog.Question `yaml:"questions"`
}

// LoadSeedFile reads a YAML question definition file. The file replaces the
// builtin set wholesale; it is not merged with it.
func LoadSeedFile(path string) ([]catalog.Question, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog seed %s: %w", path, err)
	}
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog seed %s: %w", path, err)
	}
	if len(f.Questions) == 0 {
		return nil, fmt.Errorf("catalog seed %s defines no questions", path)
	}
	return f.Questions, nil
}

// SeedQuestions resolves the startup question set: the file named by
// CATALOG_SEED_PATH when set, the builtin definition otherwise.
func SeedQuestions() ([]catalog.Question, error) {
	if path := os.Getenv("CATALOG_SEED_PATH"); path != "" {
		return LoadSeedFile(path)
	}
	return BuiltinQuestions(), nil
}
