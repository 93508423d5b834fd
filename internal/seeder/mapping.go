package seeder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperr "github.com/CazadorHJT/MCAT-Prep-App/internal/pkg/errors"
)

// BookEntry is one line of the book mapping file.
type BookEntry struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type mappingFile struct {
	Books []BookEntry `json:"books" yaml:"books"`
}

// LoadMapping reads {"books":[{"id","name"}]} from a JSON file, or the same
// shape from YAML when the extension is .yaml or .yml.
func LoadMapping(path string) ([]BookEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("book mapping %s: %w", path, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("book mapping %s: %w", path, err)
	}
	var mf mappingFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &mf)
	default:
		err = json.Unmarshal(raw, &mf)
	}
	if err != nil {
		return nil, fmt.Errorf("book mapping %s: %v: %w", path, err, apperr.ErrParse)
	}
	return mf.Books, nil
}
