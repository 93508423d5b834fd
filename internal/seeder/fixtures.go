package seeder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	apperr "github.com/CazadorHJT/MCAT-Prep-App/internal/pkg/errors"
)

// chapterFixture mirrors chapter-<n>.json. The pointer fields are required keys.
type chapterFixture struct {
	Chapter      *int               `json:"chapter"`
	ChapterTitle *string            `json:"chapter_title"`
	Questions    *[]questionFixture `json:"questions"`
}

type questionFixture struct {
	ID            string   `json:"id"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	ConceptTags   []string `json:"concept_tags"`
	Difficulty    string   `json:"difficulty"`
}

var chapterFileRe = regexp.MustCompile(`^chapter-(\d+)`)

// chapterFiles lists chapter-*.json in dir, skipping example files, ordered by chapter number.
func chapterFiles(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "chapter-*.json"))
	if err != nil {
		return nil, err
	}
	type numbered struct {
		path string
		n    int
	}
	files := make([]numbered, 0, len(matches))
	for _, m := range matches {
		name := filepath.Base(m)
		if strings.Contains(name, "example") {
			continue
		}
		n := -1
		if sm := chapterFileRe.FindStringSubmatch(name); sm != nil {
			n, _ = strconv.Atoi(sm[1])
		}
		files = append(files, numbered{path: m, n: n})
	}
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].n != files[j].n {
			return files[i].n < files[j].n
		}
		return files[i].path < files[j].path
	})
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.path)
	}
	return out, nil
}

func loadChapterFixture(path string) (*chapterFixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fx chapterFixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %v: %w", path, err, apperr.ErrParse)
	}
	var missing []string
	if fx.Chapter == nil {
		missing = append(missing, "chapter")
	}
	if fx.ChapterTitle == nil {
		missing = append(missing, "chapter_title")
	}
	if fx.Questions == nil {
		missing = append(missing, "questions")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: missing %s: %w", path, strings.Join(missing, ", "), apperr.ErrParse)
	}
	return &fx, nil
}
