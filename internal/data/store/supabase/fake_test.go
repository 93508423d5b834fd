package supabase

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
)

// fakeRest is a small in-memory PostgREST: enough of the filter, order,
// upsert and count semantics for the store to be exercised end to end.
type fakeRest struct {
	mu     sync.Mutex
	tables map[string][]map[string]any
	nextID map[string]int64
	fail   map[string]int
	calls  []string
}

var serialTables = map[string]bool{
	tableChapters:       true,
	tableUserProgress:   true,
	tableConceptMastery: true,
}

var primaryKeys = map[string]string{
	tableBooks:          "id",
	tableChapters:       "id",
	tableQuestions:      "id",
	tableUserProgress:   "id",
	tableConceptMastery: "id",
}

func newFakeRest() *fakeRest {
	return &fakeRest{
		tables: map[string][]map[string]any{},
		nextID: map[string]int64{},
		fail:   map[string]int{},
	}
}

func newTestStore(t *testing.T, fake *fakeRest) *Store {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	s, err := New(Config{URL: srv.URL, ServiceKey: "service-key"}, testLogger(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func (f *fakeRest) rows(table string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]any, len(f.tables[table]))
	copy(out, f.tables[table])
	return out
}

func (f *fakeRest) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Header.Get("apikey") != "service-key" || r.Header.Get("Authorization") != "Bearer service-key" {
		writeErr(w, http.StatusUnauthorized, "PGRST301", "missing credentials")
		return
	}
	table := strings.TrimPrefix(r.URL.Path, restPath+"/")
	f.calls = append(f.calls, r.Method+" "+table)
	if status, ok := f.fail[table]; ok {
		writeErr(w, status, "42P01", fmt.Sprintf("relation %q does not exist", table))
		return
	}

	prefer := r.Header.Get("Prefer")
	query := r.URL.Query()

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		matched := f.filter(table, query)
		sortRows(matched, query.Get("order"))
		if strings.Contains(prefer, "count=exact") {
			w.Header().Set("Content-Range", fmt.Sprintf("*/%d", len(matched)))
		}
		writeJSON(w, http.StatusOK, matched)
	case http.MethodPost:
		incoming, err := decodeRows(r.Body)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "PGRST102", err.Error())
			return
		}
		conflict := query.Get("on_conflict")
		if conflict == "" {
			conflict = primaryKeys[table]
		}
		upsert := strings.Contains(prefer, "resolution=merge-duplicates")
		var stored []map[string]any
		for _, row := range incoming {
			stored = append(stored, f.store(table, row, strings.Split(conflict, ","), upsert))
		}
		if strings.Contains(prefer, "return=representation") {
			writeJSON(w, http.StatusCreated, stored)
			return
		}
		w.WriteHeader(http.StatusCreated)
	case http.MethodPatch:
		incoming, err := decodeRows(r.Body)
		if err != nil || len(incoming) != 1 {
			writeErr(w, http.StatusBadRequest, "PGRST102", "bad patch body")
			return
		}
		for _, row := range f.tables[table] {
			if matches(row, query) {
				for k, v := range incoming[0] {
					row[k] = v
				}
			}
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		kept := f.tables[table][:0]
		for _, row := range f.tables[table] {
			if !matches(row, query) {
				kept = append(kept, row)
			}
		}
		f.tables[table] = kept
		w.WriteHeader(http.StatusNoContent)
	default:
		writeErr(w, http.StatusMethodNotAllowed, "PGRST000", "unsupported method")
	}
}

func (f *fakeRest) store(table string, row map[string]any, conflict []string, upsert bool) map[string]any {
	if upsert {
		for _, existing := range f.tables[table] {
			same := true
			for _, col := range conflict {
				if fmt.Sprint(existing[col]) != fmt.Sprint(row[col]) {
					same = false
					break
				}
			}
			if same {
				for k, v := range row {
					if k == "id" && serialTables[table] {
						continue
					}
					existing[k] = v
				}
				return existing
			}
		}
	}
	if serialTables[table] {
		if _, ok := row["id"]; !ok {
			f.nextID[table]++
			row["id"] = float64(f.nextID[table])
		}
	}
	f.tables[table] = append(f.tables[table], row)
	return row
}

func (f *fakeRest) filter(table string, query map[string][]string) []map[string]any {
	out := []map[string]any{}
	for _, row := range f.tables[table] {
		if matches(row, query) {
			out = append(out, row)
		}
	}
	return out
}

var reservedParams = map[string]bool{"select": true, "order": true, "on_conflict": true, "limit": true, "offset": true}

func matches(row map[string]any, query map[string][]string) bool {
	for col, values := range query {
		if reservedParams[col] {
			continue
		}
		for _, v := range values {
			op, want, ok := strings.Cut(v, ".")
			if !ok {
				continue
			}
			got := fmt.Sprint(row[col])
			switch op {
			case "eq":
				if got != want {
					return false
				}
			case "neq":
				if got == want {
					return false
				}
			}
		}
	}
	return true
}

func sortRows(rows []map[string]any, order string) {
	if order == "" {
		return
	}
	terms := strings.Split(order, ",")
	sort.SliceStable(rows, func(i, j int) bool {
		for _, term := range terms {
			parts := strings.Split(term, ".")
			col := parts[0]
			desc := len(parts) > 1 && parts[1] == "desc"
			c := compare(rows[i][col], rows[j][col])
			if c == 0 {
				continue
			}
			if desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compare(a, b any) int {
	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func decodeRows(body io.Reader) ([]map[string]any, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	raw = []byte(strings.TrimSpace(string(raw)))
	if len(raw) > 0 && raw[0] == '[' {
		var rows []map[string]any
		err := json.Unmarshal(raw, &rows)
		return rows, err
	}
	var row map[string]any
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	return []map[string]any{row}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	if v == nil {
		v = []map[string]any{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"code": code, "message": msg})
}
