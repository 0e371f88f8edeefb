// internal/adapters/output/json_test.go
package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"arlo/internal/core/domain"
	"arlo/internal/testutil"
)

func resultWith(payload string) *domain.SearchResult {
	return &domain.SearchResult{ID: "run-1", Keyword: "alien", Payload: []byte(payload)}
}

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected string
	}{
		{"array", `[{"imdbId":"tt1"}]`, "[{\"imdbId\":\"tt1\"}]\n"},
		{"empty array", `[]`, "[]\n"},
		{"nil payload", ``, "[]\n"},
		{"already terminated", "[]\n", "[]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := WriteJSON(&buf, []byte(tt.payload))
			testutil.AssertNoError(t, err, "write")
			testutil.AssertEqual(t, buf.String(), tt.expected, "output")
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestWriteJSON_WriterError(t *testing.T) {
	err := WriteJSON(failingWriter{}, []byte(`[]`))

	testutil.AssertError(t, err, "write error surfaces")
	testutil.AssertContains(t, err.Error(), "broken pipe", "cause kept")
}

func TestOutputJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "alien.json")

	err := OutputJSON(path, resultWith(`[{"imdbId":"tt0078748","title":"Alien"}]`))
	testutil.AssertNoError(t, err, "output")

	data, err := os.ReadFile(path)
	testutil.AssertNoError(t, err, "read back")

	var records []map[string]any
	testutil.AssertNoError(t, json.Unmarshal(data, &records), "valid JSON")
	testutil.AssertLen(t, records, 1, "one record")
	testutil.AssertEqual(t, records[0]["title"], "Alien", "title")

	entries, _ := os.ReadDir(filepath.Dir(path))
	testutil.AssertLen(t, entries, 1, "no temp files left behind")
}

func TestOutputJSON_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	testutil.AssertNoError(t, OutputJSON(path, resultWith(`[{"imdbId":"tt1"}]`)), "first write")
	testutil.AssertNoError(t, OutputJSON(path, resultWith(`[]`)), "second write")

	data, _ := os.ReadFile(path)
	testutil.AssertEqual(t, string(data), "[]\n", "replaced")
}

func TestOutputJSON_InvalidDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	testutil.AssertNoError(t, os.WriteFile(blocker, []byte("x"), 0o600), "setup")

	err := OutputJSON(filepath.Join(blocker, "out.json"), resultWith(`[]`))

	testutil.AssertError(t, err, "parent is a regular file")
}
