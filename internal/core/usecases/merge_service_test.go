// internal/core/usecases/merge_service_test.go
package usecases

import (
	"encoding/json"
	"testing"

	"arlo/internal/core/domain"
	"arlo/internal/testutil"
)

func ok(source, payload string) domain.FetchOutcome {
	return domain.Succeeded(source, []byte(payload), 0)
}

func failed(source string) domain.FetchOutcome {
	return domain.Failed(source, "unable to open connection: refused", 0)
}

func mergeToString(t *testing.T, m *MergeService, outcomes []domain.FetchOutcome) string {
	t.Helper()
	set, _ := m.Merge(outcomes)
	data, err := m.Serialize(set, false)
	testutil.AssertNoError(t, err, "serialize")
	return string(data)
}

func TestMergeService_ThreeSourceScenario(t *testing.T) {
	merger := NewMergeService(nil, "")
	outcomes := []domain.FetchOutcome{
		ok("A", `[{"imdbId":"tt2"},{"imdbId":"tt1"}]`),
		failed("B"),
		ok("C", `[{"imdbId":"tt1","title":"dup"},{"imdbId":"tt3"}]`),
	}

	got := mergeToString(t, merger, outcomes)

	testutil.AssertEqual(t, got, `[{"imdbId":"tt1"},{"imdbId":"tt2"},{"imdbId":"tt3"}]`,
		"tt1 must come from A, which precedes C")
}

func TestMergeService_FirstSeenWinsWithinSource(t *testing.T) {
	merger := NewMergeService(nil, "")
	outcomes := []domain.FetchOutcome{
		ok("A", `[{"imdbId":"tt0000123","title":"first"},{"imdbId":"tt0000123","title":"second"}]`),
		ok("B", `[{"imdbId":"tt0000123","title":"third"}]`),
	}

	set, stats := merger.Merge(outcomes)

	rec, found := set.Get("tt0000123")
	testutil.AssertTrue(t, found, "record present")
	testutil.AssertEqual(t, string(rec.Fields["title"]), `"first"`, "first occurrence retained")
	testutil.AssertEqual(t, set.Len(), 1, "exactly one record")
	testutil.AssertEqual(t, stats.Duplicates, 2, "duplicates discarded")
}

func TestMergeService_DuplicatesAreNotMergedFieldByField(t *testing.T) {
	merger := NewMergeService(nil, "")
	outcomes := []domain.FetchOutcome{
		ok("A", `[{"imdbId":"tt1","title":"Alien"}]`),
		ok("B", `[{"imdbId":"tt1","plot":"In space..."}]`),
	}

	got := mergeToString(t, merger, outcomes)

	testutil.AssertEqual(t, got, `[{"imdbId":"tt1","title":"Alien"}]`, "later duplicate dropped entirely")
}

func TestMergeService_AllSourcesFailed(t *testing.T) {
	merger := NewMergeService(nil, "")

	got := mergeToString(t, merger, []domain.FetchOutcome{failed("A"), failed("B"), failed("C")})

	testutil.AssertEqual(t, got, "[]", "empty array, never null")
}

func TestMergeService_SkipsNonObjects(t *testing.T) {
	merger := NewMergeService(nil, "")
	outcomes := []domain.FetchOutcome{
		ok("A", `["a string", 42, null, true, [1,2], {"imdbId":"tt7","title":"Valid"}]`),
	}

	set, stats := merger.Merge(outcomes)

	testutil.AssertEqual(t, set.Len(), 1, "only the object is kept")
	testutil.AssertEqual(t, stats.NonObjects, 5, "non-object entries counted")
}

func TestMergeService_InvalidIdentifiers(t *testing.T) {
	merger := NewMergeService(nil, "")
	outcomes := []domain.FetchOutcome{
		ok("A", `[
			{"title":"no id"},
			{"imdbId":"","title":"empty id"},
			{"imdbId":123,"title":"numeric id"},
			{"imdbId":null,"title":"null id"},
			{"imdbId":["tt1"],"title":"array id"},
			{"imdbId":{"v":"tt1"},"title":"object id"},
			{"imdbId":"tt5","title":"valid"}
		]`),
	}

	set, stats := merger.Merge(outcomes)
	got, _ := merger.Serialize(set, false)

	testutil.AssertEqual(t, string(got), `[{"imdbId":"tt5","title":"valid"}]`, "only valid identifier kept")
	testutil.AssertEqual(t, stats.MissingID, 6, "invalid identifiers counted")
}

func TestMergeService_MalformedPayloadSkipsOnlyThatSource(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"truncated", `[{"imdbId":"tt1"`},
		{"html error page", `<html><body>502 Bad Gateway</body></html>`},
		{"object instead of array", `{"imdbId":"tt1"}`},
		{"empty body", ``},
		{"trailing garbage", `[{"imdbId":"tt1"}] extra`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merger := NewMergeService(nil, "")
			outcomes := []domain.FetchOutcome{
				ok("bad", tt.payload),
				ok("good", `[{"imdbId":"tt2"}]`),
			}

			set, stats := merger.Merge(outcomes)

			testutil.AssertEqual(t, set.Len(), 1, "good source still contributes")
			testutil.AssertEqual(t, stats.PayloadsInvalid, 1, "one invalid payload")
			_, found := set.Get("tt2")
			testutil.AssertTrue(t, found, "tt2 from good source")
		})
	}
}

func TestMergeService_NullPayloadContributesNothing(t *testing.T) {
	merger := NewMergeService(nil, "")

	set, stats := merger.Merge([]domain.FetchOutcome{ok("A", `null`)})

	testutil.AssertEqual(t, set.Len(), 0, "no records")
	testutil.AssertEqual(t, stats.PayloadsInvalid, 0, "null decodes to an empty sequence")
}

func TestMergeService_OutputSortedRegardlessOfInputOrder(t *testing.T) {
	merger := NewMergeService(nil, "")

	a := mergeToString(t, merger, []domain.FetchOutcome{
		ok("A", `[{"imdbId":"tt3"},{"imdbId":"tt1"}]`),
		ok("B", `[{"imdbId":"tt2"}]`),
	})
	b := mergeToString(t, merger, []domain.FetchOutcome{
		ok("A", `[{"imdbId":"tt1"},{"imdbId":"tt3"}]`),
		ok("B", `[{"imdbId":"tt2"}]`),
	})

	testutil.AssertEqual(t, a, `[{"imdbId":"tt1"},{"imdbId":"tt2"},{"imdbId":"tt3"}]`, "sorted output")
	testutil.AssertEqual(t, a, b, "order independent of arrival order")
}

func TestMergeService_Idempotent(t *testing.T) {
	merger := NewMergeService(nil, "")
	outcomes := []domain.FetchOutcome{
		ok("A", `[{"imdbId":"tt2","year":1986,"banners":["a.jpg"]},{"imdbId":"tt1","title":"Alien"}]`),
		failed("B"),
		ok("C", `[{"imdbId":"tt1","title":"dup"},{"imdbId":"tt3","rating":7.5}]`),
	}

	first := mergeToString(t, merger, outcomes)
	second := mergeToString(t, merger, outcomes)

	testutil.AssertEqual(t, first, second, "merging twice yields identical bytes")
}

func TestMergeService_ReserializesStructurally(t *testing.T) {
	merger := NewMergeService(nil, "")
	payload := `[ { "title" : "Aliens & Co <3>",  "imdbId" : "tt0090605", "year" : 1986 } ]`

	got := mergeToString(t, merger, []domain.FetchOutcome{ok("A", payload)})

	testutil.AssertEqual(t, got, `[{"imdbId":"tt0090605","title":"Aliens & Co <3>","year":1986}]`,
		"compact output without HTML escaping")
}

func TestMergeService_CustomIDField(t *testing.T) {
	merger := NewMergeService(nil, "tvdbId")

	set, _ := merger.Merge([]domain.FetchOutcome{
		ok("A", `[{"tvdbId":"81189","imdbId":"tt0903747"},{"imdbId":"tt1"}]`),
	})

	testutil.AssertEqual(t, merger.IDField(), "tvdbId", "id field")
	testutil.AssertEqual(t, set.Len(), 1, "only records with tvdbId")
	_, found := set.Get("81189")
	testutil.AssertTrue(t, found, "keyed by tvdbId")
}

func TestMergeService_SerializePretty(t *testing.T) {
	merger := NewMergeService(nil, "")
	set, _ := merger.Merge([]domain.FetchOutcome{ok("A", `[{"imdbId":"tt1"}]`)})

	data, err := merger.Serialize(set, true)

	testutil.AssertNoError(t, err, "serialize")
	testutil.AssertEqual(t, string(data), "[\n  {\n    \"imdbId\": \"tt1\"\n  }\n]", "indented output")

	var decoded []map[string]any
	testutil.AssertNoError(t, json.Unmarshal(data, &decoded), "pretty output is valid JSON")
}

func TestMergeService_SerializeNilSet(t *testing.T) {
	data, err := NewMergeService(nil, "").Serialize(nil, false)

	testutil.AssertNoError(t, err, "serialize nil set")
	testutil.AssertEqual(t, string(data), "[]", "empty array")
}
