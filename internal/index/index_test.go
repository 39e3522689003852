package index

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/martyrology/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.IndexConfig{
		IndexDir:   filepath.Join(t.TempDir(), "index"),
		MaxResults: 20,
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testDays() []types.Day {
	return []types.Day{
		{
			Path:           "martyrology/mart01/mart0101.htm",
			Heading:        "Kalendis Ianuarii",
			PrefaceLatin:   "Kaléndis Ianuárii.",
			PrefaceEnglish: "January 1st.",
			LetterGrids:    []types.LetterGrid{{{"a", "b"}, {"c", "d"}}},
			Pairs: []types.Pair{
				{Latin: "Circumcísio Dómini.", English: "The Circumcision of our Lord."},
				{Latin: "Romæ sancti Almáchii.", English: "At Rome, St. Almachius."},
			},
		},
		{
			Path:    "martyrology/mart02/mart0201.htm",
			Heading: "Kalendis Februarii",
			Pairs: []types.Pair{
				{Latin: "Sancti Ignátii.", English: "St. Ignatius, 50\\% of the time."},
			},
		},
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "index")
	store, err := NewStore(types.IndexConfig{IndexDir: dir})
	require.NoError(t, err)
	defer store.Close()

	assert.FileExists(t, filepath.Join(dir, dbFile))
	assert.Equal(t, types.DefaultMaxResults, store.maxResults)
}

func TestIngest_NewDays(t *testing.T) {
	store := testStore(t)
	var out bytes.Buffer

	summary, err := store.Ingest(context.Background(), testDays(), &out)
	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Indexed: 2}, summary)
	assert.Equal(t, 2, summary.Total())
	assert.Contains(t, out.String(), "indexed  martyrology/mart01/mart0101.htm (2 pairs)")
	assert.Contains(t, out.String(), "indexed: 2, updated: 0, skipped: 0, removed: 0")

	var month int
	require.NoError(t, store.db.QueryRow(
		`SELECT month FROM days WHERE path = ?`, "martyrology/mart02/mart0201.htm",
	).Scan(&month))
	assert.Equal(t, 2, month)
}

func TestIngest_SkipsUnchanged(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	var out bytes.Buffer

	_, err := store.Ingest(ctx, testDays(), &out)
	require.NoError(t, err)

	out.Reset()
	summary, err := store.Ingest(ctx, testDays(), &out)
	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Skipped: 2}, summary)
	assert.Contains(t, out.String(), "skipped  martyrology/mart02/mart0201.htm")
}

func TestIngest_UpdatesChanged(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	var out bytes.Buffer

	_, err := store.Ingest(ctx, testDays(), &out)
	require.NoError(t, err)

	days := testDays()
	days[0].Pairs = days[0].Pairs[:1]
	summary, err := store.Ingest(ctx, days, &out)
	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Updated: 1, Skipped: 1}, summary)

	var count int
	require.NoError(t, store.db.QueryRow(
		`SELECT COUNT(*) FROM pairs WHERE day_path = ?`, days[0].Path,
	).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestIngest_RemovesDeletedPages(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	var out bytes.Buffer

	_, err := store.Ingest(ctx, testDays(), &out)
	require.NoError(t, err)

	out.Reset()
	summary, err := store.Ingest(ctx, testDays()[:1], &out)
	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Skipped: 1, Removed: 1}, summary)
	assert.Equal(t, 1, summary.Total())
	assert.Contains(t, out.String(), "removed  martyrology/mart02/mart0201.htm")
	assert.Contains(t, out.String(), "indexed: 0, updated: 0, skipped: 1, removed: 1")

	var pairs int
	require.NoError(t, store.db.QueryRow(
		`SELECT COUNT(*) FROM pairs WHERE day_path = ?`, "martyrology/mart02/mart0201.htm",
	).Scan(&pairs))
	assert.Zero(t, pairs)

	results, err := store.Search(ctx, QueryOptions{Query: "Ignatius"})
	require.NoError(t, err)
	assert.Empty(t, results)

	days, err := store.Days(ctx, 0)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, "martyrology/mart01/mart0101.htm", days[0].Path)
}

func TestIngest_CancelledContext(t *testing.T) {
	store := testStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := store.Ingest(ctx, testDays(), &out)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearch(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	var out bytes.Buffer
	_, err := store.Ingest(ctx, testDays(), &out)
	require.NoError(t, err)

	tests := []struct {
		name  string
		opts  QueryOptions
		paths []string
	}{
		{"latin substring", QueryOptions{Query: "Romæ"}, []string{"martyrology/mart01/mart0101.htm"}},
		{"english case insensitive", QueryOptions{Query: "st."}, []string{
			"martyrology/mart01/mart0101.htm", "martyrology/mart02/mart0201.htm",
		}},
		{"month filter", QueryOptions{Query: "St.", Month: 2}, []string{"martyrology/mart02/mart0201.htm"}},
		{"wildcard is literal", QueryOptions{Query: "50\\%"}, []string{"martyrology/mart02/mart0201.htm"}},
		{"underscore is literal", QueryOptions{Query: "_"}, nil},
		{"no match", QueryOptions{Query: "Nicæa"}, nil},
		{"max results", QueryOptions{MaxResults: 1}, []string{"martyrology/mart01/mart0101.htm"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := store.Search(ctx, tt.opts)
			require.NoError(t, err)
			var paths []string
			for _, r := range results {
				paths = append(paths, r.Path)
			}
			assert.Equal(t, tt.paths, paths)
		})
	}
}

func TestSearch_ResultFields(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	var out bytes.Buffer
	_, err := store.Ingest(ctx, testDays(), &out)
	require.NoError(t, err)

	results, err := store.Search(ctx, QueryOptions{Query: "Almachius"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, QueryResult{
		Path:     "martyrology/mart01/mart0101.htm",
		Month:    1,
		Heading:  "Kalendis Ianuarii",
		Position: 1,
		Latin:    "Romæ sancti Almáchii.",
		English:  "At Rome, St. Almachius.",
	}, results[0])
}

func TestDays_RoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	var out bytes.Buffer
	_, err := store.Ingest(ctx, testDays(), &out)
	require.NoError(t, err)

	days, err := store.Days(ctx, 0)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, testDays()[0], days[0])

	feb, err := store.Days(ctx, 2)
	require.NoError(t, err)
	require.Len(t, feb, 1)
	assert.Equal(t, "martyrology/mart02/mart0201.htm", feb[0].Path)
	assert.Empty(t, feb[0].LetterGrids)
}

func TestExport(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	var out bytes.Buffer
	_, err := store.Ingest(ctx, testDays(), &out)
	require.NoError(t, err)

	yamlPath, err := store.ExportYAML(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "export.yaml", filepath.Base(yamlPath))

	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML []types.Day
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	require.Len(t, fromYAML, 1)
	assert.Equal(t, testDays()[0].Pairs, fromYAML[0].Pairs)

	jsonPath, err := store.ExportJSON(ctx, 0)
	require.NoError(t, err)
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON []types.Day
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Len(t, fromJSON, 2)
}
