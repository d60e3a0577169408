package store

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChaosImg/pkg/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesDirectory(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "a", "b", "history.db"))
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestCloseNilDB(t *testing.T) {
	s := &Store{db: nil}
	assert.NoError(t, s.Close())
}

func TestOperations(t *testing.T) {
	s := openTestStore(t)
	base := time.Unix(1_700_000_000, 0)

	first := &Operation{
		TimestampNs: base.UnixNano(), Op: "encrypt", Scheme: "acm-duffing",
		InputPath: "in/cat.jpg", OutputPath: "out/Encrypted_cat.png", Mode: "RGB",
		Size: 256, Resized: true, KeyFingerprint: "aaaa", DurationNs: int64(40 * time.Millisecond),
	}
	second := &Operation{
		TimestampNs: base.Add(time.Minute).UnixNano(), Op: "decrypt", Scheme: "acm-duffing",
		InputPath: "out/Encrypted_cat.png", OutputPath: "out/Decrypted_Encrypted_cat.png", Mode: "RGB",
		Size: 256, KeyFingerprint: "aaaa", DurationNs: int64(35 * time.Millisecond),
	}
	other := &Operation{
		TimestampNs: base.Add(2 * time.Minute).UnixNano(), Op: "encrypt", Scheme: "acm",
		InputPath: "dog.png", OutputPath: "Encrypted_dog.png", Mode: "L", Size: 64, KeyFingerprint: "bbbb",
	}

	var ids []int64
	for _, o := range []*Operation{first, second, other} {
		id, err := s.InsertOperation(o)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	got, err := s.GetOperation(ids[0])
	require.NoError(t, err)
	first.ID = ids[0]
	assert.Equal(t, first, got)
	assert.True(t, base.Equal(got.Time()))
	assert.Equal(t, 40*time.Millisecond, got.Duration())

	missing, err := s.GetOperation(9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	recent, err := s.RecentOperations(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "dog.png", recent[0].InputPath)
	assert.Equal(t, "decrypt", recent[1].Op)

	byKey, err := s.OperationsByFingerprint("aaaa")
	require.NoError(t, err)
	require.Len(t, byKey, 2)
	assert.Equal(t, "encrypt", byKey[0].Op)
	assert.Equal(t, "decrypt", byKey[1].Op)

	ops, analyses, err := s.Counts()
	require.NoError(t, err)
	assert.Equal(t, int64(3), ops)
	assert.Equal(t, int64(0), analyses)
}

func TestInsertOperationRejectsUnknownOp(t *testing.T) {
	s := openTestStore(t)
	_, err := s.InsertOperation(&Operation{Op: "shred", Scheme: "acm", Mode: "L", KeyFingerprint: "x"})
	assert.Error(t, err)
}

func TestAnalyses(t *testing.T) {
	s := openTestStore(t)
	at := time.Unix(1_700_000_000, 500)

	result := &models.AnalysisResult{
		Filename:         "Encrypted_cat.png",
		Mode:             "RGB",
		Width:            256,
		Height:           256,
		Entropy:          7.9971,
		Correlation:      models.CorrelationSample{Horizontal: 0.003, Vertical: -0.011, Diagonal: 0.0007},
		QualityScore:     0.9,
		AnalysisTime:     at,
		AnalysisDuration: 12 * time.Millisecond,
	}
	_, err := s.InsertAnalysis(AnalysisFromResult(result))
	require.NoError(t, err)

	list, err := s.RecentAnalyses(10)
	require.NoError(t, err)
	require.Len(t, list, 1)

	a := list[0]
	assert.Equal(t, "Encrypted_cat.png", a.FilePath)
	assert.Equal(t, 256, a.Width)
	assert.Equal(t, 7.9971, a.Entropy)
	assert.Equal(t, -0.011, a.Vertical)
	assert.Equal(t, 0.9, a.QualityScore)
	assert.True(t, at.Equal(a.Time()))
}

func TestOperationFromResultKeepsOnlyFingerprint(t *testing.T) {
	r := &models.OperationResult{
		Operation: "encrypt", Scheme: "acm-duffing", InputPath: "a.png", OutputPath: "b.png",
		Mode: "L", Size: 32, Fingerprint: "0011223344556677", Duration: time.Second,
	}
	at := time.Unix(100, 0)
	o := OperationFromResult(r, at)

	assert.Equal(t, "0011223344556677", o.KeyFingerprint)
	assert.Equal(t, at.UnixNano(), o.TimestampNs)
	assert.Equal(t, int64(time.Second), o.DurationNs)
}

func TestSchemaHasNoSeedColumns(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{"operations", "analyses"} {
		rows, err := s.db.Query(`SELECT name FROM pragma_table_info(?)`, table)
		require.NoError(t, err)

		var cols []string
		for rows.Next() {
			var name sql.NullString
			require.NoError(t, rows.Scan(&name))
			cols = append(cols, name.String)
		}
		require.NoError(t, rows.Err())
		rows.Close()

		assert.NotEmpty(t, cols)
		for _, c := range cols {
			assert.NotContains(t, c, "seed", "table %s", table)
		}
	}
}
