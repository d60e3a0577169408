package keyfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChaosImg/pkg/models"
)

func TestDecode(t *testing.T) {
	f, err := Decode([]byte(`{"iterations": 5, "seedX": 0.1, "seedY": -0.25, "scheme": "acm"}`))
	require.NoError(t, err)
	assert.Equal(t, models.CipherKey{Iterations: 5, SeedX: 0.1, SeedY: -0.25}, f.Key())
	assert.Equal(t, "acm", f.Scheme)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		field string
	}{
		{"not json", `{"iterations":`, ""},
		{"missing seed", `{"iterations": 5, "seedX": 0.1}`, ""},
		{"fractional iterations", `{"iterations": 1.5, "seedX": 0.1, "seedY": 0.1}`, "iterations"},
		{"negative iterations", `{"iterations": -1, "seedX": 0.1, "seedY": 0.1}`, "iterations"},
		{"string seed", `{"iterations": 1, "seedX": "0.1", "seedY": 0.1}`, "seedX"},
		{"unknown field", `{"iterations": 1, "seedX": 0.1, "seedY": 0.1, "salt": 3}`, ""},
		{"array", `[1, 2, 3]`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrInvalidKey))

			var ke *models.InvalidKeyError
			require.True(t, errors.As(err, &ke))
			if tt.field != "" {
				assert.Equal(t, tt.field, ke.Field)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	want := File{Iterations: 12, SeedX: 0.123456, SeedY: 0.654321, Scheme: "acm-duffing"}

	require.NoError(t, Save(path, want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveRejectsInvalidKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	err := Save(path, File{Iterations: -3})
	assert.True(t, models.IsInvalidKeyError(err))
	assert.NoFileExists(t, path)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParse(t *testing.T) {
	key, err := Parse(" 7 ", "0.1", "-0.3")
	require.NoError(t, err)
	assert.Equal(t, models.CipherKey{Iterations: 7, SeedX: 0.1, SeedY: -0.3}, key)

	tests := []struct {
		name, iter, x, y, field string
	}{
		{"iterations text", "seven", "0.1", "0.1", "iterations"},
		{"iterations float", "1.5", "0.1", "0.1", "iterations"},
		{"negative iterations", "-2", "0.1", "0.1", "iterations"},
		{"seedX text", "1", "abc", "0.1", "seedX"},
		{"seedY empty", "1", "0.1", "", "seedY"},
		{"seedY nan", "1", "0.1", "NaN", "seedY"},
		{"seedX inf", "1", "+Inf", "0.1", "seedX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.iter, tt.x, tt.y)
			var ke *models.InvalidKeyError
			require.True(t, errors.As(err, &ke))
			assert.Equal(t, tt.field, ke.Field)
		})
	}
}

func TestFingerprint(t *testing.T) {
	a := models.CipherKey{Iterations: 3, SeedX: 0.1, SeedY: 0.1}
	b := a
	b.SeedY = 0.1000001

	assert.Len(t, Fingerprint(a), 16)
	assert.Equal(t, Fingerprint(a), Fingerprint(a))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(models.CipherKey{Iterations: 4, SeedX: 0.1, SeedY: 0.1}))
	assert.NotContains(t, Fingerprint(a), "0.1")
}
