package main

import (
	"bytes"
	"encoding/csv"
	"image"
	"image/png"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChaosImg/internal/config"
	"ChaosImg/internal/logging"
	"ChaosImg/pkg/cipher"
	"ChaosImg/pkg/imageio"
	"ChaosImg/pkg/models"
)

var testKey = models.CipherKey{Iterations: 5, SeedX: 0.1, SeedY: 0.1}

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	color.NoColor = true
	t.Cleanup(func() { stdout = old })
	return &buf
}

func testApp(t *testing.T) *app {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Output.Dir = t.TempDir()
	cfg.History.Enabled = false
	return newAppWith(cfg, logging.Discard())
}

func writeGrayPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 3)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestProcessFileRoundTrip(t *testing.T) {
	captureStdout(t)
	a := testApp(t)
	s, err := a.schemes.Get(cipher.SchemeFull)
	require.NoError(t, err)

	in := writeGrayPNG(t, t.TempDir(), "plain.png", 32, 32)
	outDir := a.cfg.Output.Dir

	enc, err := a.processFile(opEncrypt, s, in, outDir, testKey, true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "Encrypted_plain.png"), enc.OutputPath)
	assert.Equal(t, "L", enc.Mode)
	assert.Equal(t, 32, enc.Size)
	assert.False(t, enc.Resized)
	assert.Len(t, enc.Fingerprint, 16)

	dec, err := a.processFile(opDecrypt, s, enc.OutputPath, outDir, testKey, true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "Decrypted_Encrypted_plain.png"), dec.OutputPath)

	want, _, err := imageio.LoadArray(in, false)
	require.NoError(t, err)
	cipherText, _, err := imageio.LoadArray(enc.OutputPath, false)
	require.NoError(t, err)
	got, _, err := imageio.LoadArray(dec.OutputPath, false)
	require.NoError(t, err)

	assert.False(t, want.Equal(cipherText))
	assert.True(t, want.Equal(got))
}

func TestProcessFileResize(t *testing.T) {
	captureStdout(t)
	a := testApp(t)
	s, err := a.schemes.Get(cipher.SchemeFull)
	require.NoError(t, err)

	in := writeGrayPNG(t, t.TempDir(), "wide.png", 40, 24)

	res, err := a.processFile(opEncrypt, s, in, a.cfg.Output.Dir, testKey, true)
	require.NoError(t, err)
	assert.True(t, res.Resized)
	assert.Equal(t, 24, res.Size)

	// Without resizing the cipher rejects the shape
	_, err = a.processFile(opEncrypt, s, in, a.cfg.Output.Dir, testKey, false)
	var cfgErr *models.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)

	// Decryption never resizes
	_, err = a.processFile(opDecrypt, s, in, a.cfg.Output.Dir, testKey, true)
	assert.ErrorAs(t, err, &cfgErr)
}

func TestProcessFileRejectsNonImage(t *testing.T) {
	a := testApp(t)
	s, err := a.schemes.Get(cipher.SchemeFull)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	_, err = a.processFile(opEncrypt, s, path, a.cfg.Output.Dir, testKey, true)
	assert.Error(t, err)
}

func TestPickScheme(t *testing.T) {
	a := testApp(t)

	s, err := a.pickScheme("", "")
	require.NoError(t, err)
	assert.Equal(t, cipher.SchemeFull, s.Name())

	s, err = a.pickScheme("", cipher.SchemeConfusion)
	require.NoError(t, err)
	assert.Equal(t, cipher.SchemeConfusion, s.Name())

	s, err = a.pickScheme(cipher.SchemeDiffusion, cipher.SchemeConfusion)
	require.NoError(t, err)
	assert.Equal(t, cipher.SchemeDiffusion, s.Name())

	_, err = a.pickScheme("rot13", "")
	assert.Error(t, err)
}

func TestKeyFlagsResolve(t *testing.T) {
	k := keyFlags{iterations: "3", seedX: "0.2", seedY: "-0.1"}
	key, scheme, err := k.resolve()
	require.NoError(t, err)
	assert.Equal(t, models.CipherKey{Iterations: 3, SeedX: 0.2, SeedY: -0.1}, key)
	assert.Empty(t, scheme)

	_, _, err = (&keyFlags{}).resolve()
	assert.Error(t, err)

	_, _, err = (&keyFlags{file: "k.json", iterations: "3"}).resolve()
	assert.Error(t, err)

	_, _, err = (&keyFlags{iterations: "x", seedX: "0", seedY: "0"}).resolve()
	assert.ErrorIs(t, err, models.ErrInvalidKey)
}

func TestGenerateKey(t *testing.T) {
	p := cipher.DefaultPipeline()

	key, err := generateKey(p, 7, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	assert.Equal(t, 7, key.Iterations)
	assert.Greater(t, key.SeedX, -1.0)
	assert.Less(t, key.SeedX, 1.0)

	_, err = p.Duffing.Orbit(key.SeedX, key.SeedY, 4096)
	assert.NoError(t, err)

	again, err := generateKey(p, 7, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	assert.Equal(t, key, again)

	random, err := generateKey(p, 0, rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, random.Iterations, 1)
	assert.LessOrEqual(t, random.Iterations, 64)

	_, err = generateKey(p, -1, rand.New(rand.NewPCG(1, 2)))
	assert.ErrorIs(t, err, models.ErrInvalidKey)
}

func TestWriteHistogramCSV(t *testing.T) {
	res := &models.AnalysisResult{Histogram: make([][256]int, 1)}
	res.Histogram[0][0] = 3
	res.Histogram[0][255] = 1

	var buf bytes.Buffer
	require.NoError(t, writeHistogramCSV(&buf, res))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 257)
	assert.Equal(t, []string{"value", "L"}, rows[0])
	assert.Equal(t, []string{"0", "3"}, rows[1])
	assert.Equal(t, []string{"255", "1"}, rows[256])

	rgb := &models.AnalysisResult{Histogram: make([][256]int, 3)}
	rgb.Histogram[2][10] = 9
	buf.Reset()
	require.NoError(t, writeHistogramCSV(&buf, rgb))
	rows, err = csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"value", "R", "G", "B"}, rows[0])
	assert.Equal(t, []string{"10", "0", "0", "9"}, rows[11])

	assert.Error(t, writeHistogramCSV(&buf, &models.AnalysisResult{}))
}

func TestWatchFilter(t *testing.T) {
	out := filepath.Join(string(filepath.Separator), "data", "out")
	accept := watchFilter(out, "Encrypted_")

	assert.True(t, accept(filepath.Join(string(filepath.Separator), "data", "in", "cat.png")))
	assert.True(t, accept(filepath.Join(string(filepath.Separator), "data", "outside", "cat.png")))
	assert.False(t, accept(filepath.Join(string(filepath.Separator), "data", "in", "notes.txt")))
	assert.False(t, accept(filepath.Join(string(filepath.Separator), "data", "in", "Encrypted_cat.png")))
	assert.False(t, accept(filepath.Join(out, "cat.png")))
	assert.False(t, accept(filepath.Join(out, "sub", "cat.png")))
}

func TestRunCommands(t *testing.T) {
	t.Setenv("CHAOSIMG_DATA_DIR", t.TempDir())
	outDir := t.TempDir()
	t.Setenv("CHAOSIMG_OUTPUT_DIR", outDir)
	buf := captureStdout(t)

	assert.Equal(t, 1, run(nil))
	assert.Equal(t, 1, run([]string{"-quiet", "frobnicate"}))
	assert.Contains(t, buf.String(), "Unknown command")

	buf.Reset()
	require.Equal(t, 0, run([]string{"-quiet", "schemes"}))
	for _, name := range []string{cipher.SchemeFull, cipher.SchemeConfusion, cipher.SchemeDiffusion} {
		assert.Contains(t, buf.String(), name)
	}
	assert.Contains(t, buf.String(), "Cipher Quality Analyzer")

	in := writeGrayPNG(t, t.TempDir(), "img.png", 16, 16)
	buf.Reset()
	require.Equal(t, 0, run([]string{"-quiet", "encrypt", "-file", in, "-iter", "2", "-x", "0.3", "-y", "0.1"}),
		buf.String())
	encrypted := filepath.Join(outDir, "Encrypted_img.png")
	assert.FileExists(t, encrypted)

	keyPath := filepath.Join(t.TempDir(), "key.json")
	require.Equal(t, 0, run([]string{"-quiet", "keygen", "-out", keyPath, "-iter", "4"}))
	assert.FileExists(t, keyPath)

	buf.Reset()
	require.Equal(t, 0, run([]string{"-quiet", "analyze", "-file", encrypted, "-seed", "9"}))
	assert.Contains(t, buf.String(), "Entropy:")

	buf.Reset()
	require.Equal(t, 0, run([]string{"-quiet", "history"}))
	assert.Contains(t, buf.String(), "1 operation(s) and 1 analysis run(s)")
	assert.True(t, strings.Contains(buf.String(), "encrypt"))

	// Missing key
	assert.Equal(t, 1, run([]string{"-quiet", "decrypt", "-file", encrypted}))
	assert.Equal(t, 0, run([]string{"-quiet", "encrypt", "-h"}))
}
