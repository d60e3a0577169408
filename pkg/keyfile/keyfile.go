// Package keyfile reads, writes and fingerprints cipher keys.
//
// A key file is a small JSON document:
//
//	{"iterations": 5, "seedX": 0.1, "seedY": 0.1, "scheme": "acm-duffing"}
//
// Documents are checked against an embedded JSON Schema before decoding, so
// a malformed file is reported as an InvalidKeyError naming the bad field.
package keyfile

import (
	"bytes"
	_ "embed"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/crypto/blake2b"

	"ChaosImg/pkg/models"
)

//go:embed key.schema.json
var schemaJSON []byte

const schemaURL = "https://chaosimg.local/schema/key-v1.schema.json"

// File is the on-disk form of a key. Scheme is optional.
type File struct {
	Iterations int     `json:"iterations"`
	SeedX      float64 `json:"seedX"`
	SeedY      float64 `json:"seedY"`
	Scheme     string  `json:"scheme,omitempty"`
}

// Key returns the cipher key stored in f.
func (f File) Key() models.CipherKey {
	return models.CipherKey{Iterations: f.Iterations, SeedX: f.SeedX, SeedY: f.SeedY}
}

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// Decode validates data against the key schema and decodes it.
func Decode(data []byte) (File, error) {
	var f File

	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return f, &models.InvalidKeyError{Reason: fmt.Sprintf("not valid JSON: %v", err)}
	}

	schema, err := compileSchema()
	if err != nil {
		return f, fmt.Errorf("compile key schema: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return f, schemaError(err)
	}

	if err := json.Unmarshal(data, &f); err != nil {
		return f, &models.InvalidKeyError{Reason: err.Error()}
	}
	if err := f.Key().Validate(); err != nil {
		return f, err
	}
	return f, nil
}

// Load reads and validates the key file at path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read key file: %w", err)
	}
	return Decode(data)
}

// Save writes f to path readable by the owner only.
func Save(path string, f File) error {
	if err := f.Key().Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode key: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	return nil
}

// Parse builds a key from its textual fields, as typed on a command line.
func Parse(iterations, seedX, seedY string) (models.CipherKey, error) {
	var key models.CipherKey

	n, err := strconv.Atoi(strings.TrimSpace(iterations))
	if err != nil {
		return key, &models.InvalidKeyError{Field: "iterations", Reason: fmt.Sprintf("%q is not an integer", iterations)}
	}
	x, err := parseSeed("seedX", seedX)
	if err != nil {
		return key, err
	}
	y, err := parseSeed("seedY", seedY)
	if err != nil {
		return key, err
	}

	key = models.CipherKey{Iterations: n, SeedX: x, SeedY: y}
	return key, key.Validate()
}

func parseSeed(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &models.InvalidKeyError{Field: field, Reason: fmt.Sprintf("%q is not a number", s)}
	}
	return v, nil
}

// Fingerprint identifies a key without revealing it. Equal keys give equal
// fingerprints; the seeds cannot be recovered from the value.
func Fingerprint(key models.CipherKey) string {
	var buf [24]byte
	binary.BigEndian.PutUint64(buf[0:], uint64(key.Iterations))
	binary.BigEndian.PutUint64(buf[8:], math.Float64bits(key.SeedX))
	binary.BigEndian.PutUint64(buf[16:], math.Float64bits(key.SeedY))

	h, _ := blake2b.New256([]byte("chaosimg key fingerprint v1"))
	h.Write(buf[:])
	return hex.EncodeToString(h.Sum(nil)[:8])
}

// schemaError turns the deepest schema violation into an InvalidKeyError.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &models.InvalidKeyError{Reason: err.Error()}
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &models.InvalidKeyError{
		Field:  strings.TrimPrefix(ve.InstanceLocation, "/"),
		Reason: ve.Message,
	}
}
