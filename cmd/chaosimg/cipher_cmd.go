package main

import (
	"context"
	crand "crypto/rand"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"ChaosImg/pkg/cipher"
	"ChaosImg/pkg/filehandler"
	"ChaosImg/pkg/imageio"
	"ChaosImg/pkg/keyfile"
	"ChaosImg/pkg/models"
	"ChaosImg/pkg/pixels"
)

const (
	opEncrypt = "encrypt"
	opDecrypt = "decrypt"
)

// keyFlags collects the key either from a key file or from three values.
type keyFlags struct {
	file       string
	iterations string
	seedX      string
	seedY      string
}

func (k *keyFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&k.file, "key", "", "Path to a JSON key file")
	fs.StringVar(&k.iterations, "iter", "", "Cat map iterations")
	fs.StringVar(&k.seedX, "x", "", "Duffing seed x0")
	fs.StringVar(&k.seedY, "y", "", "Duffing seed y0")
}

// resolve returns the key and the scheme named in the key file, if any.
func (k *keyFlags) resolve() (models.CipherKey, string, error) {
	inline := k.iterations != "" || k.seedX != "" || k.seedY != ""
	switch {
	case k.file != "" && inline:
		return models.CipherKey{}, "", errors.New("use either -key or -iter/-x/-y, not both")
	case k.file != "":
		f, err := keyfile.Load(k.file)
		if err != nil {
			return models.CipherKey{}, "", err
		}
		return f.Key(), f.Scheme, nil
	case inline:
		key, err := keyfile.Parse(k.iterations, k.seedX, k.seedY)
		return key, "", err
	default:
		return models.CipherKey{}, "", errors.New("a key is required: -key file.json or -iter N -x X -y Y")
	}
}

// inputFlags selects the images a command works on.
type inputFlags struct {
	file      string
	dir       string
	url       string
	list      string
	recursive bool
}

func (in *inputFlags) register(fs *flag.FlagSet, verb string) {
	fs.StringVar(&in.file, "file", "", "Path to a single image to "+verb)
	fs.StringVar(&in.dir, "dir", "", "Directory of images to "+verb)
	fs.StringVar(&in.url, "url", "", "URL of an image to download and "+verb)
	fs.StringVar(&in.list, "list", "", "File listing image paths or URLs, one per line")
	fs.BoolVar(&in.recursive, "recursive", false, "Include subdirectories with -dir")
}

// gather resolves the inputs to local paths, downloading URLs into downloadDir.
func (in *inputFlags) gather(ctx context.Context, downloadDir string) ([]string, error) {
	if in.file == "" && in.dir == "" && in.url == "" && in.list == "" {
		return nil, errors.New("no input: use -file, -dir, -url or -list")
	}

	var paths []string
	fetch := func(src string) {
		if !filehandler.IsURL(src) {
			paths = append(paths, src)
			return
		}
		printInfo("Downloading from %s", src)
		p, err := filehandler.DownloadFile(ctx, src, downloadDir)
		if err != nil {
			printError("Failed to download from %s: %v", src, err)
			return
		}
		printSuccess("Downloaded to %s", p)
		paths = append(paths, p)
	}

	if in.list != "" {
		lines, err := filehandler.ReadLines(in.list)
		if err != nil {
			return nil, fmt.Errorf("failed to read list file: %w", err)
		}
		for _, line := range lines {
			fetch(line)
		}
	}
	if in.url != "" {
		fetch(in.url)
	}
	if in.file != "" {
		paths = append(paths, in.file)
	}
	if in.dir != "" {
		files, err := filehandler.ImageFiles(in.dir, in.recursive)
		if err != nil {
			return nil, err
		}
		printInfo("Found %d images in %s", len(files), in.dir)
		paths = append(paths, files...)
	}

	if len(paths) == 0 {
		return nil, errors.New("no images to process")
	}
	return paths, nil
}

func runEncrypt(a *app, args []string) error {
	return runCipher(a, opEncrypt, args)
}

func runDecrypt(a *app, args []string) error {
	return runCipher(a, opDecrypt, args)
}

func runCipher(a *app, op string, args []string) error {
	fs := flag.NewFlagSet(op, flag.ContinueOnError)
	fs.SetOutput(stdout)

	var (
		keys    keyFlags
		inputs  inputFlags
		scheme  = fs.String("scheme", "", "Cipher scheme (default from config, see 'schemes')")
		outDir  = fs.String("outdir", a.cfg.Output.Dir, "Directory for output images")
		saveKey = fs.String("savekey", "", "Write the key used to this JSON file")
		asJSON  = fs.Bool("json", false, "Print results as JSON")
		noSize  = fs.Bool("noresize", !a.cfg.Output.Resize, "Reject non-square images instead of resizing")
	)
	keys.register(fs)
	inputs.register(fs, op)

	if err := fs.Parse(args); err != nil {
		return err
	}

	key, keyScheme, err := keys.resolve()
	if err != nil {
		return err
	}

	s, err := a.pickScheme(*scheme, keyScheme)
	if err != nil {
		return err
	}

	ctx := context.Background()
	files, err := inputs.gather(ctx, filepath.Join(*outDir, "downloads"))
	if err != nil {
		return err
	}

	if *saveKey != "" {
		if err := keyfile.Save(*saveKey, keyfile.File{
			Iterations: key.Iterations, SeedX: key.SeedX, SeedY: key.SeedY, Scheme: s.Name(),
		}); err != nil {
			return err
		}
		printSuccess("Key written to %s", *saveKey)
	}

	printInfo("%s %d file(s) with scheme %s (key %s)", titleOp(op), len(files), s.Name(), keyfile.Fingerprint(key))

	var bar *progressbar.ProgressBar
	if len(files) > 1 && !*asJSON {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription(" "+op+"ing"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetWidth(20),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}

	var results []models.OperationResult
	failed := 0
	for _, file := range files {
		res, err := a.processFile(op, s, file, *outDir, key, !*noSize)
		if bar != nil {
			bar.Add(1)
		}
		if err != nil {
			failed++
			printError("%s %s: %v", titleOp(op), file, err)
			continue
		}
		results = append(results, *res)
		if bar == nil && !*asJSON {
			displayOperationResult(res)
		}
	}
	if bar != nil {
		bar.Finish()
	}

	if *asJSON {
		return printJSON(results)
	}
	if len(files) > 1 {
		printOperationSummary(results, failed)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(files))
	}
	return nil
}

// pickScheme prefers the flag, then the key file, then the configuration.
func (a *app) pickScheme(flagScheme, keyScheme string) (cipher.Scheme, error) {
	name := a.cfg.Cipher.Scheme
	if keyScheme != "" {
		name = keyScheme
	}
	if flagScheme != "" {
		name = flagScheme
	}
	return a.schemes.Get(name)
}

// processFile encrypts or decrypts one image into outDir. Decryption never
// resizes: a resized ciphertext no longer decrypts.
func (a *app) processFile(op string, s cipher.Scheme, path, outDir string, key models.CipherKey, resize bool) (*models.OperationResult, error) {
	if _, err := filehandler.DetectFileFormat(path); err != nil {
		return nil, err
	}

	arr, info, err := imageio.LoadArray(path, op == opEncrypt && resize)
	if err != nil {
		return nil, err
	}
	if info.Resized {
		a.log.WithFields(logrus.Fields{
			"file": path,
			"from": fmt.Sprintf("%dx%d", info.Width, info.Height),
			"to":   fmt.Sprintf("%dx%d", arr.Width, arr.Height),
		}).Debug("resized to square")
	}

	start := time.Now()
	var out *pixels.Array
	switch op {
	case opEncrypt:
		out, err = s.Encrypt(arr, key)
	case opDecrypt:
		out, err = s.Decrypt(arr, key)
	default:
		return nil, fmt.Errorf("unknown operation %q", op)
	}
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	prefix := a.cfg.Output.EncryptPrefix
	if op == opDecrypt {
		prefix = a.cfg.Output.DecryptPrefix
	}
	outPath := filehandler.OutputPath(outDir, prefix, path)
	if err := imageio.SavePNG(outPath, out); err != nil {
		return nil, err
	}

	res := &models.OperationResult{
		Operation:   op,
		Scheme:      s.Name(),
		InputPath:   path,
		OutputPath:  outPath,
		Mode:        out.Mode(),
		Size:        out.Width,
		Resized:     info.Resized,
		Fingerprint: keyfile.Fingerprint(key),
		Duration:    elapsed,
	}

	a.log.WithFields(logrus.Fields{
		"op":          op,
		"scheme":      res.Scheme,
		"file":        path,
		"output":      outPath,
		"duration":    elapsed,
		"fingerprint": res.Fingerprint,
	}).Debug("image processed")
	a.recordOperation(res)

	return res, nil
}

func runKeygen(a *app, args []string) error {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	fs.SetOutput(stdout)
	var (
		out        = fs.String("out", "", "Path of the key file to write (required)")
		iterations = fs.Int("iter", 0, "Cat map iterations (default random 1-64)")
		scheme     = fs.String("scheme", "", "Scheme stored in the key file (default from config)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return errors.New("-out is required")
	}

	s, err := a.pickScheme(*scheme, "")
	if err != nil {
		return err
	}

	key, err := generateKey(a.cfg.Pipeline(), *iterations, rand.New(rand.NewChaCha8(seedBytes())))
	if err != nil {
		return err
	}

	if err := keyfile.Save(*out, keyfile.File{
		Iterations: key.Iterations, SeedX: key.SeedX, SeedY: key.SeedY, Scheme: s.Name(),
	}); err != nil {
		return err
	}
	printSuccess("Key written to %s (fingerprint %s)", *out, keyfile.Fingerprint(key))
	return nil
}

// generateKey draws seeds in (-1, 1) until the Duffing orbit stays bounded
// through warm-up plus a probe stretch.
func generateKey(p cipher.Pipeline, iterations int, rng *rand.Rand) (models.CipherKey, error) {
	if iterations < 0 {
		return models.CipherKey{}, &models.InvalidKeyError{Field: "iterations", Reason: "must not be negative"}
	}
	if iterations == 0 {
		iterations = 1 + rng.IntN(64)
	}

	for attempt := 0; attempt < 100; attempt++ {
		key := models.CipherKey{
			Iterations: iterations,
			SeedX:      rng.Float64()*2 - 1,
			SeedY:      rng.Float64()*2 - 1,
		}
		if _, err := p.Duffing.Orbit(key.SeedX, key.SeedY, 4096); err == nil {
			return key, nil
		}
	}
	return models.CipherKey{}, errors.New("could not find seeds with a bounded orbit")
}

// seedBytes reads a fresh ChaCha8 seed from the operating system.
func seedBytes() [32]byte {
	var seed [32]byte
	crand.Read(seed[:])
	return seed
}

func titleOp(op string) string {
	switch op {
	case opEncrypt:
		return "Encrypting"
	case opDecrypt:
		return "Decrypting"
	}
	return op
}
