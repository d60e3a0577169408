package filehandler

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// ReadLines reads a list file, skipping blank lines and # comments
func ReadLines(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}

	return lines, scanner.Err()
}

// IsImageFile checks if a file is an image based on extension
func IsImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := SupportedImageFormats[ext]
	return ok
}

// GetFileSize returns the size of a file in bytes
func GetFileSize(filePath string) (int64, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}
	return fileInfo.Size(), nil
}

// FormatFileSize renders a byte count with 1024-based units and two decimals,
// e.g. "512.00 B", "1.50 KB". Zero is "0 B".
func FormatFileSize(size int64) string {
	if size <= 0 {
		return "0 B"
	}

	value := float64(size)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", value, sizeUnits[unit])
}

// OutputName is the PNG name written for input: prefix + base name + ".png"
func OutputName(prefix, input string) string {
	base := filepath.Base(input)
	return prefix + strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
}

// OutputPath joins dir with OutputName(prefix, input)
func OutputPath(dir, prefix, input string) string {
	return filepath.Join(dir, OutputName(prefix, input))
}
