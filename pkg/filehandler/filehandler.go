package filehandler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

/*
File explanation:
This file contains the file handling used around the cipher: detecting whether an input is a
decodable picture, collecting pictures from a directory, fetching a picture from a URL and saving bytes.
DetectFileFormat checks the extension first and falls back to sniffing the content.
ImageFiles lists the pictures in a directory, optionally walking subdirectories.
DownloadFile fetches a URL into a directory with a size cap and a request timeout.
SaveFile writes data to a file, creating parent directories.
*/

// MaxDownloadSize caps downloads and whole-file reads
const MaxDownloadSize = 100 * 1024 * 1024

// SupportedImageFormats maps file extensions to the decoder that handles them
var SupportedImageFormats = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".gif":  "gif",
	".bmp":  "bmp",
	".tif":  "tiff",
	".tiff": "tiff",
}

// DetectFileFormat detects the format of a file
func DetectFileFormat(filePath string) (string, error) {
	// First check extension
	ext := strings.ToLower(filepath.Ext(filePath))
	if format, ok := SupportedImageFormats[ext]; ok {
		return format, nil
	}

	// If extension not recognized, try to detect by content
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return sniffFormat(buffer[:n])
}

func sniffFormat(head []byte) (string, error) {
	// http.DetectContentType does not know TIFF
	if bytes.HasPrefix(head, []byte("II*\x00")) || bytes.HasPrefix(head, []byte("MM\x00*")) {
		return "tiff", nil
	}

	contentType := http.DetectContentType(head)
	switch {
	case strings.Contains(contentType, "image/png"):
		return "png", nil
	case strings.Contains(contentType, "image/jpeg"):
		return "jpeg", nil
	case strings.Contains(contentType, "image/gif"):
		return "gif", nil
	case strings.Contains(contentType, "image/bmp"):
		return "bmp", nil
	default:
		return "", fmt.Errorf("unsupported file format: %s", contentType)
	}
}

// IsURL checks if the given string is a URL
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// DownloadFile fetches rawURL into outputDir and returns the saved path.
// The file name is taken from the URL path; a partial file is removed on error.
func DownloadFile(ctx context.Context, rawURL, outputDir string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	filename := path.Base(u.Path)
	if filename == "." || filename == "/" || filename == "" {
		filename = fmt.Sprintf("download_%d", time.Now().UnixNano())
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}
	if resp.ContentLength > MaxDownloadSize {
		return "", fmt.Errorf("file too large (max %s)", FormatFileSize(MaxDownloadSize))
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	outputPath := filepath.Join(outputDir, filename)
	out, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	// One extra byte tells an oversized body without a Content-Length apart
	written, err := io.Copy(out, io.LimitReader(resp.Body, MaxDownloadSize+1))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil && written > MaxDownloadSize {
		err = fmt.Errorf("file too large (max %s)", FormatFileSize(MaxDownloadSize))
	}
	if err != nil {
		os.Remove(outputPath)
		return "", fmt.Errorf("failed to save downloaded file: %w", err)
	}

	return outputPath, nil
}

// SaveFile saves data to a file
func SaveFile(data []byte, filePath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}

	return nil
}

// ImageFiles returns the pictures in dirPath, sorted. Subdirectories are
// walked only when recursive is set.
func ImageFiles(dirPath string, recursive bool) ([]string, error) {
	info, err := os.Stat(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dirPath)
	}

	var files []string
	err = filepath.WalkDir(dirPath, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != dirPath && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if IsImageFile(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Strings(files)
	return files, nil
}
