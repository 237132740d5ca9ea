// Package scanner discovers indexable files in a project source tree and
// fingerprints them for change detection.
//
// The up-to-date check is strict: the persisted manifest must cover exactly
// the current file set and every fingerprint must match. Any discrepancy
// forces a full index rebuild; there is no partial tolerance.
package scanner

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/repowiki/repowiki-mcp/pkg/types"
)

// excludeDirs are never descended into during the walk.
var excludeDirs = map[string]struct{}{
	".git":         {},
	"__pycache__":  {},
	"node_modules": {},
	".venv":        {},
	"env":          {},
	"venv":         {},
}

// excludeExts filters binary and archive content before it reaches the
// chunker.
var excludeExts = map[string]struct{}{
	".exe": {}, ".dll": {}, ".so": {}, ".bin": {},
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {},
	".zip": {}, ".tar": {}, ".gz": {}, ".rar": {}, ".7z": {},
	".pdf": {},
}

// Walk returns the project-relative paths of all indexable files under root,
// sorted case-insensitively. A missing root yields an empty set.
func Walk(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if _, skip := excludeDirs[d.Name()]; skip && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if _, skip := excludeExts[strings.ToLower(filepath.Ext(path))]; skip {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(files[i]) < strings.ToLower(files[j])
	})
	return files, nil
}

// Fingerprint computes the manifest for the given relative paths under root.
// Files that disappear mid-scan are silently omitted; the resulting manifest
// then fails the equality check and forces a rebuild, which is the safe
// outcome.
func Fingerprint(root string, files []string) types.Manifest {
	manifest := make(types.Manifest, len(files))
	for _, rel := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		sum, err := fileSHA256(full)
		if err != nil {
			continue
		}
		info, err := os.Stat(full)
		if err != nil {
			continue
		}
		manifest[rel] = types.ManifestEntry{
			SHA256: sum,
			MTime:  info.ModTime().Unix(),
		}
	}
	return manifest
}

// fileSHA256 returns the hex-encoded SHA-256 digest of the file contents.
func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ReadText reads a file as text. Unreadable files yield an empty string;
// binary content is filtered out by extension before this point.
func ReadText(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}
