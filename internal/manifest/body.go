package manifest

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blackcoderx/cannon/internal/cannonerr"
)

// resolveWithinDir mirrors the teacher's shared/pathutil.go
// ValidatePathWithinWorkDir: it prevents a manifest's file:// body or
// resource entry from escaping the manifest's own directory via path
// traversal.
func resolveWithinDir(rawPath, baseDir string) (string, error) {
	target := rawPath
	if !filepath.IsAbs(target) {
		target = filepath.Join(baseDir, target)
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", rawPath, err)
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("resolving manifest directory: %w", err)
	}
	if !strings.HasSuffix(absBase, string(filepath.Separator)) {
		absBase += string(filepath.Separator)
	}
	if absTarget != strings.TrimSuffix(absBase, string(filepath.Separator)) &&
		!strings.HasPrefix(absTarget, absBase) {
		return "", fmt.Errorf("access denied: %q is outside manifest directory", rawPath)
	}
	return absTarget, nil
}

// resolveBody decodes a RawBody into its byte form, per spec §6's four
// BodyEntry variants, grounded on original_source's BodyEntry handling.
func resolveBody(b *RawBody, baseDir string) ([]byte, error) {
	if b == nil {
		return nil, nil
	}
	switch {
	case b.Raw != nil:
		return []byte(*b.Raw), nil
	case b.JSON != nil:
		return json.Marshal(b.JSON)
	case b.URI != nil:
		path := strings.TrimPrefix(*b.URI, "file://")
		resolved, err := resolveWithinDir(path, baseDir)
		if err != nil {
			return nil, cannonerr.Syntaxf("resolving body uri: %v", err)
		}
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, cannonerr.Syntaxf("reading body uri %q: %v", *b.URI, err)
		}
		return data, nil
	case b.Base64 != nil:
		data, err := base64.StdEncoding.DecodeString(*b.Base64)
		if err != nil {
			return nil, cannonerr.Syntaxf("decoding base64 body: %v", err)
		}
		return data, nil
	default:
		return nil, nil
	}
}

// resolveResourcePath resolves a Resource's file path relative to the
// manifest directory, same traversal guard as resolveBody's uri case.
func resolveResourcePath(file, baseDir string) (string, error) {
	return resolveWithinDir(strings.TrimPrefix(file, "file://"), baseDir)
}
