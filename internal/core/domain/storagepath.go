package domain

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// Accepted archive extensions and the content type presigned uploads are
// scoped to.
var acceptedArchiveTypes = map[string]string{
	".zip": "application/zip",
	".rar": "application/vnd.rar",
	".7z":  "application/x-7z-compressed",
	".tar": "application/x-tar",
	".gz":  "application/gzip",
}

// ArchiveContentType validates that fileName carries an accepted archive
// extension and returns the matching content type.
func ArchiveContentType(fileName string) (string, error) {
	ext := strings.ToLower(path.Ext(fileName))
	if ext == "" {
		return "", ErrMissingExtension
	}
	ct, ok := acceptedArchiveTypes[ext]
	if !ok {
		return "", ErrUnsupportedExtension
	}
	return ct, nil
}

// NextVersionNumber returns the version number to assign given the highest
// number allocated so far.
func NextVersionNumber(existingMax int) int {
	return existingMax + 1
}

// BuildStoragePath returns the canonical object key for a version's raw
// upload. The key is fully determined by its inputs so it can be rebuilt from
// the version's own fields.
func BuildStoragePath(templateName string, versionNumber int, fileName string) string {
	return fmt.Sprintf("%s/V%d/Raw/%s", templateName, versionNumber, fileName)
}

// MaxVersionFromKeys scans object keys of the form {templateName}/V{n}/... and
// returns the highest n found, or 0 when no key matches. Segments that do not
// parse as V<integer> are ignored. Used to continue version numbering when no
// metadata record exists yet.
func MaxVersionFromKeys(templateName string, keys []string) int {
	prefix := templateName + "/"
	max := 0
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := strings.TrimPrefix(key, prefix)
		segment, _, _ := strings.Cut(rest, "/")
		if !strings.HasPrefix(segment, "V") {
			continue
		}
		n, err := strconv.Atoi(segment[1:])
		if err != nil || n <= 0 {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max
}
