package util

import (
	"io"
	"net/http"
	"strings"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// Upload whitelists for evidence artifacts and lesson videos.
var (
	AllowedEvidenceExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".txt", ".log"}
	AllowedVideoExtensions    = []string{".mp4", ".mov", ".avi", ".mkv", ".webm"}
)

func HasAllowedExtension(filename string, allowed []string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range allowed {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// DetectMimeType sniffs content type from the first 512 bytes and checks
// it against the allowed prefixes or exact types.
func DetectMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	mimeType := http.DetectContentType(buffer[:n])
	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) || mimeType == allowed {
			return mimeType, nil
		}
	}
	return mimeType, ErrUnsupportedUpload
}
