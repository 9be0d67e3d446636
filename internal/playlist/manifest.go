package playlist

import (
	"fmt"
	"path"
	"strings"

	"noticias.lat/hub/internal/db"
)

// BuildManifest renders the plain-text playlist consumed by the stream
// player: one media URL per line, active items only, in stored position
// order. Items are expected pre-sorted by the query layer.
func BuildManifest(items []db.PlaylistItem) string {
	var b strings.Builder
	for _, item := range items {
		if !item.IsActive {
			continue
		}
		url := strings.TrimSpace(item.MediaURL)
		if url == "" {
			continue
		}
		b.WriteString(url)
		b.WriteString("\n")
	}
	return b.String()
}

// PublicURL maps a stored file name onto the public media base.
func PublicURL(publicBase, fileName string) string {
	return strings.TrimSuffix(publicBase, "/") + "/" + fileName
}

// SanitizeFileName strips directory components from an uploaded name and
// rejects anything left empty, so uploads cannot escape the media dir.
func SanitizeFileName(name string) (string, error) {
	cleaned := path.Base(strings.TrimSpace(strings.ReplaceAll(name, "\\", "/")))
	if cleaned == "" || cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, ".") {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return cleaned, nil
}
