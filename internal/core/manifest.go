package core

import (
	"encoding/json"
	"io/fs"
	"strings"
)

// DefaultAssetPrefix is where page bundles are served from unless a
// manifest says otherwise.
const DefaultAssetPrefix = "/_react-ssr/"

type ManifestEntry struct {
	Script string   `json:"script"`
	CSS    string   `json:"css,omitempty"`
	Chunks []string `json:"chunks,omitempty"`
}

// Manifest maps page ids to the assets produced by the client build.
type Manifest struct {
	Entries map[string]ManifestEntry `json:"entries"`
}

func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func LoadManifest(fsys fs.FS, path string) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, err
	}
	return ParseManifest(data)
}

type Assets struct {
	Script string
	CSS    string
	Chunks []string
}

// GetAssets resolves the bundle links for pageID, falling back to the
// {prefix}{pageID}.js / .css convention.
func GetAssets(man *Manifest, prefix, pageID string) Assets {
	if man != nil {
		if entry, ok := man.Entries[pageID]; ok && entry.Script != "" {
			return Assets{Script: entry.Script, CSS: entry.CSS, Chunks: entry.Chunks}
		}
	}

	prefix = NormalizePrefix(prefix)
	return Assets{
		Script: prefix + pageID + ".js",
		CSS:    prefix + pageID + ".css",
	}
}

func NormalizePrefix(prefix string) string {
	if prefix == "" {
		return DefaultAssetPrefix
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}
