package fsguard

import (
	"path/filepath"
	"strings"

	"docbridge/internal/config"
)

// Translator maps paths between the internal namespace this process reads
// and writes and the external ("host") namespace callers see. This matters
// when the process runs behind a mount point: results must name files the
// way the caller can find them.
type Translator struct {
	pairs []prefixPair
}

type prefixPair struct {
	internal string
	external string
}

// NewTranslator builds a Translator from the filesystem config. The
// success/error folder pairs are checked before the allowed-root pairs so a
// relocated file translates to the folder view, not a root view that may
// contain it.
func NewTranslator(files *config.FilesConfig) *Translator {
	var pairs []prefixPair
	if files.FolderSuccess != "" {
		pairs = append(pairs, prefixPair{files.FolderSuccess, files.HostSuccess()})
	}
	if files.FolderErrors != "" {
		pairs = append(pairs, prefixPair{files.FolderErrors, files.HostErrors()})
	}
	hostRoots := files.HostRoots()
	for i, root := range files.AllowedRoots {
		pairs = append(pairs, prefixPair{root, hostRoots[i]})
	}
	return &Translator{pairs: pairs}
}

// ToExternalView rewrites an internal path into the host namespace.
// Paths matching no configured prefix pass through unchanged, so the
// translator is always safe to call.
func (t *Translator) ToExternalView(path string) string {
	for _, p := range t.pairs {
		if out, ok := replacePrefix(path, p.internal, p.external); ok {
			return out
		}
	}
	return path
}

// ToInternalView rewrites a host-namespace path into the internal one.
func (t *Translator) ToInternalView(path string) string {
	for _, p := range t.pairs {
		if out, ok := replacePrefix(path, p.external, p.internal); ok {
			return out
		}
	}
	return path
}

// replacePrefix swaps from for to when path equals from or sits under it.
func replacePrefix(path, from, to string) (string, bool) {
	if from == "" || to == "" {
		return "", false
	}
	if path == from {
		return to, true
	}
	if strings.HasPrefix(path, from+string(filepath.Separator)) {
		return to + path[len(from):], true
	}
	return "", false
}
