package extract

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// pathPlaceholder marks where the document path goes in an extraction command.
const pathPlaceholder = "{path}"

// CommandExtractor implements port.TextExtractor. Plain-text files are read
// directly; binary document formats are delegated to external conversion
// tools, one command per extension, writing text to stdout.
type CommandExtractor struct {
	commands map[string][]string
}

// NewCommandExtractor creates an extractor with the default tool mapping.
func NewCommandExtractor() *CommandExtractor {
	return &CommandExtractor{
		commands: map[string][]string{
			"pdf":  {"pdftotext", "-q", pathPlaceholder, "-"},
			"doc":  {"catdoc", pathPlaceholder},
			"docx": {"docx2txt", pathPlaceholder, "-"},
		},
	}
}

// ExtractText returns the raw text of the document at path.
func (e *CommandExtractor) ExtractText(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	if ext == "txt" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		return string(data), nil
	}

	argv, ok := e.commands[ext]
	if !ok {
		return "", fmt.Errorf("no text extractor configured for .%s files", ext)
	}

	args := make([]string, len(argv)-1)
	for i, a := range argv[1:] {
		args[i] = strings.ReplaceAll(a, pathPlaceholder, path)
	}
	out, err := exec.Command(argv[0], args...).Output()
	if err != nil {
		return "", fmt.Errorf("extracting text from %s with %s: %w", path, argv[0], err)
	}
	return string(out), nil
}
