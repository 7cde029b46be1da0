package hydrate

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/3-lines-studio/reactssr/internal/core"
)

//go:embed client_entry.tsx.tmpl
var clientEntrySource string

var clientEntryTemplate = template.Must(template.New("client-entry").Parse(clientEntrySource))

// ClientEntry returns the browser entry module hydrating componentImport.
func ClientEntry(componentImport string) (string, error) {
	if componentImport == "" {
		return "", fmt.Errorf("missing component import")
	}

	var buf bytes.Buffer
	if err := clientEntryTemplate.Execute(&buf, map[string]string{
		"ComponentImport": componentImport,
		"ScriptID":        core.ScriptID,
		"RootID":          core.RootID,
		"ServerStyleID":   ServerStyleID,
	}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func WriteClientEntry(path string, componentImport string) error {
	if path == "" {
		return fmt.Errorf("missing entry path")
	}

	content, err := ClientEntry(componentImport)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
