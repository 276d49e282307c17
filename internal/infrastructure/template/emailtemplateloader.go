package template

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"text/template"

	"learnhub/internal/shared/logger"
)

//go:embed defaults/*.md
var defaultsFS embed.FS

const (
	KindActivation   = "activation"
	KindCancellation = "cancellation"
	KindExpiration   = "expiration"
	KindExpiringSoon = "expiring_soon"
)

var kinds = []string{KindActivation, KindCancellation, KindExpiration, KindExpiringSoon}

// Data is the view every email template renders from.
type Data struct {
	Name         string
	Subject      string
	EndDate      string
	Amount       string
	Reason       string
	Immediate    bool
	DashboardURL string
}

// EmailTemplateLoader holds the markdown templates for lifecycle emails.
// Files named custom.{kind}.md in the override directory replace the
// embedded defaults.
type EmailTemplateLoader struct {
	mu        sync.RWMutex
	templates map[string]*template.Template
	path      string
	logger    logger.Interface
}

func NewEmailTemplateLoader(path string, logger logger.Interface) *EmailTemplateLoader {
	return &EmailTemplateLoader{
		templates: make(map[string]*template.Template),
		path:      path,
		logger:    logger,
	}
}

// Load parses the embedded defaults and any overrides found on disk.
func (l *EmailTemplateLoader) Load() error {
	loaded := make(map[string]*template.Template, len(kinds))

	for _, kind := range kinds {
		content, source, err := l.read(kind)
		if err != nil {
			return err
		}
		tmpl, err := template.New(kind).Option("missingkey=error").Parse(content)
		if err != nil {
			return fmt.Errorf("failed to parse %s template from %s: %w", kind, source, err)
		}
		loaded[kind] = tmpl
		l.logger.Debugw("loaded email template", "kind", kind, "source", source)
	}

	l.mu.Lock()
	l.templates = loaded
	l.mu.Unlock()
	return nil
}

func (l *EmailTemplateLoader) read(kind string) (string, string, error) {
	if l.path != "" {
		filePath := filepath.Join(l.path, fmt.Sprintf("custom.%s.md", kind))
		content, err := os.ReadFile(filePath)
		switch {
		case err == nil:
			return string(content), filePath, nil
		case !os.IsNotExist(err):
			l.logger.Warnw("failed to read email template override", "file", filePath, "error", err)
		}
	}

	name := "defaults/" + kind + ".md"
	content, err := defaultsFS.ReadFile(name)
	if err != nil {
		return "", "", fmt.Errorf("missing embedded template %s: %w", name, err)
	}
	return string(content), "embedded:" + name, nil
}

// Render executes the template for kind and returns markdown.
func (l *EmailTemplateLoader) Render(kind string, data Data) (string, error) {
	l.mu.RLock()
	tmpl, ok := l.templates[kind]
	l.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("unknown email template %q", kind)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", kind, err)
	}
	return buf.String(), nil
}
