package rendering

import (
	"embed"
	"fmt"
	htmltemplate "html/template"
	"sort"
	"strings"
	"sync"
)

//go:embed templates/*.html
var templateFiles embed.FS

// templateSources maps a template's display name to its embedded layout file.
// Adding a template means adding a file and a row here; the layout is data
// (CSS plus one content slot), not code.
var templateSources = map[string]string{
	"Modern Professional": "templates/modern_professional.html",
	"Classic Clean":       "templates/classic_clean.html",
}

// DefaultTemplate is used when the caller does not pick a layout.
const DefaultTemplate = "Modern Professional"

var (
	registry     map[string]*htmltemplate.Template
	registryOnce sync.Once
)

func loadRegistry() map[string]*htmltemplate.Template {
	registryOnce.Do(func() {
		registry = make(map[string]*htmltemplate.Template, len(templateSources))
		for name, path := range templateSources {
			data, err := templateFiles.ReadFile(path)
			if err != nil {
				panic(fmt.Sprintf("embedded template %s missing: %v", path, err))
			}
			tmpl, err := htmltemplate.New(name).Parse(string(data))
			if err != nil {
				panic(fmt.Sprintf("embedded template %s invalid: %v", path, err))
			}
			registry[name] = tmpl
		}
	})
	return registry
}

// TemplateNames lists the registered template display names, sorted.
func TemplateNames() []string {
	reg := loadRegistry()
	names := make([]string, 0, len(reg))
	for name := range reg {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RenderTemplate substitutes the HTML fragment into the named template's
// content slot, wholesale, and returns the composed document. An unknown
// name or an execution failure is a TemplateError.
func RenderTemplate(name, fragment string) (string, error) {
	tmpl, ok := loadRegistry()[name]
	if !ok {
		return "", &TemplateError{Message: fmt.Sprintf("unknown template %q", name)}
	}

	var out strings.Builder
	err := tmpl.Execute(&out, struct{ Content htmltemplate.HTML }{
		// The fragment is our own goldmark output; inserting it as
		// template.HTML keeps html/template from escaping it again.
		Content: htmltemplate.HTML(fragment),
	})
	if err != nil {
		return "", &TemplateError{Message: "failed to execute template", Cause: err}
	}
	return out.String(), nil
}
