package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/mebibou/allons-y/internal/branding"
	"github.com/mebibou/allons-y/internal/luaplugin"
	"github.com/mebibou/allons-y/internal/manifest"
	"github.com/mebibou/allons-y/internal/platform"
	"github.com/mebibou/allons-y/internal/plugin"
)

//go:embed scaffolds/*/*.tmpl
var scaffoldFS embed.FS

// Template sets.
const (
	SetFeature    = "feature"
	SetFeatureLua = "feature-lua"
)

// namePlaceholder is replaced by the feature name in template file names.
const namePlaceholder = "NAME"

var validName = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Data holds the template variables.
type Data struct {
	Name        string // e.g., "mailer"
	Description string
	Key         string // install answer key, e.g., "mailer_enabled"
	EnvPrefix   string // e.g., "MAILER"
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Files     []string
	Warnings  []string
}

// ValidateName checks that name can be used as a feature name.
func ValidateName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("invalid feature name %q: use lowercase letters, digits and dashes", name)
	}
	return nil
}

// NewData creates a Data with derived fields populated.
func NewData(name string) *Data {
	snake := strings.ReplaceAll(name, "-", "_")
	return &Data{
		Name:        name,
		Description: fmt.Sprintf("%s feature: %s", branding.DisplayName(), name),
		Key:         snake + "_enabled",
		EnvPrefix:   strings.ToUpper(snake),
	}
}

// Generate renders the template set into outputDir, which must be missing or
// empty, then validates the generated feature. Validation problems are
// reported as warnings.
func Generate(set string, data *Data, outputDir string) (*Result, error) {
	if err := ValidateName(data.Name); err != nil {
		return nil, err
	}

	templatesDir := path.Join("scaffolds", set)
	entries, err := fs.ReadDir(scaffoldFS, templatesDir)
	if err != nil {
		return nil, fmt.Errorf("template set %q not found: %w", set, err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	existing, err := os.ReadDir(outputDir)
	if err == nil && len(existing) > 0 {
		return nil, fmt.Errorf("output directory %s is not empty; remove existing files first", outputDir)
	}

	result := &Result{OutputDir: outputDir}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		tmplPath := path.Join(templatesDir, entry.Name())
		tmplBytes, err := fs.ReadFile(scaffoldFS, tmplPath)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", tmplPath, err)
		}

		outName := strings.TrimSuffix(entry.Name(), ".tmpl")
		outName = strings.Replace(outName, namePlaceholder, data.Name, 1)
		outPath := filepath.Join(outputDir, outName)

		tmpl, err := template.New(entry.Name()).Parse(string(tmplBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", entry.Name(), err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("executing template %s: %w", entry.Name(), err)
		}

		perm := os.FileMode(0644)
		if strings.HasSuffix(outName, ".sh") {
			perm = 0755
		}
		if err := platform.WriteFile(outPath, buf.Bytes(), perm); err != nil {
			return nil, fmt.Errorf("writing %s: %w", outPath, err)
		}

		result.Files = append(result.Files, outName)
	}

	result.Warnings = validate(outputDir, result.Files)
	return result, nil
}

// validate loads every generated feature file the way discovery would.
func validate(dir string, files []string) []string {
	var warnings []string
	for _, name := range files {
		p := filepath.Join(dir, name)
		switch {
		case strings.HasSuffix(name, "-feature.yaml"):
			warnings = append(warnings, schemaWarnings(manifest.KindFeature, p)...)
		case strings.HasSuffix(name, "-env.yaml"):
			warnings = append(warnings, schemaWarnings(manifest.KindEnv, p)...)
		case strings.HasSuffix(name, "-feature.lua"):
			loaded, err := (&luaplugin.Loader{}).Load(p)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("%s: %v", name, err))
				continue
			}
			_ = plugin.Close([]plugin.Plugin{loaded})
		}
	}
	return warnings
}

func schemaWarnings(kind, p string) []string {
	res, err := manifest.ValidateFile(kind, p)
	if err != nil {
		return []string{fmt.Sprintf("Could not validate %s: %v", filepath.Base(p), err)}
	}
	var warnings []string
	for _, issue := range res.Issues {
		warnings = append(warnings, filepath.Base(p)+": "+issue.String())
	}
	return warnings
}
