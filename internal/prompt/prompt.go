// Package prompt holds the stage prompt catalogue and renders templates into
// ordered prompt parts.
package prompt

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/kiranshivaraju/radassist/pkg/models"
)

//go:embed templates.yaml
var defaultCatalogue []byte

var ErrUnknownStage = errors.New("unknown prompt stage")

// Stage is one catalogue entry.
type Stage struct {
	Name        string
	Description string
	Modalities  []models.Modality
	tmpl        *template.Template
}

type stageYAML struct {
	Description string   `yaml:"description"`
	Modalities  []string `yaml:"modalities"`
	Template    string   `yaml:"template"`
}

type catalogueYAML struct {
	Stages map[string]stageYAML `yaml:"stages"`
}

// Catalogue is an immutable set of parsed stage templates. Safe for concurrent use.
type Catalogue struct {
	stages map[string]*Stage
}

// Default parses the embedded catalogue.
func Default() (*Catalogue, error) {
	return Parse(defaultCatalogue)
}

// Parse builds a Catalogue from YAML.
func Parse(data []byte) (*Catalogue, error) {
	var raw catalogueYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing prompt catalogue: %w", err)
	}
	if len(raw.Stages) == 0 {
		return nil, errors.New("prompt catalogue has no stages")
	}

	c := &Catalogue{stages: make(map[string]*Stage, len(raw.Stages))}
	for name, s := range raw.Stages {
		tmpl, err := template.New(name).
			Funcs(template.FuncMap{"media": func(any) (string, error) { return "", nil }}).
			Option("missingkey=error").
			Parse(s.Template)
		if err != nil {
			return nil, fmt.Errorf("parsing template %q: %w", name, err)
		}

		st := &Stage{Name: name, Description: s.Description, tmpl: tmpl}
		for _, m := range s.Modalities {
			switch models.Modality(m) {
			case models.ModalityText, models.ModalityImage:
				st.Modalities = append(st.Modalities, models.Modality(m))
			default:
				return nil, fmt.Errorf("stage %q: unknown modality %q", name, m)
			}
		}
		c.stages[name] = st
	}
	return c, nil
}

// Stage returns the named entry.
func (c *Catalogue) Stage(name string) (*Stage, error) {
	st, ok := c.stages[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStage, name)
	}
	return st, nil
}

// Render executes the named template with data. Calls to {{media x}} become media
// parts at that position; x may be a models.MediaItem, *models.MediaRef or models.MediaRef.
func (c *Catalogue) Render(name string, data any) ([]models.PromptPart, error) {
	st, err := c.Stage(name)
	if err != nil {
		return nil, err
	}
	return st.Render(data)
}

func (s *Stage) Render(data any) ([]models.PromptPart, error) {
	// The nonce keeps user-supplied text from forging a media marker.
	nonce := uuid.NewString()
	var refs []*models.MediaRef
	marker := func(i int) string { return fmt.Sprintf("\x00media:%s:%d\x00", nonce, i) }

	tmpl, err := s.tmpl.Clone()
	if err != nil {
		return nil, fmt.Errorf("cloning template %q: %w", s.Name, err)
	}
	tmpl.Funcs(template.FuncMap{
		"media": func(v any) (string, error) {
			ref, err := toRef(v)
			if err != nil {
				return "", err
			}
			refs = append(refs, ref)
			return marker(len(refs) - 1), nil
		},
	})

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return nil, fmt.Errorf("rendering %q: %w", s.Name, err)
	}

	out := sb.String()
	parts := make([]models.PromptPart, 0, 2*len(refs)+1)
	for i, ref := range refs {
		before, after, ok := strings.Cut(out, marker(i))
		if !ok {
			return nil, fmt.Errorf("rendering %q: media marker %d missing", s.Name, i)
		}
		parts = appendText(parts, before)
		parts = append(parts, models.PromptPart{Media: ref})
		out = after
	}
	parts = appendText(parts, out)
	return parts, nil
}

func appendText(parts []models.PromptPart, text string) []models.PromptPart {
	if strings.TrimSpace(text) == "" {
		return parts
	}
	return append(parts, models.PromptPart{Text: text})
}

func toRef(v any) (*models.MediaRef, error) {
	switch m := v.(type) {
	case models.MediaItem:
		return m.Ref(), nil
	case *models.MediaItem:
		return m.Ref(), nil
	case models.MediaRef:
		return &m, nil
	case *models.MediaRef:
		return m, nil
	}
	return nil, fmt.Errorf("media: unsupported value of type %T", v)
}
