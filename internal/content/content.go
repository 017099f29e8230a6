// Package content holds the site's static tables: owner details, skills,
// projects, the experience timeline and the tr/en translation bundles.
package content

import (
	_ "embed"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/elvannunal/portfolio/internal/skills"
)

//go:embed content.yaml
var defaultYAML []byte

// ErrInvalidContent is returned when a content table fails validation.
var ErrInvalidContent = errors.New("invalid content")

// Localized is a string in both site languages.
type Localized struct {
	TR string `yaml:"tr"`
	EN string `yaml:"en"`
}

// Get returns the text for lang, falling back to English.
func (l Localized) Get(lang string) string {
	if lang == "tr" && l.TR != "" {
		return l.TR
	}
	return l.EN
}

// LocalizedList is a string list in both site languages.
type LocalizedList struct {
	TR []string `yaml:"tr"`
	EN []string `yaml:"en"`
}

// Get returns the list for lang, falling back to English.
func (l LocalizedList) Get(lang string) []string {
	if lang == "tr" && len(l.TR) > 0 {
		return l.TR
	}
	return l.EN
}

type Owner struct {
	Name     string `yaml:"name"`
	Brand    string `yaml:"brand"`
	GitHub   string `yaml:"github"`
	LinkedIn string `yaml:"linkedin"`
	Email    string `yaml:"email"`
}

type Project struct {
	ID          string    `yaml:"id"`
	Title       Localized `yaml:"title"`
	Description Localized `yaml:"description"`
	Tags        []string  `yaml:"tags"`
	Image       string    `yaml:"image"`
	GitHub      string    `yaml:"github"`
	Live        string    `yaml:"live"`
}

type TimelineEntry struct {
	Period       Localized     `yaml:"period"`
	Title        Localized     `yaml:"title"`
	Company      string        `yaml:"company"`
	Location     Localized     `yaml:"location"`
	Description  Localized     `yaml:"description"`
	Achievements LocalizedList `yaml:"achievements"`
}

// Translations is one language's UI copy.
type Translations struct {
	Labels map[string]string `yaml:"labels"`
	Nav    map[string]string `yaml:"nav"`
	Hero   struct {
		Greeting        string `yaml:"greeting"`
		Title           string `yaml:"title"`
		Summary         string `yaml:"summary"`
		CTAProjects     string `yaml:"ctaProjects"`
		CTAContact      string `yaml:"ctaContact"`
		ScrollIndicator string `yaml:"scrollIndicator"`
	} `yaml:"hero"`
	About struct {
		Title string `yaml:"title"`
	} `yaml:"about"`
	Skills struct {
		Badge    string `yaml:"badge"`
		Title    string `yaml:"title"`
		Subtitle string `yaml:"subtitle"`
	} `yaml:"skills"`
	Projects struct {
		Title      string `yaml:"title"`
		Subtitle   string `yaml:"subtitle"`
		ViewGitHub string `yaml:"viewGithub"`
		ViewLive   string `yaml:"viewLive"`
	} `yaml:"projects"`
	Contact map[string]string `yaml:"contact"`
	Footer  struct {
		Tagline string `yaml:"tagline"`
		Rights  string `yaml:"rights"`
	} `yaml:"footer"`
}

// Label returns a section label by key, or the key itself.
func (t *Translations) Label(key string) string {
	if v, ok := t.Labels[key]; ok {
		return v
	}
	return key
}

// Site is the full content set.
type Site struct {
	Owner        Owner                    `yaml:"owner"`
	Categories   []skills.Category        `yaml:"categories"`
	Skills       []skills.Item            `yaml:"skills"`
	Projects     []Project                `yaml:"projects"`
	Timeline     []TimelineEntry          `yaml:"timeline"`
	Translations map[string]*Translations `yaml:"translations"`
}

// T returns the bundle for lang, falling back to English.
func (s *Site) T(lang string) *Translations {
	if t, ok := s.Translations[lang]; ok {
		return t
	}
	return s.Translations["en"]
}

// Load parses the embedded content.
func Load() (*Site, error) {
	return Parse(defaultYAML)
}

// Parse decodes and validates a content document.
func Parse(data []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "decode content")
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Site) validate() error {
	if len(s.Categories) == 0 {
		s.Categories = skills.DefaultCategories()
	}
	for i, it := range s.Skills {
		if it.Name == "" {
			return errors.Wrapf(ErrInvalidContent, "skill %d has no name", i)
		}
		if !skills.Known(s.Categories, it.Category) {
			return errors.Wrapf(ErrInvalidContent, "skill %q has unknown category %q", it.Name, it.Category)
		}
	}
	seen := make(map[string]bool, len(s.Projects))
	for i, p := range s.Projects {
		if p.ID == "" || p.Title.EN == "" {
			return errors.Wrapf(ErrInvalidContent, "project %d needs an id and an English title", i)
		}
		if seen[p.ID] {
			return errors.Wrapf(ErrInvalidContent, "duplicate project id %q", p.ID)
		}
		seen[p.ID] = true
	}
	if _, ok := s.Translations["en"]; !ok {
		return errors.Wrap(ErrInvalidContent, "missing English translations")
	}
	return nil
}
