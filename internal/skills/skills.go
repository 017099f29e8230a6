// Package skills places categorized skill badges for a viewport mode:
// concentric rings on desktop, wrapped category groups elsewhere.
package skills

// CategoryID identifies a skill grouping.
type CategoryID string

const (
	Frontend CategoryID = "frontend"
	Backend  CategoryID = "backend"
	DevOps   CategoryID = "devops"
	Tools    CategoryID = "tools"
	AI       CategoryID = "ai"
)

// Category carries a grouping's display metadata.
type Category struct {
	ID      CategoryID `yaml:"id" json:"id"`
	Label   string     `yaml:"label" json:"label"`
	LabelTR string     `yaml:"labelTr" json:"labelTr"`
	Color   string     `yaml:"color" json:"color"`
}

// Title returns the label for a language code.
func (c Category) Title(lang string) string {
	if lang == "tr" && c.LabelTR != "" {
		return c.LabelTR
	}
	return c.Label
}

// Item is one skill badge.
type Item struct {
	Name     string     `yaml:"name" json:"name"`
	Category CategoryID `yaml:"category" json:"category"`
}

// DefaultCategories is the fixed ring order, innermost first.
func DefaultCategories() []Category {
	return []Category{
		{ID: Frontend, Label: "Frontend", LabelTR: "Frontend", Color: "from-cyan-400 to-blue-500"},
		{ID: Backend, Label: "Backend", LabelTR: "Backend", Color: "from-purple-400 to-pink-500"},
		{ID: DevOps, Label: "DevOps", LabelTR: "DevOps", Color: "from-emerald-400 to-teal-500"},
		{ID: Tools, Label: "Tools & Practices", LabelTR: "Araçlar & Pratikler", Color: "from-amber-400 to-orange-500"},
		{ID: AI, Label: "AI Tools", LabelTR: "Yapay Zeka Araçları", Color: "from-violet-400 to-indigo-500"},
	}
}

// Known reports whether id is one of cats.
func Known(cats []Category, id CategoryID) bool {
	for _, c := range cats {
		if c.ID == id {
			return true
		}
	}
	return false
}
