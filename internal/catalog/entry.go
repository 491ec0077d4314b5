package catalog

// Category groups entries the way the catalog files are split.
type Category string

// Known categories.
const (
	CategoryApps     Category = "apps"
	CategoryPrivacy  Category = "privacy"
	CategoryServices Category = "services"
	CategoryRegistry Category = "registry"
	CategoryUpdates  Category = "updates"
	CategorySystem   Category = "system"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryApps,
	CategoryPrivacy,
	CategoryServices,
	CategoryRegistry,
	CategoryUpdates,
	CategorySystem,
}

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Entry is one known optional component and the commands that remove
// and restore it. Commands are complete shell command strings.
type Entry struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Category        Category `json:"category"`
	Safe            bool     `json:"safe"`
	Command         string   `json:"command"`
	RollbackCommand string   `json:"rollback_command,omitempty"`
	MatchPattern    string   `json:"match_pattern,omitempty"`

	// Source names the file the entry was loaded from, for diagnostics.
	Source string `json:"-"`
}

// HasRollback reports whether the entry can be restored.
func (e Entry) HasRollback() bool {
	return e.RollbackCommand != ""
}
