package userdata

// Mode says where the catalog is read from.
type Mode int

const (
	// ModeRepo reads the git-backed catalog cloned into ~/.debloat/catalog-repo/.
	ModeRepo Mode = iota
	// ModeLocal reads a directory named by catalog_dir (flag, env or config).
	ModeLocal
)

// DetectMode returns ModeLocal when a catalog directory was configured
// explicitly and ModeRepo otherwise.
func DetectMode(catalogDir string) Mode {
	if catalogDir != "" {
		return ModeLocal
	}
	return ModeRepo
}

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeLocal:
		return "local"
	case ModeRepo:
		return "repo"
	default:
		return "unknown"
	}
}
