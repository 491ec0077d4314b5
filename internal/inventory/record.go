package inventory

// Record is one installed package as reported by the host. Matching reads
// only Identifier and DisplayName.
type Record struct {
	Identifier  string `json:"identifier" yaml:"identifier"`
	DisplayName string `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	Publisher   string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
}
