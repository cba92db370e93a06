package doctor

// groupDefinitions defines the check groups with their metadata.
var groupDefinitions = map[string]struct {
	Name        string
	Description string
	CheckIDs    []string
}{
	GroupHost: {
		Name:        "Docker Host",
		Description: "Required for running CI runner workloads under Docker",
		CheckIDs:    []string{IDPkgManager, IDDocker, IDCompose, IDContainerd, IDDockerService, IDSudoers},
	},
	GroupEditor: {
		Name:        "Editor Image",
		Description: "Required for the Sublime Text image build",
		CheckIDs:    []string{IDCryptoPolicy, IDSublime},
	},
}

// GetGroupDefinition returns the definition for a specific group.
func GetGroupDefinition(groupID string) (struct {
	Name        string
	Description string
	CheckIDs    []string
}, bool) {
	def, ok := groupDefinitions[groupID]
	return def, ok
}

// GetAllGroupIDs returns all group IDs.
func GetAllGroupIDs() []string {
	return []string{GroupHost, GroupEditor}
}
