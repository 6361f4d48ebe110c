package ports

// ArtifactInspector checks that a local artifact exists without reading it.
type ArtifactInspector interface {
	// Inspect returns nil if path names an existing regular file.
	Inspect(path string) error
}
