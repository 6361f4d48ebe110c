package entities

import "path/filepath"

// Default artifact file names. They are a deployment contract shared with the
// engine; the bridge only checks that they exist.
const (
	DefaultConstraintSystemFile = "r1cs.bin"
	DefaultProvingKeyFile       = "proving_key.bin"
	DefaultVerifyingKeyFile     = "verifying_key.bin"
	DefaultWitnessFile          = "witness_input.json"
)

// RequiredArtifacts is an ordered list of local files that must exist before
// an operation reaches the engine.
type RequiredArtifacts []string

// ArtifactSet names the circuit and key artifacts of one deployment.
// Relative file names are resolved against Dir.
type ArtifactSet struct {
	Dir              string `yaml:"dir" json:"dir"`
	ConstraintSystem string `yaml:"constraint_system" json:"constraintSystem" validate:"required"`
	ProvingKey       string `yaml:"proving_key" json:"provingKey" validate:"required"`
	VerifyingKey     string `yaml:"verifying_key" json:"verifyingKey" validate:"required"`
	Witness          string `yaml:"witness" json:"witness" validate:"required"`
}

// DefaultArtifactSet returns the default file names rooted at dir.
func DefaultArtifactSet(dir string) ArtifactSet {
	return ArtifactSet{
		Dir:              dir,
		ConstraintSystem: DefaultConstraintSystemFile,
		ProvingKey:       DefaultProvingKeyFile,
		VerifyingKey:     DefaultVerifyingKeyFile,
		Witness:          DefaultWitnessFile,
	}
}

// Path resolves an artifact file name against the set's directory.
func (a ArtifactSet) Path(name string) string {
	if a.Dir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(a.Dir, name)
}

// ConstraintSystemPath returns the resolved constraint-system path.
func (a ArtifactSet) ConstraintSystemPath() string { return a.Path(a.ConstraintSystem) }

// ProvingKeyPath returns the resolved proving-key path.
func (a ArtifactSet) ProvingKeyPath() string { return a.Path(a.ProvingKey) }

// VerifyingKeyPath returns the resolved verifying-key path.
func (a ArtifactSet) VerifyingKeyPath() string { return a.Path(a.VerifyingKey) }

// WitnessPath returns the resolved witness-file path.
func (a ArtifactSet) WitnessPath() string { return a.Path(a.Witness) }

// FileFlow lists the artifacts needed when the engine reads the witness file:
// constraint system, proving key, verifying key, witness.
func (a ArtifactSet) FileFlow() RequiredArtifacts {
	return RequiredArtifacts{
		a.ConstraintSystemPath(),
		a.ProvingKeyPath(),
		a.VerifyingKeyPath(),
		a.WitnessPath(),
	}
}

// InputFlow lists the artifacts needed when the witness is supplied inline.
func (a ArtifactSet) InputFlow() RequiredArtifacts {
	return RequiredArtifacts{
		a.ConstraintSystemPath(),
		a.ProvingKeyPath(),
		a.VerifyingKeyPath(),
	}
}
