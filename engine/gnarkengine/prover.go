package gnarkengine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
)

// Curve is the pairing curve the proofs are built on.
const Curve = ecc.BN254

type keys struct {
	cs constraint.ConstraintSystem
	pk groth16.ProvingKey
	vk groth16.VerifyingKey
}

// ProveFromFiles reads the four artifacts of set, proves and verifies, and
// returns the serialized proof.
func ProveFromFiles(set entities.ArtifactSet) ([]byte, error) {
	req, err := ReadWitness(set.WitnessPath())
	if err != nil {
		return nil, err
	}
	return ProveWithInputs(set, req)
}

// ProveWithInputs reads the circuit and keys of set, proves and verifies
// req, and returns the serialized proof.
func ProveWithInputs(set entities.ArtifactSet, req entities.ProofRequest) ([]byte, error) {
	k, err := loadKeys(set)
	if err != nil {
		return nil, err
	}

	a, err := assignment(req)
	if err != nil {
		return nil, err
	}
	full, err := frontend.NewWitness(a, Curve.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("error creating witness: %w", err)
	}
	public, err := full.Public()
	if err != nil {
		return nil, fmt.Errorf("error extracting public witness: %w", err)
	}

	proof, err := groth16.Prove(k.cs, k.pk, full)
	if err != nil {
		return nil, fmt.Errorf("error generating proof: %w", err)
	}
	if err := groth16.Verify(proof, k.vk, public); err != nil {
		return nil, fmt.Errorf("verification failed: %w", err)
	}

	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("error serializing proof: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadWitness decodes a witness file.
func ReadWitness(path string) (entities.ProofRequest, error) {
	var req entities.ProofRequest
	f, err := os.Open(path)
	if err != nil {
		return req, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&req); err != nil {
		return req, fmt.Errorf("error decoding JSON from %s: %w", path, err)
	}
	return req, nil
}

func loadKeys(set entities.ArtifactSet) (*keys, error) {
	k := &keys{
		cs: groth16.NewCS(Curve),
		pk: groth16.NewProvingKey(Curve),
		vk: groth16.NewVerifyingKey(Curve),
	}
	for _, item := range []struct {
		dst  io.ReaderFrom
		path string
	}{
		{k.cs, set.ConstraintSystemPath()},
		{k.pk, set.ProvingKeyPath()},
		{k.vk, set.VerifyingKeyPath()},
	} {
		if err := readArtifact(item.path, item.dst); err != nil {
			return nil, err
		}
	}
	return k, nil
}

func readArtifact(path string, dst io.ReaderFrom) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening %s: %w", path, err)
	}
	defer f.Close()

	if _, err := dst.ReadFrom(f); err != nil && err != io.EOF {
		return fmt.Errorf("error reading %s: %w", path, err)
	}
	return nil
}
