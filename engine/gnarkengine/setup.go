package gnarkengine

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"

	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// Setup compiles the circuit, runs a groth16 trusted setup and writes the
// constraint system, proving key, verifying key and a fresh valid witness to
// set. The directory is created if needed.
func Setup(set entities.ArtifactSet) error {
	SilenceLogs()

	if set.Dir != "" {
		if err := os.MkdirAll(set.Dir, 0o755); err != nil {
			return fmt.Errorf("failed to create artifact directory: %w", err)
		}
	}

	cs, err := frontend.Compile(Curve.ScalarField(), r1cs.NewBuilder, &P256Circuit{})
	if err != nil {
		return fmt.Errorf("failed to compile circuit: %w", err)
	}
	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return fmt.Errorf("failed to run setup: %w", err)
	}

	for _, item := range []struct {
		src  io.WriterTo
		path string
	}{
		{cs, set.ConstraintSystemPath()},
		{pk, set.ProvingKeyPath()},
		{vk, set.VerifyingKeyPath()},
	} {
		if err := writeArtifact(item.path, item.src); err != nil {
			return err
		}
	}

	req, err := GenerateWitness([]byte("ksig-bridge reference witness"))
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode witness: %w", err)
	}
	return os.WriteFile(set.WitnessPath(), data, 0o600)
}

// GenerateWitness signs sha256(msg) with a fresh P-256 key and returns the
// hex encoded witness.
func GenerateWitness(msg []byte) (entities.ProofRequest, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return entities.ProofRequest{}, fmt.Errorf("failed to generate key: %w", err)
	}
	digest := sha256.Sum256(msg)
	der, err := ecdsa.SignASN1(rand.Reader, key, digest[:])
	if err != nil {
		return entities.ProofRequest{}, fmt.Errorf("failed to sign: %w", err)
	}
	r, s, err := parseSignature(der)
	if err != nil {
		return entities.ProofRequest{}, err
	}
	if !ecdsa.Verify(&key.PublicKey, digest[:], r, s) {
		return entities.ProofRequest{}, errors.New("generated signature does not verify")
	}

	pub, err := key.PublicKey.ECDH()
	if err != nil {
		return entities.ProofRequest{}, fmt.Errorf("failed to encode public key: %w", err)
	}
	// Uncompressed point: 0x04 || X || Y.
	point := pub.Bytes()
	return entities.NewProofRequest(
		hex.EncodeToString(digest[:]),
		hex.EncodeToString(r.Bytes()),
		hex.EncodeToString(s.Bytes()),
		hex.EncodeToString(point[1:33]),
		hex.EncodeToString(point[33:]),
	), nil
}

// parseSignature splits an ASN.1 DER ECDSA signature into r and s.
func parseSignature(der []byte) (r, s *big.Int, err error) {
	r, s = new(big.Int), new(big.Int)
	var inner cryptobyte.String
	in := cryptobyte.String(der)
	if !in.ReadASN1(&inner, asn1.SEQUENCE) ||
		!in.Empty() ||
		!inner.ReadASN1Integer(r) ||
		!inner.ReadASN1Integer(s) ||
		!inner.Empty() {
		return nil, nil, errors.New("invalid ASN.1 signature")
	}
	return r, s, nil
}

func writeArtifact(path string, src io.WriterTo) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := src.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
