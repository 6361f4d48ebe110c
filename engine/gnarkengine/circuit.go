package gnarkengine

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/emulated/sw_emulated"
	"github.com/consensys/gnark/std/math/emulated"
	gnarkecdsa "github.com/consensys/gnark/std/signature/ecdsa"
)

// ecdsaCircuit proves knowledge of an ECDSA signature over Msg by Pub.
type ecdsaCircuit[T, S emulated.FieldParams] struct {
	Sig gnarkecdsa.Signature[S]
	Msg emulated.Element[S]
	Pub gnarkecdsa.PublicKey[T, S]
}

// Define implements frontend.Circuit.
func (c *ecdsaCircuit[T, S]) Define(api frontend.API) error {
	params := sw_emulated.GetCurveParams[T]()
	c.Pub.Verify(api, params, &c.Msg, &c.Sig)
	return nil
}

// P256Circuit is the circuit the artifacts are compiled from.
type P256Circuit = ecdsaCircuit[emulated.P256Fp, emulated.P256Fr]

// witnessValues are the decoded numeric values of a ProofRequest.
type witnessValues struct {
	msg, r, s, x, y *big.Int
}

// decodeWitness parses the five hex fields.
func decodeWitness(req entities.ProofRequest) (witnessValues, error) {
	var (
		w   witnessValues
		err error
	)
	for _, f := range []struct {
		dst  **big.Int
		name string
		text string
	}{
		{&w.msg, entities.FieldMsgHash, req.MsgHash},
		{&w.r, entities.FieldR, req.R},
		{&w.s, entities.FieldS, req.S},
		{&w.x, entities.FieldPubX, req.PubX},
		{&w.y, entities.FieldPubY, req.PubY},
	} {
		if *f.dst, err = hexInt(f.text); err != nil {
			return witnessValues{}, fmt.Errorf("error decoding %s hex: %w", f.name, err)
		}
	}
	return w, nil
}

func hexInt(s string) (*big.Int, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(raw), nil
}

// assignment builds the full circuit assignment for req.
func assignment(req entities.ProofRequest) (*P256Circuit, error) {
	w, err := decodeWitness(req)
	if err != nil {
		return nil, err
	}
	return &P256Circuit{
		Sig: gnarkecdsa.Signature[emulated.P256Fr]{
			R: emulated.ValueOf[emulated.P256Fr](w.r),
			S: emulated.ValueOf[emulated.P256Fr](w.s),
		},
		Msg: emulated.ValueOf[emulated.P256Fr](w.msg),
		Pub: gnarkecdsa.PublicKey[emulated.P256Fp, emulated.P256Fr]{
			X: emulated.ValueOf[emulated.P256Fp](w.x),
			Y: emulated.ValueOf[emulated.P256Fp](w.y),
		},
	}, nil
}
