package entities

// Wire names of the ProofRequest fields, in declared order.
const (
	FieldMsgHash = "msgHash"
	FieldR       = "r"
	FieldS       = "s"
	FieldPubX    = "pubX"
	FieldPubY    = "pubY"
)

// ProofRequest carries the inline witness for a knowledge-of-signature proof:
// the message hash, the ECDSA signature (r, s) and the public key (x, y),
// each as hex text. Treat it as a value; copies never share state.
type ProofRequest struct {
	MsgHash string `json:"msgHash" validate:"noterm,utf8" jsonschema:"description=Hex encoded message hash"`
	R       string `json:"r" validate:"noterm,utf8" jsonschema:"description=Hex encoded signature r"`
	S       string `json:"s" validate:"noterm,utf8" jsonschema:"description=Hex encoded signature s"`
	PubX    string `json:"pubX" validate:"noterm,utf8" jsonschema:"description=Hex encoded public key x coordinate"`
	PubY    string `json:"pubY" validate:"noterm,utf8" jsonschema:"description=Hex encoded public key y coordinate"`
}

// NewProofRequest builds a ProofRequest from its five fields.
func NewProofRequest(msgHash, r, s, pubX, pubY string) ProofRequest {
	return ProofRequest{MsgHash: msgHash, R: r, S: s, PubX: pubX, PubY: pubY}
}

// RequestField is a single named field of a ProofRequest.
type RequestField struct {
	Name  string
	Value string
}

// Fields returns the request fields in declared order.
func (r ProofRequest) Fields() [5]RequestField {
	return [5]RequestField{
		{Name: FieldMsgHash, Value: r.MsgHash},
		{Name: FieldR, Value: r.R},
		{Name: FieldS, Value: r.S},
		{Name: FieldPubX, Value: r.PubX},
		{Name: FieldPubY, Value: r.PubY},
	}
}
