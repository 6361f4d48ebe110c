package entities

// UnknownFailureMessage is reported when the engine signals failure without
// saying why.
const UnknownFailureMessage = "unknown failure: engine reported failure without an error message"

// VerificationOutcome is the result of one verification.
// A nil ErrorMessage or ProofData means the engine did not provide that field.
type VerificationOutcome struct {
	ErrorMessage *string `json:"errorMessage"`
	ProofData    *string `json:"proofData"`
	Success      bool    `json:"success"`
}

// OutcomeSuccess creates a successful outcome, optionally carrying proof data.
func OutcomeSuccess(proofData *string) VerificationOutcome {
	return VerificationOutcome{Success: true, ProofData: proofData}
}

// OutcomeFailure creates a failed outcome with the given message.
func OutcomeFailure(message string) VerificationOutcome {
	return VerificationOutcome{Success: false, ErrorMessage: &message}
}

// OutcomeUnknownFailure creates the outcome used in place of an unexplained
// engine failure.
func OutcomeUnknownFailure() VerificationOutcome {
	return OutcomeFailure(UnknownFailureMessage)
}

// IsAmbiguous reports whether the outcome is a failure with no usable message.
func (o VerificationOutcome) IsAmbiguous() bool {
	return !o.Success && (o.ErrorMessage == nil || *o.ErrorMessage == "")
}

// Error returns the error message, or "" when absent.
func (o VerificationOutcome) Error() string {
	if o.ErrorMessage == nil {
		return ""
	}
	return *o.ErrorMessage
}

// Proof returns the proof data, or "" when absent.
func (o VerificationOutcome) Proof() string {
	if o.ProofData == nil {
		return ""
	}
	return *o.ProofData
}
