// Package cep resolves Brazilian postal codes against external
// directory services, batching lookups concurrently while keeping
// per-item failures isolated from the batch.
package cep

// FailureKind classifies why a single lookup produced no live record.
type FailureKind string

const (
	// FailureNotFound means no directory service knows the CEP.
	FailureNotFound FailureKind = "not_found"
	// FailureTimeout means the lookup exceeded its deadline.
	FailureTimeout FailureKind = "timeout"
	// FailureMalformed means the input was not reducible to 8 digits.
	FailureMalformed FailureKind = "malformed"
	// FailureService covers transport and server-side errors.
	FailureService FailureKind = "service_error"
)

// Live is the subset of address fields a directory service returned.
// Fields the service had no data for are empty strings, never omitted,
// so merge logic downstream inspects a uniform shape. Directory
// services do not supply building numbers.
type Live struct {
	CEP          string `json:"cep"`
	State        string `json:"state"`
	City         string `json:"city"`
	Neighborhood string `json:"neighborhood"`
	Street       string `json:"street"`
	Service      string `json:"service"`
}

// Failure carries the original code and the error classification for
// one failed lookup.
type Failure struct {
	Kind FailureKind `json:"kind"`
	Code string      `json:"cep"`
	// Detail is a human-readable cause, for logging only.
	Detail string `json:"detail,omitempty"`
}

// Outcome is the result of one lookup: exactly one of Live or Failure
// is set. Created per request and consumed immediately by enrichment.
type Outcome struct {
	Code    string   `json:"cep"`
	Live    *Live    `json:"live,omitempty"`
	Failure *Failure `json:"failure,omitempty"`
}

// OK reports whether the lookup produced a live record.
func (o Outcome) OK() bool {
	return o.Live != nil
}

func failure(code string, kind FailureKind, detail string) Outcome {
	return Outcome{
		Code:    code,
		Failure: &Failure{Kind: kind, Code: code, Detail: detail},
	}
}
