package model

import "time"

// Sample is one generated personal record: the unit written to JSONL
// output and returned by the serve API.
type Sample struct {
	Name       string        `json:"name,omitempty"`
	MiddleName string        `json:"middle_name,omitempty"`
	Surname    string        `json:"surnames,omitempty"`
	City       string        `json:"city"`
	State      string        `json:"state"`
	StateAbbr  string        `json:"state_abbr"`
	Address    AddressRecord `json:"address"`
	Documents  Documents     `json:"documents,omitempty"`
	Phone      string        `json:"phone,omitempty"`
}

// Documents holds the national ID numbers attached to a sample.
type Documents struct {
	CPF  string `json:"cpf,omitempty"`
	RG   string `json:"rg,omitempty"`
	CNPJ string `json:"cnpj,omitempty"`
	PIS  string `json:"pis,omitempty"`
	CEI  string `json:"cei,omitempty"`
}

// RunStatus tracks the lifecycle of a generation run in the store.
type RunStatus string

const (
	RunStatusQueued    RunStatus = "queued"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one invocation of the sample generator, as persisted by the
// optional run-tracking store.
type Run struct {
	ID        string    `json:"id"`
	Qty       int       `json:"qty"`
	Online    bool      `json:"online"`
	Status    RunStatus `json:"status"`
	Samples   int       `json:"samples"`
	Degraded  int       `json:"degraded"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
