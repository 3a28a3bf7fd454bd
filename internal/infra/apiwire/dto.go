package apiwire

// BalanceRequest is the JSON body of POST /api/v1/balance.
// Pointers distinguish a missing field from an explicit zero.
type BalanceRequest struct {
	InitialMass   *float64 `json:"initial_mass_kg"`
	InitialBrix   *float64 `json:"initial_brix"`
	TargetBrix    *float64 `json:"target_brix"`
	SweetenerBrix *float64 `json:"sweetener_brix,omitempty"`
	// Dilution overrides the server's dilution policy when set.
	Dilution string `json:"dilution,omitempty"`
}

type InputsDTO struct {
	InitialMass   float64 `json:"initial_mass_kg"`
	InitialBrix   float64 `json:"initial_brix"`
	TargetBrix    float64 `json:"target_brix"`
	SweetenerBrix float64 `json:"sweetener_brix"`
}

type DisplayDTO struct {
	SweetenerMass string `json:"sweetener_mass"`
	FinalMass     string `json:"final_mass"`
}

// BalanceResponse is the JSON body of a successful computation. The CLI
// prints the same document with --format json.
type BalanceResponse struct {
	Inputs        InputsDTO  `json:"inputs"`
	SweetenerMass float64    `json:"sweetener_mass_kg"`
	FinalMass     float64    `json:"final_mass_kg"`
	Dilution      bool       `json:"dilution"`
	Warning       string     `json:"warning,omitempty"`
	Display       DisplayDTO `json:"display"`
	Derivation    []string   `json:"derivation,omitempty"`
}

type ErrorBody struct {
	Kind    string `json:"kind"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
