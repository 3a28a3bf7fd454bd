// Package domain contains the mass balance model for brixcalc.
//
// The domain is transport- and persistence-agnostic: it does not depend on YAML parsing,
// net/http, or the terminal. Infra and UI adapters map into/from these types.
package domain
