package domain

import (
	"encoding/json"
	"fmt"
)

// Tripartite is a three-valued (Kleene) truth value. The zero value is
// Unknown so that freshly created propositions start undetermined.
type Tripartite int8

const (
	Unknown Tripartite = iota
	True
	False
)

// Known reports whether the value is definite (TRUE or FALSE).
func (t Tripartite) Known() bool {
	return t == True || t == False
}

// Not negates the value. UNKNOWN stays UNKNOWN.
func (t Tripartite) Not() Tripartite {
	switch t {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

// And is Kleene conjunction: FALSE dominates, then UNKNOWN.
func (t Tripartite) And(other Tripartite) Tripartite {
	if t == False || other == False {
		return False
	}
	if t == Unknown || other == Unknown {
		return Unknown
	}
	return True
}

// Or is Kleene disjunction: TRUE dominates, then UNKNOWN.
func (t Tripartite) Or(other Tripartite) Tripartite {
	if t == True || other == True {
		return True
	}
	if t == Unknown || other == Unknown {
		return Unknown
	}
	return False
}

// Implies is Kleene material implication.
func (t Tripartite) Implies(other Tripartite) Tripartite {
	if t == False || other == True {
		return True
	}
	if t == True && other == False {
		return False
	}
	return Unknown
}

// Equivalent is TRUE when implication holds both ways and FALSE otherwise.
// Unlike the other connectives it never yields UNKNOWN; an UNKNOWN input
// makes one direction non-TRUE and the result FALSE.
func (t Tripartite) Equivalent(other Tripartite) Tripartite {
	if t.Implies(other) == True && other.Implies(t) == True {
		return True
	}
	return False
}

func (t Tripartite) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// ParseTripartite converts a string form back to a value. An empty string
// parses as UNKNOWN so that omitted JSON fields default sensibly.
func ParseTripartite(s string) (Tripartite, error) {
	switch s {
	case "true":
		return True, nil
	case "false":
		return False, nil
	case "unknown", "":
		return Unknown, nil
	}
	return Unknown, fmt.Errorf("invalid truth value %q", s)
}

func (t Tripartite) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Tripartite) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseTripartite(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}
