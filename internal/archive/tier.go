package archive

import (
	"fmt"
	"strings"
)

// Tier selects the retrieval tier for restore requests. The zero value is
// TierStandard.
type Tier int

const (
	// TierStandard completes restores within hours.
	TierStandard Tier = iota
	// TierBulk is the cheapest tier and may take most of a day.
	TierBulk
	tierInvalid
)

// Set implements the method needed for pflag command flag parsing.
func (t *Tier) Set(s string) error {
	switch strings.ToLower(s) {
	case "standard":
		*t = TierStandard
	case "bulk":
		*t = TierBulk
	default:
		*t = tierInvalid
		return fmt.Errorf("invalid thaw tier %q, must be one of (Standard|Bulk)", s)
	}

	return nil
}

func (t *Tier) String() string {
	switch *t {
	case TierStandard:
		return "Standard"
	case TierBulk:
		return "Bulk"
	default:
		return "invalid"
	}
}

func (t *Tier) Type() string {
	return "tier"
}
