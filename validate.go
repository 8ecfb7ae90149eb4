package docview

import (
	"fmt"
	"strings"
)

func validateBundle(b *Bundle, limits Limits) error {
	if len(b.Properties) > limits.MaxProperties {
		return fmt.Errorf("%w: too many properties", ErrLimitExceeded)
	}
	seen := make(map[string]struct{}, len(b.Properties))
	for i, p := range b.Properties {
		if p == nil {
			return fmt.Errorf("%w: property %d is nil", ErrValidation, i)
		}
		if err := validatePropertyName(p.Name()); err != nil {
			return fmt.Errorf("%w: property %d: %v", ErrValidation, i, err)
		}
		if _, ok := seen[p.Name()]; ok {
			return fmt.Errorf("%w: duplicate property %q", ErrValidation, p.Name())
		}
		seen[p.Name()] = struct{}{}
	}
	return nil
}

func validatePropertyName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is empty")
	}
	if strings.ContainsAny(name, "/[]|*") {
		return fmt.Errorf("name %q contains an illegal character", name)
	}
	return nil
}
