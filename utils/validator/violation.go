package validator

import "fmt"

// ViolationKind identifies a password rule that was not satisfied.
type ViolationKind int

// Rules are evaluated, and reported, in declaration order.
const (
	MinLength ViolationKind = iota + 1
	RequiresUppercase
	RequiresLowercase
	RequiresDigit
	RequiresSpecialChar
	CommonPassword
	SequentialChars
	RepeatingChars
	KeyboardPattern
)

var violationNames = map[ViolationKind]string{
	MinLength:           "min_length",
	RequiresUppercase:   "requires_uppercase",
	RequiresLowercase:   "requires_lowercase",
	RequiresDigit:       "requires_digit",
	RequiresSpecialChar: "requires_special_char",
	CommonPassword:      "common_password",
	SequentialChars:     "sequential_chars",
	RepeatingChars:      "repeating_chars",
	KeyboardPattern:     "keyboard_pattern",
}

// AllViolationKinds lists every kind in evaluation order.
func AllViolationKinds() []ViolationKind {
	return []ViolationKind{
		MinLength,
		RequiresUppercase,
		RequiresLowercase,
		RequiresDigit,
		RequiresSpecialChar,
		CommonPassword,
		SequentialChars,
		RepeatingChars,
		KeyboardPattern,
	}
}

func (k ViolationKind) String() string {
	if name, ok := violationNames[k]; ok {
		return name
	}
	return fmt.Sprintf("violation(%d)", int(k))
}

// MarshalText encodes the kind as its snake_case name.
func (k ViolationKind) MarshalText() ([]byte, error) {
	if _, ok := violationNames[k]; !ok {
		return nil, fmt.Errorf("unknown violation kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *ViolationKind) UnmarshalText(text []byte) error {
	for kind, name := range violationNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown violation kind %q", string(text))
}
