package validator

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultPolicyConfig(t *testing.T) {
	cfg := DefaultPolicyConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultPolicyConfig().Validate() error = %v", err)
	}
	if cfg.MinLength != 8 || cfg.MaxLength != 128 {
		t.Errorf("length bounds = %d..%d, want 8..128", cfg.MinLength, cfg.MaxLength)
	}
	if cfg.MinSequentialRunLength != 4 || cfg.MinRepeatRunLength != 3 {
		t.Errorf("run lengths = %d/%d, want 4/3", cfg.MinSequentialRunLength, cfg.MinRepeatRunLength)
	}

	wantAlphabets := []string{"abcdefghijklmnopqrstuvwxyz", "0123456789", "qwertyuiop", "asdfghjkl", "zxcvbnm"}
	if len(cfg.SequentialAlphabets) != len(wantAlphabets) {
		t.Fatalf("SequentialAlphabets = %v, want %v", cfg.SequentialAlphabets, wantAlphabets)
	}
	for i, a := range wantAlphabets {
		if cfg.SequentialAlphabets[i] != a {
			t.Errorf("SequentialAlphabets[%d] = %q, want %q", i, cfg.SequentialAlphabets[i], a)
		}
	}

	for _, want := range []string{"qwer", "asdf", "zxcv", "1234", "4567", "7890", "qwerty", "asdfgh", "zxcvbn"} {
		found := false
		for _, p := range cfg.KeyboardPatterns {
			if p == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("KeyboardPatterns missing %q", want)
		}
	}

	if len(cfg.CommonPasswords) == 0 {
		t.Error("CommonPasswords is empty")
	}
}

func TestPolicyConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    []PolicyOption
		wantErr error
	}{
		{
			name:    "Defaults",
			wantErr: nil,
		},
		{
			name:    "Zero minimum length",
			opts:    []PolicyOption{WithLengthBounds(0, 128)},
			wantErr: ErrInvalidLengthBounds,
		},
		{
			name:    "Maximum below minimum",
			opts:    []PolicyOption{WithLengthBounds(16, 12)},
			wantErr: ErrInvalidLengthBounds,
		},
		{
			name:    "No alphabets",
			opts:    []PolicyOption{WithSequentialAlphabets(nil)},
			wantErr: ErrNoAlphabets,
		},
		{
			name:    "Empty alphabet entry",
			opts:    []PolicyOption{WithSequentialAlphabets([]string{"abc", ""})},
			wantErr: ErrEmptyListEntry,
		},
		{
			name:    "Empty common password entry",
			opts:    []PolicyOption{WithCommonPasswords([]string{""})},
			wantErr: ErrEmptyListEntry,
		},
		{
			name:    "Sequential run of one",
			opts:    []PolicyOption{WithRunLengths(1, 3)},
			wantErr: ErrInvalidRunLength,
		},
		{
			name:    "Repeat run of one",
			opts:    []PolicyOption{WithRunLengths(4, 1)},
			wantErr: ErrInvalidRunLength,
		},
		{
			name:    "Empty keyboard list is allowed",
			opts:    []PolicyOption{WithKeyboardPatterns(nil)},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPolicyConfig(tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewPolicyConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPolicyConfigValidateReportsFirstList(t *testing.T) {
	cfg := DefaultPolicyConfig()
	cfg.SequentialAlphabets = []string{"abc", ""}
	cfg.CommonPasswords = []string{""}
	cfg.KeyboardPatterns = []string{"qwer", ""}

	for i := 0; i < 20; i++ {
		err := cfg.Validate()
		if !errors.Is(err, ErrEmptyListEntry) {
			t.Fatalf("Validate() error = %v, want %v", err, ErrEmptyListEntry)
		}
		if !strings.Contains(err.Error(), "sequential alphabets[1]") {
			t.Fatalf("Validate() error = %q, want sequential alphabets[1]", err)
		}
	}
}

func TestNewPolicyConfigLowercasesLists(t *testing.T) {
	cfg, err := NewPolicyConfig(
		WithCommonPasswords([]string{"LetMeIn"}),
		WithKeyboardPatterns([]string{"QAZ"}),
		WithSequentialAlphabets([]string{"ABCDEF"}),
	)
	if err != nil {
		t.Fatalf("NewPolicyConfig() error = %v", err)
	}

	if cfg.CommonPasswords[0] != "letmein" {
		t.Errorf("CommonPasswords[0] = %q, want letmein", cfg.CommonPasswords[0])
	}
	if cfg.KeyboardPatterns[0] != "qaz" {
		t.Errorf("KeyboardPatterns[0] = %q, want qaz", cfg.KeyboardPatterns[0])
	}
	if cfg.SequentialAlphabets[0] != "abcdef" {
		t.Errorf("SequentialAlphabets[0] = %q, want abcdef", cfg.SequentialAlphabets[0])
	}
}

func TestViolationKindText(t *testing.T) {
	for _, kind := range AllViolationKinds() {
		text, err := kind.MarshalText()
		if err != nil {
			t.Fatalf("%v.MarshalText() error = %v", kind, err)
		}

		var back ViolationKind
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) error = %v", text, err)
		}
		if back != kind {
			t.Errorf("UnmarshalText(%q) = %v, want %v", text, back, kind)
		}
	}

	if _, err := ViolationKind(99).MarshalText(); err == nil {
		t.Error("MarshalText() on unknown kind should fail")
	}
	if got := ViolationKind(99).String(); got != "violation(99)" {
		t.Errorf("String() = %q, want violation(99)", got)
	}
}
