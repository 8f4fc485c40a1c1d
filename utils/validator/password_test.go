package validator

import (
	"encoding/json"
	"math/rand"
	"reflect"
	"sync"
	"testing"
)

func TestEvaluate(t *testing.T) {
	cfg := DefaultPolicyConfig()

	tests := []struct {
		name     string
		password string
		want     []ViolationKind
	}{
		{
			name:     "Strong password",
			password: "Tr0ub4dor&3XyZ",
			want:     []ViolationKind{},
		},
		{
			name:     "Common word only",
			password: "password",
			want:     []ViolationKind{RequiresUppercase, RequiresDigit, RequiresSpecialChar, CommonPassword},
		},
		{
			name:     "Empty password",
			password: "",
			want:     []ViolationKind{MinLength, RequiresUppercase, RequiresLowercase, RequiresDigit, RequiresSpecialChar},
		},
		{
			name:     "Too short",
			password: "Ab1!xyQ",
			want:     []ViolationKind{MinLength},
		},
		{
			name:     "Missing special character",
			password: "Mango7Tree",
			want:     []ViolationKind{RequiresSpecialChar},
		},
		{
			name:     "Missing uppercase",
			password: "mango7tree!",
			want:     []ViolationKind{RequiresUppercase},
		},
		{
			name:     "Missing lowercase",
			password: "MANGO7TREE!",
			want:     []ViolationKind{RequiresLowercase},
		},
		{
			name:     "Missing digit",
			password: "MangoTree!",
			want:     []ViolationKind{RequiresDigit},
		},
		{
			name:     "Forward alphabet run",
			password: "xyzabcd1!A",
			want:     []ViolationKind{SequentialChars},
		},
		{
			name:     "Reversed alphabet run",
			password: "xyzdcba1!A",
			want:     []ViolationKind{SequentialChars},
		},
		{
			name:     "Three letter run is allowed",
			password: "Xabc7!Qz",
			want:     []ViolationKind{},
		},
		{
			name:     "Keyboard walk with digit run",
			password: "Qwer1234!",
			want:     []ViolationKind{SequentialChars, KeyboardPattern},
		},
		{
			name:     "Two repeated characters",
			password: "Abx!aa9Kz",
			want:     []ViolationKind{},
		},
		{
			name:     "Three repeated characters",
			password: "Abx!aaa9Kz",
			want:     []ViolationKind{RepeatingChars},
		},
		{
			name:     "Common word embedded twice",
			password: "mypassword123word",
			want:     []ViolationKind{RequiresUppercase, RequiresSpecialChar, CommonPassword},
		},
		{
			name:     "Common word in different case",
			password: "xPaSsWoRd7!",
			want:     []ViolationKind{CommonPassword},
		},
		{
			name:     "Non-Latin uppercase does not count",
			password: "Äpple7!q",
			want:     []ViolationKind{RequiresUppercase},
		},
		{
			name:     "Distinct invalid bytes are not a repeat",
			password: "Ab1!\xff\xfe\xfdzQ",
			want:     []ViolationKind{},
		},
		{
			name:     "Same invalid byte repeated",
			password: "Ab1!\xff\xff\xffzQ",
			want:     []ViolationKind{RepeatingChars},
		},
		{
			name:     "Hangul repeated",
			password: "Ab1!가가가zQ",
			want:     []ViolationKind{RepeatingChars},
		},
		{
			name:     "Hangul counts towards length",
			password: "비밀번호Ab1!",
			want:     []ViolationKind{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.password, cfg)
			if !reflect.DeepEqual(got.Violations, tt.want) {
				t.Errorf("Evaluate(%q).Violations = %v, want %v", tt.password, got.Violations, tt.want)
			}
			if got.Valid != (len(tt.want) == 0) {
				t.Errorf("Evaluate(%q).Valid = %v, want %v", tt.password, got.Valid, len(tt.want) == 0)
			}
		})
	}
}

func TestEvaluateCommonPasswordSubstrings(t *testing.T) {
	cfg := DefaultPolicyConfig()

	for _, word := range cfg.CommonPasswords {
		password := "Ab1!" + word + "Zq9?"
		if got := Evaluate(password, cfg); !got.Has(CommonPassword) {
			t.Errorf("Evaluate(%q) = %v, want common_password", password, got.Violations)
		}
	}
}

func TestEvaluateSequentialRunsBothDirections(t *testing.T) {
	cfg := DefaultPolicyConfig()
	n := cfg.MinSequentialRunLength

	for _, alphabet := range cfg.SequentialAlphabets {
		for _, candidate := range []string{alphabet, reverse(alphabet)} {
			runes := []rune(candidate)
			for i := 0; i+n <= len(runes); i++ {
				password := "K!" + string(runes[i:i+n]) + "@M"
				if got := Evaluate(password, cfg); !got.Has(SequentialChars) {
					t.Errorf("Evaluate(%q) = %v, want sequential_chars", password, got.Violations)
				}
			}
		}
	}
}

func TestEvaluateKeyboardPatterns(t *testing.T) {
	cfg := DefaultPolicyConfig()

	for _, pattern := range cfg.KeyboardPatterns {
		password := "Z!" + pattern + "#m"
		if got := Evaluate(password, cfg); !got.Has(KeyboardPattern) {
			t.Errorf("Evaluate(%q) = %v, want keyboard_pattern", password, got.Violations)
		}
	}
}

func TestEvaluateCustomConfig(t *testing.T) {
	cfg, err := NewPolicyConfig(
		WithCommonPasswords([]string{"Hunter"}),
		WithLengthBounds(12, 64),
	)
	if err != nil {
		t.Fatalf("NewPolicyConfig() error = %v", err)
	}

	tests := []struct {
		name     string
		password string
		want     []ViolationKind
	}{
		{
			name:     "Replaced denylist matches case-insensitively",
			password: "myHUNTER2!Qzz",
			want:     []ViolationKind{CommonPassword},
		},
		{
			name:     "Default denylist no longer applies",
			password: "Password1!Zz",
			want:     []ViolationKind{},
		},
		{
			name:     "Raised minimum length",
			password: "Password1!Z",
			want:     []ViolationKind{MinLength},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.password, cfg)
			if !reflect.DeepEqual(got.Violations, tt.want) {
				t.Errorf("Evaluate(%q).Violations = %v, want %v", tt.password, got.Violations, tt.want)
			}
		})
	}
}

func TestEvaluateRepeatRunLength(t *testing.T) {
	cfg, err := NewPolicyConfig(WithRunLengths(DefaultMinSequentialRunLength, 4))
	if err != nil {
		t.Fatalf("NewPolicyConfig() error = %v", err)
	}

	if got := Evaluate("Abx!aaa9Kz", cfg); got.Has(RepeatingChars) {
		t.Errorf("three repeats flagged with a run length of 4: %v", got.Violations)
	}
	if got := Evaluate("Abx!aaaa9Kz", cfg); !got.Has(RepeatingChars) {
		t.Errorf("four repeats not flagged with a run length of 4: %v", got.Violations)
	}
}

// TestEvaluateProperties checks invariants over random input.
func TestEvaluateProperties(t *testing.T) {
	cfg := DefaultPolicyConfig()
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("abcxyzABCXYZ0123789!@#&?-_ 가é\n")

	for i := 0; i < 2000; i++ {
		runes := make([]rune, rng.Intn(24))
		for j := range runes {
			runes[j] = alphabet[rng.Intn(len(alphabet))]
		}
		password := string(runes)

		first := Evaluate(password, cfg)
		second := Evaluate(password, cfg)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("Evaluate(%q) is not deterministic: %v vs %v", password, first, second)
		}
		if first.Valid != (len(first.Violations) == 0) {
			t.Fatalf("Evaluate(%q).Valid = %v with violations %v", password, first.Valid, first.Violations)
		}
		if len(runes) < cfg.MinLength && !first.Has(MinLength) {
			t.Fatalf("Evaluate(%q) missing min_length", password)
		}
		for k := 1; k < len(first.Violations); k++ {
			if first.Violations[k-1] >= first.Violations[k] {
				t.Fatalf("Evaluate(%q) violations out of order: %v", password, first.Violations)
			}
		}
	}
}

func TestEvaluateConcurrent(t *testing.T) {
	cfg := DefaultPolicyConfig()
	want := Evaluate("Qwer1234!", cfg)

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := Evaluate("Qwer1234!", cfg); !reflect.DeepEqual(got, want) {
				errs <- "concurrent evaluation diverged"
			}
		}()
	}
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}
}

func TestResultJSON(t *testing.T) {
	cfg := DefaultPolicyConfig()

	tests := []struct {
		name     string
		password string
		want     string
	}{
		{
			name:     "Valid result has empty list",
			password: "Tr0ub4dor&3XyZ",
			want:     `{"valid":true,"violations":[]}`,
		},
		{
			name:     "Violations use names",
			password: "Qwer1234!",
			want:     `{"valid":false,"violations":["sequential_chars","keyboard_pattern"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(Evaluate(tt.password, cfg))
			if err != nil {
				t.Fatalf("json.Marshal() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("json.Marshal() = %s, want %s", data, tt.want)
			}
		})
	}
}
