package config

import (
	"ERPAuth/utils/validator"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PolicyFile overrides the built-in password lists. Omitted keys keep the
// defaults; an explicitly empty list clears them.
//
//	common_passwords: [password, qwerty]
//	keyboard_patterns: [qwer, asdf]
//	sequential_alphabets: [abcdefghijklmnopqrstuvwxyz, "0123456789"]
type PolicyFile struct {
	CommonPasswords     *[]string `yaml:"common_passwords"`
	KeyboardPatterns    *[]string `yaml:"keyboard_patterns"`
	SequentialAlphabets *[]string `yaml:"sequential_alphabets"`
}

func LoadPolicyFile(path string) (*PolicyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read password policy file: %w", err)
	}

	var file PolicyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse password policy file %s: %w", path, err)
	}
	return &file, nil
}

// Options converts the file into policy options.
func (f *PolicyFile) Options() []validator.PolicyOption {
	var opts []validator.PolicyOption
	if f.CommonPasswords != nil {
		opts = append(opts, validator.WithCommonPasswords(*f.CommonPasswords))
	}
	if f.KeyboardPatterns != nil {
		opts = append(opts, validator.WithKeyboardPatterns(*f.KeyboardPatterns))
	}
	if f.SequentialAlphabets != nil {
		opts = append(opts, validator.WithSequentialAlphabets(*f.SequentialAlphabets))
	}
	return opts
}
