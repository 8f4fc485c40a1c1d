package main

import (
	"ERPAuth/config"
	"ERPAuth/services"
	"ERPAuth/utils/logger"
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var errRejected = errors.New("one or more passwords were rejected")

type checkOptions struct {
	jsonOutput bool
	policyFile string
	lang       string
}

// CheckOutput is one line of --json output. Passwords are identified by
// position only.
type CheckOutput struct {
	Index      int      `json:"index"`
	Valid      bool     `json:"valid"`
	TooLong    bool     `json:"too_long,omitempty"`
	Violations []string `json:"violations"`
	Messages   []string `json:"messages"`
}

func newRootCmd() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "pwcheck [password...]",
		Short: "Check passwords against the account password policy",
		Long: `Evaluate passwords with the same policy the auth service enforces.
Passwords are read from the arguments, or one per line from stdin.
Blank stdin lines are skipped; pass '' as an argument to check an empty password.

Example:
  pwcheck 'Tr0ub4dor&3XyZ'
  pwcheck --json --lang en < candidates.txt
  PASSWORD_MIN_LENGTH=12 pwcheck --policy ./policy.yaml 'Spring2024!'`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.InOrStdin(), cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output one JSON object per password")
	cmd.Flags().StringVar(&opts.policyFile, "policy", "", "Path to policy YAML file (default: $PASSWORD_POLICY_FILE)")
	cmd.Flags().StringVar(&opts.lang, "lang", services.LangKorean, "Message language: ko or en")
	return cmd
}

func runCheck(in io.Reader, out io.Writer, args []string, opts *checkOptions) error {
	cfg := config.LoadConfig()
	if opts.policyFile != "" {
		cfg.Password.PolicyFile = opts.policyFile
	}
	policy, err := cfg.PasswordPolicy()
	if err != nil {
		return err
	}
	svc := services.NewPasswordPolicyService(policy)

	passwords := args
	if len(passwords) == 0 {
		if passwords, err = readLines(in); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(out)
	rejected := false
	for i, password := range passwords {
		result := checkOne(svc, password, opts.lang)
		result.Index = i + 1
		if !result.Valid {
			rejected = true
		}

		if opts.jsonOutput {
			if err := enc.Encode(result); err != nil {
				return err
			}
			continue
		}
		printResult(out, result)
	}

	if rejected {
		return errRejected
	}
	return nil
}

func checkOne(svc *services.PasswordPolicyService, password, lang string) CheckOutput {
	if svc.ExceedsMaxLength(password) {
		return CheckOutput{
			TooLong:    true,
			Violations: []string{},
			Messages:   []string{svc.TooLongMessage(lang)},
		}
	}

	result := svc.Check(password)
	return CheckOutput{
		Valid:      result.Valid,
		Violations: services.ViolationNames(result.Violations),
		Messages:   svc.Messages(result.Violations, lang),
	}
}

func printResult(out io.Writer, r CheckOutput) {
	if r.Valid {
		fmt.Fprintf(out, "#%d PASS\n", r.Index)
		return
	}
	if r.TooLong {
		fmt.Fprintf(out, "#%d FAIL too_long\n", r.Index)
	} else {
		fmt.Fprintf(out, "#%d FAIL %s\n", r.Index, strings.Join(r.Violations, ","))
	}
	for _, msg := range r.Messages {
		fmt.Fprintf(out, "  - %s\n", msg)
	}
}

func readLines(in io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read passwords: %w", err)
	}
	return lines, nil
}

func main() {
	logger.InitWithWriter(os.Stderr)

	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errRejected) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
