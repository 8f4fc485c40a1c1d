package services

import (
	"ERPAuth/utils/validator"
	"fmt"
	"strings"
)

const (
	LangKorean  = "ko"
	LangEnglish = "en"
)

var violationMessages = map[string]map[validator.ViolationKind]string{
	LangKorean: {
		validator.MinLength:           "비밀번호는 최소 %d자 이상이어야 합니다.",
		validator.RequiresUppercase:   "비밀번호에 영문 대문자를 1개 이상 포함해야 합니다.",
		validator.RequiresLowercase:   "비밀번호에 영문 소문자를 1개 이상 포함해야 합니다.",
		validator.RequiresDigit:       "비밀번호에 숫자를 1개 이상 포함해야 합니다.",
		validator.RequiresSpecialChar: "비밀번호에 특수문자(!@#$%%^&*(),.?\":{}|<>)를 1개 이상 포함해야 합니다.",
		validator.CommonPassword:      "너무 흔하거나 쉽게 추측할 수 있는 비밀번호입니다.",
		validator.SequentialChars:     "연속된 문자나 숫자를 %d자 이상 사용할 수 없습니다.",
		validator.RepeatingChars:      "같은 문자를 %d번 이상 연속해서 사용할 수 없습니다.",
		validator.KeyboardPattern:     "키보드 배열 패턴(예: qwer, asdf)은 사용할 수 없습니다.",
	},
	LangEnglish: {
		validator.MinLength:           "Password must be at least %d characters long.",
		validator.RequiresUppercase:   "Password must contain at least one uppercase letter.",
		validator.RequiresLowercase:   "Password must contain at least one lowercase letter.",
		validator.RequiresDigit:       "Password must contain at least one digit.",
		validator.RequiresSpecialChar: "Password must contain at least one special character (!@#$%%^&*(),.?\":{}|<>).",
		validator.CommonPassword:      "Password is too common or easily guessable.",
		validator.SequentialChars:     "Password must not contain %d or more sequential characters.",
		validator.RepeatingChars:      "Password must not repeat the same character %d or more times in a row.",
		validator.KeyboardPattern:     "Password must not contain keyboard patterns such as qwer or asdf.",
	},
}

var tooLongMessages = map[string]string{
	LangKorean:  "비밀번호는 최대 %d자까지 입력할 수 있습니다.",
	LangEnglish: "Password must be at most %d characters long.",
}

// ParseLanguage picks a supported message language from an Accept-Language
// header. Korean is the default.
func ParseLanguage(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.ToLower(strings.TrimSpace(strings.SplitN(part, ";", 2)[0]))
		switch {
		case strings.HasPrefix(tag, LangKorean):
			return LangKorean
		case strings.HasPrefix(tag, LangEnglish):
			return LangEnglish
		}
	}
	return LangKorean
}

// Messages renders one message per violation, in the same order.
func (s *PasswordPolicyService) Messages(kinds []validator.ViolationKind, lang string) []string {
	table, ok := violationMessages[lang]
	if !ok {
		table = violationMessages[LangKorean]
	}

	messages := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		format, ok := table[kind]
		if !ok {
			messages = append(messages, kind.String())
			continue
		}
		switch kind {
		case validator.MinLength:
			messages = append(messages, fmt.Sprintf(format, s.policy.MinLength))
		case validator.SequentialChars:
			messages = append(messages, fmt.Sprintf(format, s.policy.MinSequentialRunLength))
		case validator.RepeatingChars:
			messages = append(messages, fmt.Sprintf(format, s.policy.MinRepeatRunLength))
		default:
			messages = append(messages, strings.ReplaceAll(format, "%%", "%"))
		}
	}
	return messages
}

func (s *PasswordPolicyService) TooLongMessage(lang string) string {
	format, ok := tooLongMessages[lang]
	if !ok {
		format = tooLongMessages[LangKorean]
	}
	return fmt.Sprintf(format, s.policy.MaxLength)
}
