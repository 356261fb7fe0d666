package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	// letters, digits, spaces and common punctuation: . ' - / & ( ) ,
	nameRegex = regexp.MustCompile(`^[\p{L}0-9 .'/&(),-]+$`)

	// Brazilian numbers with optional +55, 10 or 11 digits after country code
	phoneRegex = regexp.MustCompile(`^(\+?55)?[0-9]{10,11}$`)

	nonDigit = regexp.MustCompile(`[^0-9]`)
)

// RegisterValidators registers the custom tags on v.
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_name", ValidName)
	_ = v.RegisterValidation("valid_phone", ValidPhone)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
	_ = v.RegisterValidation("cnpj", ValidCNPJ)
}

// New returns a validator with the custom tags registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

func ValidName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return nameRegex.MatchString(val)
}

func ValidPhone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return phoneRegex.MatchString(OnlyDigitsKeepPlus(val))
}

// NoEmoji rejects supplementary-plane runes and symbol categories.
func NoEmoji(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}

// ValidCNPJ accepts a formatted or bare registration number with 11 to 14
// digits. Punctuation is ignored.
func ValidCNPJ(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return IsCNPJ(val)
}

func IsCNPJ(val string) bool {
	n := len(OnlyDigits(val))
	return n >= 11 && n <= 14
}

// OnlyDigits strips everything but 0-9.
func OnlyDigits(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}

// OnlyDigitsKeepPlus strips formatting but keeps a leading +.
func OnlyDigitsKeepPlus(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "+") {
		return "+" + OnlyDigits(s[1:])
	}
	return OnlyDigits(s)
}
