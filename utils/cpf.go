package utils

import (
	"strings"
	"unicode"
)

// CPFLength is the number of digits in a normalized CPF
const CPFLength = 11

// NormalizeCPF strips every non-digit character from a CPF, so
// "123.456.789-09" and "12345678909" compare equal.
func NormalizeCPF(cpf string) string {
	var b strings.Builder
	b.Grow(CPFLength)
	for _, r := range cpf {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCPF reports whether the CPF normalizes to exactly 11 digits
func ValidCPF(cpf string) bool {
	return len(NormalizeCPF(cpf)) == CPFLength
}
