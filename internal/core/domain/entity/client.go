package entity

import (
	"strings"

	"github.com/jcmexdev/backoffice-api/internal/core/domain/fault"
)

// Client is a customer record. Email and CPF are unique; CPF is stored
// normalized to its 11 digits.
type Client struct {
	ID        int64
	CreatedBy string
	Name      string
	Email     string
	CPF       string
}

// Validate checks the mandatory fields and the CPF checksum.
func (c Client) Validate() error {
	if c.Name == "" {
		return fault.New(fault.KindValidation, "client name is required")
	}
	if !strings.Contains(c.Email, "@") {
		return fault.New(fault.KindValidation, "client email %q is not a valid address", c.Email)
	}
	if !ValidCPF(c.CPF) {
		return fault.New(fault.KindValidation, "invalid CPF %q", c.CPF)
	}
	return nil
}

// NormalizeCPF strips every non-digit character.
func NormalizeCPF(cpf string) string {
	var b strings.Builder
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCPF verifies the Brazilian CPF check digits. A CPF has 11 digits;
// the last two are weighted checksums of the preceding ones, and a run of
// a single repeated digit is rejected even though its checksum matches.
func ValidCPF(cpf string) bool {
	digits := NormalizeCPF(cpf)
	if len(digits) != 11 {
		return false
	}
	if strings.Count(digits, digits[:1]) == 11 {
		return false
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(digits[i]-'0') * (10 - i)
	}
	d1 := sum * 10 % 11 % 10

	sum = 0
	for i := 0; i < 10; i++ {
		sum += int(digits[i]-'0') * (11 - i)
	}
	d2 := sum * 10 % 11 % 10

	return int(digits[9]-'0') == d1 && int(digits[10]-'0') == d2
}
