package service

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"mediconnect-backend/pkg/utils"
)

const (
	codeMin = 100000
	codeMax = 999999
)

// CodeGenerator produces a new one-time code
type CodeGenerator func() (string, error)

// RandomCode returns a uniformly random 6-digit code in 100000–999999
func RandomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+codeMin), nil
}

// normalizePhone trims whitespace and checks the number is exactly 10 digits
func normalizePhone(phone string) (string, error) {
	phone, ok := utils.NormalizePhone(phone)
	if !ok {
		return "", fmt.Errorf("%w: phone must be exactly 10 digits", ErrValidation)
	}
	return phone, nil
}
