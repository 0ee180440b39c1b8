package utils

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	DefaultShortCodeLength = 8
	alphabet               = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

func GenerateShortCode() (string, error) {
	return GenerateShortCodeWithLength(DefaultShortCodeLength)
}

// GenerateShortCodeWithLength draws length characters from the alphanumeric
// alphabet using crypto/rand. Non-positive lengths fall back to the default.
func GenerateShortCodeWithLength(length int) (string, error) {
	if length <= 0 {
		length = DefaultShortCodeLength
	}
	return gonanoid.Generate(alphabet, length)
}
