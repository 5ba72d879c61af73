package security

import (
	"crypto/rand"
	"fmt"
)

// codeCharset avoids ambiguous characters (0/O, 1/I/L) so staff can read codes
// back over the counter without transcription errors.
var codeCharset = []rune("ABCDEFGHJKMNPQRSTUVWXYZ23456789")

// GenerateRewardCode produces a random redemption code of the given length.
// Uniqueness is enforced by the database, not here; callers retry on collision.
func GenerateRewardCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}

	result := make([]rune, length)
	for i := 0; i < length; i++ {
		idx, err := randInt(len(codeCharset))
		if err != nil {
			return "", err
		}
		result[i] = codeCharset[idx]
	}
	return string(result), nil
}

func randInt(max int) (int, error) {
	if max <= 0 {
		return 0, fmt.Errorf("invalid max %d", max)
	}
	var buff = make([]byte, 1)
	if _, err := rand.Read(buff); err != nil {
		return 0, err
	}
	return int(buff[0]) % max, nil
}
