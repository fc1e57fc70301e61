/*
Package randx provides functions for generating cryptographically secure random identifiers.

It is primarily used to generate storage object keys for uploaded avatars and
Base62 encoded confirmation codes for the signup email round-trip.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// ConfirmationCodeLength is the fixed length of signup confirmation codes.
	ConfirmationCodeLength = 32
)

// ObjectKey generates a storage key for a newly uploaded object. The random part
// is a UUID v4 (128 random bits), which makes key collisions negligible. The
// optional extension is appended verbatim (e.g. ".png").
func ObjectKey(ext string) string {
	return uuid.New().String() + ext
}

// ConfirmationCode generates a Base62 encoded code using a cryptographically
// secure random number generator (crypto/rand). It returns a string of length
// ConfirmationCodeLength and any error encountered.
func ConfirmationCode() (string, error) {
	result := make([]byte, ConfirmationCodeLength)

	for i := 0; i < ConfirmationCodeLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for confirmation code: %v", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// IsValidConfirmationCode checks if the given string is a well-formed confirmation code.
// Validity criteria include: length equals ConfirmationCodeLength and all characters
// belong to the Base62Chars set.
func IsValidConfirmationCode(code string) bool {
	if len(code) != ConfirmationCodeLength {
		return false
	}

	for _, char := range code {
		if !strings.ContainsRune(Base62Chars, char) {
			return false
		}
	}

	return true
}
