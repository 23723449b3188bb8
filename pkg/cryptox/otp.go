package cryptox

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

// OTPDigits is the length of an emailed one-time code.
const OTPDigits = 6

var otpSpace = big.NewInt(1_000_000)

// GenerateOTP returns a uniformly random 6 digit decimal code, zero padded.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", fmt.Errorf("cryptox: generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", OTPDigits, n.Int64()), nil
}

// HashOTP digests a code for storage: an HMAC-SHA256 keyed with the pepper
// over the challenge id and the code.
func HashOTP(challengeID, code string) string {
	mac := hmac.New(sha256.New, []byte(GetPepper()))
	mac.Write([]byte(challengeID))
	mac.Write([]byte{0})
	mac.Write([]byte(code))
	return hex.EncodeToString(mac.Sum(nil))
}

// OTPEqual reports whether code matches the stored digest for challengeID.
func OTPEqual(challengeID, code, digest string) bool {
	want, err := hex.DecodeString(digest)
	if err != nil {
		return false
	}
	got, _ := hex.DecodeString(HashOTP(challengeID, code))
	return hmac.Equal(got, want)
}
