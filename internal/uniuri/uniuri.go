package uniuri

import (
	"crypto/rand"
)

const (
	// StateLen gives ~190 bits of entropy with the URL-safe alphabet.
	StateLen = 32
	// SecretLen gives ~380 bits, comfortably above the HMAC key minimum.
	SecretLen = 64
)

// URLChars is the unreserved URL alphabet (RFC 3986), 64 characters.
var URLChars = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_")

// NewState returns a random value for the OAuth state parameter.
func NewState() string {
	return NewLen(StateLen)
}

// NewLen returns a random string of length characters from URLChars.
func NewLen(length int) string {
	return string(NewLenChars(length, URLChars))
}

// NewLenChars returns length random bytes drawn uniformly from chars.
// chars must hold between 2 and 256 entries.
func NewLenChars(length int, chars []byte) []byte {
	if length <= 0 {
		return nil
	}

	clen := len(chars)
	if clen < 2 || clen > 256 {
		panic("uniuri: wrong charset length")
	}

	// bytes above maxRb are skipped to avoid modulo bias
	maxRb := 255 - (256 % clen)
	out := make([]byte, 0, length)
	buf := make([]byte, length+length/4+1)

	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			panic("uniuri: error reading random bytes: " + err.Error())
		}

		for _, rb := range buf {
			if int(rb) > maxRb {
				continue
			}

			out = append(out, chars[int(rb)%clen])
			if len(out) == length {
				break
			}
		}
	}

	return out
}
