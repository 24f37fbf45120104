package vault

import (
	"encoding/base64"
	"fmt"
)

// Codec turns the serialized archive into the opaque string kept in the
// backend and back.
type Codec interface {
	Encode(plain string) string
	Decode(encoded string) (string, error)
}

// ObfuscationCodec is standard base64 over the UTF-8 bytes of the archive.
// It only keeps the archive from being readable at a glance in the store. It
// has no key, no integrity check and provides no confidentiality.
type ObfuscationCodec struct{}

// Encode returns the base64 form of plain.
func (ObfuscationCodec) Encode(plain string) string {
	return base64.StdEncoding.EncodeToString([]byte(plain))
}

// Decode reverses Encode.
func (ObfuscationCodec) Decode(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", &DecodeError{Message: "invalid obfuscated payload", Cause: err}
	}
	return string(raw), nil
}

// PlainCodec stores the archive as-is. Useful for debugging a backend.
type PlainCodec struct{}

// Encode returns plain unchanged.
func (PlainCodec) Encode(plain string) string { return plain }

// Decode returns encoded unchanged.
func (PlainCodec) Decode(encoded string) (string, error) { return encoded, nil }

// DecodeError reports a payload that could not be decoded.
type DecodeError struct {
	Message string
	Cause   error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("decode error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("decode error: %s", e.Message)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}
