package processor

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Password minimums. The codec accepts MinPasswordLength; the share flow
// (API and CLI) asks for MinSharePasswordLength.
const (
	MinPasswordLength      = 4
	MinSharePasswordLength = 6
)

// payloadSeparator joins the fields of a payload
const payloadSeparator = "."

// payloadEncoding rejects non-zero padding bits, so every payload has
// exactly one accepted spelling
var payloadEncoding = base64.RawURLEncoding.Strict()

// EncodePayload serializes doc to JSON, compresses and encrypts it with a key
// derived from password, and returns the text payload
// "<version>.<salt>.<iv>.<ciphertext>". Every call uses a fresh salt and IV.
func EncodePayload(doc interface{}, password string) (string, error) {
	return encodePayload(doc, password, CurrentVersion)
}

func encodePayload(doc interface{}, password string, version Version) (string, error) {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}

	codec, ok := versionCodecs[version]
	if !ok {
		return "", fmt.Errorf("%w: unknown payload version %q", ErrInvalidInput, version)
	}

	plaintext, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("%w: document is not serializable: %v", ErrInvalidInput, err)
	}

	salt, iv, ciphertext, err := EncryptWithPassword(codec.pack(plaintext), password)
	if err != nil {
		return "", fmt.Errorf("payload encryption failed: %w", err)
	}

	return strings.Join([]string{
		string(version),
		payloadEncoding.EncodeToString(salt),
		payloadEncoding.EncodeToString(iv),
		payloadEncoding.EncodeToString(ciphertext),
	}, payloadSeparator), nil
}

// DecodePayload reverses EncodePayload and unmarshals the document into out.
// A wrong password and a corrupted payload both yield ErrDecryptionFailed.
func DecodePayload(payload, password string, out interface{}) error {
	raw, err := DecodePayloadRaw(payload, password)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: document does not match the target type: %v", ErrFormat, err)
	}
	return nil
}

// DecodePayloadRaw reverses EncodePayload and returns the JSON document
func DecodePayloadRaw(payload, password string) (json.RawMessage, error) {
	fields := strings.Split(strings.TrimSpace(payload), payloadSeparator)
	if len(fields) != 4 {
		return nil, formatErrorf("expected 4 fields, got %d", len(fields))
	}

	version := Version(fields[0])
	codec, ok := versionCodecs[version]
	if !ok {
		return nil, formatErrorf("unknown version %q", fields[0])
	}

	salt, err := payloadEncoding.DecodeString(fields[1])
	if err != nil || len(salt) < SaltSize {
		return nil, formatErrorf("invalid salt")
	}
	iv, err := payloadEncoding.DecodeString(fields[2])
	if err != nil || len(iv) != IVSize {
		return nil, formatErrorf("invalid iv")
	}
	ciphertext, err := payloadEncoding.DecodeString(fields[3])
	if err != nil {
		return nil, formatErrorf("invalid ciphertext encoding")
	}

	packed, err := DecryptWithPassword(salt, iv, ciphertext, password)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	plaintext, err := codec.unpack(packed)
	if err != nil {
		return nil, fmt.Errorf("%w: %s payload could not be unpacked: %v", ErrDecryptionFailed, version, err)
	}
	if !json.Valid(plaintext) {
		return nil, fmt.Errorf("%w: payload does not contain a JSON document", ErrFormat)
	}
	return json.RawMessage(plaintext), nil
}
