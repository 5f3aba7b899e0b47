package discord

import (
	"crypto/ed25519"
)

// VerifyKey reports whether signature is a valid Ed25519 signature of
// timestamp ‖ body under publicKey. Signature and public key are hex text.
//
// Malformed input of any kind yields false, callers cannot tell it apart from
// a wrong signature.
func VerifyKey(body, signature, timestamp, publicKey Value) (valid bool) {
	defer func() {
		if r := recover(); r != nil {
			valid = false
		}
	}()

	timestampData, err := ToBytes(timestamp, FormatUTF8)
	if err != nil {
		return false
	}

	bodyData, err := ToBytes(body, FormatUTF8)
	if err != nil {
		return false
	}

	message := Concat(timestampData, bodyData)

	signatureData, err := ToBytes(signature, FormatHex)
	if err != nil {
		return false
	}

	publicKeyData, err := ToBytes(publicKey, FormatHex)
	if err != nil {
		return false
	}

	if len(publicKeyData) != ed25519.PublicKeySize {
		return false
	}

	// The three high bits of the last byte are always zero for a canonical S.
	if len(signatureData) != ed25519.SignatureSize || signatureData[63]&224 != 0 {
		return false
	}

	return ed25519.Verify(ed25519.PublicKey(publicKeyData), message, signatureData)
}
