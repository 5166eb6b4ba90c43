package ports

// SecurityPort protects secrets stored at rest, such as aggregation access tokens.
type SecurityPort interface {
	// Encrypt returns nonce||ciphertext for the given plaintext.
	Encrypt(plaintext []byte) (ciphertext []byte, err error)

	// Decrypt reverses Encrypt and fails on tampered input.
	Decrypt(ciphertext []byte) (plaintext []byte, err error)

	// SealString encrypts and base64-encodes a value for a TEXT column.
	SealString(plaintext string) (string, error)

	// OpenString reverses SealString.
	OpenString(sealed string) (string, error)
}
