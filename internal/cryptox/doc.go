// Package cryptox provides the symmetric cipher used to seal backups and
// the key stores that hold its key.
//
// # Artifact layout
//
// Cipher.Encrypt returns one self-contained buffer:
//
//	[12-byte nonce][ciphertext][16-byte GCM tag]
//
// The key is AES-256 and lives in a KeyStore under an alias. A KeyStore
// hands out a ready cipher.AEAD rather than raw key bytes, so the cipher
// never holds extractable key material.
//
// # Errors
//
// Decrypt distinguishes two failure kinds, both matchable with errors.Is:
//
//   - ErrAuthenticationFailure: the tag did not verify (tampering,
//     truncation, a different key) or the input is too short;
//   - ErrKeyUnavailable: no key exists under the alias, or the store
//     could not be read.
//
// # Moving keys between devices
//
// WrapKey/UnwrapKey seal raw key material under a passphrase (scrypt KDF +
// AES-GCM). MetadataKeyStore.ExportWrapped/ImportWrapped use them so a
// backup can be restored on another device.
package cryptox
