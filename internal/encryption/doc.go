// Package encryption provides authenticated encryption of whole file buffers under a
// per-file content key.
//
// Two suites are available. Fernet (the default) produces base64url tokens using
// AES-128-CBC and HMAC-SHA256 and is interoperable with Fernet implementations in
// other languages. GCM uses a tink AES-256-GCM primitive and prefixes its output with
// a small envelope header. Decrypt detects the suite from the ciphertext itself.
//
// Inputs and outputs are held in memory in full; there is no streaming path, so the
// largest file that can be processed is bounded by available memory.
package encryption
