package shader

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"
)

// DomainSource separates source hashes from any other digest the tool may compute.
// The version suffix allows the input layout to change later.
const DomainSource = "shadergen/source/v1"

// SourceHash computes a content hash of a resolved shader pair.
//
// Format: SHA256(domain + 0x00 + NFC(vertex) + 0x00 + NFC(fragment))
//
// Sources are NFC normalised so that visually identical text hashes the same
// regardless of how an editor composed it.
func SourceHash(vertex, fragment string) string {
	h := sha256.New()
	h.Write([]byte(DomainSource))
	h.Write([]byte{0x00})
	h.Write(norm.NFC.Bytes([]byte(vertex)))
	h.Write([]byte{0x00})
	h.Write(norm.NFC.Bytes([]byte(fragment)))
	return hex.EncodeToString(h.Sum(nil))
}
