package util

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"

	"lukechampine.com/blake3"
)

// Digests holds the hex digests recorded for every stored artifact.
type Digests struct {
	SHA256 string
	MD5    string
	Blake3 string
}

type DigestWriter struct {
	sha   hash.Hash
	md    hash.Hash
	blake hash.Hash
}

// NewDigestWriter returns a writer that feeds the sha256/md5/blake3 trio.
// Call Sum after all data has been written.
func NewDigestWriter() *DigestWriter {
	return &DigestWriter{
		sha:   sha256.New(),
		md:    md5.New(),
		blake: blake3.New(32, nil),
	}
}

func (d *DigestWriter) Write(p []byte) (int, error) {
	d.sha.Write(p)
	d.md.Write(p)
	d.blake.Write(p)
	return len(p), nil
}

func (d *DigestWriter) Sum() Digests {
	return Digests{
		SHA256: hex.EncodeToString(d.sha.Sum(nil)),
		MD5:    hex.EncodeToString(d.md.Sum(nil)),
		Blake3: hex.EncodeToString(d.blake.Sum(nil)),
	}
}

// DigestReader hashes everything it reads from r.
func DigestReader(r io.Reader) (Digests, int64, error) {
	dw := NewDigestWriter()
	n, err := io.Copy(dw, r)
	if err != nil {
		return Digests{}, n, err
	}
	return dw.Sum(), n, nil
}
