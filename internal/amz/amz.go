package amz

import (
	"bytes"
	"crypto/cipher"
	"crypto/des"
	"encoding/base64"
	"fmt"

	"github.com/desertthunder/amzx/internal/shared"
)

// BlockSize is the DES block size in bytes.
const BlockSize = des.BlockSize

// lineWidth is the column at which [Encrypt] wraps its base64 output.
const lineWidth = 76

// Fixed container key and IV. Every AMZ file in existence was produced with these.
var (
	containerKey = [8]byte{0x29, 0xAB, 0x9D, 0x18, 0xB2, 0x44, 0x9E, 0x31}
	containerIV  = [8]byte{0x5E, 0x72, 0xD7, 0x9A, 0x11, 0xB3, 0x4F, 0xEE}
)

// newBlock is swapped in tests to exercise cipher initialisation failures.
var newBlock = des.NewCipher

// Decrypt turns raw container bytes into the decrypted playlist text.
//
// Errors wrap [shared.ErrInvalidBase64] when the container is not base64 at all and
// [shared.ErrCipherInit] when the cipher cannot be keyed. A trailing partial block is
// discarded rather than rejected.
func Decrypt(raw []byte) ([]byte, error) {
	ciphertext, err := decodeBase64(raw)
	if err != nil {
		return nil, err
	}

	ciphertext = ciphertext[:len(ciphertext)-len(ciphertext)%BlockSize]

	block, err := newBlock(containerKey[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCipherInit, err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, containerIV[:]).CryptBlocks(plaintext, ciphertext)

	return TrimPadding(plaintext), nil
}

// TrimPadding drops the trailing NUL and control bytes left after the document.
//
// Scanning backwards, it stops at the last byte that is '\n' or >= 0x20 and keeps
// everything up to and including it. A '\r' directly after the scan position also stops
// the scan; the '\r' itself is dropped and the byte before it is kept whatever it is.
// Bytes >= 0x80 count as text. Because of that lookahead a second pass can trim further:
// "x\x01\r" becomes "x\x01" and then "x".
func TrimPadding(buf []byte) []byte {
	next := func(i int) byte {
		if i < len(buf) {
			return buf[i]
		}
		return 0
	}

	i := len(buf)
	for ; i > 0; i-- {
		if buf[i-1] == '\n' || next(i) == '\r' || buf[i-1] >= ' ' {
			break
		}
	}
	return buf[:i]
}

// Encrypt wraps plaintext into a container: zero padding to the block size, DES-CBC with
// the fixed key and IV, then base64 wrapped at 76 columns with a trailing newline.
func Encrypt(plaintext []byte) ([]byte, error) {
	padded := make([]byte, len(plaintext)+(BlockSize-len(plaintext)%BlockSize)%BlockSize)
	copy(padded, plaintext)

	block, err := newBlock(containerKey[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCipherInit, err)
	}

	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, containerIV[:]).CryptBlocks(ciphertext, padded)

	encoded := base64.StdEncoding.EncodeToString(ciphertext)

	var out bytes.Buffer
	for len(encoded) > lineWidth {
		out.WriteString(encoded[:lineWidth])
		out.WriteByte('\n')
		encoded = encoded[lineWidth:]
	}
	out.WriteString(encoded)
	out.WriteByte('\n')

	return out.Bytes(), nil
}

// decodeBase64 decodes standard-alphabet base64, skipping ASCII whitespace anywhere in the
// input and tolerating missing trailing '=' padding.
func decodeBase64(raw []byte) ([]byte, error) {
	clean := make([]byte, 0, len(raw))
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			continue
		}
		clean = append(clean, b)
	}

	if len(clean) == 0 {
		return nil, fmt.Errorf("%w: empty input", shared.ErrInvalidBase64)
	}

	out := make([]byte, base64.StdEncoding.DecodedLen(len(clean)))
	n, err := base64.StdEncoding.Decode(out, clean)
	if err == nil {
		return out[:n], nil
	}

	if len(clean)%4 != 0 {
		unpadded := bytes.TrimRight(clean, "=")
		out = make([]byte, base64.RawStdEncoding.DecodedLen(len(unpadded)))
		if n, rawErr := base64.RawStdEncoding.Decode(out, unpadded); rawErr == nil {
			return out[:n], nil
		}
	}

	return nil, fmt.Errorf("%w: %v", shared.ErrInvalidBase64, err)
}
