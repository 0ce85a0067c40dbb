package amz

import (
	"bytes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/amzx/internal/shared"
)

const (
	// DES-CBC of scenarioXML zero-padded to 184 bytes, base64 without line breaks.
	scenarioXML       = `<playlist><trackList><track><location>http://x/a.mp3</location><creator>Artist</creator><album>Album</album><title>Song</title><trackNum>1</trackNum></track></trackList></playlist>`
	scenarioContainer = "wdyvXt8BqndKTyEwLZoPmofgSvB6yNkpTTuj44NaKpnZ9buVdpSw5799t/DXFHfsM0X9wdxekA0EY6jdzjk40jNyOGC8F9B9AV9j8XbwbX8HLdn0Kgavg55lW1KV2aLRWpSjp5NIlJbnxJm+w1ozKVWbQP0r61jUIqpBt1czq2E2DUiRm6JV9nkJ8fxY/x4x9wQXr9EWDIL9WETruEUwS2Gf16byXJJ9Oxlmvaykz6VEcLHVFiAwcQ=="

	// A 104 byte document (13 whole blocks, no padding) ending in a newline, wrapped at 64 columns.
	prologXML       = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<playlist version=\"1\" xmlns=\"http://xspf.org/ns/0/\">\n</playlist>\n"
	prologContainer = "gtBcZ7b78KPmYdCiXnDtCA9MSZH6lQtR/zkQOadQQAv7iFkFICa5eULXvLt/aPaD\nXzWGg5UVMDO1ejCDZPVKapfVIKeVrqpjra32O6rmgjzxynmNrphLjwjhkzDIOo5f\n9oQbfmTb4Us=\n"
)

func TestDecrypt(t *testing.T) {
	t.Run("known container", func(t *testing.T) {
		got, err := Decrypt([]byte(scenarioContainer))
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if string(got) != scenarioXML {
			t.Errorf("unexpected plaintext:\n got: %q\nwant: %q", got, scenarioXML)
		}
	})

	t.Run("wrapped container keeps trailing newline", func(t *testing.T) {
		got, err := Decrypt([]byte(prologContainer))
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if string(got) != prologXML {
			t.Errorf("unexpected plaintext:\n got: %q\nwant: %q", got, prologXML)
		}
	})

	t.Run("whitespace anywhere is ignored", func(t *testing.T) {
		var spaced strings.Builder
		for i, r := range scenarioContainer {
			spaced.WriteRune(r)
			if i%10 == 9 {
				spaced.WriteString(" \t\r\n")
			}
		}

		got, err := Decrypt([]byte("\n  " + spaced.String() + "\n\n"))
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if string(got) != scenarioXML {
			t.Errorf("unexpected plaintext: %q", got)
		}
	})

	t.Run("missing base64 padding is tolerated", func(t *testing.T) {
		got, err := Decrypt([]byte(strings.TrimRight(scenarioContainer, "=")))
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if string(got) != scenarioXML {
			t.Errorf("unexpected plaintext: %q", got)
		}
	})

	t.Run("trailing partial block is discarded", func(t *testing.T) {
		ciphertext, err := base64.StdEncoding.DecodeString(scenarioContainer)
		if err != nil {
			t.Fatalf("bad fixture: %v", err)
		}

		for extra := 1; extra < BlockSize; extra++ {
			tail := bytes.Repeat([]byte{0xA5}, extra)
			raw := base64.StdEncoding.EncodeToString(append(append([]byte{}, ciphertext...), tail...))

			got, err := Decrypt([]byte(raw))
			if err != nil {
				t.Fatalf("extra=%d: Decrypt failed: %v", extra, err)
			}
			if string(got) != scenarioXML {
				t.Errorf("extra=%d: unexpected plaintext: %q", extra, got)
			}
		}
	})

	t.Run("less than one block decodes to nothing", func(t *testing.T) {
		got, err := Decrypt([]byte("YWJj"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected empty output, got %q", got)
		}
	})

	t.Run("foreign ciphertext yields garbage without error", func(t *testing.T) {
		raw := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte("0123456789abcdef"), 4))
		if _, err := Decrypt([]byte(raw)); err != nil {
			t.Errorf("expected no error for undecodable content, got %v", err)
		}
	})

	t.Run("invalid base64", func(t *testing.T) {
		tc := []struct {
			name  string
			input string
		}{
			{name: "empty", input: ""},
			{name: "only whitespace", input: " \n\t\r\n"},
			{name: "illegal characters", input: "this is *not* base64!"},
			{name: "padding in the middle", input: "YW==YWJj"},
			{name: "single dangling character", input: "YWJjZ"},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				_, err := Decrypt([]byte(tt.input))
				if !errors.Is(err, shared.ErrInvalidBase64) {
					t.Errorf("expected ErrInvalidBase64, got %v", err)
				}
			})
		}
	})

	t.Run("cipher init failure", func(t *testing.T) {
		orig := newBlock
		newBlock = func([]byte) (cipher.Block, error) { return nil, errors.New("no DES here") }
		defer func() { newBlock = orig }()

		_, err := Decrypt([]byte(scenarioContainer))
		if !errors.Is(err, shared.ErrCipherInit) {
			t.Errorf("expected ErrCipherInit, got %v", err)
		}

		_, err = Encrypt([]byte(scenarioXML))
		if !errors.Is(err, shared.ErrCipherInit) {
			t.Errorf("expected ErrCipherInit from Encrypt, got %v", err)
		}
	})
}

func TestEncrypt(t *testing.T) {
	t.Run("matches known containers", func(t *testing.T) {
		tc := []struct {
			name      string
			plaintext string
			container string
		}{
			{name: "padded document", plaintext: scenarioXML, container: scenarioContainer},
			{name: "block aligned document", plaintext: prologXML, container: prologContainer},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				got, err := Encrypt([]byte(tt.plaintext))
				if err != nil {
					t.Fatalf("Encrypt failed: %v", err)
				}

				strip := func(s string) string { return strings.ReplaceAll(s, "\n", "") }
				if strip(string(got)) != strip(tt.container) {
					t.Errorf("unexpected container:\n got: %s\nwant: %s", strip(string(got)), strip(tt.container))
				}
			})
		}
	})

	t.Run("wraps lines at 76 columns", func(t *testing.T) {
		got, err := Encrypt(bytes.Repeat([]byte("<track/>"), 40))
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}

		if !bytes.HasSuffix(got, []byte("\n")) {
			t.Error("expected trailing newline")
		}

		lines := strings.Split(strings.TrimSuffix(string(got), "\n"), "\n")
		if len(lines) < 2 {
			t.Fatalf("expected multiple lines, got %d", len(lines))
		}
		for i, line := range lines {
			if len(line) > lineWidth {
				t.Errorf("line %d has %d columns", i, len(line))
			}
		}
	})

	t.Run("round trip", func(t *testing.T) {
		docs := []string{
			"",
			"x",
			"<playlist/>",
			"<playlist>\n  <trackList/>\n</playlist>\n",
			"<playlist><title>Café ☕</title></playlist>",
			strings.Repeat("<track><title>t</title></track>", 33),
		}

		for _, doc := range docs {
			container, err := Encrypt([]byte(doc))
			if err != nil {
				t.Fatalf("Encrypt(%q) failed: %v", doc, err)
			}

			if doc == "" {
				if _, err := Decrypt(container); !errors.Is(err, shared.ErrInvalidBase64) {
					t.Errorf("empty document produces an empty container, expected ErrInvalidBase64, got %v", err)
				}
				continue
			}

			got, err := Decrypt(container)
			if err != nil {
				t.Fatalf("Decrypt failed for %q: %v", doc, err)
			}
			if string(got) != doc {
				t.Errorf("round trip mismatch:\n got: %q\nwant: %q", got, doc)
			}
		}
	})
}

func TestTrimPadding(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "all padding", in: "\x00\x00\x00\x00", want: ""},
		{name: "no padding", in: "<a/>", want: "<a/>"},
		{name: "zero padding", in: "<a/>\x00\x00\x00", want: "<a/>"},
		{name: "control padding", in: "<a/>\x01\x07\x1f", want: "<a/>"},
		{name: "trailing newline kept", in: "<a/>\n\x00\x00", want: "<a/>\n"},
		{name: "high bytes count as text", in: "caf\xc3\xa9\x00", want: "caf\xc3\xa9"},
		{name: "carriage return stops the scan and is dropped", in: "<a/>\x01\r\x00\x00", want: "<a/>\x01"},
		{name: "trailing carriage return", in: "<a/>\r", want: "<a/>"},
		{name: "crlf kept through the newline", in: "<a/>\r\n\x00", want: "<a/>\r\n"},
		{name: "space is text", in: "<a/> \x00", want: "<a/> "},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimPadding([]byte(tt.in))
			if string(got) != tt.want {
				t.Errorf("TrimPadding(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTrimPaddingIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"<playlist/>\x00\x00\x00\x00\x00",
		"<playlist/>\n\x00\x00",
		"<playlist/>\r\n",
		"\x00\x01\x02",
		"caf\xc3\xa9\x03",
		scenarioXML + "\x00\x00\x00\x00",
	}

	for _, in := range inputs {
		once := TrimPadding([]byte(in))
		twice := TrimPadding(append([]byte{}, once...))
		if !bytes.Equal(once, twice) {
			t.Errorf("TrimPadding not idempotent for %q: %q then %q", in, once, twice)
		}
	}

	t.Run("control byte before carriage return", func(t *testing.T) {
		// The '\r' lookahead keeps the control byte on the first pass only.
		once := TrimPadding([]byte("<a/>\x01\r"))
		if string(once) != "<a/>\x01" {
			t.Fatalf("expected control byte to survive the first pass, got %q", once)
		}

		twice := TrimPadding(append([]byte{}, once...))
		if string(twice) != "<a/>" {
			t.Errorf("expected second pass to drop the control byte, got %q", twice)
		}
	})
}
