// package testing contains shared testing utilities
package testing

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/amzx/internal/amz"
	"github.com/desertthunder/amzx/internal/models"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// SampleXSPF builds a playlist document with one track element per entry of tracks.
// Zero-valued fields are left out, the same way a real container omits them.
func SampleXSPF(title string, tracks ...models.Track) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(`<playlist version="1" xmlns="http://xspf.org/ns/0/">` + "\n")
	if title != "" {
		fmt.Fprintf(&sb, "  <title>%s</title>\n", escape(title))
	}
	sb.WriteString("  <trackList>\n")
	for _, t := range tracks {
		sb.WriteString("    <track>")
		element(&sb, "location", t.Location)
		element(&sb, "creator", t.Creator)
		element(&sb, "album", t.Album)
		element(&sb, "title", t.Title)
		if t.TrackNum != 0 {
			element(&sb, "trackNum", fmt.Sprint(t.TrackNum))
		}
		if t.Duration != 0 {
			element(&sb, "duration", fmt.Sprint(t.Duration))
		}
		sb.WriteString("</track>\n")
	}
	sb.WriteString("  </trackList>\n</playlist>\n")
	return sb.String()
}

func element(sb *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(sb, "<%s>%s</%s>", name, escape(value), name)
}

func escape(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}

// MustEncrypt wraps document in the AMZ container encoding.
func MustEncrypt(t *testing.T, document string) []byte {
	t.Helper()
	raw, err := amz.Encrypt([]byte(document))
	if err != nil {
		t.Fatalf("Failed to encrypt container: %v", err)
	}
	return raw
}

// WriteContainer encrypts document into dir/name and returns the file path.
func WriteContainer(t *testing.T, dir, name, document string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, MustEncrypt(t, document), 0644); err != nil {
		t.Fatalf("Failed to write container %s: %v", path, err)
	}
	return path
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
