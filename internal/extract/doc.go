package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"

	"github.com/cvpilot/cv-analyzer/internal/common"
)

// extractDOC reads a legacy Word document (OLE2 compound file) and scavenges
// text from the WordDocument stream. The binary .doc format interleaves text
// with formatting records; rather than interpreting the full piece table, both
// the CP-1252 and UTF-16LE encodings of the stream are scanned for word-like
// runs and the richer result wins. Good enough for resume-length documents;
// anything unreadable fails with ErrExtractionFailed.
func extractDOC(content []byte) (string, error) {
	doc, err := mscfb.New(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("%w: open compound file: %v", common.ErrExtractionFailed, err)
	}

	var stream []byte
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Name != "WordDocument" {
			continue
		}
		stream, err = io.ReadAll(entry)
		if err != nil {
			return "", fmt.Errorf("%w: read WordDocument stream: %v", common.ErrExtractionFailed, err)
		}
		break
	}
	if len(stream) == 0 {
		return "", fmt.Errorf("%w: WordDocument stream not found", common.ErrExtractionFailed)
	}

	ansi := scavengeANSI(stream)
	wide := scavengeUTF16(stream)
	text := ansi
	if len(wide) > len(ansi) {
		text = wide
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no text content found in doc", common.ErrExtractionFailed)
	}
	return text, nil
}

// minRunLength filters out the short printable fragments that occur by chance
// inside binary records.
const minRunLength = 4

// scavengeANSI collects printable single-byte character runs.
func scavengeANSI(stream []byte) string {
	var b strings.Builder
	var run []byte
	flush := func() {
		if len(run) >= minRunLength {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.Write(run)
		}
		run = run[:0]
	}
	for _, c := range stream {
		if c == '\r' {
			run = append(run, '\n')
			continue
		}
		if c == '\t' || (c >= 0x20 && c < 0x7f) {
			run = append(run, c)
			continue
		}
		flush()
	}
	flush()
	return b.String()
}

// scavengeUTF16 collects printable UTF-16LE character runs.
func scavengeUTF16(stream []byte) string {
	var b strings.Builder
	var run []rune
	flush := func() {
		if len(run) >= minRunLength {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(string(run))
		}
		run = run[:0]
	}
	for i := 0; i+1 < len(stream); i += 2 {
		u := uint16(stream[i]) | uint16(stream[i+1])<<8
		r := utf16.Decode([]uint16{u})
		if len(r) == 1 {
			switch {
			case r[0] == '\r':
				run = append(run, '\n')
				continue
			case r[0] == '\t' || r[0] == ' ':
				run = append(run, r[0])
				continue
			case r[0] != unicode.ReplacementChar && unicode.IsGraphic(r[0]):
				run = append(run, r[0])
				continue
			}
		}
		flush()
	}
	flush()
	return b.String()
}
