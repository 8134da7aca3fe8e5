package core

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"golang.org/x/text/encoding/japanese"
)

func TestWrapForStreaming_UTF8(t *testing.T) {
	enc, err := LookupEncoding(EncodingUTF8)
	if err != nil {
		t.Fatalf("LookupEncoding: %v", err)
	}

	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{"with BOM", append([]byte{0xEF, 0xBB, 0xBF}, "hello,world"...), "hello,world"},
		{"without BOM", []byte("hello,world"), "hello,world"},
		{"empty", []byte{}, ""},
		{"only BOM", []byte{0xEF, 0xBB, 0xBF}, ""},
		{"invalid byte", []byte("a\xffb"), "a\uFFFDb"},
		{"japanese", []byte("東京,JRA"), "東京,JRA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, counter := WrapForStreaming(bytes.NewReader(tt.input), enc)
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}
			if string(got) != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
			if counter.BytesRead != int64(len(tt.input)) {
				t.Errorf("BytesRead = %d, want %d", counter.BytesRead, len(tt.input))
			}
		})
	}
}

func TestWrapForStreaming_ShiftJIS(t *testing.T) {
	const text = "id,location\nx,東京競馬場\n"
	sjis, err := japanese.ShiftJIS.NewEncoder().String(text)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	enc, err := LookupEncoding("Shift_JIS")
	if err != nil {
		t.Fatalf("LookupEncoding: %v", err)
	}
	r, counter := WrapForStreaming(strings.NewReader(sjis), enc)
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != text {
		t.Errorf("got %q, want %q", got, text)
	}
	if counter.BytesRead != int64(len(sjis)) {
		t.Errorf("BytesRead = %d, want %d", counter.BytesRead, len(sjis))
	}
}

func TestLookupEncoding(t *testing.T) {
	for _, name := range []string{"", "utf-8", "UTF8", "shift_jis", "sjis", "CP932"} {
		if _, err := LookupEncoding(name); err != nil {
			t.Errorf("LookupEncoding(%q) error = %v", name, err)
		}
	}
	_, err := LookupEncoding("euc-jp")
	if err == nil || !strings.Contains(err.Error(), "encoding error") {
		t.Errorf("LookupEncoding(euc-jp) error = %v, want encoding error", err)
	}
}
