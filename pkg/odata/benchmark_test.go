package odata

import (
	"strings"
	"testing"
)

// BenchmarkCompile_Typical measures a filter of the size clients send.
func BenchmarkCompile_Typical(b *testing.B) {
	v := NewValidator(newProps("title", "price", "author", "in_stock"))
	expr := "(price gt 10 and price le 50) or tolower(author) eq 'karwin' and in_stock eq true"

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := v.Compile(expr); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkCompile_AtCap measures a filter at the default 2000 byte cap.
// Lexing and the denylist scan are linear, so this should be roughly 25x
// the typical case, not worse.
func BenchmarkCompile_AtCap(b *testing.B) {
	v := NewValidator(newProps("price"))
	var sb strings.Builder
	sb.WriteString("price gt 0")
	for sb.Len() < 1990 {
		sb.WriteString(" or price eq 1")
	}
	expr := sb.String()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := v.Compile(expr); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkScanDenylist_Clean measures the pre-tokenization scan on input
// that matches nothing.
func BenchmarkScanDenylist_Clean(b *testing.B) {
	expr := strings.Repeat("title eq 'abc' and ", 100)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if c := ScanDenylist(expr); c != "" {
			b.Fatalf("unexpected category %q", c)
		}
	}
}
