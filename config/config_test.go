package config

import (
	"strings"
	"testing"
)

func TestParseOverrides(t *testing.T) {
	in := strings.NewReader(`
# override RAM size and wired TLB count
ram_size  0x4000000
wired_tlb 2
`)
	cfg, err := Parse(in)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.RAMSize != 0x4000000 {
		t.Errorf("got ram_size %#x, want 0x4000000", cfg.RAMSize)
	}
	if cfg.WiredTLB != 2 {
		t.Errorf("got wired_tlb %d, want 2", cfg.WiredTLB)
	}
}

func TestParseRejectsUnknownKey(t *testing.T) {
	if _, err := Parse(strings.NewReader("bogus 1")); err == nil {
		t.Errorf("expected an error for an unknown key")
	}
}

func TestParseIgnoresBlankAndCommentLines(t *testing.T) {
	cfg, err := Parse(strings.NewReader("\n# just a comment\n\nwired_tlb 4\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.WiredTLB != 4 {
		t.Errorf("got wired_tlb %d, want 4", cfg.WiredTLB)
	}
}
