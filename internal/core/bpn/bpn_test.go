package bpn

import (
	"context"
	"testing"

	"bpdm/internal/core/apperror"
)

func TestFormatAndClassify(t *testing.T) {
	cases := []struct {
		kind    Kind
		counter int64
	}{
		{KindLegalEntity, 1},
		{KindSite, 36},
		{KindAddress, 1271},
		{KindLegalEntity, MaxCounter},
	}

	for _, c := range cases {
		got, err := Format(c.kind, c.counter)
		if err != nil {
			t.Fatalf("Format(%s, %d): %v", c.kind, c.counter, err)
		}
		if len(got) != 16 {
			t.Errorf("Format(%s, %d) = %q, want 16 chars", c.kind, c.counter, got)
		}

		kind, err := Classify(got)
		if err != nil {
			t.Fatalf("Classify(%q): %v", got, err)
		}
		if kind != c.kind {
			t.Errorf("Classify(%q) = %s, want %s", got, kind, c.kind)
		}
	}
}

func TestFormatUniquePerCounter(t *testing.T) {
	seen := make(map[string]bool)
	for i := int64(1); i <= 1000; i++ {
		v, err := Format(KindAddress, i)
		if err != nil {
			t.Fatalf("Format: %v", err)
		}
		if seen[v] {
			t.Fatalf("duplicate BPN %q at counter %d", v, i)
		}
		seen[v] = true
	}
}

func TestFormatExhausted(t *testing.T) {
	_, err := Format(KindLegalEntity, MaxCounter+1)
	if !apperror.IsIssuanceExhausted(err) {
		t.Errorf("expected ISSUANCE_EXHAUSTED, got %v", err)
	}
}

func TestClassifyRejectsMalformed(t *testing.T) {
	valid, _ := Format(KindLegalEntity, 42)

	bad := []string{
		"",
		"BPNL123",                // too short
		"BPNX000000000101" + "X", // unknown prefix, wrong length
		"BPNX" + valid[4:],       // unknown prefix
		valid[:15] + "?",         // invalid character
		valid[:14] + "ZZ",        // broken checksum
	}

	for _, v := range bad {
		if _, err := Classify(v); err == nil {
			t.Errorf("Classify(%q) accepted malformed value", v)
		}
		if Valid(v) {
			t.Errorf("Valid(%q) = true for malformed value", v)
		}
	}

	if !Valid(valid) {
		t.Errorf("Valid(%q) = false for well-formed value", valid)
	}
	if !IsKind(valid, KindLegalEntity) {
		t.Errorf("IsKind(%q, LEGAL_ENTITY) = false", valid)
	}
	if IsKind(valid, KindSite) {
		t.Errorf("IsKind(%q, SITE) = true", valid)
	}
}

func TestMockIssuerOrdering(t *testing.T) {
	issuer := NewMockIssuer()
	ctx := context.Background()

	first, err := issuer.Issue(ctx, KindLegalEntity, 3)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	second, err := issuer.Issue(ctx, KindLegalEntity, 2)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	seen := make(map[string]bool)
	for _, v := range append(first, second...) {
		if seen[v] {
			t.Fatalf("duplicate BPN issued: %q", v)
		}
		seen[v] = true
		if !IsKind(v, KindLegalEntity) {
			t.Errorf("issued value %q is not a BPNL", v)
		}
	}

	if issuer.Issued(KindLegalEntity) != 5 {
		t.Errorf("Issued = %d, want 5", issuer.Issued(KindLegalEntity))
	}
}

func TestMockIssuerExhaustion(t *testing.T) {
	issuer := NewMockIssuer()
	issuer.Limit = 2

	if _, err := issuer.Issue(context.Background(), KindSite, 3); !apperror.IsIssuanceExhausted(err) {
		t.Errorf("expected ISSUANCE_EXHAUSTED, got %v", err)
	}
}
