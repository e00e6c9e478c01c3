package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRun_Hash(t *testing.T) {
	t.Setenv("PIIVAULT_PEPPER_DEFAULT", "cli-test-pepper")

	var out bytes.Buffer
	if err := run([]string{"hash", "ip", "203.0.113.9"}, &out); err != nil {
		t.Fatalf("run(hash) error = %v", err)
	}

	encoded := strings.TrimSpace(out.String())
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Errorf("output %q is not an argon2id hash", encoded)
	}
}

func TestRun_HashThenVerify(t *testing.T) {
	t.Setenv("PIIVAULT_PEPPER_DEFAULT", "cli-test-pepper")

	var out bytes.Buffer
	if err := run([]string{"hash", "ip", "203.0.113.9"}, &out); err != nil {
		t.Fatal(err)
	}
	encoded := strings.TrimSpace(out.String())

	out.Reset()
	if err := run([]string{"verify", "ip", "203.0.113.9", encoded}, &out); err != nil {
		t.Fatalf("run(verify) error = %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "match" {
		t.Errorf("verify output = %q, want match", got)
	}

	out.Reset()
	if err := run([]string{"verify", "ip", "198.51.100.1", encoded}, &out); err == nil {
		t.Error("run(verify) with wrong value did not fail")
	}
}

func TestRun_Pseudonymize(t *testing.T) {
	t.Setenv("PIIVAULT_PEPPER_DEFAULT", "cli-test-pepper")

	var out bytes.Buffer
	if err := run([]string{"pseudonymize", "Jane.Doe@Example.com"}, &out); err != nil {
		t.Fatalf("run(pseudonymize) error = %v", err)
	}
	if got := strings.TrimSpace(out.String()); !strings.HasPrefix(got, "piiid-") {
		t.Errorf("output %q is not a pseudonym id", got)
	}
}

func TestRun_UsageErrors(t *testing.T) {
	for _, args := range [][]string{
		nil,
		{"unknown"},
		{"hash", "ip"},
		{"verify", "ip", "value"},
	} {
		var out bytes.Buffer
		if err := run(args, &out); err == nil {
			t.Errorf("run(%v) did not fail", args)
		}
	}
}
