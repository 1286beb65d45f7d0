package cmd

import (
	"strings"
	"testing"
)

func Test_normalizeTables(t *testing.T) {
	cases := []struct {
		in   []string
		want []string
	}{
		{nil, nil},
		{[]string{""}, nil},
		{[]string{" Learning_Events ", "user_profiles"}, []string{"learning_events", "user_profiles"}},
		{[]string{"USER_PROFILES"}, []string{"user_profiles"}},
	}
	for _, c := range cases {
		got := normalizeTables(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("%v -> got %v want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%v -> got %v want %v", c.in, got, c.want)
			}
		}
	}
}

func Test_defaultExportFilename(t *testing.T) {
	plain := defaultExportFilename(false)
	if !strings.HasPrefix(plain, "learnpulse-backup-") || !strings.HasSuffix(plain, ".jsonl") {
		t.Fatalf("unexpected filename: %s", plain)
	}
	gz := defaultExportFilename(true)
	if !strings.HasSuffix(gz, ".jsonl.gz") {
		t.Fatalf("unexpected gzip filename: %s", gz)
	}
}
