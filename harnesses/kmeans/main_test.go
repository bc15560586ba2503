package main

import (
	"bytes"
	"strconv"
	"strings"
	"testing"
)

func TestPositive(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"3", 3, false},
		{"100000", 100000, false},
		{"0", 0, true},
		{"-2", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got, err := positive(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("positive(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)

			continue
		}

		if got != tt.want {
			t.Errorf("positive(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestRootCmdPrintsSeconds(t *testing.T) {
	cmd := newRootCmd()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--seed", "1", "--workers", "2", "3", "50"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	line := strings.TrimSpace(out.String())
	if _, err := strconv.ParseFloat(line, 64); err != nil {
		t.Fatalf("output %q is not a float: %v", line, err)
	}

	if i := strings.Index(line, "."); i < 0 || len(line)-i-1 != 4 {
		t.Errorf("output %q should have four decimals", line)
	}
}

func TestRootCmdRejectsBadArgs(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"3"},
		{"3", "50", "7"},
		{"0", "50"},
		{"3", "-1"},
	} {
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(args)

		if err := cmd.Execute(); err == nil {
			t.Errorf("args %v: expected error", args)
		}
	}
}
