package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPreview_PrintsAnswers(t *testing.T) {
	out, err := execute(t, "preview", "SN", "--count", "2", "--seed", "11")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(out, "Soalan 2/2") {
		t.Errorf("expected two questions, got:\n%s", out)
	}
	if strings.Count(out, "Jawapan:") != 2 {
		t.Errorf("expected an answer block per question, got:\n%s", out)
	}
}

func TestPreview_SameSeedSameOutput(t *testing.T) {
	a, err := execute(t, "preview", "tpm", "--count", "1", "--seed", "5", "--presentation", "high_low")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	b, err := execute(t, "preview", "tpm", "--count", "1", "--seed", "5", "--presentation", "high_low")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if a != b {
		t.Errorf("expected deterministic output for a fixed seed")
	}
}

func TestPreview_UnknownFamily(t *testing.T) {
	if _, err := execute(t, "preview", "payroll"); err == nil {
		t.Fatal("expected an error for an unknown family")
	}
}
