package cmd

import (
	"bytes"
	"context"
	"testing"
)

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	cli := NewCLI()
	cli.SetOut(&bytes.Buffer{})
	cli.SetErr(&bytes.Buffer{})
	cli.SetArgs(args)
	return cli.ExecuteContext(context.Background())
}

func TestCLICommands(t *testing.T) {
	cli := NewCLI()
	for _, name := range []string{"list", "info", "bench"} {
		cmd, _, err := cli.Find([]string{name})
		if err != nil || cmd == cli {
			t.Errorf("missing %q command: %v", name, err)
		}
	}
}

func TestListCommand(t *testing.T) {
	if err := runCLI(t, "list"); err != nil {
		t.Fatal(err)
	}
	if err := runCLI(t, "list", "deit"); err != nil {
		t.Fatal(err)
	}
}

func TestInfoCommand(t *testing.T) {
	if err := runCLI(t, "info", "vit_tiny_patch16_224"); err != nil {
		t.Fatal(err)
	}
	if err := runCLI(t, "info", "no_such_model"); err == nil {
		t.Fatal("expected an error for an unknown model")
	}
}

func TestSizeString(t *testing.T) {
	if got := sizeString([2]int{224, 224}); got != "224x224" {
		t.Errorf("expected 224x224, got %s", got)
	}
}
