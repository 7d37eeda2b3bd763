package cmd

import (
	"testing"
)

// TestNewsSubcommands tests that the news subcommands are registered
func TestNewsSubcommands(t *testing.T) {
	findSubcommand(t, newsCmd, "list")
}

// TestNewsListFlags tests the paging flags
func TestNewsListFlags(t *testing.T) {
	listCmd := findSubcommand(t, newsCmd, "list")

	pageFlag := listCmd.Flags().Lookup("page")
	if pageFlag == nil {
		t.Fatal("flag 'page' not found on news list command")
	}
	if pageFlag.DefValue != "0" {
		t.Errorf("expected page default 0, got %s", pageFlag.DefValue)
	}

	sizeFlag := listCmd.Flags().Lookup("size")
	if sizeFlag == nil {
		t.Fatal("flag 'size' not found on news list command")
	}
	if sizeFlag.DefValue != "20" {
		t.Errorf("expected size default 20, got %s", sizeFlag.DefValue)
	}
}
