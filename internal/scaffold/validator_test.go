package scaffold

import (
	"os"
	"strings"
	"testing"
)

func TestCheckExisting_CleanDirectory(t *testing.T) {
	chdir(t, t.TempDir())

	if err := CheckExisting(); err != nil {
		t.Errorf("CheckExisting() in clean directory = %v, want nil", err)
	}
}

func TestCheckExisting_ExistingConfig(t *testing.T) {
	chdir(t, t.TempDir())

	if err := os.WriteFile(ConfigFileName, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	err := CheckExisting()
	if err == nil {
		t.Fatal("CheckExisting() = nil, want error")
	}
	if !strings.Contains(err.Error(), "already initialized") {
		t.Errorf("error %q missing 'already initialized'", err.Error())
	}
	if !strings.Contains(err.Error(), ConfigFileName) {
		t.Errorf("error %q does not name %s", err.Error(), ConfigFileName)
	}
}

func TestCheckExisting_BothFiles(t *testing.T) {
	chdir(t, t.TempDir())

	for _, path := range []string{ConfigFileName, VarsFileName} {
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	err := CheckExisting()
	if err == nil {
		t.Fatal("CheckExisting() = nil, want error")
	}
	for _, path := range []string{ConfigFileName, VarsFileName} {
		if !strings.Contains(err.Error(), path) {
			t.Errorf("error %q does not name %s", err.Error(), path)
		}
	}
}
