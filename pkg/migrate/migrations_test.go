package migrate

import "testing"

func TestMigrationDirIsValid(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}

func TestValidateDirRequiresDir(t *testing.T) {
	if err := ValidateDir(""); err == nil {
		t.Fatal("expected error for empty dir")
	}
}
