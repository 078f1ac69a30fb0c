package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestConnectionStringRoundTrip(t *testing.T) {
	gokeyring.MockInit()

	want := "postgres://planner@localhost:5432/timebox?sslmode=disable"
	if err := SetConnectionString(want); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	got, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if got != want {
		t.Errorf("GetConnectionString() = %q, want %q", got, want)
	}
}

func TestSetEmptyRejected(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString(""); err == nil {
		t.Error("SetConnectionString(\"\") should return an error")
	}
	if err := SetAIKey(""); err == nil {
		t.Error("SetAIKey(\"\") should return an error")
	}
}

func TestSecretsAreIndependent(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("host=localhost dbname=timebox"); err != nil {
		t.Fatal(err)
	}
	if err := SetAIKey("k-123"); err != nil {
		t.Fatal(err)
	}

	if err := DeleteAIKey(); err != nil {
		t.Fatalf("DeleteAIKey() failed: %v", err)
	}
	if _, err := GetAIKey(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetAIKey() error = %v, want %v", err, ErrNotFound)
	}
	if got, err := GetConnectionString(); err != nil || got != "host=localhost dbname=timebox" {
		t.Errorf("GetConnectionString() = %q, %v after deleting the AI key", got, err)
	}
}

func TestDeleteNotFound(t *testing.T) {
	gokeyring.MockInit()

	_ = DeleteConnectionString()
	if err := DeleteConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteConnectionString() error = %v, want %v", err, ErrNotFound)
	}
	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetConnectionString() error = %v, want %v", err, ErrNotFound)
	}
}

func TestKeyringErrorsSurfaceAsUnavailable(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("dbus down"))
	defer gokeyring.MockInit()

	if _, err := GetAIKey(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("GetAIKey() error = %v, want %v", err, ErrKeyringUnavailable)
	}
	if IsAvailable() {
		t.Error("IsAvailable() = true with a failing keyring")
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() = false, want true in mock mode")
	}
}
