package gpg

import (
	"context"
	"errors"
	"testing"
)

func TestEncrypt_NoKey(t *testing.T) {
	g := New("")
	_, err := g.Encrypt(context.Background(), []byte("secret"))
	if !errors.Is(err, ErrEncryptionUnavailable) {
		t.Errorf("Encrypt() with no key error = %v, want ErrEncryptionUnavailable", err)
	}
}

func TestEncrypt_BinaryMissing(t *testing.T) {
	g := New("test@example.com")
	g.Binary = "gpg-definitely-not-installed"
	if g.Available() {
		t.Fatal("Available() = true for missing binary")
	}
	_, err := g.Encrypt(context.Background(), []byte("secret"))
	if !errors.Is(err, ErrEncryptionUnavailable) {
		t.Errorf("Encrypt() error = %v, want ErrEncryptionUnavailable", err)
	}
}

func TestDecrypt_BinaryMissing(t *testing.T) {
	g := New("test@example.com")
	g.Binary = "gpg-definitely-not-installed"
	_, err := g.Decrypt(context.Background(), []byte("garbage"))
	if !errors.Is(err, ErrEncryptionUnavailable) {
		t.Errorf("Decrypt() error = %v, want ErrEncryptionUnavailable", err)
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"one line", "one line"},
		{"first\nsecond\nthird", "first"},
		{"  padded  \n", "padded"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := firstLine(tt.input); got != tt.want {
			t.Errorf("firstLine(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
