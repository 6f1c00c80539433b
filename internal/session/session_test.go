package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/tsb/internal/session"
)

func TestLoadNotExist(t *testing.T) {
	s, err := session.Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if !s.Empty() {
		t.Errorf("Load on missing file = %+v, want empty", s)
	}
}

func TestSaveAndLoad(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested")
	want := session.Session{
		BaseURL: "https://board.example.org",
		Cookie:  "abc123",
		Token:   &oauth2.Token{AccessToken: "tok", TokenType: "Bearer"},
	}
	if err := session.Save(base, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := session.Load(base)
	if err != nil {
		t.Fatalf("Load after save: %v", err)
	}
	if got.Cookie != want.Cookie || got.BaseURL != want.BaseURL {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
	if got.Token == nil || got.Token.AccessToken != "tok" {
		t.Errorf("Token = %+v, want access token %q", got.Token, "tok")
	}

	info, err := os.Stat(filepath.Join(base, "session.json"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 600", perm)
	}
}

func TestLoadCorrupt(t *testing.T) {
	base := t.TempDir()
	if err := os.WriteFile(filepath.Join(base, "session.json"), []byte("{nope"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := session.Load(base); err == nil {
		t.Error("expected error for corrupt session file")
	}
}

func TestClear(t *testing.T) {
	base := t.TempDir()
	if err := session.Clear(base); err != nil {
		t.Fatalf("Clear on missing file: %v", err)
	}
	if err := session.Save(base, session.Session{Cookie: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := session.Clear(base); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	s, err := session.Load(base)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Empty() {
		t.Errorf("session after Clear = %+v, want empty", s)
	}
}
