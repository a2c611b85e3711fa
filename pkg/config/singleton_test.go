package config

import (
	"sync"
	"testing"
)

func resetSingleton() {
	SetConfig(nil)
	initOnce = sync.Once{}
	initErr = nil
}

func TestInitialize(t *testing.T) {
	resetSingleton()
	t.Cleanup(resetSingleton)

	path := writeConfig(t, "server:\n  listen_address: \"127.0.0.1:9999\"\n")
	if err := Initialize(path); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if got := MustGetConfig().Server.ListenAddress; got != "127.0.0.1:9999" {
		t.Errorf("ListenAddress = %q", got)
	}

	// Second call is a no-op.
	other := writeConfig(t, "server:\n  listen_address: \"127.0.0.1:1\"\n")
	if err := Initialize(other); err != nil {
		t.Fatalf("second Initialize() error = %v", err)
	}
	if got := GetConfig().Server.ListenAddress; got != "127.0.0.1:9999" {
		t.Errorf("second Initialize replaced config: %q", got)
	}
}

func TestInitialize_ErrorIsSticky(t *testing.T) {
	resetSingleton()
	t.Cleanup(resetSingleton)

	bad := writeConfig(t, "store:\n  driver: oracle\n")
	if err := Initialize(bad); err == nil {
		t.Fatal("expected error")
	}
	if err := Initialize(writeConfig(t, "")); err == nil {
		t.Error("later Initialize should report the first error")
	}
	if GetConfig() != nil {
		t.Error("config should stay nil after failed Initialize")
	}
}

func TestReloadConfig(t *testing.T) {
	resetSingleton()
	t.Cleanup(resetSingleton)

	SetConfig(NewDefaultConfig())

	if err := ReloadConfig(writeConfig(t, "store:\n  driver: oracle\n")); err == nil {
		t.Fatal("expected reload error")
	}
	if GetConfig().Store.Driver != DefaultStoreDriver {
		t.Error("failed reload should keep current config")
	}

	if err := ReloadConfig(writeConfig(t, "store:\n  driver: sqlite3\n")); err != nil {
		t.Fatalf("ReloadConfig() error = %v", err)
	}
	if GetConfig().Store.Driver != "sqlite3" {
		t.Errorf("Driver = %q", GetConfig().Store.Driver)
	}
}

func TestMustGetConfig_Panics(t *testing.T) {
	resetSingleton()
	t.Cleanup(resetSingleton)

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustGetConfig()
}
