package config

import (
	"errors"
	"io/ioutil"
	"os"
	"testing"
)

func newTestConfigFile(t *testing.T) *File {
	t.Helper()
	dir, err := ioutil.TempDir("", "sbip-config-test")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return NewConfigFileWithDir(dir, MainFileFullName)
}

func TestConfigSetGetDelete(t *testing.T) {
	c := newTestConfigFile(t)
	// Get against a missing file returns KeyNotFoundError.
	var val string
	err := c.Get("log-level", &val)
	if !errors.As(err, &KeyNotFoundError{}) {
		t.Fatalf("expected KeyNotFoundError for a missing key; got %v", err)
	}
	// Set then Get round-trips.
	if err := c.Set("log-level", "debug"); err != nil {
		t.Fatal(err)
	}
	if err := c.Get("log-level", &val); err != nil {
		t.Fatal(err)
	}
	if val != "debug" {
		t.Fatalf("expected debug; got %q", val)
	}
	// The file is reloadable from disk by a fresh File.
	c2 := NewConfigFileWithDir(c.Dirname, c.FileName)
	if err := c2.Get("log-level", &val); err != nil || val != "debug" {
		t.Fatalf("expected debug from a fresh config file; got %q, err %v", val, err)
	}
	// Delete removes the key.
	if err := c.Delete("log-level"); err != nil {
		t.Fatal(err)
	}
	if err := c.Get("log-level", &val); !errors.As(err, &KeyNotFoundError{}) {
		t.Fatalf("expected KeyNotFoundError after delete; got %v", err)
	}
	// Delete of a missing key errors.
	if err := c.Delete("no-such-key"); err == nil {
		t.Fatal("expected an error deleting a missing key")
	}
}

func TestConfigGetAllKeys(t *testing.T) {
	c := newTestConfigFile(t)
	keys, err := c.GetAllKeys()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected no keys in a new config file; got %v", keys)
	}
	_ = c.Set("log-level", "info")
	_ = c.Set("deletion", "retain")
	keys, err = c.GetAllKeys()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys; got %v", keys)
	}
}

func TestConfigGetRequiresPointer(t *testing.T) {
	c := newTestConfigFile(t)
	if err := c.Get("key", "not-a-pointer"); err == nil {
		t.Fatal("expected an error for a non-pointer out argument")
	}
}

func TestConfigHomeDirEnvOverride(t *testing.T) {
	dir, err := ioutil.TempDir("", "sbip-home-test")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	if err := os.Setenv("SBIP_HOME", dir); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Unsetenv("SBIP_HOME") }()
	saved := sbipHomeDir
	sbipHomeDir = ""
	defer func() { sbipHomeDir = saved }()
	if got := mustGetConfigHomeDir(); got != dir {
		t.Fatalf("expected SBIP_HOME to override the config home dir; got %v", got)
	}
}
