package helper

import (
	"os"
	"testing"
)

func TestGetEnvVarNames(t *testing.T) {
	if got := GetEnvVarName("connection-string"); got != "SBIP_CONNECTION_STRING" {
		t.Fatalf("unexpected prefixed name: %v", got)
	}
	if got := GetBareEnvVarName("connection-string"); got != "CONNECTION_STRING" {
		t.Fatalf("unexpected bare name: %v", got)
	}
}

func TestReadValueFromEnvWithDefault(t *testing.T) {
	const name = "SBIP_ENV_TEST"
	_ = os.Unsetenv(name)
	if got := ReadValueFromEnvWithDefault(name, "fallback"); got != "fallback" {
		t.Fatalf("expected the default to apply; got %v", got)
	}
	if err := os.Setenv(name, "fromEnv"); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Unsetenv(name) }()
	if got := ReadValueFromEnvWithDefault(name, "fallback"); got != "fromEnv" {
		t.Fatalf("expected the environment value to win; got %v", got)
	}
}
