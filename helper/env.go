package helper

import (
	"fmt"
	"os"
	"strings"

	"github.com/etylermoss/sql-bulk-import-profile/constants"
)

// GetEnvVar fetches OS environment variable.
// If the variable is not set it returns empty string.
// It also returns an error if there is a missing value AND mandatory == true.
func GetEnvVar(k string, mandatory bool) (string, error) {
	if value := os.Getenv(k); value != "" {
		return value, nil
	} else {
		if mandatory {
			return "", fmt.Errorf("environment variable %v is not set", k)
		} else {
			return "", nil
		}
	}
}

// ReadValueFromEnv will read the env var called name and populate the supplied val.
// If the env var is not set then return an error.
func ReadValueFromEnv(name string, val *string) error {
	// Fetch the environment variable into val.
	v := os.Getenv(name)
	if v != "" { // if the environment variable was set...
		*val = v // update the callers value
		return nil
	} else { // else there was no environment variable set...
		return fmt.Errorf("value for environment variable %v not found", name)
	}
}

// ReadValueFromEnvWithDefault will read the value of name from the environment into v.
// If it's not set then it will apply the supplied defaultValue and return v.
func ReadValueFromEnvWithDefault(name string, defaultValue string) (v string) {
	_ = ReadValueFromEnv(name, &v)
	if v == "" && defaultValue != "" { // if the environment variable is not set and we have been given a default value...
		v = defaultValue
	}
	return
}

// GetEnvVarName converts suffix to an environment variable name of the form
// <EnvVarPrefix>_<SUFFIX> with dashes converted to underscores.
func GetEnvVarName(suffix string) string {
	return fmt.Sprintf("%v_%v", constants.EnvVarPrefix, GetBareEnvVarName(suffix))
}

// GetBareEnvVarName converts suffix to environment variable form without the
// service prefix: upper case with dashes converted to underscores.
func GetBareEnvVarName(suffix string) string {
	s := strings.ToUpper(strings.TrimSpace(suffix))
	return strings.Replace(s, "-", "_", -1)
}
