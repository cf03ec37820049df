package config

import (
	"fmt"
	"os"
	"path"

	"github.com/etylermoss/sql-bulk-import-profile/helper"
	"github.com/mitchellh/go-homedir"
)

// mustGetConfigHomeDir returns the full path to the home directory that stores all config files.
// Uses global variable.
func mustGetConfigHomeDir() string {
	if sbipHomeDir == "" {
		// An explicit <prefix>_HOME env var wins over the per-user default.
		if dir := helper.ReadValueFromEnvWithDefault(helper.GetEnvVarName("home"), ""); dir != "" {
			sbipHomeDir = dir
			return sbipHomeDir
		}
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		sbipHomeDir = path.Join(home, MainDir)
	}
	return sbipHomeDir
}

// makeDir will make the given directory if it does not already exist.
// If it exists then return nil.
// An error is returned if there is a problem creating the dir.
func makeDir(dir string) error {
	// Test if config dir exists.
	_, err := os.Stat(dir)
	if os.IsNotExist(err) { // if it doesn't exist...
		// Create the directory.
		if err = os.Mkdir(dir, 0755); err != nil { // if the dir was NOT created...
			return fmt.Errorf("error creating directory %v", dir)
		}
	} else if err != nil && !os.IsNotExist(err) { // if there was an error getting status...
		return err
	}
	return nil
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}
