package actions

import (
	"fmt"

	"github.com/etylermoss/sql-bulk-import-profile/constants"
	"github.com/etylermoss/sql-bulk-import-profile/helper"
	"github.com/etylermoss/sql-bulk-import-profile/logger"
	"github.com/etylermoss/sql-bulk-import-profile/profile"
)

type ValidateProfileConfig struct {
	ProfileFile      string `errorTxt:"import-profile" mandatory:"yes"`
	LogLevel         string
	StackDumpOnPanic bool
}

// ValidateProfile loads and validates an import profile without touching
// the database or any source files.
func ValidateProfile(cfg *ValidateProfileConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	log := logger.NewLogger(constants.ServiceName, cfg.LogLevel, cfg.StackDumpOnPanic)
	p, err := profile.LoadProfileFromFile(log, cfg.ProfileFile)
	if err != nil {
		return err
	}
	fmt.Printf("profile %q is valid (%v table mappers)\n", p.Name, len(p.TableMappers))
	return nil
}
