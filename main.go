package main

import (
	"github.com/etylermoss/sql-bulk-import-profile/cmd"
)

func main() {
	cmd.Execute()
}
