// sdfexport converts CAD assembly snapshots into SDF or URDF robot models.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/sdfexport/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// PersistentPostRun is skipped when a command fails.
		logger.Error("command failed", zap.Error(err))
		logger.Close()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
