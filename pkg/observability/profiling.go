package observability

import (
	"fmt"
	"os"

	"github.com/grafana/pyroscope-go"
)

// StartProfiling attaches the process to a pyroscope server when
// PYROSCOPE_SERVER_ADDRESS is set; it is a no-op otherwise.
func StartProfiling(appName string) {
	addr := os.Getenv("PYROSCOPE_SERVER_ADDRESS")
	if addr == "" {
		return
	}

	_, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: appName,
		ServerAddress:   addr,
		Logger:          nil,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		fmt.Printf("[WARN] pyroscope start failed: %v\n", err)
	}
}
