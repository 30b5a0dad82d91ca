// sysinfo.go captures the static environment descriptors attached to events.

package allstack

import (
	"os"
	"runtime"
)

// captureContexts snapshots the runtime, system and process descriptors at
// capture time.
func captureContexts() Contexts {
	hostname, _ := os.Hostname() // ignore error, empty hostname is acceptable
	executable, _ := os.Executable()

	return Contexts{
		Runtime: RuntimeContext{
			Name:    "go",
			Version: runtime.Version(),
		},
		System: SystemContext{
			OS:       runtime.GOOS,
			Arch:     runtime.GOARCH,
			Hostname: hostname,
			NumCPU:   runtime.NumCPU(),
		},
		Process: ProcessContext{
			PID:        os.Getpid(),
			Executable: executable,
			Goroutines: runtime.NumGoroutine(),
		},
	}
}

// memoryUsage returns the current heap allocation in bytes.
func memoryUsage() int64 {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	return int64(memStats.Alloc)
}
