package preflight

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"lyricsync/internal/config"
	"lyricsync/internal/deps"
	"lyricsync/internal/services/forcedalign"
)

// CheckAlignService verifies the forced-alignment service is reachable
// and its model is loaded.
func CheckAlignService(ctx context.Context, cfg *config.Config) Result {
	const name = "Forced-alignment service"

	timeout := 5 * time.Second
	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := forcedalign.NewClient(cfg.ForcedAlign.URL, timeout, nil)
	if err := client.Healthy(checkCtx); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%v)", cfg.ForcedAlign.URL, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (ready)", cfg.ForcedAlign.URL)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external binaries the pipeline shells out to.
func CheckSystemDeps() []Result {
	statuses := deps.CheckBinaries(deps.Requirements())
	results := make([]Result, 0, len(statuses))
	for _, status := range statuses {
		result := Result{Name: status.Name, Passed: status.Available}
		if status.Available {
			result.Detail = status.Command
		} else {
			result.Detail = status.Detail
		}
		results = append(results, result)
	}
	return results
}
