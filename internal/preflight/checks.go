package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"adujour/internal/services/git"
)

// CheckDirectoryAccess verifies that the directory exists and is
// readable, writable, and traversable.
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

// CheckFile verifies that a regular file exists and is readable.
func CheckFile(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckRepository verifies the directory is a git work tree and, when a
// remote is named, that the remote is configured.
func CheckRepository(ctx context.Context, client *git.Client, remote string) Result {
	const name = "Git repository"
	if _, err := client.CurrentBranch(ctx); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", client.Dir(), err)}
	}
	if remote != "" {
		ok, err := client.HasRemote(ctx, remote)
		if err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("remote check failed: %v", err)}
		}
		if !ok {
			return Result{Name: name, Detail: fmt.Sprintf("remote %q not configured", remote)}
		}
	}
	return Result{Name: name, Passed: true, Detail: client.Dir()}
}
