// SPDX-License-Identifier: MPL-2.0

// Package platform names the host operating systems buildplan treats
// differently.
package platform

import "runtime"

const (
	// Windows is the GOOS value for Windows.
	Windows = "windows"
	// Darwin is the GOOS value for macOS.
	Darwin = "darwin"
)

// IsWindows reports whether buildplan runs on Windows.
func IsWindows() bool { return runtime.GOOS == Windows }

// IsDarwin reports whether buildplan runs on macOS.
func IsDarwin() bool { return runtime.GOOS == Darwin }
