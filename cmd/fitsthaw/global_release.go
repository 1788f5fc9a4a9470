//go:build !debug && !profile
// +build !debug,!profile

package main

// runDebug is a no-op without the debug or profile build tag.
func runDebug() error {
	return nil
}
