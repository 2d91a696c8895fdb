//go:build !linux && !darwin && !windows

package platform

// Notify does nothing where no notification backend exists.
func Notify(string, string, Options) error { return nil }
