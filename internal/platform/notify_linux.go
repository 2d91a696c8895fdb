//go:build linux

package platform

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// notifyTimeout is how long the notification stays up, in milliseconds.
const notifyTimeout = int32(5000)

// Notify sends a desktop notification over the Freedesktop notification bus.
func Notify(title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("session bus: %w", err)
	}
	defer conn.Close()

	hints := map[string]dbus.Variant{
		"desktop-entry": dbus.MakeVariant(AppName),
	}
	if opts.IconPath != "" {
		hints["image-path"] = dbus.MakeVariant(opts.IconPath)
	}
	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		AppName, uint32(0), opts.IconPath, title, body, []string{}, hints, notifyTimeout)
	return call.Err
}
