//go:build linux || freebsd || openbsd || netbsd || dragonfly

package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog/log"
)

const (
	portalDest = "org.freedesktop.portal.Desktop"
	portalPath = "/org/freedesktop/portal/desktop"
)

var portalHandleToken = func() string {
	return fmt.Sprintf("unmark_%d", time.Now().UnixNano())
}

type fileFilter struct {
	Name     string
	Patterns []filterPattern
}

type filterPattern struct {
	Kind    uint32 // 0 glob, 1 mime type
	Pattern string
}

var imageFilter = fileFilter{
	Name: "Images",
	Patterns: []filterPattern{
		{1, "image/png"}, {1, "image/jpeg"}, {1, "image/gif"},
		{1, "image/webp"}, {1, "image/bmp"}, {1, "image/tiff"},
	},
}

func screenshotOptions(interactive bool, token string) map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"handle_token": dbus.MakeVariant(token),
		"interactive":  dbus.MakeVariant(interactive),
		"modal":        dbus.MakeVariant(interactive),
	}
}

func fileChooserOptions(token string) map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"handle_token":   dbus.MakeVariant(token),
		"modal":          dbus.MakeVariant(true),
		"multiple":       dbus.MakeVariant(false),
		"filters":        dbus.MakeVariant([]fileFilter{imageFilter}),
		"current_filter": dbus.MakeVariant(imageFilter),
	}
}

// requestPath predicts the Request object path the portal will use so the
// response signal can be matched before the call is made.
func requestPath(sender, token string) dbus.ObjectPath {
	s := strings.ReplaceAll(strings.TrimPrefix(sender, ":"), ".", "_")
	return dbus.ObjectPath(portalPath + "/request/" + s + "/" + token)
}

func uriToPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("portal uri %q: %w", uri, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("portal uri %q: unsupported scheme", uri)
	}
	return u.Path, nil
}

// portalRequest calls a portal method and waits for its Response signal.
func portalRequest(ctx context.Context, method, token string, args ...interface{}) (map[string]dbus.Variant, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("dbus connect: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Debug().Err(cerr).Msg("dbus close")
		}
	}()

	handle := requestPath(conn.Names()[0], token)
	rule := fmt.Sprintf("type='signal',interface='org.freedesktop.portal.Request',member='Response',path='%s'", handle)
	if err := conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		return nil, fmt.Errorf("%s subscribe: %w", method, err)
	}
	defer conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, rule)
	sigc := make(chan *dbus.Signal, 1)
	conn.Signal(sigc)
	defer conn.RemoveSignal(sigc)

	call := conn.Object(portalDest, portalPath).CallWithContext(ctx, method, 0, args...)
	if call.Err != nil {
		return nil, fmt.Errorf("%s: %w", method, call.Err)
	}
	if err := call.Store(&handle); err != nil {
		return nil, fmt.Errorf("%s response: %w", method, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case sig, ok := <-sigc:
			if !ok {
				return nil, fmt.Errorf("%s: connection closed", method)
			}
			if sig.Path != handle || sig.Name != "org.freedesktop.portal.Request.Response" || len(sig.Body) < 2 {
				continue
			}
			code, _ := sig.Body[0].(uint32)
			switch code {
			case 0:
			case 1:
				return nil, ErrCancelled
			default:
				return nil, fmt.Errorf("%s: request failed with code %d", method, code)
			}
			results, ok := sig.Body[1].(map[string]dbus.Variant)
			if !ok {
				return nil, fmt.Errorf("%s: malformed response", method)
			}
			return results, nil
		}
	}
}

func portalScreenshot(ctx context.Context, interactive bool) (string, error) {
	token := portalHandleToken()
	res, err := portalRequest(ctx, "org.freedesktop.portal.Screenshot.Screenshot", token, "", screenshotOptions(interactive, token))
	if err != nil {
		return "", err
	}
	uri, ok := res["uri"].Value().(string)
	if !ok {
		return "", fmt.Errorf("portal screenshot: response missing uri")
	}
	return uriToPath(uri)
}

func portalChooseFile(ctx context.Context, title string) (string, error) {
	token := portalHandleToken()
	res, err := portalRequest(ctx, "org.freedesktop.portal.FileChooser.OpenFile", token, "", title, fileChooserOptions(token))
	if err != nil {
		return "", err
	}
	uris, ok := res["uris"].Value().([]string)
	if !ok || len(uris) == 0 {
		return "", ErrCancelled
	}
	return uriToPath(uris[0])
}
