package platform

// AppName is the application name reported to notification centres.
const AppName = "unmark"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath points to an image shown with the notification where supported.
	IconPath string
}
