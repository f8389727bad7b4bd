// Package telemetry provides privacy-compliant error tracking
package telemetry

import (
	"log"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/conf"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/errors"
)

// sentryInitialized tracks whether Sentry has been initialized
var (
	sentryInitialized bool
	initMutex         sync.Mutex
)

// PlatformInfo holds privacy-safe platform information for telemetry
type PlatformInfo struct {
	OS           string `json:"os"`
	Architecture string `json:"arch"`
	Container    bool   `json:"container"`
	NumCPU       int    `json:"num_cpu"`
	GoVersion    string `json:"go_version"`
}

// collectPlatformInfo gathers privacy-safe platform information for telemetry
func collectPlatformInfo() PlatformInfo {
	return PlatformInfo{
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		Container:    conf.RunningInContainer(),
		NumCPU:       runtime.NumCPU(),
		GoVersion:    runtime.Version(),
	}
}

// InitSentry initializes the Sentry SDK with privacy-compliant settings.
// It only initializes when explicitly enabled by the operator (opt-in) and a
// DSN is configured; otherwise error reporting stays local.
func InitSentry(settings *conf.Settings) error {
	initMutex.Lock()
	defer initMutex.Unlock()

	if !settings.Sentry.Enabled || settings.Sentry.DSN == "" {
		log.Println("Sentry telemetry is disabled (opt-in required)")
		errors.SetTelemetryReporter(nil)
		errors.SetPrivacyScrubber(nil)
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              settings.Sentry.DSN,
		SampleRate:       1.0, // Capture all errors by default
		Debug:            false,
		AttachStacktrace: true,
		Release:          settings.Version,
		Environment:      "production",
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			// Strip request data and user info, only component/category tags
			// and scrubbed messages leave the process
			event.Request = nil
			event.User = sentry.User{}
			event.ServerName = ""
			return event
		},
	})
	if err != nil {
		return errors.New(err).
			Component("telemetry").
			Category(errors.CategoryConfiguration).
			Context("operation", "sentry_init").
			Build()
	}

	configureSentryScope(settings)

	sentryInitialized = true

	// Route enhanced errors to Sentry from here on, scrubbing the configured
	// anon key out of any message that embeds it
	errors.SetPrivacyScrubber(newScrubber(settings))
	errors.SetTelemetryReporter(errors.NewSentryReporter(true))

	log.Printf("Sentry telemetry initialized (release %s)", settings.Version)
	return nil
}

// newScrubber builds a scrubber bound to the current settings. The generic
// URL and key patterns are handled upstream; this masks literal secrets that
// pattern matching cannot know about.
func newScrubber(settings *conf.Settings) errors.PrivacyScrubber {
	anonKey := settings.Storage.AnonKey
	return func(message string) string {
		if anonKey != "" {
			message = strings.ReplaceAll(message, anonKey, "[ANON_KEY_REDACTED]")
		}
		return message
	}
}

// configureSentryScope attaches privacy-safe platform context to all events
func configureSentryScope(settings *conf.Settings) {
	platform := collectPlatformInfo()
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("instance_name", settings.Main.Name)
		scope.SetContext("platform", map[string]any{
			"os":         platform.OS,
			"arch":       platform.Architecture,
			"container":  platform.Container,
			"num_cpu":    platform.NumCPU,
			"go_version": platform.GoVersion,
		})
	})
}

// Flush drains pending Sentry events; called during shutdown.
func Flush(timeout time.Duration) {
	initMutex.Lock()
	defer initMutex.Unlock()
	if sentryInitialized {
		sentry.Flush(timeout)
	}
}
