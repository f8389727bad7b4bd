package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestFastPathNoTelemetry(t *testing.T) {
	t.Parallel()

	// Ensure no telemetry reporter is installed
	SetTelemetryReporter(nil)

	// Create an error - should use fast path
	err := fmt.Errorf("test error")
	ee := New(err).Build()

	if ee.Err.Error() != "test error" {
		t.Errorf("Expected error message 'test error', got '%s'", ee.Err.Error())
	}

	if ee.GetComponent() != "unknown" {
		t.Errorf("Expected component 'unknown' in fast path, got '%s'", ee.GetComponent())
	}

	if ee.Category != CategoryGeneric {
		t.Errorf("Expected category 'generic' in fast path, got '%s'", ee.Category)
	}
}

func TestBuilderExplicitFields(t *testing.T) {
	t.Parallel()

	ee := Newf("store lookup failed: %s", "down").
		Component("imageresolver").
		Category(CategoryImageStore).
		ImageContext("destination", "alaska", "card").
		Build()

	if ee.GetComponent() != "imageresolver" {
		t.Errorf("Expected component 'imageresolver', got '%s'", ee.GetComponent())
	}
	if ee.Category != CategoryImageStore {
		t.Errorf("Expected category 'image-store', got '%s'", ee.Category)
	}
	ctx := ee.GetContext()
	if ctx["entity_id"] != "alaska" || ctx["image_type"] != "card" {
		t.Errorf("Image context not recorded: %v", ctx)
	}
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	ee := NotFoundError("ship", "royal-caribbean/ships/oasis", "hero")
	if !IsNotFound(ee) {
		t.Error("NotFoundError should satisfy IsNotFound")
	}

	wrapped := fmt.Errorf("outer: %w", ee)
	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should unwrap nested errors")
	}

	if IsNotFound(NewStd("plain")) {
		t.Error("plain error must not report as not-found")
	}
}

func TestPrivacyScrubbing(t *testing.T) {
	t.Parallel()

	// Test URL scrubbing
	testMessage1 := "Error at https://api.example.com?api_key=secret123&token=abc"
	scrubbed1 := basicURLScrub(testMessage1)
	expected1 := "Error at https://api.example.com?[REDACTED]"
	if scrubbed1 != expected1 {
		t.Errorf("URL scrubbing failed. Expected: %s, got: %s", expected1, scrubbed1)
	}

	// Test API key scrubbing in non-URL context
	testMessage2 := "Config error: api_key=secret123 is invalid"
	scrubbed2 := basicURLScrub(testMessage2)
	if !strings.Contains(scrubbed2, "[API_KEY_REDACTED]") {
		t.Errorf("API key scrubbing failed. Expected to contain '[API_KEY_REDACTED]', got: %s", scrubbed2)
	}

	// Test multiple patterns
	testMessage3 := "Auth failed with token=abc123 and auth=xyz789"
	scrubbed3 := basicURLScrub(testMessage3)
	if strings.Contains(scrubbed3, "abc123") || strings.Contains(scrubbed3, "xyz789") {
		t.Errorf("Token scrubbing failed. Sensitive data still present: %s", scrubbed3)
	}
}

func TestInstalledScrubberRunsOnTopOfBasic(t *testing.T) {
	SetPrivacyScrubber(func(message string) string {
		return strings.ReplaceAll(message, "sekret-anon-value", "[ANON_KEY_REDACTED]")
	})
	defer SetPrivacyScrubber(nil)

	scrubbed := scrubMessageForPrivacy("HEAD https://proj.supabase.co/x?w=1 rejected sekret-anon-value")
	if strings.Contains(scrubbed, "sekret-anon-value") {
		t.Errorf("installed scrubber not applied: %s", scrubbed)
	}
	if !strings.Contains(scrubbed, "[REDACTED]") {
		t.Errorf("basic URL scrubbing skipped when a scrubber is installed: %s", scrubbed)
	}
}
