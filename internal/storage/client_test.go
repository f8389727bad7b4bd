package storage

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/conf"
)

const testBaseURL = "https://abc123.supabase.co"

func newTestClient(t *testing.T) *Client {
	t.Helper()

	settings := &conf.Settings{}
	settings.Storage.BaseURL = testBaseURL
	settings.Storage.AnonKey = "test-anon-key"
	settings.Storage.Preflight.RequestsPerSecond = 100
	settings.Storage.Preflight.Burst = 100

	client := NewClient(settings, nil)
	httpmock.ActivateNonDefault(client.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

func TestPublicObjectURL(t *testing.T) {
	url := PublicObjectURL(testBaseURL, "destinations", "alaska/hero.webp")
	assert.Equal(t, testBaseURL+"/storage/v1/object/public/destinations/alaska/hero.webp", url)
}

func TestIsProviderURL(t *testing.T) {
	client := newTestClient(t)

	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"canonical public shape", testBaseURL + "/storage/v1/object/public/ships/carnival/ships/mardi-gras/hero.webp", true},
		{"render cdn shape", testBaseURL + "/storage/v1/render/image/public/destinations/alaska/hero.webp?width=800", true},
		{"leading whitespace", "  " + testBaseURL + "/storage/v1/object/public/site/hero.webp", true},
		{"foreign host", "https://images.example.com/storage/v1/object/public/site/hero.webp", false},
		{"site-relative path", "/images/image-coming-soon.webp", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, client.IsProviderURL(tt.raw))
		})
	}
}

func TestObjectExists(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	httpmock.RegisterResponder(http.MethodHead,
		testBaseURL+"/storage/v1/object/public/destinations/alaska/hero.webp",
		httpmock.NewStringResponder(http.StatusOK, ""))
	httpmock.RegisterResponder(http.MethodHead,
		testBaseURL+"/storage/v1/object/public/destinations/alaska/missing.webp",
		httpmock.NewStringResponder(http.StatusNotFound, ""))
	httpmock.RegisterResponder(http.MethodHead,
		testBaseURL+"/storage/v1/object/public/destinations/alaska/broken.webp",
		httpmock.NewStringResponder(http.StatusInternalServerError, ""))

	exists, err := client.ObjectExists(ctx, "destinations", "alaska/hero.webp")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = client.ObjectExists(ctx, "destinations", "alaska/missing.webp")
	require.NoError(t, err, "404 is a normal answer, not an error")
	assert.False(t, exists)

	_, err = client.ObjectExists(ctx, "destinations", "alaska/broken.webp")
	assert.Error(t, err)
}

func TestListObjects(t *testing.T) {
	client := newTestClient(t)

	body := `[
		{"name": "alaska", "id": null},
		{"name": "alaska/hero.webp", "id": "1", "metadata": {"size": 204800, "mimetype": "image/webp"}},
		{"name": "alaska/card.webp", "id": "2", "metadata": {"size": 102400, "mimetype": "image/webp"}}
	]`
	httpmock.RegisterResponder(http.MethodPost,
		testBaseURL+"/storage/v1/object/list/destinations",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "test-anon-key", req.Header.Get("apikey"))
			assert.Equal(t, "Bearer test-anon-key", req.Header.Get("Authorization"))
			return httpmock.NewStringResponse(http.StatusOK, body), nil
		})

	objects, err := client.ListObjects(context.Background(), "destinations", "alaska")
	require.NoError(t, err)
	require.Len(t, objects, 2, "folder placeholders without metadata are skipped")
	assert.Equal(t, "alaska/hero.webp", objects[0].Name)
	assert.Equal(t, int64(204800), objects[0].Size)
	assert.Equal(t, "image/webp", objects[0].ContentType)
}

func TestListObjectsErrorStatus(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder(http.MethodPost,
		testBaseURL+"/storage/v1/object/list/destinations",
		httpmock.NewStringResponder(http.StatusForbidden, `{"error":"denied"}`))

	_, err := client.ListObjects(context.Background(), "destinations", "")
	assert.Error(t, err)
}
