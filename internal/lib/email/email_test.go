package email

import (
	"testing"

	"github.com/deppfellow/muslimah-travel/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	logger := zerolog.Nop()
	c, err := NewClient(&config.Config{
		Integration: config.IntegrationConfig{ResendAPIKey: "re_test", MailFrom: "Muslimah Travel <noreply@example.com>"},
	}, &logger)
	require.NoError(t, err)
	return c
}

func TestEveryTemplateHasPreviewData(t *testing.T) {
	c := testClient(t)

	for name := range PreviewData {
		html, err := c.Preview(name)
		require.NoError(t, err, name)
		assert.NotContains(t, html, "<no value>", name)
	}
}

func TestRenderEscapesData(t *testing.T) {
	html, err := testClient(t).Render(TemplateWelcome, map[string]string{"UserName": "<script>x</script>"})
	require.NoError(t, err)
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestPreviewUnknownTemplate(t *testing.T) {
	_, err := testClient(t).Preview("missing")
	assert.Error(t, err)
}
