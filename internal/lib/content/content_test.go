package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewStripsMarkup(t *testing.T) {
	got := Preview("<p>Tips <b>umrah</b> &amp; haji</p>\n\n<script>alert(1)</script>", PreviewLength)
	assert.Equal(t, "Tips umrah & haji", got)
}

func TestPreviewTruncates(t *testing.T) {
	long := "<p>" + strings.Repeat("a", 150) + "</p>"
	got := Preview(long, PreviewLength)
	assert.Equal(t, strings.Repeat("a", 100)+"...", got)
}

func TestSections(t *testing.T) {
	html := `<p>Intro</p><h2>Persiapan</h2><p>Paspor</p><ul><li>Visa</li></ul><h2><em>Ibadah</em></h2><p>Tawaf</p>`

	sections, err := Sections(html)
	require.NoError(t, err)
	require.Len(t, sections, 3)

	assert.Equal(t, "", sections[0].Heading)
	assert.Equal(t, "<p>Intro</p>", sections[0].Body)
	assert.Equal(t, "Persiapan", sections[1].Heading)
	assert.Equal(t, "<p>Paspor</p><ul><li>Visa</li></ul>", sections[1].Body)
	assert.Equal(t, "Ibadah", sections[2].Heading)
	assert.Equal(t, "<p>Tawaf</p>", sections[2].Body)
}

func TestSectionsWithoutHeadings(t *testing.T) {
	sections, err := Sections("")
	require.NoError(t, err)
	assert.Empty(t, sections)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "panduan-umrah-2025", Slugify("  Panduan Umrah 2025!  "))
	assert.Equal(t, "cafe-in-turkiye", Slugify("Café in Türkiye"))
}
