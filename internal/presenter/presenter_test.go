package presenter_test

import (
	"strings"
	"testing"

	"skybot/backend/internal/catalog"
	"skybot/backend/internal/localization"
	"skybot/backend/internal/presenter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPresenter() *presenter.Presenter {
	return presenter.New(localization.Default())
}

func deadpoolRecord() catalog.DownloadRecord {
	return catalog.DownloadRecord{
		Date:     "2016",
		Country:  "USA",
		Duration: "108m",
		Genres:   []string{"Action", "Comedy"},
		IMDB:     "8.0",
		TMDB:     "7.5",
		Links: catalog.LinkGroups{
			Telegram: []catalog.Link{{Quality: "1080p", Size: "1.2GB", URL: "http://x"}},
			Drive:    []catalog.Link{},
			Other:    []catalog.Link{},
		},
	}
}

func TestItemCaption(t *testing.T) {
	p := newPresenter()

	got := p.ItemCaption("en", catalog.Item{ID: "7", Title: "Deadpool", Type: "movie"})

	assert.Equal(t, "🎬 <b>Deadpool</b>\n📅 <b>Type:</b> movie\n", got)
}

func TestItemCaption_EscapesHTML(t *testing.T) {
	p := newPresenter()

	got := p.ItemCaption("en", catalog.Item{Title: "Tom & Jerry <3", Type: "tv"})

	assert.Contains(t, got, "Tom &amp; Jerry &lt;3")
}

func TestDownloadRecord_Deadpool(t *testing.T) {
	p := newPresenter()

	got := p.DownloadRecord("en", deadpoolRecord())

	assert.Contains(t, got, "📅 <b>Date:</b> 2016\n")
	assert.Contains(t, got, "🌍 <b>Country:</b> USA\n")
	assert.Contains(t, got, "⏱️ <b>Duration:</b> 108m\n")
	assert.Contains(t, got, "🎭 <b>Genres:</b> Action, Comedy\n")
	assert.Contains(t, got, "⭐ <b>IMDB:</b> 8.0\n")
	assert.Contains(t, got, "🌟 <b>TMDB:</b> 7.5\n")
	assert.Contains(t, got, "<b>Telegram Links:</b>\n📥 <b>1080p</b> (1.2GB) - <a href=\"http://x\">Download</a>\n")
	assert.Contains(t, got, "<b>Drive Links:</b>\nNo links available.\n")
	assert.Contains(t, got, "<b>Other Links:</b>\nNo links available.\n")
	assert.Equal(t, 2, strings.Count(got, "No links available."))
}

func TestDownloadRecord_SectionsAlwaysPresent(t *testing.T) {
	p := newPresenter()
	record := catalog.DownloadRecord{
		Links: catalog.LinkGroups{
			Telegram: []catalog.Link{},
			Drive: []catalog.Link{
				{Quality: "720p", Size: "700MB", URL: "http://d/1"},
				{Quality: "480p", Size: "400MB", URL: "http://d/2"},
			},
			Other: []catalog.Link{{Quality: "4K", Size: "8GB", URL: "http://o?a=1&b=2"}},
		},
	}

	got := p.DownloadRecord("en", record)

	telegram := strings.Index(got, "Telegram Links")
	drive := strings.Index(got, "Drive Links")
	other := strings.Index(got, "Other Links")
	require.True(t, telegram >= 0 && drive > telegram && other > drive)
	assert.Equal(t, 1, strings.Count(got, "No links available."))
	assert.Contains(t, got[telegram:drive], "No links available.")
	assert.Equal(t, 2, strings.Count(got[drive:other], "📥"))
	assert.Contains(t, got[other:], `href="http://o?a=1&amp;b=2"`)
}

func TestDownloadRecord_Localized(t *testing.T) {
	p := newPresenter()

	got := p.DownloadRecord("uk", deadpoolRecord())

	assert.Contains(t, got, "<b>Країна:</b> USA")
	assert.Contains(t, got, "Посилань немає.")
	// header has no Ukrainian translation
	assert.Contains(t, got, "By skymansion.site")
}

func TestJoinChannelURL(t *testing.T) {
	assert.Equal(t, "https://t.me/skymovies", presenter.JoinChannelURL("@skymovies"))
	assert.Equal(t, "https://t.me/skymovies", presenter.JoinChannelURL("skymovies"))
}

func TestKeyboards(t *testing.T) {
	p := newPresenter()

	join := p.JoinKeyboard("en", "https://t.me/skymovies")
	require.Len(t, join.InlineKeyboard, 1)
	require.Len(t, join.InlineKeyboard[0], 1)
	assert.Equal(t, "Join Channel", join.InlineKeyboard[0][0].Text)
	require.NotNil(t, join.InlineKeyboard[0][0].URL)
	assert.Equal(t, "https://t.me/skymovies", *join.InlineKeyboard[0][0].URL)

	dl := p.DownloadKeyboard("en", "download_7")
	require.Len(t, dl.InlineKeyboard, 1)
	require.NotNil(t, dl.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "download_7", *dl.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "Download", dl.InlineKeyboard[0][0].Text)
}

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{"short"}, presenter.Split("short", 10))

	chunks := presenter.Split("aaaa\nbbbb\ncccc\n", 10)
	assert.Equal(t, []string{"aaaa\nbbbb\n", "cccc\n"}, chunks)

	long := strings.Repeat("я", 10) // 20 bytes
	chunks = presenter.Split(long, 7)
	assert.Equal(t, long, strings.Join(chunks, ""))
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 7)
		assert.True(t, strings.HasPrefix(c, "я"))
	}
}

func TestSplit_OversizedLineDropsMarkup(t *testing.T) {
	url := "https://example.com/?q=" + strings.Repeat("x", 50) + "&amp;y=1"
	line := `📥 <b>1080p</b> (1GB) - <a href="` + url + `">Download</a>` + "\n"
	text := "<b>Telegram Links:</b>\n" + line

	chunks := presenter.Split(text, 40)

	require.Greater(t, len(chunks), 2)
	assert.Equal(t, "<b>Telegram Links:</b>\n", chunks[0])
	for _, c := range chunks[1:] {
		assert.LessOrEqual(t, len(c), 40)
		assert.NotContains(t, c, "<")
		assert.NotContains(t, c, ">")
		if i := strings.LastIndex(c, "&"); i >= 0 {
			assert.Contains(t, c[i:], ";", "entity split in %q", c)
		}
	}
	assert.Contains(t, strings.Join(chunks, ""), "&amp;y=1")
}

func TestDownloadRecord_OversizedLinkKeepsMarkupBalanced(t *testing.T) {
	record := deadpoolRecord()
	huge := "https://cdn.example.com/" + strings.Repeat("a", presenter.MaxMessageLength)
	record.Links.Drive = []catalog.Link{{Quality: "720p", Size: "800MB", URL: huge}}

	out := newPresenter().DownloadRecord("en", record)

	assert.NotContains(t, out, huge)
	assert.Contains(t, out, "📥 <b>720p</b> (800MB) - link too long to show\n")
	assert.Contains(t, out, `<a href="http://x">Download</a>`)

	for _, c := range presenter.Split(out, presenter.MaxMessageLength) {
		assert.Equal(t, strings.Count(c, "<a "), strings.Count(c, "</a>"))
		assert.Equal(t, strings.Count(c, "<b>"), strings.Count(c, "</b>"))
	}
}
