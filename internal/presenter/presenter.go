// Package presenter renders catalog data as Telegram HTML messages and
// inline keyboards. Nothing here performs I/O.
package presenter

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"skybot/backend/internal/catalog"
	"skybot/backend/internal/localization"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ParseMode used for every rendered message.
const ParseMode = tgbotapi.ModeHTML

// MaxMessageLength is the Telegram limit for a text message.
const MaxMessageLength = 4096

// Presenter renders messages in the user's language.
type Presenter struct {
	loc *localization.Localizer
}

// New creates a Presenter.
func New(loc *localization.Localizer) *Presenter {
	return &Presenter{loc: loc}
}

// Text returns a static localized message.
func (p *Presenter) Text(lang, key string) string {
	return p.loc.GetString(lang, key)
}

// ItemCaption renders one search result.
func (p *Presenter) ItemCaption(lang string, item catalog.Item) string {
	return fmt.Sprintf("🎬 <b>%s</b>\n📅 <b>%s:</b> %s\n",
		html.EscapeString(item.Title),
		html.EscapeString(p.loc.GetString(lang, localization.TypeLabel)),
		html.EscapeString(item.Type),
	)
}

// DownloadRecord renders the metadata and all three link groups of a record.
// Empty groups keep their heading and say so.
func (p *Presenter) DownloadRecord(lang string, record catalog.DownloadRecord) string {
	t := func(key string) string { return html.EscapeString(p.loc.GetString(lang, key)) }
	esc := html.EscapeString

	var b strings.Builder
	fmt.Fprintf(&b, "🎬 <b>%s</b>\n\n", t(localization.RecordHeader))
	fmt.Fprintf(&b, "📅 <b>%s:</b> %s\n", t(localization.DateLabel), esc(record.Date))
	fmt.Fprintf(&b, "🌍 <b>%s:</b> %s\n", t(localization.CountryLabel), esc(record.Country))
	fmt.Fprintf(&b, "⏱️ <b>%s:</b> %s\n", t(localization.DurationLabel), esc(record.Duration))
	fmt.Fprintf(&b, "🎭 <b>%s:</b> %s\n", t(localization.GenresLabel), esc(strings.Join(record.Genres, ", ")))
	fmt.Fprintf(&b, "⭐ <b>IMDB:</b> %s\n", esc(string(record.IMDB)))
	fmt.Fprintf(&b, "🌟 <b>TMDB:</b> %s\n", esc(string(record.TMDB)))

	sections := []struct {
		title string
		links []catalog.Link
	}{
		{localization.TelegramLinks, record.Links.Telegram},
		{localization.DriveLinks, record.Links.Drive},
		{localization.OtherLinks, record.Links.Other},
	}
	for _, s := range sections {
		fmt.Fprintf(&b, "\n<b>%s:</b>\n", t(s.title))
		if len(s.links) == 0 {
			b.WriteString(t(localization.NoLinks))
			b.WriteString("\n")
			continue
		}
		for _, link := range s.links {
			entry := fmt.Sprintf("📥 <b>%s</b> (%s) - <a href=\"%s\">%s</a>\n",
				esc(link.Quality), esc(link.Size), esc(link.URL), t(localization.DownloadLink))
			if len(entry) > MaxMessageLength {
				entry = fmt.Sprintf("📥 <b>%s</b> (%s) - %s\n",
					esc(link.Quality), esc(link.Size), t(localization.LinkTooLong))
			}
			b.WriteString(entry)
		}
	}
	return b.String()
}

// JoinChannelURL is the public link of a channel given as "@handle" or "handle".
func JoinChannelURL(channel string) string {
	return "https://t.me/" + strings.TrimPrefix(channel, "@")
}

// JoinKeyboard is the single "join channel" button.
func (p *Presenter) JoinKeyboard(lang, channelURL string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(p.loc.GetString(lang, localization.JoinButton), channelURL),
		),
	)
}

// DownloadKeyboard is the single "download" button carrying payload.
func (p *Presenter) DownloadKeyboard(lang, payload string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(p.loc.GetString(lang, localization.DownloadButton), payload),
		),
	)
}

// Split breaks text into chunks of at most limit bytes, cutting only at line
// boundaries so markup that opens and closes on one line stays intact. A
// single line longer than limit loses its markup and is cut at a rune boundary
// outside any entity.
func Split(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		if cur.Len()+len(line) > limit {
			flush()
		}
		if len(line) > limit {
			line = plain(line)
		}
		for len(line) > limit {
			cut := cutPoint(line, limit)
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		cur.WriteString(line)
	}
	flush()
	return chunks
}

var (
	anchorPattern = regexp.MustCompile(`<a href="([^"]*)">([^<]*)</a>`)
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
)

// plain removes markup from an HTML line, keeping link targets as text.
func plain(line string) string {
	line = anchorPattern.ReplaceAllString(line, "$2: $1")
	return tagPattern.ReplaceAllString(line, "")
}

// cutPoint finds where to cut line at or before limit without splitting a
// rune or an HTML entity.
func cutPoint(line string, limit int) int {
	cut := limit
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}
	if amp := strings.LastIndexByte(line[:cut], '&'); amp > 0 && !strings.Contains(line[amp:cut], ";") {
		cut = amp
	}
	if cut == 0 {
		cut = limit
	}
	return cut
}
