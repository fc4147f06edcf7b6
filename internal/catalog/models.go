package catalog

import (
	"bytes"

	"github.com/goccy/go-json"
)

// ItemID identifies a catalog item. The API sends it either as a number or as
// a string; it is kept in its textual form and never interpreted.
type ItemID string

// UnmarshalJSON accepts both `42` and `"42"`.
func (id *ItemID) UnmarshalJSON(data []byte) error {
	s, err := decodeScalar(data)
	if err != nil {
		return err
	}
	*id = ItemID(s)
	return nil
}

func (id ItemID) String() string { return string(id) }

// Rating is a score as the API reports it, e.g. "8.0". Numbers are accepted.
type Rating string

func (r *Rating) UnmarshalJSON(data []byte) error {
	s, err := decodeScalar(data)
	if err != nil {
		return err
	}
	*r = Rating(s)
	return nil
}

// decodeScalar renders a JSON string, number or null as text.
func decodeScalar(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		return "", nil
	case len(data) > 0 && data[0] == '"':
		var s string
		err := json.Unmarshal(data, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// Item is a single search result.
type Item struct {
	ID    ItemID `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
	Image string `json:"img"`
}

// Link is one downloadable file of a catalog item.
type Link struct {
	Quality string `json:"quality"`
	Size    string `json:"size"`
	URL     string `json:"link"`
}

// LinkGroups holds the three link sources the API returns.
type LinkGroups struct {
	Telegram []Link `json:"telegramLinks"`
	Drive    []Link `json:"driveLinks"`
	Other    []Link `json:"otherLinks"`
}

// DownloadRecord is the metadata and links of one catalog item.
type DownloadRecord struct {
	Date     string     `json:"date"`
	Country  string     `json:"country"`
	Duration string     `json:"duration"`
	Genres   []string   `json:"genres"`
	IMDB     Rating     `json:"IMDB"`
	TMDB     Rating     `json:"TMDB"`
	Links    LinkGroups `json:"links"`
}

// normalize replaces absent collections with empty ones.
func (r *DownloadRecord) normalize() {
	if r.Genres == nil {
		r.Genres = []string{}
	}
	if r.Links.Telegram == nil {
		r.Links.Telegram = []Link{}
	}
	if r.Links.Drive == nil {
		r.Links.Drive = []Link{}
	}
	if r.Links.Other == nil {
		r.Links.Other = []Link{}
	}
}

type searchResponse struct {
	SearchResult *struct {
		Result []Item `json:"result"`
	} `json:"SearchResult"`
}

type downloadResponse struct {
	DownloadLinks *struct {
		Result *DownloadRecord `json:"result"`
	} `json:"downloadLinks"`
}
