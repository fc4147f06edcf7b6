package telegram

import (
	"errors"
	"fmt"
	"strings"

	"skybot/backend/internal/catalog"
)

// ActionDownload tags the button that fetches download links.
const ActionDownload = "download"

const payloadDelimiter = "_"

// ErrMalformedPayload is returned for callback data the bot did not produce.
var ErrMalformedPayload = errors.New("malformed callback payload")

// CallbackPayload is the data carried by an inline button:
// "<action>_<item id>".
type CallbackPayload struct {
	Action string
	ItemID catalog.ItemID
}

func (p CallbackPayload) String() string {
	return p.Action + payloadDelimiter + string(p.ItemID)
}

// DownloadPayload is the button data for fetching the links of id.
func DownloadPayload(id catalog.ItemID) string {
	return CallbackPayload{Action: ActionDownload, ItemID: id}.String()
}

// ParsePayload splits data at the first delimiter. Only download payloads
// with a non-empty id are accepted.
func ParsePayload(data string) (CallbackPayload, error) {
	action, id, ok := strings.Cut(data, payloadDelimiter)
	if !ok {
		return CallbackPayload{}, fmt.Errorf("%w: no delimiter in %q", ErrMalformedPayload, data)
	}
	if action != ActionDownload {
		return CallbackPayload{}, fmt.Errorf("%w: unknown action %q", ErrMalformedPayload, action)
	}
	if id == "" {
		return CallbackPayload{}, fmt.Errorf("%w: empty item id", ErrMalformedPayload)
	}
	return CallbackPayload{Action: action, ItemID: catalog.ItemID(id)}, nil
}
