// Package mcstatus models the Status JSON response returned by a
// Minecraft Java Edition server and normalizes its MOTD description
// field, which the protocol allows to take three different shapes.
package mcstatus

import "encoding/json"

// DefaultProtocol is used when a status JSON omits version.protocol.
const DefaultProtocol = 765

// DefaultPlayerCount is used when a status JSON omits players.online or
// players.max.
const DefaultPlayerCount = -1

// Status is the normalized form of a server's Status JSON response.
type Status struct {
	VersionName   string          `json:"versionName"`
	Protocol      int             `json:"protocol"`
	Description   string          `json:"description"`
	PlayersOnline int             `json:"playersOnline"`
	PlayersMax    int             `json:"playersMax"`
	PlayersSample json.RawMessage `json:"playersSample,omitempty"`
}

// rawStatus mirrors the server's actual JSON shape, prior to
// normalization. Player counts use pointers so an absent field can be
// told apart from an explicit 0.
type rawStatus struct {
	Version struct {
		Name     string `json:"name"`
		Protocol *int   `json:"protocol"`
	} `json:"version"`
	Description json.RawMessage `json:"description"`
	Players     struct {
		Online *int            `json:"online"`
		Max    *int            `json:"max"`
		Sample json.RawMessage `json:"sample"`
	} `json:"players"`
}

// ParseStatus normalizes a server's raw Status JSON blob. It never
// fails: every malformed or missing field falls back to its documented
// default, making this a total function over arbitrary input.
func ParseStatus(blob string) Status {
	var raw rawStatus
	// A non-JSON or empty blob just yields every default below; the
	// error is deliberately discarded.
	_ = json.Unmarshal([]byte(blob), &raw)

	protocol := DefaultProtocol
	if raw.Version.Protocol != nil {
		protocol = *raw.Version.Protocol
	}

	online := DefaultPlayerCount
	if raw.Players.Online != nil {
		online = *raw.Players.Online
	}
	max := DefaultPlayerCount
	if raw.Players.Max != nil {
		max = *raw.Players.Max
	}

	return Status{
		VersionName:   raw.Version.Name,
		Protocol:      protocol,
		Description:   normalizeDescription(raw.Description),
		PlayersOnline: online,
		PlayersMax:    max,
		PlayersSample: raw.Players.Sample,
	}
}

// descriptionExtraElement matches one element of an {"extra": [...]}
// description array: either a plain string or an object carrying text.
type descriptionExtraElement struct {
	Text string `json:"text"`
}

// normalizeDescription implements the three-shape MOTD normalization:
//   - plain string -> that string
//   - object with array "extra" -> concatenation of each element's string
//     form (element as string, else element.text)
//   - object with string "text" -> that string
//   - anything else -> ""
func normalizeDescription(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}

	var obj struct {
		Text  string            `json:"text"`
		Extra []json.RawMessage `json:"extra"`
	}
	if json.Unmarshal(raw, &obj) != nil {
		return ""
	}

	if len(obj.Extra) > 0 {
		var out string
		for _, elem := range obj.Extra {
			var elemStr string
			if json.Unmarshal(elem, &elemStr) == nil {
				out += elemStr
				continue
			}
			var e descriptionExtraElement
			if json.Unmarshal(elem, &e) == nil {
				out += e.Text
			}
		}
		return out
	}

	return obj.Text
}
