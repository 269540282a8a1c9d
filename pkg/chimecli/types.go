// Package chimecli is the client library for talking to a running chimed:
// framed JSON requests over the daemon's socket, with pushed ringing updates
// for attached observers.
package chimecli

import (
	"encoding/json"

	"github.com/chimed/chime/common"
)

// request is one framed call to the daemon.
type request struct {
	Method  common.UpdateType `json:"method"`
	Message any               `json:"message,omitempty"`
}

// Update is the payload half of a reply or a pushed event.
type Update struct {
	Type    common.UpdateType `json:"type"`
	Message json.RawMessage   `json:"message,omitempty"`
}

// response is one framed reply from the daemon.
type response struct {
	Ok     bool    `json:"ok"`
	Error  string  `json:"error,omitempty"`
	Update *Update `json:"update,omitempty"`
}
