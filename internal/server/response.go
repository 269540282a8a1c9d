package server

import (
	"encoding/json"

	"github.com/chimed/chime/common"
)

// Update is the payload half of a successful response or a pushed event.
type Update struct {
	Type    common.UpdateType `json:"type"`
	Message json.RawMessage   `json:"message,omitempty"`
}

// Response is one framed server reply.
type Response struct {
	Ok     bool    `json:"ok"`
	Error  string  `json:"error,omitempty"`
	Update *Update `json:"update,omitempty"`
}

func makeResult(t common.UpdateType, v any) ([]byte, error) {
	msg, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&Response{
		Ok:     true,
		Update: &Update{Type: t, Message: msg},
	})
}

func makeError(err error) []byte {
	out, merr := json.Marshal(&Response{Error: err.Error()})
	if merr != nil {
		return []byte(`{"ok":false,"error":"internal error"}`)
	}
	return out
}
