package server

import (
	"encoding/json"

	"github.com/chimed/chime/common"
)

// HandlerFunc serves one request method. It returns the update type and
// value to reply with, or an error that is sent back as a failed response.
type HandlerFunc func(sconn *SyncConn, pool *Pool, body json.RawMessage) (common.UpdateType, any, error)

// Handlers maps request methods to their handlers.
type Handlers map[common.UpdateType]HandlerFunc
