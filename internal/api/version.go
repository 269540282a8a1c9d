package api

import (
	"encoding/json"

	"github.com/chimed/chime/common"
	"github.com/chimed/chime/internal/server"
)

func (a *Api) versionHandler(_ *server.SyncConn, _ *server.Pool, _ json.RawMessage) (common.UpdateType, any, error) {
	return common.UPDATE_VERSION, &a.version, nil
}
