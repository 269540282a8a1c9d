package api

import (
	"encoding/json"

	"github.com/chimed/chime/common"
	"github.com/chimed/chime/internal/server"
)

func (a *Api) listHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var p common.ListParams
	if len(body) > 0 {
		if err := json.Unmarshal(body, &p); err != nil {
			return common.UPDATE_LIST, nil, err
		}
	}
	return common.UPDATE_LIST, &common.ListResponse{
		Alarms: a.registry.List(p.IncludeStalled),
	}, nil
}

func (a *Api) getHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var p common.InputAlarmId
	if err := json.Unmarshal(body, &p); err != nil {
		return common.UPDATE_GET, nil, err
	}
	s, err := a.registry.Get(p.AlarmId)
	if err != nil {
		return common.UPDATE_GET, nil, err
	}
	return common.UPDATE_GET, &common.GetResponse{Alarm: s}, nil
}
