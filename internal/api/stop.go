package api

import (
	"encoding/json"

	"github.com/chimed/chime/common"
	"github.com/chimed/chime/internal/channel"
	"github.com/chimed/chime/internal/server"
	"github.com/chimed/chime/pkg/chimelib"
)

func (a *Api) stopHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var p common.InputAlarmId
	if err := json.Unmarshal(body, &p); err != nil {
		return common.UPDATE_STOP, nil, err
	}
	// Cooperative first: the ringer honors "stop" on its control port. The
	// registry then settles the record whether or not the message landed.
	a.channels.Send(channel.ControlPortName(p.AlarmId), chimelib.MsgStop)
	deleted, err := a.registry.Stop(p.AlarmId)
	if err != nil {
		return common.UPDATE_STOP, nil, err
	}
	return common.UPDATE_STOP, &common.StopResponse{
		AlarmId: p.AlarmId,
		Deleted: deleted,
	}, nil
}

func (a *Api) stopAllHandler(_ *server.SyncConn, _ *server.Pool, _ json.RawMessage) (common.UpdateType, any, error) {
	n, err := a.registry.StopAll()
	if err != nil {
		return common.UPDATE_STOP_ALL, nil, err
	}
	a.log.Info("api: stopped all (%d alarms)", n)
	return common.UPDATE_STOP_ALL, &common.StopAllResponse{Stopped: n}, nil
}

func (a *Api) cancelHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var p common.InputAlarmId
	if err := json.Unmarshal(body, &p); err != nil {
		return common.UPDATE_CANCEL, nil, err
	}
	if err := a.registry.Cancel(p.AlarmId); err != nil {
		return common.UPDATE_CANCEL, nil, err
	}
	return common.UPDATE_CANCEL, &common.StopResponse{
		AlarmId: p.AlarmId,
		Deleted: true,
	}, nil
}
