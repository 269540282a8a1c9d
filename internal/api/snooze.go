package api

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/chimed/chime/common"
	"github.com/chimed/chime/internal/channel"
	"github.com/chimed/chime/internal/server"
	"github.com/chimed/chime/pkg/chimelib"
)

const defaultSnooze = 9 * time.Minute

func (a *Api) snoozeHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var p common.SnoozeParams
	if err := json.Unmarshal(body, &p); err != nil {
		return common.UPDATE_SNOOZE, nil, err
	}
	if p.DelaySeconds < 0 {
		return common.UPDATE_SNOOZE, nil, errors.New("snooze delay must not be negative")
	}
	delay := time.Duration(p.DelaySeconds) * time.Second
	if delay == 0 {
		delay = defaultSnooze
	}
	a.channels.Send(channel.ControlPortName(p.AlarmId), chimelib.MsgStop)
	next, err := a.registry.Snooze(p.AlarmId, delay)
	if err != nil {
		return common.UPDATE_SNOOZE, nil, err
	}
	a.log.Info("api: alarm %d snoozed until %s", p.AlarmId, next.Format(time.Kitchen))
	return common.UPDATE_SNOOZE, &common.SetResponse{
		AlarmId:    p.AlarmId,
		TargetTime: next.Format(common.TargetTimeLayout),
	}, nil
}
