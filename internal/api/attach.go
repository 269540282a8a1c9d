package api

import (
	"encoding/json"

	"github.com/chimed/chime/common"
	"github.com/chimed/chime/internal/server"
)

// attachHandler subscribes the connection to an alarm's ring events. The
// reply carries the alarm's current status; everything after arrives as
// pushed ringing updates on the same connection.
func (a *Api) attachHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var p common.InputAlarmId
	if err := json.Unmarshal(body, &p); err != nil {
		return common.UPDATE_ATTACH, nil, err
	}
	var resp common.StatusResponse
	if p.AlarmId == server.AllAlarms {
		resp = common.StatusResponse{AlarmId: server.AllAlarms}
	} else {
		s, err := a.registry.Get(p.AlarmId)
		if err != nil {
			return common.UPDATE_ATTACH, nil, err
		}
		resp = common.StatusResponse{
			AlarmId:    s.Id,
			TargetTime: s.TargetTime.Format(common.TargetTimeLayout),
			Ringing:    a.registry.IsRinging(s.Id),
			Repeats:    s.Repeats(),
		}
	}
	pool.Subscribe(p.AlarmId, sconn)
	return common.UPDATE_ATTACH, &resp, nil
}
