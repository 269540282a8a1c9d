package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/chimed/chime/common"
	"github.com/chimed/chime/internal/server"
	"github.com/chimed/chime/pkg/chimelib"
)

func (a *Api) setHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var p common.SetParams
	if err := json.Unmarshal(body, &p); err != nil {
		return common.UPDATE_SET, nil, err
	}
	target, err := time.ParseInLocation(common.TargetTimeLayout, p.TargetTime, time.Local)
	if err != nil {
		return common.UPDATE_SET, nil, fmt.Errorf("bad target time %q: %w", p.TargetTime, err)
	}
	s, err := chimelib.NewAlarmSettings(p.AlarmId, target, p.AudioAssetRef, &chimelib.AlarmOpts{
		LoopAudio:              p.LoopAudio,
		Vibrate:                p.Vibrate,
		VolumeMax:              p.VolumeMax,
		FadeDuration:           p.FadeDuration,
		NotificationTitle:      p.NotifTitle,
		NotificationBody:       p.NotifBody,
		NotifyOnKill:           p.NotifyOnKill,
		StopOnNotificationOpen: p.StopOnNotifOpen,
		FullScreenIntent:       p.FullScreenIntent,
		RepeatDaily:            p.RepeatDaily,
		RepeatWeekly:           p.RepeatWeekly,
		DayOfWeek:              p.DayOfWeek,
		CronExpr:               p.CronExpr,
	})
	if err != nil {
		return common.UPDATE_SET, nil, err
	}
	if err := a.registry.SetAlarm(s); err != nil {
		return common.UPDATE_SET, nil, err
	}
	a.log.Info("api: alarm %d set for %s", s.Id, s.TargetTime.Format(common.TargetTimeLayout))
	return common.UPDATE_SET, &common.SetResponse{
		AlarmId:    s.Id,
		TargetTime: s.TargetTime.Format(common.TargetTimeLayout),
		Repeats:    s.Repeats(),
	}, nil
}
