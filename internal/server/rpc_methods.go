package server

import (
	"context"

	"github.com/creachadair/jrpc2/handler"

	"github.com/chimed/chime/common"
	"github.com/chimed/chime/pkg/chimelib"
)

// rpcAlarmID is the parameter shape of the per-alarm RPC methods.
type rpcAlarmID struct {
	AlarmId int `json:"alarm_id"`
}

// rpcStatus is the reply of alarm.status.
type rpcStatus struct {
	Alarm   *chimelib.AlarmSettings `json:"alarm"`
	Ringing bool                    `json:"ringing"`
}

// rpcStop is the reply of alarm.stop.
type rpcStop struct {
	AlarmId int  `json:"alarm_id"`
	Deleted bool `json:"deleted"`
}

func rpcMethods(ctrl Controller) handler.Map {
	return handler.Map{
		"alarm.list": handler.New(func(ctx context.Context) ([]*chimelib.AlarmSettings, error) {
			return ctrl.ListAlarms(), nil
		}),
		"alarm.status": handler.New(func(ctx context.Context, p rpcAlarmID) (*rpcStatus, error) {
			s, ringing, err := ctrl.AlarmStatus(p.AlarmId)
			if err != nil {
				return nil, err
			}
			return &rpcStatus{Alarm: s, Ringing: ringing}, nil
		}),
		"alarm.stop": handler.New(func(ctx context.Context, p rpcAlarmID) (*rpcStop, error) {
			deleted, err := ctrl.StopAlarm(p.AlarmId)
			if err != nil {
				return nil, err
			}
			return &rpcStop{AlarmId: p.AlarmId, Deleted: deleted}, nil
		}),
		"alarm.cancel": handler.New(func(ctx context.Context, p rpcAlarmID) (bool, error) {
			if err := ctrl.CancelAlarm(p.AlarmId); err != nil {
				return false, err
			}
			return true, nil
		}),
		"system.getVersion": handler.New(func(ctx context.Context) (common.VersionResponse, error) {
			return ctrl.Version(), nil
		}),
	}
}
