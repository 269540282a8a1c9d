package api

import (
	"github.com/chimed/chime/common"
	"github.com/chimed/chime/internal/server"
	"github.com/chimed/chime/pkg/chimelib"
)

// Api doubles as the controller behind the web surface.
var _ server.Controller = (*Api)(nil)

func (a *Api) ListAlarms() []*chimelib.AlarmSettings {
	return a.registry.List(true)
}

func (a *Api) AlarmStatus(id int) (*chimelib.AlarmSettings, bool, error) {
	s, err := a.registry.Get(id)
	if err != nil {
		return nil, false, err
	}
	return s, a.registry.IsRinging(id), nil
}

func (a *Api) StopAlarm(id int) (bool, error) {
	return a.registry.Stop(id)
}

func (a *Api) CancelAlarm(id int) error {
	return a.registry.Cancel(id)
}

func (a *Api) Version() common.VersionResponse {
	return a.version
}
