package chimecli

import (
	"github.com/chimed/chime/common"
)

// SetAlarm validates, persists and arms an alarm on the daemon.
func (c *Client) SetAlarm(p *common.SetParams) (*common.SetResponse, error) {
	return invokeAs[common.SetResponse](c, common.UPDATE_SET, p)
}

// StopAlarm stops a ringing alarm. Deleted is true when a spent one-shot was
// removed from the store.
func (c *Client) StopAlarm(id int) (*common.StopResponse, error) {
	return invokeAs[common.StopResponse](c, common.UPDATE_STOP, &common.InputAlarmId{AlarmId: id})
}

// StopAll stops every ring and drops every alarm.
func (c *Client) StopAll() (*common.StopAllResponse, error) {
	return invokeAs[common.StopAllResponse](c, common.UPDATE_STOP_ALL, nil)
}

// CancelAlarm disarms and deletes an alarm outright.
func (c *Client) CancelAlarm(id int) (*common.StopResponse, error) {
	return invokeAs[common.StopResponse](c, common.UPDATE_CANCEL, &common.InputAlarmId{AlarmId: id})
}

// Snooze stops a ringing alarm and re-arms it delaySeconds from now. Zero
// asks for the daemon's default snooze.
func (c *Client) Snooze(id, delaySeconds int) (*common.SetResponse, error) {
	return invokeAs[common.SetResponse](c, common.UPDATE_SNOOZE, &common.SnoozeParams{
		AlarmId:      id,
		DelaySeconds: delaySeconds,
	})
}

// ListAlarms returns the persisted alarms.
func (c *Client) ListAlarms(includeStalled bool) (*common.ListResponse, error) {
	return invokeAs[common.ListResponse](c, common.UPDATE_LIST, &common.ListParams{
		IncludeStalled: includeStalled,
	})
}

// GetAlarm returns one persisted alarm.
func (c *Client) GetAlarm(id int) (*common.GetResponse, error) {
	return invokeAs[common.GetResponse](c, common.UPDATE_GET, &common.InputAlarmId{AlarmId: id})
}

// Attach subscribes this connection to an alarm's ring events. Use id 0 for
// all alarms, then call Listen.
func (c *Client) Attach(id int) (*common.StatusResponse, error) {
	return invokeAs[common.StatusResponse](c, common.UPDATE_ATTACH, &common.InputAlarmId{AlarmId: id})
}

// GetVersion reports the daemon build.
func (c *Client) GetVersion() (*common.VersionResponse, error) {
	return invokeAs[common.VersionResponse](c, common.UPDATE_VERSION, nil)
}
