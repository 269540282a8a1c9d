package chimecli

import (
	"encoding/json"

	"github.com/chimed/chime/common"
)

// RingingHandlerFunc receives one pushed ringing update.
type RingingHandlerFunc func(resp *common.RingingResponse) error

// Handlers is the callback set Listen dispatches pushed updates to. Nil
// callbacks drop their updates.
type Handlers struct {
	RingingHandler RingingHandlerFunc
}

func (h *Handlers) dispatch(up *Update) error {
	switch up.Type {
	case common.UPDATE_RINGING:
		if h.RingingHandler == nil {
			return nil
		}
		var resp common.RingingResponse
		if err := json.Unmarshal(up.Message, &resp); err != nil {
			return err
		}
		return h.RingingHandler(&resp)
	default:
		return nil
	}
}
