package common

// UpdateType identifies the method of a request frame and the type of an
// update pushed back by the daemon.
type UpdateType string

const (
	UPDATE_SET      UpdateType = "set"
	UPDATE_STOP     UpdateType = "stop"
	UPDATE_STOP_ALL UpdateType = "stop_all"
	UPDATE_CANCEL   UpdateType = "cancel"
	UPDATE_SNOOZE   UpdateType = "snooze"
	UPDATE_LIST     UpdateType = "list"
	UPDATE_GET      UpdateType = "get"
	UPDATE_ATTACH   UpdateType = "attach"
	UPDATE_RINGING  UpdateType = "ringing"
	UPDATE_VERSION  UpdateType = "version"
)

// RingingAction identifies the phase of a ringing update streamed to
// attached foreground clients.
type RingingAction string

const (
	RingStarted   RingingAction = "ring_started"
	RingFadeStep  RingingAction = "ring_fade_step"
	RingVibrate   RingingAction = "ring_vibrate"
	RingStopped   RingingAction = "ring_stopped"
	RingCancelled RingingAction = "ring_cancelled"
)

// TargetTimeLayout is the wire format of alarm target times, interpreted in
// the daemon's local time zone.
const TargetTimeLayout = "2006-01-02 15:04"

// TCPHost is the host used for TCP fallback connections.
const TCPHost = "localhost"

// DefaultTCPPort is the TCP port used when the Unix socket is unavailable.
const DefaultTCPPort = 4857

// MaxMessageSize bounds a single framed message on the socket.
const MaxMessageSize = 4 * 1024 * 1024
