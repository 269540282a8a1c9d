package chimelib

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/spf13/afero"
)

// wavAsset is one decoded PCM asset.
type wavAsset struct {
	data       []byte
	sampleRate int
	channels   int
	byteDepth  int
}

func (w *wavAsset) bytesPerSecond() int {
	return w.sampleRate * w.channels * w.byteDepth
}

func (w *wavAsset) duration() time.Duration {
	bps := w.bytesPerSecond()
	if bps == 0 {
		return 0
	}
	return time.Duration(len(w.data)) * time.Second / time.Duration(bps)
}

// assetCache holds decoded assets by reference, shared by all engines in the
// process so repeated rings of the same alarm skip the decode.
var (
	assetCacheMu sync.Mutex
	assetCache   = map[string]*wavAsset{}
)

// The oto context is a process singleton; it is created for the format of the
// first asset played.
var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
)

func otoContext(sampleRate, channels int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
		}
		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			otoErr = err
			return
		}
		<-ready
		otoCtx = ctx
	})
	return otoCtx, otoErr
}

// OtoEngine plays WAV assets through the host's audio device. One engine
// plays one asset; a new ring session gets a new engine.
type OtoEngine struct {
	fs afero.Fs

	mu       sync.Mutex
	asset    *wavAsset
	src      *pcmSource
	player   *oto.Player
	vol      float64
	loop     bool
	disposed bool
}

// NewOtoEngine returns an engine that resolves asset references against fs.
func NewOtoEngine(fs afero.Fs) *OtoEngine {
	return &OtoEngine{fs: fs, vol: 1.0}
}

func (e *OtoEngine) Load(assetRef string) (time.Duration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return 0, errors.New("engine is disposed")
	}
	assetCacheMu.Lock()
	asset, ok := assetCache[assetRef]
	assetCacheMu.Unlock()
	if !ok {
		raw, err := afero.ReadFile(e.fs, assetRef)
		if err != nil {
			return 0, err
		}
		asset, err = parseWAV(raw)
		if err != nil {
			return 0, err
		}
		assetCacheMu.Lock()
		assetCache[assetRef] = asset
		assetCacheMu.Unlock()
	}
	e.asset = asset
	return asset.duration(), nil
}

func (e *OtoEngine) SetLoop(loop bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loop = loop
	if e.src != nil {
		e.src.loop.Store(loop)
	}
}

func (e *OtoEngine) SetVolume(vol float64) error {
	if vol < 0 || vol > 1 {
		return fmt.Errorf("volume %f out of range [0,1]", vol)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vol = vol
	if e.player != nil {
		e.player.SetVolume(vol)
	}
	return nil
}

func (e *OtoEngine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return errors.New("engine is disposed")
	}
	if e.player != nil {
		e.player.Play()
		return nil
	}
	if e.asset == nil {
		return errors.New("no asset loaded")
	}
	ctx, err := otoContext(e.asset.sampleRate, e.asset.channels)
	if err != nil {
		return err
	}
	e.src = newPCMSource(e.asset.data, e.loop)
	e.player = ctx.NewPlayer(e.src)
	e.player.SetVolume(e.vol)
	e.player.Play()
	return nil
}

func (e *OtoEngine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.player != nil {
		e.player.Pause()
	}
	return nil
}

func (e *OtoEngine) Dispose() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return nil
	}
	e.disposed = true
	if e.player != nil {
		err := e.player.Close()
		e.player = nil
		return err
	}
	return nil
}

// CurrentPosition reports the playback position: bytes handed to the device
// minus what is still sitting in its buffer. It strictly increases while
// audio is audibly playing and freezes when paused.
func (e *OtoEngine) CurrentPosition() (time.Duration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.src == nil || e.asset == nil {
		return 0, nil
	}
	fed := e.src.read.Load()
	buffered := int64(0)
	if e.player != nil {
		buffered = int64(e.player.BufferedSize())
	}
	played := fed - buffered
	if played < 0 {
		played = 0
	}
	bps := int64(e.asset.bytesPerSecond())
	if bps == 0 {
		return 0, nil
	}
	return time.Duration(played) * time.Second / time.Duration(bps), nil
}

func (e *OtoEngine) ClearAssetCache() {
	assetCacheMu.Lock()
	defer assetCacheMu.Unlock()
	assetCache = map[string]*wavAsset{}
}

var _ Engine = (*OtoEngine)(nil)

// pcmSource feeds raw PCM to the player, counting bytes and optionally
// restarting at EOF.
type pcmSource struct {
	data []byte
	pos  int
	read atomic.Int64
	loop atomic.Bool
	mu   sync.Mutex
}

func newPCMSource(data []byte, loop bool) *pcmSource {
	s := &pcmSource{data: data}
	s.loop.Store(loop)
	return s
}

func (s *pcmSource) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.data) {
		if !s.loop.Load() {
			return 0, io.EOF
		}
		s.pos = 0
	}
	n := copy(p, s.data[s.pos:])
	s.pos += n
	s.read.Add(int64(n))
	return n, nil
}

// parseWAV decodes a 16-bit PCM RIFF/WAVE file.
func parseWAV(raw []byte) (*wavAsset, error) {
	if len(raw) < 12 || !bytes.Equal(raw[0:4], []byte("RIFF")) || !bytes.Equal(raw[8:12], []byte("WAVE")) {
		return nil, errors.New("not a RIFF/WAVE file")
	}
	var (
		asset   wavAsset
		sawFmt  bool
		sawData bool
	)
	off := 12
	for off+8 <= len(raw) {
		id := string(raw[off : off+4])
		size := int(binary.LittleEndian.Uint32(raw[off+4 : off+8]))
		body := off + 8
		if body+size > len(raw) {
			return nil, errors.New("truncated WAVE chunk")
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return nil, errors.New("short fmt chunk")
			}
			format := binary.LittleEndian.Uint16(raw[body : body+2])
			if format != 1 {
				return nil, fmt.Errorf("unsupported WAVE format %d, want PCM", format)
			}
			asset.channels = int(binary.LittleEndian.Uint16(raw[body+2 : body+4]))
			asset.sampleRate = int(binary.LittleEndian.Uint32(raw[body+4 : body+8]))
			bits := int(binary.LittleEndian.Uint16(raw[body+14 : body+16]))
			if bits != 16 {
				return nil, fmt.Errorf("unsupported bit depth %d, want 16", bits)
			}
			asset.byteDepth = bits / 8
			sawFmt = true
		case "data":
			asset.data = raw[body : body+size]
			sawData = true
		}
		// chunks are word aligned
		if size%2 == 1 {
			size++
		}
		off = body + size
	}
	if !sawFmt || !sawData {
		return nil, errors.New("WAVE file missing fmt or data chunk")
	}
	return &asset, nil
}
