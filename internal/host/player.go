package host

import (
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Player plays a [Stream] on the default output device.
type Player struct {
	ctx    *oto.Context
	player *oto.Player
}

// NewPlayer opens the output device. Only one Player may exist per process.
func NewPlayer(sampleRate int, stream *Stream, latency time.Duration) (*Player, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: stream.Channels(),
		Format:       oto.FormatFloat32LE,
		BufferSize:   latency,
	})
	if err != nil {
		return nil, fmt.Errorf("host: open output: %w", err)
	}
	<-ready

	return &Player{ctx: ctx, player: ctx.NewPlayer(stream)}, nil
}

// Start begins playback.
func (p *Player) Start() { p.player.Play() }

// Err returns the first playback error, if any.
func (p *Player) Err() error { return p.player.Err() }

// Close stops playback.
func (p *Player) Close() error {
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("host: close player: %w", err)
	}

	return nil
}
