// Package announce delivers drawn numbers to whatever displays them. A sink
// either stays silent or attaches spoken narration to each draw.
package announce

import (
	"context"
	"strconv"
	"strings"

	"github.com/riskibarqy/housie/internal/platform/random"
)

// Draw is one number leaving the pool of a game.
type Draw struct {
	GameID       string        `json:"game_id"`
	GameName     string        `json:"game_name"`
	Number       int           `json:"number"`
	Sequence     int           `json:"sequence"`
	Announcement *Announcement `json:"announcement,omitempty"`
}

// Announcement is what a narrating display should speak.
type Announcement struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

// Sink receives every drawn number after it has been saved.
type Sink interface {
	Publish(ctx context.Context, draw Draw) error
}

// Text spells out a number the way a caller reads it: "single number 7",
// "4 2, 42".
func Text(n int) string {
	digits := strconv.Itoa(n)
	if len(digits) == 1 {
		return "single number " + digits
	}

	return strings.Join(strings.Split(digits, ""), " ") + ", " + digits
}

type discardSink struct{}

func (discardSink) Publish(context.Context, Draw) error { return nil }

// Discard accepts draws and drops them.
var Discard Sink = discardSink{}

// SilentSink forwards draws without narration.
type SilentSink struct {
	next Sink
}

func NewSilentSink(next Sink) *SilentSink {
	if next == nil {
		next = Discard
	}
	return &SilentSink{next: next}
}

func (s *SilentSink) Publish(ctx context.Context, draw Draw) error {
	draw.Announcement = nil
	return s.next.Publish(ctx, draw)
}

// NarratingSink attaches spoken text and a randomly chosen voice to each draw.
type NarratingSink struct {
	next   Sink
	voices []string
	random random.Source
}

func NewNarratingSink(next Sink, voices []string, src random.Source) *NarratingSink {
	if next == nil {
		next = Discard
	}
	return &NarratingSink{
		next:   next,
		voices: append([]string(nil), voices...),
		random: src,
	}
}

func (s *NarratingSink) Publish(ctx context.Context, draw Draw) error {
	draw.Announcement = s.Announce(draw.Number)
	return s.next.Publish(ctx, draw)
}

// Announce builds the narration for n. Voice stays empty when no voices are configured.
func (s *NarratingSink) Announce(n int) *Announcement {
	out := &Announcement{Text: Text(n)}
	if s.random != nil {
		if voice, err := random.PickOne(s.random, s.voices); err == nil {
			out.Voice = voice
		}
	}
	return out
}

// Select returns the sink variant for the current mute preference.
func Select(muted bool, next Sink, voices []string, src random.Source) Sink {
	if muted {
		return NewSilentSink(next)
	}
	return NewNarratingSink(next, voices, src)
}
