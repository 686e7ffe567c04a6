package announce

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/housie/internal/platform/random"
)

type recordingSink struct {
	draws []Draw
	err   error
}

func (s *recordingSink) Publish(_ context.Context, draw Draw) error {
	s.draws = append(s.draws, draw)
	return s.err
}

type indexSource int

func (s indexSource) IntN(n int) int { return int(s) % n }

func TestText(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{n: 7, want: "single number 7"},
		{n: 1, want: "single number 1"},
		{n: 42, want: "4 2, 42"},
		{n: 90, want: "9 0, 90"},
		{n: 11, want: "1 1, 11"},
	}

	for _, tc := range tests {
		if got := Text(tc.n); got != tc.want {
			t.Fatalf("Text(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestSelectMuted(t *testing.T) {
	next := &recordingSink{}
	sink := Select(true, next, []string{"en-GB"}, indexSource(0))

	draw := Draw{GameID: "g1", Number: 42, Sequence: 3, Announcement: &Announcement{Text: "stale"}}
	if err := sink.Publish(context.Background(), draw); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(next.draws) != 1 {
		t.Fatalf("expected one forwarded draw, got %d", len(next.draws))
	}
	if next.draws[0].Announcement != nil {
		t.Fatalf("silent sink must not narrate, got %+v", next.draws[0].Announcement)
	}
}

func TestSelectNarrating(t *testing.T) {
	next := &recordingSink{}
	sink := Select(false, next, []string{"en-GB", "en-US", "en-IN"}, indexSource(1))

	if err := sink.Publish(context.Background(), Draw{GameID: "g1", Number: 7, Sequence: 1}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	got := next.draws[0].Announcement
	if got == nil {
		t.Fatalf("expected announcement")
	}
	if got.Text != "single number 7" || got.Voice != "en-US" {
		t.Fatalf("unexpected announcement %+v", got)
	}
}

func TestNarratingWithoutVoices(t *testing.T) {
	sink := NewNarratingSink(nil, nil, random.NewSeeded(1))
	got := sink.Announce(55)
	if got.Text != "5 5, 55" || got.Voice != "" {
		t.Fatalf("unexpected announcement %+v", got)
	}
	if err := sink.Publish(context.Background(), Draw{Number: 55}); err != nil {
		t.Fatalf("publish to discard: %v", err)
	}
}

func TestSinkPropagatesError(t *testing.T) {
	boom := errors.New("display offline")
	sink := NewSilentSink(&recordingSink{err: boom})
	if err := sink.Publish(context.Background(), Draw{Number: 1}); !errors.Is(err, boom) {
		t.Fatalf("expected propagated error, got %v", err)
	}
}
