package httpapi

import (
	"context"
	"time"

	"github.com/riskibarqy/housie/internal/domain/announce"
	"github.com/riskibarqy/housie/internal/domain/game"
	"github.com/riskibarqy/housie/internal/domain/preference"
	"github.com/riskibarqy/housie/internal/domain/ticket"
	"github.com/riskibarqy/housie/internal/usecase"
)

type createGameRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type restoreGameRequest struct {
	RestoreToken string `json:"restore_token" validate:"required"`
}

type drawRequest struct {
	Count int `json:"count" validate:"omitempty,min=1,max=90"`
}

type ticketBatchRequest struct {
	Count int `json:"count" validate:"required,min=1"`
}

type narrationRequest struct {
	Muted *bool `json:"muted" validate:"required"`
}

type gameDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Drawn          []int  `json:"drawn"`
	DrawnCount     int    `json:"drawn_count"`
	RemainingCount int    `json:"remaining_count"`
	LastDrawn      *int   `json:"last_drawn"`
	Complete       bool   `json:"complete"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type drawResultDTO struct {
	Game          gameDTO                 `json:"game"`
	Numbers       []int                   `json:"numbers"`
	Announcements []announce.Announcement `json:"announcements"`
	Exhausted     bool                    `json:"exhausted"`
}

type deleteGameDTO struct {
	RestoreToken string `json:"restore_token,omitempty"`
	ExpiresAt    string `json:"expires_at,omitempty"`
}

type ticketDTO struct {
	Rows    ticket.Ticket `json:"rows"`
	Numbers []int         `json:"numbers"`
}

type narrationDTO struct {
	Muted     bool   `json:"muted"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func gameToDTO(_ context.Context, v game.Game) gameDTO {
	drawn := v.Drawn
	if drawn == nil {
		drawn = []int{}
	}

	out := gameDTO{
		ID:             v.ID,
		Name:           v.Name,
		Drawn:          drawn,
		DrawnCount:     len(drawn),
		RemainingCount: v.Remaining(),
		Complete:       v.Complete(),
		CreatedAt:      formatTime(v.CreatedAt),
		UpdatedAt:      formatTime(v.UpdatedAt),
	}
	if last, ok := v.LastDrawn(); ok {
		out.LastDrawn = &last
	}

	return out
}

func drawResultToDTO(ctx context.Context, v usecase.DrawResult) drawResultDTO {
	numbers := v.Numbers
	if numbers == nil {
		numbers = []int{}
	}
	announcements := v.Announcements
	if announcements == nil {
		announcements = []announce.Announcement{}
	}

	return drawResultDTO{
		Game:          gameToDTO(ctx, v.Game),
		Numbers:       numbers,
		Announcements: announcements,
		Exhausted:     v.Exhausted,
	}
}

func ticketToDTO(_ context.Context, v ticket.Ticket) ticketDTO {
	return ticketDTO{Rows: v, Numbers: v.Numbers()}
}

func narrationToDTO(_ context.Context, v preference.Preference) narrationDTO {
	return narrationDTO{Muted: v.Enabled, UpdatedAt: formatTime(v.UpdatedAt)}
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
