package controllerImp

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"advisor/pkg/ai"
	"advisor/pkg/kb/service"
	"advisor/pkg/prompt"
)

type ChatCtrl struct {
	kb       service.KBService
	gen      ai.Client
	topK     int
	maxTurns int
}

func New(kb service.KBService, gen ai.Client, topK, maxTurns int) *ChatCtrl {
	return &ChatCtrl{kb: kb, gen: gen, topK: topK, maxTurns: maxTurns}
}

type chatReq struct {
	Message string        `json:"message"`
	History []prompt.Turn `json:"history"`
	Mode    string        `json:"mode"`
}

type sourceRef struct {
	ID    int     `json:"id"`
	Score float32 `json:"score"`
}

func (h *ChatCtrl) Chat(c echo.Context) error {
	var req chatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json: " + err.Error()})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "empty message"})
	}

	ctx := c.Request().Context()
	retrieved, err := h.kb.Search(ctx, req.Message, h.topK)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	texts := make([]string, len(retrieved))
	sources := make([]sourceRef, len(retrieved))
	for i, r := range retrieved {
		texts[i] = r.Text
		sources[i] = sourceRef{ID: r.ID, Score: r.Score}
	}

	p := prompt.Build(
		prompt.ParseMode(req.Mode),
		req.Message,
		prompt.JoinContext(texts),
		prompt.FormatHistory(req.History, h.maxTurns),
	)
	answer := h.gen.Generate(ctx, p)

	return c.JSON(http.StatusOK, map[string]any{"answer": answer, "sources": sources})
}

// Reindex forces a full rebuild regardless of the cached mtime.
func (h *ChatCtrl) Reindex(c echo.Context) error {
	if err := h.kb.Rebuild(c.Request().Context(), true); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	st := h.kb.Stats()
	return c.JSON(http.StatusOK, map[string]any{"chunks": st.Chunks, "built_at": st.BuiltAt})
}
