package controllerImp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"advisor/pkg/kb/service"
)

type fakeKB struct {
	hits     []service.Scored
	searches int
}

func (f *fakeKB) Search(ctx context.Context, query string, k int) ([]service.Scored, error) {
	f.searches++
	return f.hits, nil
}
func (f *fakeKB) Rebuild(ctx context.Context, force bool) error { return nil }
func (f *fakeKB) Stats() service.Stats                          { return service.Stats{Chunks: len(f.hits)} }

// echoGen returns the prompt it was given, so tests can inspect what
// the composer produced end to end.
type echoGen struct{}

func (echoGen) Generate(ctx context.Context, prompt string) string { return prompt }

func doChat(t *testing.T, ctrl *ChatCtrl, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := ctrl.Chat(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	return rec, out
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	kb := &fakeKB{}
	ctrl := New(kb, echoGen{}, 8, 8)

	for _, msg := range []string{`{"message":""}`, `{"message":"   \n"}`} {
		rec, out := doChat(t, ctrl, msg)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		if out["error"] == "" {
			t.Error("missing error body")
		}
	}
	if kb.searches != 0 {
		t.Errorf("retrieval ran %d times for invalid input", kb.searches)
	}
}

func TestChatReturnsAnswerAndSources(t *testing.T) {
	kb := &fakeKB{hits: []service.Scored{
		{ID: 0, Text: "## A\nfee: 10", Score: 0.9},
		{ID: 1, Text: "## B\nfee: 20", Score: 0.5},
	}}
	ctrl := New(kb, echoGen{}, 8, 8)

	rec, out := doChat(t, ctrl, `{"message":"fee of A","history":[{"user":"hi","assistant":"hello"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	answer, _ := out["answer"].(string)
	if !strings.Contains(answer, "fee of A") {
		t.Error("prompt does not carry the question")
	}
	if !strings.Contains(answer, "## A\nfee: 10") || !strings.Contains(answer, "## B\nfee: 20") {
		t.Error("prompt does not carry the retrieved context")
	}
	if !strings.Contains(answer, "User: hi\nAssistant: hello\n") {
		t.Error("prompt does not carry the serialized history")
	}
	if !strings.Contains(answer, "FAQ assistant") {
		t.Error("default mode is not FAQ")
	}

	sources, _ := out["sources"].([]any)
	if len(sources) != 2 {
		t.Fatalf("sources = %v, want 2 entries", out["sources"])
	}
	first, _ := sources[0].(map[string]any)
	if first["id"].(float64) != 0 {
		t.Errorf("first source id = %v, want 0", first["id"])
	}
}

func TestChatRecommendModeAsksForBackgroundFirst(t *testing.T) {
	kb := &fakeKB{hits: []service.Scored{{ID: 0, Text: "### Interests Aligned\nleadership", Score: 0.8}}}
	ctrl := New(kb, echoGen{}, 8, 8)

	_, out := doChat(t, ctrl, `{"message":"which course should I take?","mode":"recommend"}`)
	answer, _ := out["answer"].(string)
	if !strings.Contains(answer, "Your first response MUST be to ask for more information") {
		t.Error("recommend prompt lost the clarify-first constraint")
	}
	if !strings.Contains(answer, "Do not recommend a course yet") {
		t.Error("recommend prompt allows premature recommendations")
	}
}

func TestChatUnknownModeFallsBackToFAQ(t *testing.T) {
	kb := &fakeKB{}
	ctrl := New(kb, echoGen{}, 8, 8)

	_, out := doChat(t, ctrl, `{"message":"hello","mode":"recomendation"}`)
	answer, _ := out["answer"].(string)
	if !strings.Contains(answer, "FAQ assistant") {
		t.Error("unknown mode did not default to FAQ")
	}
}

func TestChatEmptyIndexStillAnswers(t *testing.T) {
	kb := &fakeKB{}
	ctrl := New(kb, echoGen{}, 8, 8)

	rec, out := doChat(t, ctrl, `{"message":"anything"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	sources, _ := out["sources"].([]any)
	if len(sources) != 0 {
		t.Errorf("sources = %v, want empty", out["sources"])
	}
}
