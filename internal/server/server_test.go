package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/shop-scout/internal/catalog"
	"github.com/ziadkadry99/shop-scout/internal/db"
	"github.com/ziadkadry99/shop-scout/internal/feedback"
	"github.com/ziadkadry99/shop-scout/internal/inventory"
	"github.com/ziadkadry99/shop-scout/internal/match"
	"github.com/ziadkadry99/shop-scout/internal/similar"
	"github.com/ziadkadry99/shop-scout/internal/stages"
)

var testProducts = []catalog.Product{
	{ID: 1, Name: "Nike Air Max", Brand: "Nike", Color: "White", Price: 4500, Category: "sneakers"},
	{ID: 2, Name: "Adidas Ultraboost", Brand: "Adidas", Color: "Black", Price: 6000, Category: "sneakers"},
}

// fullSessionAnswers drives one session end to end: product type, type
// confirmation, the five sneaker clarifications, product pick, no second
// item, and a rating.
var fullSessionAnswers = []string{
	"sneakers", "yes",
	"nike", "white", "0-5000", "9", "mesh",
	"1", "no", "5",
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	finder, err := similar.NewFinder(nil, 0)
	if err != nil {
		t.Fatalf("NewFinder: %v", err)
	}

	fb := feedback.NewStore(database)
	deps := stages.Deps{
		Catalog:   catalog.NewStaticProvider(testProducts),
		Matcher:   match.NewEngine(match.DefaultThresholds()),
		Inventory: &inventory.FixedChecker{Stock: map[int]bool{}},
		Finder:    finder,
		Feedback:  fb,
	}

	return New(Config{Port: 0, CycleLimit: 50}, database, deps, fb)
}

func postJSON(t *testing.T, srv *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func getJSON(t *testing.T, srv *Server, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("unmarshal %s: %v", path, err)
		}
	}
	return w
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestSessionCompletesInOneRequest(t *testing.T) {
	srv := newTestServer(t)

	w := postJSON(t, srv, "/api/session", sessionRequest{Answers: fullSessionAnswers})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp sessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != StatusDone {
		t.Fatalf("expected done, got %q (%s)", resp.Status, w.Body.String())
	}
	if len(resp.Context.Cart) != 1 || resp.Context.Cart[0].ID != 1 {
		t.Errorf("expected product 1 in the cart, got %+v", resp.Context.Cart)
	}
	if resp.Context.Summary == "" {
		t.Error("expected a summary")
	}
}

func TestSessionSuspendAndResume(t *testing.T) {
	srv := newTestServer(t)

	// No answers: the pipeline suspends on the first question.
	w := postJSON(t, srv, "/api/session", sessionRequest{})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp sessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != StatusSuspended {
		t.Fatalf("expected suspended, got %q", resp.Status)
	}
	if resp.Stage != stages.ImageAnalysis || resp.Field != "product_type" {
		t.Fatalf("expected to wait on the product type, got stage=%q field=%q", resp.Stage, resp.Field)
	}
	if resp.Question == "" {
		t.Error("expected a question for the client to show")
	}

	// Answer everything in one go.
	w = postJSON(t, srv, "/api/session/"+resp.ID+"/answer", sessionRequest{Answers: fullSessionAnswers})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != StatusDone {
		t.Fatalf("expected done, got %q (%s)", resp.Status, w.Body.String())
	}

	// A finished session rejects further answers.
	w = postJSON(t, srv, "/api/session/"+resp.ID+"/answer", sessionRequest{Answers: []string{"x"}})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 for a finished session, got %d", w.Code)
	}

	// The snapshot is readable afterwards.
	var snap Snapshot
	if w := getJSON(t, srv, "/api/session/"+resp.ID, &snap); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if snap.Status != StatusDone {
		t.Errorf("expected the stored snapshot to be done, got %q", snap.Status)
	}
}

func TestSessionNotFound(t *testing.T) {
	srv := newTestServer(t)

	if w := getJSON(t, srv, "/api/session/ghost", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if w := postJSON(t, srv, "/api/session/ghost/answer", sessionRequest{Answers: []string{"x"}}); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestSessionSummaryEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := postJSON(t, srv, "/api/session", sessionRequest{Answers: fullSessionAnswers})
	var resp sessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/session/"+resp.ID+"/summary", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected HTML, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "Session Summary") {
		t.Errorf("expected the rendered summary, got:\n%s", rec.Body.String())
	}
}

func TestListStages(t *testing.T) {
	srv := newTestServer(t)

	var body struct {
		Entry  string   `json:"entry"`
		Stages []string `json:"stages"`
	}
	if w := getJSON(t, srv, "/api/stages", &body); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body.Entry != stages.ImageAnalysis {
		t.Errorf("expected entry %s, got %q", stages.ImageAnalysis, body.Entry)
	}
	if len(body.Stages) != 11 {
		t.Errorf("expected 11 stages, got %d: %v", len(body.Stages), body.Stages)
	}
}

func TestRunSingleStage(t *testing.T) {
	srv := newTestServer(t)

	w := postJSON(t, srv, "/api/stage/"+stages.ImageAnalysis, stageRequest{Answers: []string{"sneakers"}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp stageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Context.ProductType != "sneakers" {
		t.Errorf("expected the stage to set the product type, got %q", resp.Context.ProductType)
	}
	if resp.Next != stages.ConfirmProductType {
		t.Errorf("expected next %s, got %q", stages.ConfirmProductType, resp.Next)
	}
}

func TestRunSingleStageSuspends(t *testing.T) {
	srv := newTestServer(t)

	w := postJSON(t, srv, "/api/stage/"+stages.ImageAnalysis, stageRequest{})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp stageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Next != stages.ImageAnalysis {
		t.Errorf("expected a re-run of the same stage, got %q", resp.Next)
	}
	if resp.Field != "product_type" || resp.Question == "" {
		t.Errorf("expected the pending question, got field=%q question=%q", resp.Field, resp.Question)
	}
}

func TestRunUnknownStage(t *testing.T) {
	srv := newTestServer(t)
	if w := postJSON(t, srv, "/api/stage/Nonsense", stageRequest{}); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestWebSocketSession(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/session"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(wsRequest{Type: "start"}); err != nil {
		t.Fatalf("write start: %v", err)
	}

	var resp wsResponse
	for _, answer := range fullSessionAnswers {
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatalf("read: %v", err)
		}
		if resp.Type != "question" {
			t.Fatalf("expected a question, got %+v", resp)
		}
		if err := conn.WriteJSON(wsRequest{Type: "answer", Answer: answer}); err != nil {
			t.Fatalf("write answer: %v", err)
		}
	}

	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read final: %v", err)
	}
	if resp.Type != "done" {
		t.Fatalf("expected done, got %+v", resp)
	}
	if len(resp.Context.Cart) != 1 {
		t.Errorf("expected one cart item, got %+v", resp.Context.Cart)
	}
}

func TestFeedbackRoutes(t *testing.T) {
	srv := newTestServer(t)

	w := postJSON(t, srv, "/api/feedback", feedback.Entry{SessionID: "s1", Rating: 4})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = postJSON(t, srv, "/api/feedback", feedback.Entry{SessionID: "s1", Rating: 9})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad rating, got %d", w.Code)
	}

	var avg map[string]float64
	if w := getJSON(t, srv, "/api/feedback/average", &avg); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if avg["average"] != 4 {
		t.Errorf("expected average 4, got %v", avg["average"])
	}
}
