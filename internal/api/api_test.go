package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go"

	"github.com/vitalpath/riskscreen/internal/assessment"
	"github.com/vitalpath/riskscreen/internal/genai"
	"github.com/vitalpath/riskscreen/internal/interview"
	"github.com/vitalpath/riskscreen/internal/models"
	"github.com/vitalpath/riskscreen/internal/store"
)

// failingGenAIClient simulates an unreachable reasoning service.
type failingGenAIClient struct{}

func (failingGenAIClient) GenerateWithMessages(_ context.Context, _ []openai.ChatCompletionMessageParamUnion) (string, error) {
	return "", errors.New("service unreachable")
}

// envelope mirrors the response shape with a raw result for per-test decoding.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func doJSON(t *testing.T, ts *httptest.Server, method, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decoding response: %v", method, path, err)
	}
	return resp.StatusCode, env
}

func createSession(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	code, env := doJSON(t, ts, http.MethodPost, "/sessions", nil)
	if code != http.StatusCreated {
		t.Fatalf("create session: status %d, message %q", code, env.Message)
	}
	var result struct {
		SessionID    string `json:"session_id"`
		MaxQuestions int    `json:"max_questions"`
	}
	if err := json.Unmarshal(env.Result, &result); err != nil {
		t.Fatalf("decoding session result: %v", err)
	}
	if result.MaxQuestions != interview.QuestionLimit {
		t.Errorf("max_questions = %d, want %d", result.MaxQuestions, interview.QuestionLimit)
	}
	return result.SessionID
}

type nextQuestionResult struct {
	Complete      bool             `json:"complete"`
	Question      *models.Question `json:"question"`
	QuestionCount int              `json:"question_count"`
}

// answerValue picks a plausible value for any question kind.
func answerValue(q models.Question) any {
	switch q.Kind {
	case models.KindSlider:
		return q.Min
	case models.KindYesNo:
		return "No"
	case models.KindSelect:
		return q.Options[0]
	default:
		return "170/70"
	}
}

// runInterview drives a session to completion and returns the served ids.
func runInterview(t *testing.T, ts *httptest.Server, sessionID string) []string {
	t.Helper()
	var served []string
	for i := 0; i <= interview.QuestionLimit; i++ {
		code, env := doJSON(t, ts, http.MethodGet, "/sessions/"+sessionID+"/next", nil)
		if code != http.StatusOK {
			t.Fatalf("next question: status %d, message %q", code, env.Message)
		}
		var result nextQuestionResult
		if err := json.Unmarshal(env.Result, &result); err != nil {
			t.Fatalf("decoding next question: %v", err)
		}
		if result.Complete {
			return served
		}
		served = append(served, result.Question.ID)

		code, env = doJSON(t, ts, http.MethodPost, "/sessions/"+sessionID+"/answers", map[string]any{
			"question_id": result.Question.ID,
			"value":       answerValue(*result.Question),
		})
		if code != http.StatusOK {
			t.Fatalf("save answer for %s: status %d, message %q", result.Question.ID, code, env.Message)
		}
	}
	t.Fatalf("interview never completed: served %d questions", len(served))
	return nil
}

func newTestServer(client genai.ClientInterface) *httptest.Server {
	return httptest.NewServer(NewServer(client, store.NewInMemoryStore()).Handler())
}

func TestFullStaticInterviewLifecycle(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	sessionID := createSession(t, ts)
	served := runInterview(t, ts, sessionID)

	if len(served) != interview.QuestionLimit {
		t.Fatalf("expected %d questions, got %d", interview.QuestionLimit, len(served))
	}
	if served[0] != "age" || served[1] != "gender" {
		t.Errorf("baseline order broken: %v", served[:2])
	}

	code, env := doJSON(t, ts, http.MethodGet, "/sessions/"+sessionID+"/answers", nil)
	if code != http.StatusOK {
		t.Fatalf("list answers: status %d", code)
	}
	var answers []models.Answer
	if err := json.Unmarshal(env.Result, &answers); err != nil {
		t.Fatalf("decoding answers: %v", err)
	}
	if len(answers) != interview.QuestionLimit {
		t.Errorf("expected %d stored answers, got %d", interview.QuestionLimit, len(answers))
	}
}

func TestGenerateAssessmentEndpoint(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	sessionID := createSession(t, ts)
	runInterview(t, ts, sessionID)

	code, env := doJSON(t, ts, http.MethodPost, "/sessions/"+sessionID+"/assessment", map[string]any{
		"user_id": "patient-7",
	})
	if code != http.StatusOK {
		t.Fatalf("generate assessment: status %d, message %q", code, env.Message)
	}
	var result struct {
		Assessment      models.DualRiskAssessment   `json:"assessment"`
		Recommendations []models.RecommendationItem `json:"recommendations"`
		StoredID        string                      `json:"stored_id"`
	}
	if err := json.Unmarshal(env.Result, &result); err != nil {
		t.Fatalf("decoding assessment: %v", err)
	}

	if result.Assessment.Summary == "" {
		t.Error("assessment missing summary")
	}
	if result.Assessment.Diabetes.Condition == "" || result.Assessment.Hypertension.Condition == "" {
		t.Error("assessment missing per-condition results")
	}
	if len(result.Recommendations) != assessment.RecommendationCount {
		t.Errorf("expected %d recommendations, got %d", assessment.RecommendationCount, len(result.Recommendations))
	}
	if result.StoredID == "" {
		t.Error("assessment was not persisted despite a user id")
	}

	// The persisted record must be retrievable through the user endpoints.
	code, env = doJSON(t, ts, http.MethodGet, "/users/patient-7/assessments/latest", nil)
	if code != http.StatusOK {
		t.Fatalf("latest assessment: status %d", code)
	}
	var stored store.StoredAssessment
	if err := json.Unmarshal(env.Result, &stored); err != nil {
		t.Fatalf("decoding stored assessment: %v", err)
	}
	if stored.ID != result.StoredID {
		t.Errorf("latest id %s, want %s", stored.ID, result.StoredID)
	}
	if stored.Assessment.Summary != result.Assessment.Summary {
		t.Error("stored assessment differs from returned assessment")
	}
}

func TestFailingGenAIStillCompletesInterview(t *testing.T) {
	ts := newTestServer(failingGenAIClient{})
	defer ts.Close()

	sessionID := createSession(t, ts)
	served := runInterview(t, ts, sessionID)
	if len(served) != interview.QuestionLimit {
		t.Fatalf("expected a full interview despite genai failures, got %d questions", len(served))
	}

	code, env := doJSON(t, ts, http.MethodPost, "/sessions/"+sessionID+"/assessment", map[string]any{
		"user_id":           "patient-9",
		"enhance_narrative": true,
	})
	if code != http.StatusOK {
		t.Fatalf("generate assessment: status %d, message %q", code, env.Message)
	}
	var result struct {
		Assessment      models.DualRiskAssessment   `json:"assessment"`
		Recommendations []models.RecommendationItem `json:"recommendations"`
	}
	if err := json.Unmarshal(env.Result, &result); err != nil {
		t.Fatalf("decoding assessment: %v", err)
	}
	if result.Assessment.Narrative != "" {
		t.Error("failed narrative enhancement must leave the narrative empty")
	}
	if len(result.Recommendations) != assessment.RecommendationCount {
		t.Errorf("expected the %d-item static fallback, got %d", assessment.RecommendationCount, len(result.Recommendations))
	}
}

func TestSessionResetEndpoint(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	sessionID := createSession(t, ts)

	// Serve and answer the first question, then reset.
	code, env := doJSON(t, ts, http.MethodGet, "/sessions/"+sessionID+"/next", nil)
	if code != http.StatusOK {
		t.Fatalf("next question: status %d", code)
	}
	var result nextQuestionResult
	if err := json.Unmarshal(env.Result, &result); err != nil {
		t.Fatalf("decoding next question: %v", err)
	}
	doJSON(t, ts, http.MethodPost, "/sessions/"+sessionID+"/answers", map[string]any{
		"question_id": result.Question.ID, "value": 44,
	})

	if code, _ := doJSON(t, ts, http.MethodPost, "/sessions/"+sessionID+"/reset", nil); code != http.StatusOK {
		t.Fatalf("reset: status %d", code)
	}

	code, env = doJSON(t, ts, http.MethodGet, "/sessions/"+sessionID+"/next", nil)
	if code != http.StatusOK {
		t.Fatalf("next question after reset: status %d", code)
	}
	if err := json.Unmarshal(env.Result, &result); err != nil {
		t.Fatalf("decoding next question: %v", err)
	}
	if result.Question == nil || result.Question.ID != "age" {
		t.Errorf("expected interview to restart at age, got %+v", result.Question)
	}
	if result.QuestionCount != 1 {
		t.Errorf("question count after reset = %d, want 1", result.QuestionCount)
	}
}

func TestAnswerValidationErrors(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	sessionID := createSession(t, ts)

	// Answering a question that was never served is rejected.
	code, env := doJSON(t, ts, http.MethodPost, "/sessions/"+sessionID+"/answers", map[string]any{
		"question_id": "smoking", "value": "Yes",
	})
	if code != http.StatusBadRequest {
		t.Errorf("unserved question: status %d, message %q", code, env.Message)
	}

	// Serve age, then submit an out-of-range value.
	doJSON(t, ts, http.MethodGet, "/sessions/"+sessionID+"/next", nil)
	code, env = doJSON(t, ts, http.MethodPost, "/sessions/"+sessionID+"/answers", map[string]any{
		"question_id": "age", "value": 150,
	})
	if code != http.StatusBadRequest {
		t.Errorf("out-of-range value: status %d, message %q", code, env.Message)
	}
	if env.Status != string(models.APIStatusError) {
		t.Errorf("expected error envelope, got %q", env.Status)
	}
}

func TestUnknownSessionReturns404(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/sessions/missing/next"},
		{http.MethodPost, "/sessions/missing/reset"},
		{http.MethodPost, "/sessions/missing/assessment"},
		{http.MethodGet, "/sessions/missing/answers"},
	}
	for _, p := range paths {
		if code, _ := doJSON(t, ts, p.method, p.path, nil); code != http.StatusNotFound {
			t.Errorf("%s %s: status %d, want 404", p.method, p.path, code)
		}
	}

	if code, _ := doJSON(t, ts, http.MethodGet, "/users/nobody/assessments/latest", nil); code != http.StatusNotFound {
		t.Errorf("latest for unknown user: status %d, want 404", code)
	}
}

func TestConcurrentSessionsAreIndependent(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	a := createSession(t, ts)
	b := createSession(t, ts)
	if a == b {
		t.Fatal("session ids collide")
	}

	runInterview(t, ts, a)

	// Session b is untouched by a's full interview.
	code, env := doJSON(t, ts, http.MethodGet, "/sessions/"+b+"/next", nil)
	if code != http.StatusOK {
		t.Fatalf("next question for b: status %d", code)
	}
	var result nextQuestionResult
	if err := json.Unmarshal(env.Result, &result); err != nil {
		t.Fatalf("decoding next question: %v", err)
	}
	if result.Complete || result.Question.ID != "age" {
		t.Errorf("session b should start fresh, got %+v", result)
	}
}

func TestListAssessmentsNewestFirst(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	for i := 0; i < 2; i++ {
		sessionID := createSession(t, ts)
		runInterview(t, ts, sessionID)
		code, env := doJSON(t, ts, http.MethodPost, "/sessions/"+sessionID+"/assessment", map[string]any{
			"user_id": "repeat-user",
		})
		if code != http.StatusOK {
			t.Fatalf("assessment %d: status %d, message %q", i, code, env.Message)
		}
	}

	code, env := doJSON(t, ts, http.MethodGet, "/users/repeat-user/assessments", nil)
	if code != http.StatusOK {
		t.Fatalf("list assessments: status %d", code)
	}
	var records []store.StoredAssessment
	if err := json.Unmarshal(env.Result, &records); err != nil {
		t.Fatalf("decoding records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].CreatedAt.Before(records[1].CreatedAt) {
		t.Error("records not newest first")
	}
}
