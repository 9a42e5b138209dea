// Package api provides HTTP handlers for riskscreen endpoints.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vitalpath/riskscreen/internal/assessment"
	"github.com/vitalpath/riskscreen/internal/interview"
	"github.com/vitalpath/riskscreen/internal/models"
	"github.com/vitalpath/riskscreen/internal/scoring"
	"github.com/vitalpath/riskscreen/internal/util"
)

// createSessionHandler starts a new interview session.
func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}

	opts := []interview.SessionOption{}
	if s.genaiClient != nil {
		opts = append(opts, interview.WithGenerator(interview.NewGenAIQuestionGenerator(s.genaiClient)))
	}
	sess := interview.NewSession(opts...)
	id := util.GenerateSessionID()
	s.registerSession(id, sess)

	slog.Info("Server.createSessionHandler: session created", "sessionID", id)
	writeJSONResponse(w, http.StatusCreated, models.Success(map[string]any{
		"session_id":    id,
		"max_questions": sess.MaxQuestions(),
	}))
}

// resetSessionHandler clears a session's interview state and re-shuffles
// its question bank. Previously generated assessments are unaffected.
func (s *Server) resetSessionHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(r.PathValue("id"))
	if !ok {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Session not found"))
		return
	}
	sess.Reset()
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Session reset", nil))
}

// nextQuestionHandler returns the next interview question, or completion.
func (s *Server) nextQuestionHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(r.PathValue("id"))
	if !ok {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Session not found"))
		return
	}

	q := sess.NextQuestion(r.Context())
	if q == nil {
		writeJSONResponse(w, http.StatusOK, models.Success(map[string]any{
			"complete":       true,
			"question_count": sess.QuestionCount(),
		}))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]any{
		"complete":       false,
		"question":       q,
		"question_count": sess.QuestionCount(),
	}))
}

// saveAnswerRequest is the body for answer submission.
type saveAnswerRequest struct {
	QuestionID string `json:"question_id"`
	Value      any    `json:"value"`
}

// saveAnswerHandler validates and records an answer for a served question.
func (s *Server) saveAnswerHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	sess, ok := s.session(r.PathValue("id"))
	if !ok {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Session not found"))
		return
	}

	var req saveAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.saveAnswerHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}

	question, ok := sess.ServedQuestion(req.QuestionID)
	if !ok {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Question was not served in this session"))
		return
	}
	if err := sess.SaveAnswer(question, req.Value); err != nil {
		slog.Warn("Server.saveAnswerHandler: validation failed", "error", err, "questionID", req.QuestionID)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Answer recorded", nil))
}

// listAnswersHandler returns the answers collected so far.
func (s *Server) listAnswersHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(r.PathValue("id"))
	if !ok {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Session not found"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(sess.Answers()))
}

// generateAssessmentRequest is the body for assessment generation.
type generateAssessmentRequest struct {
	UserID           string `json:"user_id"`
	EnhanceNarrative bool   `json:"enhance_narrative"`
}

// assessmentResponse bundles the assessment with its action items.
type assessmentResponse struct {
	Assessment      models.DualRiskAssessment   `json:"assessment"`
	Recommendations []models.RecommendationItem `json:"recommendations"`
	StoredID        string                      `json:"stored_id,omitempty"`
}

// generateAssessmentHandler scores the session's answers, assembles the
// dual risk assessment, optionally enhances the narrative, generates the
// action-item list, and persists the result when a user id is provided.
func (s *Server) generateAssessmentHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	sess, ok := s.session(r.PathValue("id"))
	if !ok {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Session not found"))
		return
	}

	var req generateAssessmentRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Warn("Server.generateAssessmentHandler: failed to decode JSON", "error", err)
			writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
			return
		}
	}

	answers := sess.AnswerStore()
	diabetes := scoring.ScoreDiabetes(answers)
	hypertension := scoring.ScoreHypertension(answers)
	result := assessment.Assemble(diabetes, hypertension, answers, sess.Profile())

	if req.EnhanceNarrative {
		result = assessment.EnhanceNarrative(r.Context(), s.genaiClient, result)
	}
	items := s.recommender.Generate(r.Context(), result, answers)

	resp := assessmentResponse{Assessment: result, Recommendations: items}
	if req.UserID != "" && s.store != nil {
		storedID, err := s.store.SaveAssessment(req.UserID, result, sess.Answers())
		if err != nil {
			// The assessment itself is valid regardless of persistence.
			slog.Error("Server.generateAssessmentHandler: failed to persist assessment", "error", err, "userID", req.UserID)
		} else {
			resp.StoredID = storedID
		}
	}

	slog.Info("Server.generateAssessmentHandler: assessment generated",
		"diabetesLevel", diabetes.Level, "hypertensionLevel", hypertension.Level, "stored", resp.StoredID != "")
	writeJSONResponse(w, http.StatusOK, models.Success(resp))
}

// listAssessmentsHandler returns all stored assessments for a user.
func (s *Server) listAssessmentsHandler(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSONResponse(w, http.StatusServiceUnavailable, models.Error("No store configured"))
		return
	}
	records, err := s.store.ListAssessments(r.PathValue("userID"))
	if err != nil {
		slog.Error("Server.listAssessmentsHandler: store query failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch assessments"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(records))
}

// latestAssessmentHandler returns the newest stored assessment for a user.
func (s *Server) latestAssessmentHandler(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSONResponse(w, http.StatusServiceUnavailable, models.Error("No store configured"))
		return
	}
	record, err := s.store.LatestAssessment(r.PathValue("userID"))
	if err != nil {
		slog.Error("Server.latestAssessmentHandler: store query failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to fetch assessment"))
		return
	}
	if record == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("No assessments for user"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(record))
}
