package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/lussekatt/internal/app"
	"github.com/shrimpsizemoose/lussekatt/internal/metrics"
	"github.com/shrimpsizemoose/lussekatt/internal/models"
)

type AttestationHandler struct {
	service *app.Service
}

func NewAttestationHandler(service *app.Service) *AttestationHandler {
	return &AttestationHandler{
		service: service,
	}
}

func (h *AttestationHandler) parseScope(w http.ResponseWriter, r *http.Request) (course string, period models.Period, ok bool) {
	course = r.PathValue("course")
	if course == "" {
		logger.Error.Printf("Failed to extract course from path: %s", r.URL.Path)
		http.Error(w, "Invalid course", http.StatusBadRequest)
		return "", "", false
	}

	period = models.Period(r.PathValue("period"))
	if !period.Valid() {
		http.Error(w, "Invalid period, expected first or second", http.StatusBadRequest)
		return "", "", false
	}

	return course, period, true
}

// HandleStudentReport recomputes one student's attestation from the
// current records. Guarded by the student's report token when auth is
// enabled.
func (h *AttestationHandler) HandleStudentReport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		metrics.APIRequestDuration.WithLabelValues(
			r.URL.Path,
			r.Method,
			"200",
		).Observe(duration)
	}()

	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusNotFound)
		return
	}

	course, period, ok := h.parseScope(w, r)
	if !ok {
		return
	}

	student := r.PathValue("student")
	if student == "" {
		http.Error(w, "Invalid student id specified", http.StatusBadRequest)
		return
	}

	if err := h.service.ValidateAuthAndStudent(r, course, student); err != nil {
		logger.Error.Printf("Auth failed: %v", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	result, err := h.service.GetAttestation(course, student, period)
	if err != nil {
		logger.Error.Printf("Failed to compute attestation for %s/%s: %v", course, student, err)
		http.Error(w, "Failed to compute attestation", http.StatusInternalServerError)
		return
	}

	metrics.ComputationsTotal.WithLabelValues(course, string(period), "student").Inc()
	metrics.TotalScoreHistogram.WithLabelValues(course, string(period)).Observe(result.TotalScore)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.Error.Printf("Failed to encode attestation: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// HandleGroupReport recomputes a group scope; ?group= empty means the
// whole course. ?frozen=true reads the transfer snapshots instead.
func (h *AttestationHandler) HandleGroupReport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		metrics.APIRequestDuration.WithLabelValues(
			r.URL.Path,
			r.Method,
			"200",
		).Observe(duration)
	}()

	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusNotFound)
		return
	}

	course, period, ok := h.parseScope(w, r)
	if !ok {
		return
	}

	groupID := r.URL.Query().Get("group")
	frozen := r.URL.Query().Get("frozen") == "true"

	var result *models.GroupAttestationResult
	var err error
	if frozen {
		result, err = h.service.GetHistoricalGroupReport(course, groupID, period)
	} else {
		result, err = h.service.GetGroupReport(course, groupID, period)
	}
	if err != nil {
		logger.Error.Printf("Failed to compute group report for %s/%s: %v", course, groupID, err)
		http.Error(w, "Failed to compute group report", http.StatusInternalServerError)
		return
	}

	metrics.ComputationsTotal.WithLabelValues(course, string(period), "group").Inc()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.Error.Printf("Failed to encode group report: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// HandleSnapshot freezes a student's result at group-transfer time.
// Safe to retry: repeats return the existing snapshot.
func (h *AttestationHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusForbidden)
		return
	}

	course, period, ok := h.parseScope(w, r)
	if !ok {
		return
	}

	student := r.PathValue("student")
	groupID := r.URL.Query().Get("group")
	if student == "" || groupID == "" {
		http.Error(w, "Student and group are required", http.StatusBadRequest)
		return
	}

	snapshot, err := h.service.SnapshotOnTransfer(course, student, groupID, period)
	if err != nil {
		logger.Error.Printf("Failed to snapshot %s/%s/%s: %v", course, student, groupID, err)
		http.Error(w, "Failed to take snapshot", http.StatusInternalServerError)
		return
	}

	metrics.SnapshotsTotal.WithLabelValues(course, string(period)).Inc()

	resp := struct {
		*models.ScoreSnapshot
		TakenAtDttm string `json:"taken_at_dttm"`
	}{
		ScoreSnapshot: snapshot,
		TakenAtDttm:   time.Unix(snapshot.TakenAt, 0).UTC().Format(h.service.Config.Display.TimestampFormat),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error.Printf("Failed to encode snapshot: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
