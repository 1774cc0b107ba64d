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

// RecordHandler ingests the raw records the scoring engine later
// consumes: lab submissions, attendance marks, activity entries, test
// attempts.
type RecordHandler struct {
	service *app.Service
}

func NewRecordHandler(service *app.Service) *RecordHandler {
	return &RecordHandler{
		service: service,
	}
}

func (h *RecordHandler) gate(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusForbidden)
		return "", false
	}

	course := r.PathValue("course")
	if course == "" {
		logger.Error.Printf("Failed to extract course from path: %s", r.URL.Path)
		http.Error(w, "Invalid course", http.StatusBadRequest)
		return "", false
	}

	return course, true
}

func (h *RecordHandler) HandleLabSubmission(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		metrics.APIRequestDuration.WithLabelValues(
			r.URL.Path,
			r.Method,
			"200",
		).Observe(duration)
	}()

	course, ok := h.gate(w, r)
	if !ok {
		return
	}

	student := r.Header.Get(h.service.Config.API.StudentIDHeader)
	if student == "" {
		http.Error(w, "Invalid student id specified", http.StatusUnauthorized)
		return
	}

	if err := h.service.ValidateAuthAndStudent(r, course, student); err != nil {
		logger.Error.Printf("Auth failed: %v", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var entry models.LabEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	entry.Course = course
	entry.Student = student

	if err := entry.Validate(); err != nil {
		logger.Debug.Printf("Invalid lab entry: %v", err)
		http.Error(w, "Invalid lab entry", http.StatusBadRequest)
		return
	}

	if err := h.service.Store.CreateLabEntry(&entry); err != nil {
		http.Error(w, "Failed to save lab entry", http.StatusInternalServerError)
		return
	}

	metrics.RecordsTotal.WithLabelValues(course, entry.Period, "lab").Inc()

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *RecordHandler) HandleAttendanceMark(w http.ResponseWriter, r *http.Request) {
	course, ok := h.gate(w, r)
	if !ok {
		return
	}

	var mark models.AttendanceMark
	if err := json.NewDecoder(r.Body).Decode(&mark); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	mark.Course = course

	if err := mark.Validate(); err != nil {
		logger.Debug.Printf("Invalid attendance mark: %v", err)
		http.Error(w, "Invalid attendance mark", http.StatusBadRequest)
		return
	}

	if err := h.service.Store.CreateAttendanceMark(&mark); err != nil {
		http.Error(w, "Failed to save attendance mark", http.StatusInternalServerError)
		return
	}

	metrics.RecordsTotal.WithLabelValues(course, mark.Period, "attendance").Inc()

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *RecordHandler) HandleActivityEntry(w http.ResponseWriter, r *http.Request) {
	course, ok := h.gate(w, r)
	if !ok {
		return
	}

	var entry models.ActivityEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	entry.Course = course

	if err := entry.Validate(); err != nil {
		logger.Debug.Printf("Invalid activity entry: %v", err)
		http.Error(w, "Invalid activity entry", http.StatusBadRequest)
		return
	}

	if err := h.service.Store.CreateActivityEntry(&entry); err != nil {
		http.Error(w, "Failed to save activity entry", http.StatusInternalServerError)
		return
	}

	metrics.RecordsTotal.WithLabelValues(course, entry.Period, "activity").Inc()

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *RecordHandler) HandleTestSubmission(w http.ResponseWriter, r *http.Request) {
	course, ok := h.gate(w, r)
	if !ok {
		return
	}

	var entry models.TestEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	entry.Course = course
	if entry.Attempt == 0 {
		entry.Attempt = 1
	}

	if err := entry.Validate(); err != nil {
		logger.Debug.Printf("Invalid test entry: %v", err)
		http.Error(w, "Invalid test entry", http.StatusBadRequest)
		return
	}

	if err := h.service.Store.CreateTestEntry(&entry); err != nil {
		http.Error(w, "Failed to save test entry", http.StatusInternalServerError)
		return
	}

	metrics.RecordsTotal.WithLabelValues(course, entry.Period, "test").Inc()

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
