package api

import (
	"net/http"
	"time"

	"github.com/jc3248-sketches/pkg/bus-tracker/models"
)

type departuresResponse struct {
	Stop        models.Stop        `json:"stop"`
	Valid       bool               `json:"valid"`
	Departures  []models.Departure `json:"departures"`
	LastUpdated *time.Time         `json:"last_updated,omitempty"`
	Error       string             `json:"error,omitempty"`
	ErrorKind   string             `json:"error_kind,omitempty"`
}

type refreshResponse struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message"`
}

type healthResponse struct {
	Status     string     `json:"status"`
	Phase      string     `json:"phase"`
	Night      bool       `json:"night"`
	Interval   string     `json:"interval"`
	LastUpdate *time.Time `json:"last_update,omitempty"`
}

func (s *Server) getBoard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.board.Snapshot())
}

func (s *Server) getDepartures(w http.ResponseWriter, r *http.Request) {
	res := s.tracker.Result()

	resp := departuresResponse{
		Stop:       s.tracker.Stop(),
		Valid:      res.Valid,
		Departures: res.Departures,
		Error:      res.ErrorText(),
	}
	if resp.Departures == nil {
		resp.Departures = []models.Departure{}
	}
	if !res.LastUpdated.IsZero() {
		resp.LastUpdated = &res.LastUpdated
	}
	if res.Err != nil {
		resp.ErrorKind = string(res.Err.Kind)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) postRefresh(w http.ResponseWriter, r *http.Request) {
	if !s.tracker.RequestRefresh() {
		writeJSON(w, http.StatusConflict, refreshResponse{Accepted: false, Message: "fetch already in progress"})
		return
	}
	s.logger.Info("Manual refresh requested", "remote", r.RemoteAddr)
	writeJSON(w, http.StatusAccepted, refreshResponse{Accepted: true, Message: "refresh scheduled"})
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	sched := s.tracker.Schedule()
	resp := healthResponse{
		Status:   "ok",
		Phase:    s.phase.Phase().String(),
		Night:    sched.Night,
		Interval: sched.Interval.String(),
	}
	if !sched.LastUpdate.IsZero() {
		resp.LastUpdate = &sched.LastUpdate
	}
	if res := s.tracker.Result(); !res.Valid && res.Err != nil {
		resp.Status = "degraded"
	}
	writeJSON(w, http.StatusOK, resp)
}
