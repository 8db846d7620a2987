package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/avoronov/retrodesk/internal/server/models"
)

type consoleListResponse struct {
	Consoles []*models.Console `json:"consoles"`
}

type gameListResponse struct {
	Games []*models.Game `json:"games"`
	Total int64          `json:"total"`
}

type scanResponse struct {
	Count int `json:"count"`
}

func (s *Server) handleListConsoles(w http.ResponseWriter, r *http.Request) {

	consoles, err := s.games.ListConsoles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if consoles == nil {
		consoles = []*models.Console{}
	}
	writeJSON(w, http.StatusOK, consoleListResponse{Consoles: consoles})
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {

	query := r.URL.Query()

	limit, err := strconv.ParseInt(query.Get("limit"), 10, 64)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 50
	}
	offset, err := strconv.ParseInt(query.Get("offset"), 10, 64)
	if err != nil || offset < 0 {
		offset = 0
	}

	games, total, err := s.games.ListGames(r.Context(), query.Get("console_id"), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	if games == nil {
		games = []*models.Game{}
	}
	writeJSON(w, http.StatusOK, gameListResponse{Games: games, Total: total})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {

	gameID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "BadRequest", "invalid game id")
		return
	}

	game, err := s.games.GetGame(r.Context(), gameID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (s *Server) handleDownloadROM(w http.ResponseWriter, r *http.Request) {

	gameID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "BadRequest", "invalid game id")
		return
	}

	game, data, err := s.games.ROMData(r.Context(), gameID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", game.ROMFilename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleScanROMs(w http.ResponseWriter, r *http.Request) {

	count, err := s.games.ScanROMs(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "catalog scan finished", "added", count)
	writeJSON(w, http.StatusOK, scanResponse{Count: count})
}
