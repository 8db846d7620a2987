package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/avoronov/retrodesk/internal/server/models"
)

type saveListResponse struct {
	Saves []*models.SaveState `json:"saves"`
}

func (s *Server) handleListSaves(w http.ResponseWriter, r *http.Request) {

	userID, _ := UserIDFromContext(r.Context())

	gameID, err := uuid.Parse(r.URL.Query().Get("game_id"))
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "BadRequest", "missing or invalid game_id")
		return
	}

	saves, err := s.saves.List(r.Context(), userID, gameID)
	if err != nil {
		writeError(w, err)
		return
	}

	if saves == nil {
		saves = []*models.SaveState{}
	}
	writeJSON(w, http.StatusOK, saveListResponse{Saves: saves})
}

// readPart drains one named multipart file part; a missing part returns nil.
func readPart(r *http.Request, name string) ([]byte, error) {
	file, _, err := r.FormFile(name)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func (s *Server) handleUploadSave(w http.ResponseWriter, r *http.Request) {

	userID, _ := UserIDFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "BadRequest", "invalid multipart body")
		return
	}

	gameID, err := uuid.Parse(r.FormValue("game_id"))
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "BadRequest", "missing or invalid game_id")
		return
	}

	slot, err := strconv.Atoi(r.FormValue("slot"))
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "BadRequest", "missing or invalid slot")
		return
	}

	saveData, err := readPart(r, "save_data")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "BadRequest", "unreadable save_data part")
		return
	}
	if len(saveData) == 0 {
		writeErrorMessage(w, http.StatusBadRequest, "BadRequest", "missing save_data")
		return
	}

	screenshot, err := readPart(r, "screenshot")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "BadRequest", "unreadable screenshot part")
		return
	}

	save, err := s.saves.Upload(r.Context(), userID, gameID, slot, saveData, screenshot, r.FormValue("description"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, save)
}

func (s *Server) handleDownloadSave(w http.ResponseWriter, r *http.Request) {

	userID, _ := UserIDFromContext(r.Context())

	saveID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "BadRequest", "invalid save id")
		return
	}

	save, data, err := s.saves.Download(r.Context(), saveID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", save.SaveDataFilename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleDeleteSave(w http.ResponseWriter, r *http.Request) {

	userID, _ := UserIDFromContext(r.Context())

	saveID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "BadRequest", "invalid save id")
		return
	}

	if err := s.saves.Delete(r.Context(), saveID, userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "save state deleted"})
}
