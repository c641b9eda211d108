package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/emZubair/Calendy/internal/app"
	"github.com/emZubair/Calendy/internal/booking/application/commands"
	"github.com/emZubair/Calendy/internal/booking/application/queries"
	"github.com/emZubair/Calendy/internal/booking/domain"
	identityDomain "github.com/emZubair/Calendy/internal/identity/domain"
	"github.com/google/uuid"
)

// MeetingHandler exposes the booking operations over HTTP.
type MeetingHandler struct {
	createOrUpdate *commands.CreateOrUpdateMeetingHandler
	reserve        *commands.ReserveMeetingHandler
	delete         *commands.DeleteMeetingHandler
	listAll        *queries.ListMeetingsHandler
	listBookable   *queries.ListBookableMeetingsHandler
	listMine       *queries.ListMyMeetingsHandler
	listByOwner    *queries.ListMeetingsByOwnerHandler
	logger         *slog.Logger
}

// NewMeetingHandler creates a new MeetingHandler from the container.
func NewMeetingHandler(c *app.Container) *MeetingHandler {
	return &MeetingHandler{
		createOrUpdate: c.CreateOrUpdateMeeting,
		reserve:        c.ReserveMeeting,
		delete:         c.DeleteMeeting,
		listAll:        c.ListMeetings,
		listBookable:   c.ListBookableMeetings,
		listMine:       c.ListMyMeetings,
		listByOwner:    c.ListMeetingsByOwner,
		logger:         c.Logger,
	}
}

type meetingRequest struct {
	Title           string `json:"title"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

type reserveRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type meetingPayload struct {
	ID              string  `json:"id"`
	OwnerID         string  `json:"owner_id"`
	Owner           string  `json:"owner,omitempty"`
	Title           string  `json:"title"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	DurationMinutes int     `json:"duration_minutes"`
	Reserved        bool    `json:"reserved"`
	ReserverName    *string `json:"reserver_name,omitempty"`
	ReserverEmail   *string `json:"reserver_email,omitempty"`
}

func meetingToPayload(meeting *domain.Meeting) meetingPayload {
	return meetingPayload{
		ID:              meeting.ID().String(),
		OwnerID:         meeting.OwnerID().String(),
		Title:           meeting.Title(),
		StartTime:       meeting.StartTime().UTC().Format(time.RFC3339),
		EndTime:         meeting.EndTime().UTC().Format(time.RFC3339),
		DurationMinutes: int(meeting.Duration()),
		Reserved:        meeting.IsReserved(),
		ReserverName:    meeting.ReserverName(),
		ReserverEmail:   meeting.ReserverEmail(),
	}
}

func dtoToPayload(dto queries.MeetingDTO) meetingPayload {
	return meetingPayload{
		ID:              dto.ID.String(),
		OwnerID:         dto.OwnerID.String(),
		Owner:           dto.OwnerName,
		Title:           dto.Title,
		StartTime:       dto.StartTime.UTC().Format(time.RFC3339),
		EndTime:         dto.EndTime.UTC().Format(time.RFC3339),
		DurationMinutes: dto.DurationMins,
		Reserved:        dto.Reserved,
		ReserverName:    dto.ReserverName,
		ReserverEmail:   dto.ReserverEmail,
	}
}

func dtosToPayloads(dtos []queries.MeetingDTO) []meetingPayload {
	payloads := make([]meetingPayload, 0, len(dtos))
	for _, dto := range dtos {
		payloads = append(payloads, dtoToPayload(dto))
	}
	return payloads
}

// CreateMeeting handles POST /api/v1/meetings.
func (h *MeetingHandler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req meetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.createOrUpdate.Handle(r.Context(), commands.CreateOrUpdateMeetingCommand{
		OwnerID:         userID,
		Title:           req.Title,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"ok":      true,
		"meeting": meetingToPayload(result.Meeting),
	})
}

// UpdateMeeting handles PUT /api/v1/meetings/{meetingID}.
func (h *MeetingHandler) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	meetingID, err := uuid.Parse(r.PathValue("meetingID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid meeting id")
		return
	}

	var req meetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.createOrUpdate.Handle(r.Context(), commands.CreateOrUpdateMeetingCommand{
		OwnerID:         userID,
		MeetingID:       &meetingID,
		Title:           req.Title,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"meeting": meetingToPayload(result.Meeting),
	})
}

// ReserveMeeting handles POST /api/v1/meetings/{meetingID}/reserve.
// This is the guest path; no authentication is required.
func (h *MeetingHandler) ReserveMeeting(w http.ResponseWriter, r *http.Request) {
	meetingID, err := uuid.Parse(r.PathValue("meetingID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid meeting id")
		return
	}

	var req reserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.reserve.Handle(r.Context(), commands.ReserveMeetingCommand{
		MeetingID:     meetingID,
		ReserverName:  req.Name,
		ReserverEmail: req.Email,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"meeting": meetingToPayload(result.Meeting),
	})
}

// DeleteMeeting handles DELETE /api/v1/meetings/{meetingID}.
func (h *MeetingHandler) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	meetingID, err := uuid.Parse(r.PathValue("meetingID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid meeting id")
		return
	}

	err = h.delete.Handle(r.Context(), commands.DeleteMeetingCommand{
		MeetingID: meetingID,
		UserID:    userID,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// ListMeetings handles GET /api/v1/meetings.
func (h *MeetingHandler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	dtos, err := h.listAll.Handle(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"meetings": dtosToPayloads(dtos),
	})
}

// ListBookableMeetings handles GET /api/v1/meetings/bookable.
func (h *MeetingHandler) ListBookableMeetings(w http.ResponseWriter, r *http.Request) {
	dtos, err := h.listBookable.Handle(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"meetings": dtosToPayloads(dtos),
	})
}

// ListMyMeetings handles GET /api/v1/meetings/mine.
func (h *MeetingHandler) ListMyMeetings(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	dtos, err := h.listMine.Handle(r.Context(), queries.ListMyMeetingsQuery{OwnerID: userID})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"meetings": dtosToPayloads(dtos),
	})
}

// ListMeetingsByOwner handles GET /api/v1/meetings/owner/{identifier}.
func (h *MeetingHandler) ListMeetingsByOwner(w http.ResponseWriter, r *http.Request) {
	dtos, err := h.listByOwner.Handle(r.Context(), queries.ListMeetingsByOwnerQuery{
		Identifier: r.PathValue("identifier"),
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"meetings": dtosToPayloads(dtos),
	})
}

// writeDomainError translates domain errors to HTTP statuses.
func (h *MeetingHandler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case domain.IsConflict(err):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrAlreadyReserved):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrMeetingExpired):
		writeError(w, http.StatusGone, err.Error())
	case errors.Is(err, domain.ErrMeetingNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNotOwner):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, identityDomain.ErrUserNotFound):
		// The caller presented an identity the system has never seen.
		writeError(w, http.StatusUnauthorized, "unknown user")
	case errors.Is(err, domain.ErrEmptyTitle),
		errors.Is(err, domain.ErrTitleTooLong),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrMalformedTimestamp),
		errors.Is(err, domain.ErrPastStartTime),
		errors.Is(err, domain.ErrInvalidReserverData),
		errors.Is(err, domain.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
