package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dodotask/dodotask-backend/internal/logger"
	"github.com/dodotask/dodotask-backend/internal/services"
)

type PetHandler struct {
	log    *logger.Logger
	petSvc services.PetService
}

func NewPetHandler(log *logger.Logger, petSvc services.PetService) *PetHandler {
	return &PetHandler{
		log:    log.With("handler", "PetHandler"),
		petSvc: petSvc,
	}
}

// GET /api/pet
func (h *PetHandler) GetState(c *gin.Context) {
	state, err := h.petSvc.GetState(c.Request.Context(), userID(c))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, state)
}

// POST /api/pet/chat
func (h *PetHandler) Chat(c *gin.Context) {
	var body struct {
		Message string `json:"message"`
	}
	if err := c.BindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	reply, err := h.petSvc.Chat(c.Request.Context(), userID(c), body.Message)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_message", err)
		return
	}
	RespondOK(c, gin.H{"reply": reply})
}

// POST /api/pet/rename
func (h *PetHandler) Rename(c *gin.Context) {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.BindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.petSvc.Rename(c.Request.Context(), userID(c), body.Name); err != nil {
		RespondError(c, http.StatusBadRequest, "rename_failed", err)
		return
	}
	RespondOK(c, gin.H{"renamed": true})
}
