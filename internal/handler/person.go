package handler

import (
	"net/http"

	"github.com/authstack/backend/internal/model"
	"github.com/authstack/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type PersonHandler struct {
	svc *service.PersonService
}

func NewPersonHandler(svc *service.PersonService) *PersonHandler {
	return &PersonHandler{svc: svc}
}

func (h *PersonHandler) Create(c *gin.Context) {
	var req model.PersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	person, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, person.ToResponse())
}

func (h *PersonHandler) List(c *gin.Context) {
	persons, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	responses := make([]model.PersonResponse, 0, len(persons))
	for _, p := range persons {
		responses = append(responses, p.ToResponse())
	}
	c.JSON(http.StatusOK, responses)
}

func (h *PersonHandler) GetByID(c *gin.Context) {
	id, ok := pathUUID(c, "personId")
	if !ok {
		return
	}
	person, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, person.ToResponse())
}

func (h *PersonHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "personId")
	if !ok {
		return
	}
	var req model.PersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	person, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, person.ToResponse())
}

func (h *PersonHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "personId")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
