package division

import (
	"net/http"

	"github.com/delegasi/delegation-manager/internal/handler"
	"github.com/gin-gonic/gin"
)

func NewHandler(service *Service) Handler {
	return Handler{service: service}
}

type Handler struct {
	service *Service
}

// FindAll divisions
func (h Handler) FindAll(c *gin.Context) {
	// swagger:route GET /division findAllDivisions
	//
	// Find all divisions
	//
	// responses:
	//   200: []Division
	divisions, err := h.service.FindAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "Divisions fetched successfully", divisions)
}

type DivisionRequest struct {
	Name string `json:"name" form:"name" binding:"required"`
}

// Create division
func (h Handler) Create(c *gin.Context) {
	// swagger:route POST /division createDivision
	//
	// Create division
	//
	// responses:
	//   201: Division
	//   400: Error
	//   415: Error
	var request DivisionRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	division, err := h.service.Create(c.Request.Context(), request.Name)
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusCreated, "Division created successfully", division)
}

// Update division
func (h Handler) Update(c *gin.Context) {
	// swagger:route PUT /division/{id} updateDivision
	//
	// Update division
	//
	// Rename a division
	//
	// responses:
	//   200: Division
	//   400: Error
	//   404: Error
	//   415: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	var request DivisionRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	division, err := h.service.Update(c.Request.Context(), id, request.Name)
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "Division updated successfully", division)
}

// Delete division
func (h Handler) Delete(c *gin.Context) {
	// swagger:route DELETE /division/{id} deleteDivision
	//
	// Delete division
	//
	// responses:
	//   200: Envelope
	//   400: Error
	//   404: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "Division deleted successfully", nil)
}
