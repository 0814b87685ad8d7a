package event

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/delegasi/delegation-manager/internal/errdef"
	"github.com/delegasi/delegation-manager/internal/handler"
	"github.com/delegasi/delegation-manager/pkg/model"
	"github.com/delegasi/delegation-manager/pkg/upload"
	"github.com/gin-gonic/gin"
)

func NewHandler(service *Service, uploader uploader, exporter exporter) Handler {
	return Handler{
		service:  service,
		uploader: uploader,
		exporter: exporter,
	}
}

type uploader interface {
	Upload(ctx context.Context, namespace upload.Namespace, field string, file *multipart.FileHeader) (model.Attachment, error)
	UploadAll(ctx context.Context, namespace upload.Namespace, field string, files []*multipart.FileHeader) (model.Attachments, error)
}

type exporter interface {
	Export(ctx context.Context, events []model.Event) ([]byte, error)
}

type Handler struct {
	service  *Service
	uploader uploader
	exporter exporter
}

type CreateEventRequest struct {
	FromUserID          uint      `json:"fromUserId" form:"fromUserId" binding:"required"`
	ToDivisionID        uint      `json:"toDivisionId" form:"toDivisionId" binding:"required"`
	ToPersonID          uint      `json:"toPersonId" form:"toPersonId" binding:"required"`
	Title               string    `json:"title" form:"title" binding:"required"`
	Date                time.Time `json:"date" form:"date" binding:"required"`
	Description         *string   `json:"description" form:"description"`
	DescriptionImageURL *string   `json:"descriptionImageUrl" form:"descriptionImageUrl"`
	// EventFileURLs is a JSON encoded list of attachments
	EventFileURLs string `json:"eventFileUrls" form:"eventFileUrls"`
}

// Create event
func (h Handler) Create(c *gin.Context) {
	// swagger:route POST /event/create createEvent
	//
	// Create event
	//
	// Create an event routed to a division and a recipient. The event starts out as "Perlu Verifikasi"
	//
	// responses:
	//   200: Event
	//   400: Error
	//   404: Error
	//   415: Error
	var request CreateEventRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	event, err := h.service.Create(c.Request.Context(), CreateParams{
		FromUserID:          request.FromUserID,
		ToDivisionID:        request.ToDivisionID,
		ToPersonID:          request.ToPersonID,
		Title:               request.Title,
		Date:                request.Date,
		Description:         request.Description,
		DescriptionImageURL: request.DescriptionImageURL,
		EventFileURLs:       request.EventFileURLs,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "Event created successfully", event)
}

type UpdateEventRequest struct {
	FromUserID   *uint         `json:"fromUserId" form:"fromUserId"`
	ToDivisionID *uint         `json:"toDivisionId" form:"toDivisionId"`
	ToPersonID   *uint         `json:"toPersonId" form:"toPersonId"`
	Title        *string       `json:"title" form:"title"`
	Date         *time.Time    `json:"date" form:"date"`
	Description  *string       `json:"description" form:"description"`
	Status       *model.Status `json:"status" form:"status" binding:"omitempty,status"`
	// DescriptionImageURL is used if no new description image is uploaded
	DescriptionImageURL *string `json:"descriptionImageUrl" form:"descriptionImageUrl"`
	// EventFileURLs is a JSON encoded list of attachments which is added to the stored attachments
	EventFileURLs string `json:"eventFileUrls" form:"eventFileUrls"`
}

// Update event
func (h Handler) Update(c *gin.Context) {
	// swagger:route PUT /event/update/{id} updateEvent
	//
	// Update event
	//
	// Update an event. Attachments are never removed, attachments in eventFileUrls and uploaded as
	// eventFileUrls parts are added to the stored ones
	//
	// responses:
	//   200: Event
	//   400: Error
	//   404: Error
	//   415: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	var request UpdateEventRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	params := UpdateParams{
		FromUserID:          request.FromUserID,
		ToDivisionID:        request.ToDivisionID,
		ToPersonID:          request.ToPersonID,
		Title:               request.Title,
		Date:                request.Date,
		Description:         request.Description,
		DescriptionImageURL: request.DescriptionImageURL,
		EventFileURLs:       request.EventFileURLs,
	}
	if request.Status != nil && *request.Status != "" {
		params.Status = request.Status
	}

	if c.ContentType() == "multipart/form-data" {
		ctx := c.Request.Context()
		form, err := c.MultipartForm()
		if err != nil {
			_ = c.Error(errdef.NewBadRequest("failed to parse multipart form: %v", err))
			return
		}

		if len(form.File["descriptionImageUrl"]) > 0 || len(form.File["eventFileUrls"]) > 0 {
			if err := h.service.ValidateUpdate(ctx, id, params); err != nil {
				_ = c.Error(err)
				return
			}
		}

		if images := form.File["descriptionImageUrl"]; len(images) > 0 {
			image, err := h.uploader.Upload(ctx, upload.NamespaceEvent, "descriptionImageUrl", images[0])
			if err != nil {
				_ = c.Error(err)
				return
			}
			params.DescriptionImageURL = &image.URL
		}

		params.Uploaded, err = h.uploader.UploadAll(ctx, upload.NamespaceEvent, "eventFileUrls", form.File["eventFileUrls"])
		if err != nil {
			_ = c.Error(err)
			return
		}
	}

	event, err := h.service.Update(c.Request.Context(), id, params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "Event updated successfully", event)
}

// Find event
func (h Handler) Find(c *gin.Context) {
	// swagger:route GET /event/{id} findEvent
	//
	// Find event
	//
	// Find an event by its id including sender, recipient and division
	//
	// responses:
	//   200: Event
	//   400: Error
	//   404: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	event, err := h.service.Find(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "Event details fetched successfully", event)
}

// FindAll events
func (h Handler) FindAll(c *gin.Context) {
	// swagger:route GET /event findAllEvents
	//
	// Find all events
	//
	// responses:
	//   200: []Event
	events, err := h.service.FindAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "Events fetched successfully", events)
}

// Search events by title
func (h Handler) Search(c *gin.Context) {
	// swagger:route GET /event/search/{title} searchEvents
	//
	// Search events
	//
	// Find all events with a title containing the given text
	//
	// responses:
	//   200: []Event
	events, err := h.service.Search(c.Request.Context(), c.Param("title"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "Events fetched successfully", events)
}

// Delete event
func (h Handler) Delete(c *gin.Context) {
	// swagger:route DELETE /event/{id} deleteEvent
	//
	// Delete event
	//
	// Delete an event and all its responses
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

	handler.Respond(c, http.StatusOK, "Event deleted successfully", nil)
}

var transitionMessages = map[Kind]string{
	KindAccept:             "Event accepted successfully",
	KindConfirm:            "Event confirmed successfully",
	KindReject:             "Event rejected successfully",
	KindRejectHandler:      "Event rejected successfully",
	KindVerificationReject: "Event rejected by verificator successfully",
	KindApprove:            "Event approved successfully",
	KindFix:                "Event fixed successfully",
}

// Transition returns a handler applying the transition of the given kind.
func (h Handler) Transition(kind Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		// swagger:route POST /event/{kind}/{id} transitionEvent
		//
		// Transition event
		//
		// Move an event to the status of the transition. Transitions are allowed from any status
		//
		// responses:
		//   200: Event
		//   400: Error
		//   404: Error
		id, ok := handler.GetPathParameter(c, "id")
		if !ok {
			return
		}

		event, err := h.service.Transition(c.Request.Context(), id, kind, "")
		if err != nil {
			_ = c.Error(err)
			return
		}

		handler.Respond(c, http.StatusOK, transitionMessages[kind], event)
	}
}

type RejectEventRequest struct {
	Reason string `json:"reason" form:"reason"`
}

// Reject event as its recipient
func (h Handler) Reject(c *gin.Context) {
	// swagger:route POST /event/reject/{id} rejectEvent
	//
	// Reject event
	//
	// Reject an event as its recipient. The reason is stored as is, the body may be omitted
	//
	// responses:
	//   200: Event
	//   400: Error
	//   404: Error
	//   415: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	var request RejectEventRequest
	if c.Request.ContentLength != 0 {
		if err := handler.DataBinder(c, &request); err != nil {
			_ = c.Error(err)
			return
		}
	}

	event, err := h.service.Transition(c.Request.Context(), id, KindReject, request.Reason)
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, transitionMessages[KindReject], event)
}

type ChangeHandlerRequest struct {
	ToDivisionID uint          `json:"toDivisionId" form:"toDivisionId" binding:"required"`
	ToPersonID   uint          `json:"toPersonId" form:"toPersonId" binding:"required"`
	Status       *model.Status `json:"status" form:"status" binding:"omitempty,status"`
}

// ChangeHandler routes the event to another division and person
func (h Handler) ChangeHandler(c *gin.Context) {
	// swagger:route PUT /event/change-handler/{id} changeEventHandler
	//
	// Change event handler
	//
	// Route an event to another division and person
	//
	// responses:
	//   200: Event
	//   400: Error
	//   404: Error
	//   415: Error
	h.changeHandler(c, false, "Handler changed successfully")
}

// UpdateHandler routes the event to another division and person and optionally sets its status
func (h Handler) UpdateHandler(c *gin.Context) {
	// swagger:route PUT /event/update-handler/{id} updateEventHandler
	//
	// Update event handler
	//
	// Route an event to another division and person. The status is overwritten if given
	//
	// responses:
	//   200: Event
	//   400: Error
	//   404: Error
	//   415: Error
	h.changeHandler(c, true, "Handler and division updated successfully")
}

func (h Handler) changeHandler(c *gin.Context, withStatus bool, message string) {
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	var request ChangeHandlerRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	var status *model.Status
	if withStatus && request.Status != nil && *request.Status != "" {
		status = request.Status
	}

	event, err := h.service.ChangeHandler(c.Request.Context(), id, request.ToDivisionID, request.ToPersonID, status)
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, message, event)
}

// Statuses lists the statuses of the workflow
func (h Handler) Statuses(c *gin.Context) {
	// swagger:route GET /event/statuses eventStatuses
	//
	// Event statuses
	//
	// List the statuses of the event workflow and whether they are terminal
	//
	// responses:
	//   200: []StatusInfo
	statuses, err := Statuses()
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "Statuses fetched successfully", statuses)
}

// UploadDescriptionImage stores an image to be used as the description image of an event
func (h Handler) UploadDescriptionImage(c *gin.Context) {
	// swagger:route POST /event/upload-description-image uploadDescriptionImage
	//
	// Upload description image
	//
	// responses:
	//   200: Envelope
	//   400: Error
	file, err := c.FormFile("descriptionImageUrl")
	if err != nil {
		_ = c.Error(errdef.NewBadRequest("missing descriptionImageUrl file: %v", err))
		return
	}

	image, err := h.uploader.Upload(c.Request.Context(), upload.NamespaceEvent, "descriptionImageUrl", file)
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "Description image uploaded successfully", gin.H{"descriptionImageUrl": image.URL})
}

// UploadEventFiles stores files to be attached to an event
func (h Handler) UploadEventFiles(c *gin.Context) {
	// swagger:route POST /event/upload-event-files uploadEventFiles
	//
	// Upload event files
	//
	// responses:
	//   200: Envelope
	//   400: Error
	form, err := c.MultipartForm()
	if err != nil {
		_ = c.Error(errdef.NewBadRequest("failed to parse multipart form: %v", err))
		return
	}

	files, err := h.uploader.UploadAll(c.Request.Context(), upload.NamespaceEvent, "eventFiles", form.File["eventFiles"])
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "Event file uploaded successfully", gin.H{"eventFileUrls": files})
}

// Export events as an Excel workbook
func (h Handler) Export(c *gin.Context) {
	// swagger:route GET /event/export exportEvents
	//
	// Export events
	//
	// Download all events as an Excel workbook
	//
	// produces:
	// - application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
	//
	// responses:
	//   200: File
	events, err := h.service.FindAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	workbook, err := h.exporter.Export(c.Request.Context(), events)
	if err != nil {
		_ = c.Error(err)
		return
	}

	filename := fmt.Sprintf("events-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}
