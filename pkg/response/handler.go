package response

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/delegasi/delegation-manager/internal/errdef"
	"github.com/delegasi/delegation-manager/internal/handler"
	"github.com/delegasi/delegation-manager/pkg/model"
	"github.com/delegasi/delegation-manager/pkg/upload"
	"github.com/gin-gonic/gin"
)

func NewHandler(service *Service, uploader uploader) Handler {
	return Handler{
		service:  service,
		uploader: uploader,
	}
}

type uploader interface {
	Upload(ctx context.Context, namespace upload.Namespace, field string, file *multipart.FileHeader) (model.Attachment, error)
	UploadAll(ctx context.Context, namespace upload.Namespace, field string, files []*multipart.FileHeader) (model.Attachments, error)
}

type Handler struct {
	service  *Service
	uploader uploader
}

// CreateResponseRequest is the body of a new response. UserRole is accepted for compatibility with
// older clients but ignored, the role of the author is read from the stored user.
type CreateResponseRequest struct {
	ResponseText     string  `json:"responseText" form:"responseText" binding:"required"`
	ResponseImageURL *string `json:"responseImageUrl" form:"responseImageUrl"`
	ResponseFileURLs string  `json:"responseFileUrls" form:"responseFileUrls"`
	EventID          uint    `json:"eventId" form:"eventId" binding:"required"`
	UserID           uint    `json:"userId" form:"userId" binding:"required"`
	UserRole         string  `json:"userRole" form:"userRole"`
}

const verificatorRejectedSuffix = " and event status updated to Ditolak"

// Create response
func (h Handler) Create(c *gin.Context) {
	// swagger:route POST /response/create createResponse
	//
	// Create response
	//
	// Create a response on an event. A response written by a user with the role delegation_verificator rejects the event.
	//
	// responses:
	//   201: Response
	//   400: Error
	//   404: Error
	//   415: Error
	var request CreateResponseRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	if request.ResponseImageURL != nil && *request.ResponseImageURL == "" {
		request.ResponseImageURL = nil
	}

	created, err := h.service.Create(c.Request.Context(), CreateParams{
		EventID:          request.EventID,
		UserID:           request.UserID,
		ResponseText:     request.ResponseText,
		ResponseImageURL: request.ResponseImageURL,
		ResponseFileURLs: request.ResponseFileURLs,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	message := "Response created successfully"
	if created.StatusUpdated {
		message += verificatorRejectedSuffix
	}

	handler.Respond(c, http.StatusCreated, message, created.Response)
}

// FindByEvent returns the responses of an event
func (h Handler) FindByEvent(c *gin.Context) {
	// swagger:route GET /response/event/{eventId} findResponsesByEvent
	//
	// Find responses by event
	//
	// Find the responses of an event including their authors, oldest first
	//
	// responses:
	//   200: []Response
	//   400: Error
	eventId, ok := handler.GetPathParameter(c, "eventId")
	if !ok {
		return
	}

	responses, err := h.service.FindByEvent(c.Request.Context(), eventId)
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "Responses fetched successfully", responses)
}

// UploadImage stores a response image
func (h Handler) UploadImage(c *gin.Context) {
	// swagger:route POST /response/upload-response-image uploadResponseImage
	//
	// Upload response image
	//
	// Upload the image sent as the multipart part responseImageUrl. The returned URL is meant to be sent as responseImageUrl when creating a response.
	//
	// responses:
	//   200: Envelope
	//   400: Error
	file, err := c.FormFile("responseImageUrl")
	if err != nil {
		_ = c.Error(errdef.NewBadRequest("error reading responseImageUrl: %v", err))
		return
	}

	image, err := h.uploader.Upload(c.Request.Context(), upload.NamespaceResponse, "responseImageUrl", file)
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "Response image uploaded successfully", gin.H{"responseImageUrl": image.URL})
}

// UploadFiles stores response files
func (h Handler) UploadFiles(c *gin.Context) {
	// swagger:route POST /response/upload-response-files uploadResponseFiles
	//
	// Upload response files
	//
	// Upload the files sent as the multipart parts responseFiles. The returned list is meant to be sent serialized as responseFileUrls when creating a response.
	//
	// responses:
	//   200: Envelope
	//   400: Error
	form, err := c.MultipartForm()
	if err != nil {
		_ = c.Error(errdef.NewBadRequest("error reading multipart form: %v", err))
		return
	}

	files, err := h.uploader.UploadAll(c.Request.Context(), upload.NamespaceResponse, "responseFiles", form.File["responseFiles"])
	if err != nil {
		_ = c.Error(err)
		return
	}

	handler.Respond(c, http.StatusOK, "Response files uploaded successfully", gin.H{"responseFileUrls": files})
}
