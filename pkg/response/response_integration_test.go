package response_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/delegasi/delegation-manager/pkg/division"
	"github.com/delegasi/delegation-manager/pkg/event"
	"github.com/delegasi/delegation-manager/pkg/inttest"
	"github.com/delegasi/delegation-manager/pkg/model"
	"github.com/delegasi/delegation-manager/pkg/notification"
	"github.com/delegasi/delegation-manager/pkg/response"
	"github.com/delegasi/delegation-manager/pkg/storage"
	"github.com/delegasi/delegation-manager/pkg/upload"
	"github.com/delegasi/delegation-manager/pkg/user"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseHandler(t *testing.T) {
	db := inttest.SetupSQLite(t)
	logger := slog.New(slog.DiscardHandler)
	ctx := context.Background()

	divisionService := division.NewService(division.NewRepository(db))
	userService := user.NewService(user.NewRepository(db), divisionService)
	notifier := notification.NewNotifier(logger, notification.NewBroker(), nil, nil)
	eventService := event.NewService(logger, event.NewRepository(db), userService, divisionService, notifier)
	responseService := response.NewService(logger, response.NewRepository(db), eventService, userService)
	uploadService := upload.NewService(storage.NewLocalFileStore(logger, t.TempDir()))

	finance, err := divisionService.Create(ctx, "Finance")
	require.NoError(t, err)
	sender, err := userService.Register(ctx, user.RegisterParams{Username: "sender", Email: "sender@example.org", Password: "secret", DivisionName: "Finance"})
	require.NoError(t, err)
	recipient, err := userService.Register(ctx, user.RegisterParams{Username: "recipient", Email: "recipient@example.org", Password: "secret", DivisionName: "Finance"})
	require.NoError(t, err)
	_, err = userService.UpdateRole(ctx, recipient.ID, model.RoleDelegationHandler)
	require.NoError(t, err)
	verificator, err := userService.Register(ctx, user.RegisterParams{Username: "verificator", Email: "verificator@example.org", Password: "secret"})
	require.NoError(t, err)
	_, err = userService.UpdateRole(ctx, verificator.ID, model.RoleDelegationVerificator)
	require.NoError(t, err)

	e, err := eventService.Create(ctx, event.CreateParams{
		FromUserID:   sender.ID,
		ToDivisionID: finance.ID,
		ToPersonID:   recipient.ID,
		Title:        "Budget review",
		Date:         time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	client := inttest.SetupHTTPServer(t, nil, func(engine *gin.Engine) {
		response.Routes(engine, response.NewHandler(responseService, uploadService))
		upload.Routes(engine, upload.NewHandler(uploadService))
	})

	{
		t.Log("HandlerResponse")

		var created model.Response
		envelope := client.PostJSON(t, "/response/create", strings.NewReader(fmt.Sprintf(`{
			"responseText":     "Working on it",
			"responseFileUrls": "[]",
			"eventId":          %d,
			"userId":           %d,
			"userRole":         "delegation_verificator"
		}`, e.ID, recipient.ID)), http.StatusCreated, &created)

		assert.Equal(t, "Response created successfully", envelope.Message)
		assert.Equal(t, "Working on it", created.ResponseText)

		unchanged, err := eventService.Find(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusNeedsVerification, unchanged.Status, "the role claimed in the request must be ignored")
	}

	{
		t.Log("MalformedFileList")

		client.PostJSON(t, "/response/create", strings.NewReader(fmt.Sprintf(`{
			"responseText":     "Broken",
			"responseFileUrls": "not-json",
			"eventId":          %d,
			"userId":           %d
		}`, e.ID, recipient.ID)), http.StatusBadRequest, nil)
	}

	{
		t.Log("UnknownEvent")

		client.PostJSON(t, "/response/create", strings.NewReader(fmt.Sprintf(`{
			"responseText": "Lost",
			"eventId":      999,
			"userId":       %d
		}`, recipient.ID)), http.StatusNotFound, nil)
	}

	var files struct {
		ResponseFileURLs model.Attachments `json:"responseFileUrls"`
	}
	{
		t.Log("UploadFiles")

		client.DoMultipart(t, http.MethodPost, "/response/upload-response-files", nil, []inttest.MultipartFile{
			{Field: "responseFiles", Name: "minutes.pdf", Content: "pdf", MimeType: "application/pdf"},
		}, http.StatusOK, &files)

		require.Len(t, files.ResponseFileURLs, 1)
		assert.True(t, strings.HasPrefix(files.ResponseFileURLs[0].URL, "/uploads-responses/"))
		assert.Equal(t, "minutes.pdf", files.ResponseFileURLs[0].OriginalName)
		assert.Equal(t, "pdf", string(client.Get(t, files.ResponseFileURLs[0].URL)))
	}

	var image struct {
		ResponseImageURL string `json:"responseImageUrl"`
	}
	{
		t.Log("UploadImage")

		client.DoMultipart(t, http.MethodPost, "/response/upload-response-image", nil, []inttest.MultipartFile{
			{Field: "responseImageUrl", Name: "scan.jpg", Content: "jpg", MimeType: "image/jpeg"},
		}, http.StatusOK, &image)

		assert.True(t, strings.HasSuffix(image.ResponseImageURL, "-responseImageUrl-scan.jpg"), image.ResponseImageURL)
	}

	{
		t.Log("VerificatorResponse")

		var created model.Response
		envelope := client.DoMultipart(t, http.MethodPost, "/response/create", map[string]string{
			"responseText":     "Missing signatures",
			"responseImageUrl": image.ResponseImageURL,
			"responseFileUrls": `[{"url":"` + files.ResponseFileURLs[0].URL + `","originalName":"minutes.pdf","mimeType":"application/pdf"}]`,
			"eventId":          fmt.Sprint(e.ID),
			"userId":           fmt.Sprint(verificator.ID),
		}, nil, http.StatusCreated, &created)

		assert.Equal(t, "Response created successfully and event status updated to Ditolak", envelope.Message)
		require.NotNil(t, created.ResponseImageURL)
		assert.Equal(t, image.ResponseImageURL, *created.ResponseImageURL)
		assert.Equal(t, files.ResponseFileURLs, created.ResponseFileURLs)

		rejected, err := eventService.Find(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusRejected, rejected.Status)
	}

	{
		t.Log("FindByEvent")

		var responses []model.Response
		client.GetJSON(t, fmt.Sprintf("/response/event/%d", e.ID), &responses)

		require.Len(t, responses, 2)
		assert.Equal(t, "Working on it", responses[0].ResponseText)
		assert.Equal(t, "Missing signatures", responses[1].ResponseText)
		require.NotNil(t, responses[1].User)
		assert.Equal(t, "verificator", responses[1].User.Username)
	}
}
