package event_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/delegasi/delegation-manager/pkg/division"
	"github.com/delegasi/delegation-manager/pkg/event"
	"github.com/delegasi/delegation-manager/pkg/inttest"
	"github.com/delegasi/delegation-manager/pkg/model"
	"github.com/delegasi/delegation-manager/pkg/notification"
	"github.com/delegasi/delegation-manager/pkg/report"
	"github.com/delegasi/delegation-manager/pkg/response"
	"github.com/delegasi/delegation-manager/pkg/storage"
	"github.com/delegasi/delegation-manager/pkg/upload"
	"github.com/delegasi/delegation-manager/pkg/user"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestEventHandler(t *testing.T) {
	db := inttest.SetupSQLite(t)
	logger := slog.New(slog.DiscardHandler)
	ctx := context.Background()

	divisionService := division.NewService(division.NewRepository(db))
	userService := user.NewService(user.NewRepository(db), divisionService)
	broker := notification.NewBroker()
	notifier := notification.NewNotifier(logger, broker, nil, nil)
	eventService := event.NewService(logger, event.NewRepository(db), userService, divisionService, notifier)
	responseService := response.NewService(logger, response.NewRepository(db), eventService, userService)
	uploadsDir := t.TempDir()
	uploadService := upload.NewService(storage.NewLocalFileStore(logger, uploadsDir))

	finance, err := divisionService.Create(ctx, "Finance")
	require.NoError(t, err)
	legal, err := divisionService.Create(ctx, "Legal")
	require.NoError(t, err)
	sender, err := userService.Register(ctx, user.RegisterParams{Username: "sender", Email: "sender@example.org", Password: "secret", DivisionName: "Finance"})
	require.NoError(t, err)
	recipient, err := userService.Register(ctx, user.RegisterParams{Username: "recipient", Email: "recipient@example.org", Password: "secret", DivisionName: "Finance"})
	require.NoError(t, err)
	lawyer, err := userService.Register(ctx, user.RegisterParams{Username: "lawyer", Email: "lawyer@example.org", Password: "secret", DivisionName: "Legal"})
	require.NoError(t, err)

	client := inttest.SetupHTTPServer(t, event.Validations, func(engine *gin.Engine) {
		event.Routes(engine, event.NewHandler(eventService, uploadService, report.NewExporter(logger)))
		upload.Routes(engine, upload.NewHandler(uploadService))
	})

	subscription, messages := broker.Subscribe(recipient.ID)
	defer broker.Unsubscribe(recipient.ID, subscription)

	{
		t.Log("CreateMalformedAttachments")

		client.PostJSON(t, "/event/create", strings.NewReader(fmt.Sprintf(`{
			"fromUserId":    %d,
			"toDivisionId":  %d,
			"toPersonId":    %d,
			"title":         "Broken",
			"date":          "2024-05-01T00:00:00Z",
			"eventFileUrls": "not-json"
		}`, sender.ID, finance.ID, recipient.ID)), http.StatusBadRequest, nil)

		var events []model.Event
		client.GetJSON(t, "/event", &events)
		assert.Empty(t, events)
	}

	{
		t.Log("CreateUnknownDivision")

		client.PostJSON(t, "/event/create", strings.NewReader(fmt.Sprintf(`{
			"fromUserId":   %d,
			"toDivisionId": 999,
			"toPersonId":   %d,
			"title":        "Lost",
			"date":         "2024-05-01T00:00:00Z"
		}`, sender.ID, recipient.ID)), http.StatusNotFound, nil)
	}

	var e model.Event
	{
		t.Log("Create")

		envelope := client.PostJSON(t, "/event/create", strings.NewReader(fmt.Sprintf(`{
			"fromUserId":    %d,
			"toDivisionId":  %d,
			"toPersonId":    %d,
			"title":         "Budget review",
			"date":          "2024-05-01T00:00:00Z",
			"description":   "Review the Q2 budget",
			"eventFileUrls": "[{\"url\":\"/uploads-event/a.pdf\",\"originalName\":\"a.pdf\",\"mimeType\":\"application/pdf\"}]"
		}`, sender.ID, finance.ID, recipient.ID)), http.StatusOK, &e)

		assert.Equal(t, "Event created successfully", envelope.Message)
		assert.Equal(t, model.StatusNeedsVerification, e.Status)
		require.NotNil(t, e.FromUser)
		assert.Equal(t, "sender", e.FromUser.Username)
		require.NotNil(t, e.ToDivision)
		assert.Equal(t, "Finance", e.ToDivision.Name)
		require.Len(t, e.EventFileURLs, 1)

		message := <-messages
		assert.Equal(t, e.ID, message.EventID)
		assert.Equal(t, event.ActionCreated, message.Action)
	}

	path := func(format string) string {
		return fmt.Sprintf(format, e.ID)
	}

	{
		t.Log("UpdateAccumulatesAttachments")

		var updated model.Event
		client.PutJSON(t, path("/event/update/%d"), strings.NewReader(`{
			"title":         "Budget review Q2",
			"eventFileUrls": "[{\"url\":\"/uploads-event/a.pdf\",\"originalName\":\"a.pdf\",\"mimeType\":\"application/pdf\"},{\"url\":\"/uploads-event/b.pdf\",\"originalName\":\"b.pdf\",\"mimeType\":\"application/pdf\"}]"
		}`), http.StatusOK, &updated)

		assert.Equal(t, "Budget review Q2", updated.Title)
		require.Len(t, updated.EventFileURLs, 2)
		assert.Equal(t, "/uploads-event/a.pdf", updated.EventFileURLs[0].URL)
		assert.Equal(t, "/uploads-event/b.pdf", updated.EventFileURLs[1].URL)

		client.DoMultipart(t, http.MethodPut, path("/event/update/%d"), map[string]string{
			"eventFileUrls": "[]",
			"status":        "",
		}, []inttest.MultipartFile{
			{Field: "eventFileUrls", Name: "c.docx", Content: "docx", MimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
			{Field: "descriptionImageUrl", Name: "cover.png", Content: "png", MimeType: "image/png"},
		}, http.StatusOK, &updated)

		require.Len(t, updated.EventFileURLs, 3)
		assert.Equal(t, "c.docx", updated.EventFileURLs[2].OriginalName)
		assert.True(t, strings.HasPrefix(updated.EventFileURLs[2].URL, "/uploads-event/"))
		assert.Equal(t, model.StatusNeedsVerification, updated.Status)
		require.NotNil(t, updated.DescriptionImageURL)
		assert.Equal(t, "png", string(client.Get(t, *updated.DescriptionImageURL)))
	}

	{
		t.Log("UpdateInvalid")

		client.PutJSON(t, path("/event/update/%d"), strings.NewReader(`{"status": "Unknown"}`), http.StatusBadRequest, nil)
		client.PutJSON(t, path("/event/update/%d"), strings.NewReader(`{"eventFileUrls": "not-json"}`), http.StatusBadRequest, nil)
		client.PutJSON(t, "/event/update/999", strings.NewReader(`{"title": "Lost"}`), http.StatusNotFound, nil)
	}

	{
		t.Log("UpdateInvalidStoresNoFiles")

		stored, err := os.ReadDir(filepath.Join(uploadsDir, "uploads-event"))
		require.NoError(t, err)
		files := []inttest.MultipartFile{
			{Field: "eventFileUrls", Name: "orphan.pdf", Content: "pdf", MimeType: "application/pdf"},
			{Field: "descriptionImageUrl", Name: "orphan.png", Content: "png", MimeType: "image/png"},
		}

		client.DoMultipart(t, http.MethodPut, "/event/update/999", map[string]string{"title": "Lost"}, files, http.StatusNotFound, nil)
		client.DoMultipart(t, http.MethodPut, path("/event/update/%d"), map[string]string{"eventFileUrls": "not-json"}, files, http.StatusBadRequest, nil)
		client.DoMultipart(t, http.MethodPut, path("/event/update/%d"), map[string]string{"status": "Unknown"}, files, http.StatusBadRequest, nil)

		after, err := os.ReadDir(filepath.Join(uploadsDir, "uploads-event"))
		require.NoError(t, err)
		assert.Len(t, after, len(stored))
	}

	{
		t.Log("Transitions")

		var transitioned model.Event
		envelope := client.PostJSON(t, path("/event/accept/%d"), nil, http.StatusOK, &transitioned)
		assert.Equal(t, "Event accepted successfully", envelope.Message)
		assert.Equal(t, model.StatusNeedsRecipientVerification, transitioned.Status)

		client.PostJSON(t, path("/event/reject/%d"), strings.NewReader(`{"reason": "Out of scope"}`), http.StatusOK, &transitioned)
		assert.Equal(t, model.StatusRecipientRejected, transitioned.Status)
		require.NotNil(t, transitioned.RejectionReason)
		assert.Equal(t, "Out of scope", *transitioned.RejectionReason)

		envelope = client.PostJSON(t, path("/event/reject-handler/%d"), nil, http.StatusOK, &transitioned)
		assert.Equal(t, "Event rejected successfully", envelope.Message)
		assert.Equal(t, model.StatusRecipientRejected, transitioned.Status)
		require.NotNil(t, transitioned.RejectionReason, "reject-handler keeps the stored reason")
		assert.Equal(t, "Out of scope", *transitioned.RejectionReason)
		assert.Equal(t, "Budget review Q2", transitioned.Title)
		assert.Len(t, transitioned.EventFileURLs, 3)

		var persisted model.Event
		client.GetJSON(t, path("/event/%d"), &persisted)
		assert.Equal(t, model.StatusRecipientRejected, persisted.Status)
		require.NotNil(t, persisted.RejectionReason)
		assert.Equal(t, "Out of scope", *persisted.RejectionReason)
		assert.Equal(t, "Budget review Q2", persisted.Title)
		assert.Len(t, persisted.EventFileURLs, 3)

		client.PostJSON(t, path("/event/fix/%d"), nil, http.StatusOK, &transitioned)
		assert.Equal(t, model.StatusNeedsVerification, transitioned.Status)
		assert.Nil(t, transitioned.RejectionReason)

		client.PostJSON(t, path("/event/Disetujui/%d"), nil, http.StatusOK, &transitioned)
		assert.Equal(t, model.StatusApproved, transitioned.Status)

		client.PostJSON(t, path("/event/Ditolak/%d"), nil, http.StatusOK, &transitioned)
		assert.Equal(t, model.StatusVerificationRejected, transitioned.Status, "transitions are allowed from any status")

		client.PostJSON(t, "/event/confirm/999", nil, http.StatusNotFound, nil)
	}

	{
		t.Log("ChangeHandler")

		var changed model.Event
		client.PutJSON(t, path("/event/change-handler/%d"), strings.NewReader(fmt.Sprintf(`{
			"toDivisionId": %d,
			"toPersonId":   %d,
			"status":       "Disetujui"
		}`, legal.ID, lawyer.ID)), http.StatusOK, &changed)

		assert.Equal(t, legal.ID, changed.ToDivisionID)
		assert.Equal(t, lawyer.ID, changed.ToPersonID)
		assert.Equal(t, model.StatusVerificationRejected, changed.Status, "change-handler never touches the status")

		client.PutJSON(t, path("/event/update-handler/%d"), strings.NewReader(fmt.Sprintf(`{
			"toDivisionId": %d,
			"toPersonId":   %d,
			"status":       "Butuh Verifikasi Penerima"
		}`, finance.ID, recipient.ID)), http.StatusOK, &changed)

		assert.Equal(t, finance.ID, changed.ToDivisionID)
		assert.Equal(t, model.StatusNeedsRecipientVerification, changed.Status)

		client.PutJSON(t, path("/event/update-handler/%d"), strings.NewReader(fmt.Sprintf(`{
			"toDivisionId": %d,
			"toPersonId":   %d,
			"status":       "Unknown"
		}`, finance.ID, recipient.ID)), http.StatusBadRequest, nil)
	}

	{
		t.Log("FindAndSearch")

		var found model.Event
		client.GetJSON(t, path("/event/%d"), &found)
		assert.Equal(t, "Budget review Q2", found.Title)

		var events []model.Event
		client.GetJSON(t, "/event/search/review", &events)
		require.Len(t, events, 1)

		client.GetJSON(t, "/event/search/hiring", &events)
		assert.Empty(t, events)
	}

	{
		t.Log("Statuses")

		var statuses []event.StatusInfo
		client.GetJSON(t, "/event/statuses", &statuses)
		require.Len(t, statuses, len(model.Statuses))
		assert.Equal(t, model.StatusNeedsVerification, statuses[0].Status)
		assert.False(t, statuses[0].Terminal)
	}

	{
		t.Log("Export")

		body := client.Get(t, "/event/export")

		f, err := excelize.OpenReader(bytes.NewReader(body))
		require.NoError(t, err)
		defer func() { require.NoError(t, f.Close()) }()
		rows, err := f.GetRows(report.SheetName)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Budget review Q2", rows[1][1])
	}

	{
		t.Log("DeleteCascadesToResponses")

		_, err := responseService.Create(ctx, response.CreateParams{EventID: e.ID, UserID: recipient.ID, ResponseText: "Noted"})
		require.NoError(t, err)

		client.DoJSON(t, http.MethodDelete, path("/event/%d"), nil, http.StatusOK, nil)
		client.DoJSON(t, http.MethodGet, path("/event/%d"), nil, http.StatusNotFound, nil)
		client.DoJSON(t, http.MethodDelete, path("/event/%d"), nil, http.StatusNotFound, nil)

		responses, err := responseService.FindByEvent(ctx, e.ID)
		require.NoError(t, err)
		assert.Empty(t, responses)
	}
}
