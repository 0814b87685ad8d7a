package model_test

import (
	"testing"

	"github.com/delegasi/delegation-manager/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttachments(t *testing.T) {
	t.Run("EmptyString", func(t *testing.T) {
		attachments, err := model.ParseAttachments("")

		require.NoError(t, err)
		assert.Empty(t, attachments)
		assert.NotNil(t, attachments)
	})

	t.Run("Null", func(t *testing.T) {
		attachments, err := model.ParseAttachments("null")

		require.NoError(t, err)
		assert.NotNil(t, attachments)
	})

	t.Run("List", func(t *testing.T) {
		attachments, err := model.ParseAttachments(`[{"url":"/uploads-event/1-a.pdf","originalName":"a.pdf","mimeType":"application/pdf"}]`)

		require.NoError(t, err)
		require.Len(t, attachments, 1)
		assert.Equal(t, model.Attachment{URL: "/uploads-event/1-a.pdf", OriginalName: "a.pdf", MimeType: "application/pdf"}, attachments[0])
	})

	t.Run("NotJSON", func(t *testing.T) {
		_, err := model.ParseAttachments("not-json")

		require.ErrorContains(t, err, "invalid attachment list")
	})
}

func TestAttachments_Append(t *testing.T) {
	a := model.Attachment{URL: "/a"}
	b := model.Attachment{URL: "/b"}
	c := model.Attachment{URL: "/c"}

	t.Run("PreservesOrder", func(t *testing.T) {
		merged := model.Attachments{a}.Append(b, c)

		assert.Equal(t, model.Attachments{a, b, c}, merged)
	})

	t.Run("SkipsKnownURLs", func(t *testing.T) {
		merged := model.Attachments{a, b}.Append(b, c, a)

		assert.Equal(t, model.Attachments{a, b, c}, merged)
	})

	t.Run("TwoAppendsEqualOne", func(t *testing.T) {
		twice := model.Attachments{}.Append(a).Append(b, c)
		once := model.Attachments{}.Append(a, b, c)

		assert.Equal(t, once, twice)
	})

	t.Run("DoesNotModifyReceiver", func(t *testing.T) {
		original := model.Attachments{a}

		_ = original.Append(b)

		assert.Equal(t, model.Attachments{a}, original)
	})
}

func TestStatus_Valid(t *testing.T) {
	for _, status := range model.Statuses {
		assert.True(t, status.Valid(), status)
	}
	assert.False(t, model.Status("Approved").Valid())
	assert.False(t, model.Status("").Valid())
}

func TestUser_IsVerificator(t *testing.T) {
	verificator := model.RoleDelegationVerificator
	handler := model.RoleDelegationHandler

	assert.True(t, (&model.User{Role: &verificator}).IsVerificator())
	assert.False(t, (&model.User{Role: &handler}).IsVerificator())
	assert.False(t, (&model.User{}).IsVerificator())
}
