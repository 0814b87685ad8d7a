package response

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/delegasi/delegation-manager/internal/errdef"
	"github.com/delegasi/delegation-manager/pkg/event"
	"github.com/delegasi/delegation-manager/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct{ mock.Mock }

func (m *mockRepository) create(ctx context.Context, response *model.Response) error {
	called := m.Called(response)
	response.ID = 1
	return called.Error(0)
}

func (m *mockRepository) find(ctx context.Context, id uint) (*model.Response, error) {
	called := m.Called(id)
	response, _ := called.Get(0).(*model.Response)
	return response, called.Error(1)
}

func (m *mockRepository) findByEvent(ctx context.Context, eventId uint) ([]model.Response, error) {
	called := m.Called(eventId)
	return called.Get(0).([]model.Response), called.Error(1)
}

type mockEventService struct{ mock.Mock }

func (m *mockEventService) Find(ctx context.Context, id uint) (*model.Event, error) {
	called := m.Called(id)
	e, _ := called.Get(0).(*model.Event)
	return e, called.Error(1)
}

func (m *mockEventService) Transition(ctx context.Context, id uint, kind event.Kind, reason string) (*model.Event, error) {
	called := m.Called(id, kind, reason)
	e, _ := called.Get(0).(*model.Event)
	return e, called.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) FindById(ctx context.Context, id uint) (*model.User, error) {
	called := m.Called(id)
	u, _ := called.Get(0).(*model.User)
	return u, called.Error(1)
}

func userWithRole(id uint, role model.Role) *model.User {
	return &model.User{ID: id, Role: &role}
}

type mocks struct {
	repository   *mockRepository
	eventService *mockEventService
	userService  *mockUserService
}

func newService() (*Service, mocks) {
	m := mocks{
		repository:   &mockRepository{},
		eventService: &mockEventService{},
		userService:  &mockUserService{},
	}
	return NewService(slog.New(slog.DiscardHandler), m.repository, m.eventService, m.userService), m
}

func (m mocks) assertExpectations(t *testing.T) {
	m.repository.AssertExpectations(t)
	m.eventService.AssertExpectations(t)
	m.userService.AssertExpectations(t)
}

func TestService_Create(t *testing.T) {
	t.Run("HandlerResponseLeavesEventUntouched", func(t *testing.T) {
		service, m := newService()
		m.eventService.On("Find", uint(7)).Return(&model.Event{ID: 7}, nil)
		m.userService.On("FindById", uint(2)).Return(userWithRole(2, model.RoleDelegationHandler), nil)
		m.repository.On("create", mock.AnythingOfType("*model.Response")).Return(nil)
		m.repository.On("find", uint(1)).Return(&model.Response{ID: 1, EventID: 7, UserID: 2, ResponseText: "on it"}, nil)

		created, err := service.Create(context.Background(), CreateParams{EventID: 7, UserID: 2, ResponseText: "on it"})

		require.NoError(t, err)
		assert.False(t, created.StatusUpdated)
		assert.Equal(t, "on it", created.Response.ResponseText)
		m.eventService.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("VerificatorResponseRejectsEvent", func(t *testing.T) {
		service, m := newService()
		m.eventService.On("Find", uint(7)).Return(&model.Event{ID: 7}, nil)
		m.userService.On("FindById", uint(3)).Return(userWithRole(3, model.RoleDelegationVerificator), nil)
		m.repository.On("create", mock.AnythingOfType("*model.Response")).Return(nil)
		m.eventService.On("Transition", uint(7), event.KindVerificatorReject, "").Return(&model.Event{ID: 7, Status: model.StatusRejected}, nil)
		m.repository.On("find", uint(1)).Return(&model.Response{ID: 1}, nil)

		created, err := service.Create(context.Background(), CreateParams{
			EventID:          7,
			UserID:           3,
			ResponseText:     "incomplete",
			ResponseFileURLs: `[{"url":"/uploads-responses/1-responseFiles-a.pdf","originalName":"a.pdf","mimeType":"application/pdf"}]`,
		})

		require.NoError(t, err)
		assert.True(t, created.StatusUpdated)
		m.assertExpectations(t)

		persisted := m.repository.Calls[0].Arguments.Get(0).(*model.Response)
		require.Len(t, persisted.ResponseFileURLs, 1)
		assert.Equal(t, "a.pdf", persisted.ResponseFileURLs[0].OriginalName)
	})

	t.Run("FailedRejectionKeepsResponse", func(t *testing.T) {
		service, m := newService()
		m.eventService.On("Find", uint(7)).Return(&model.Event{ID: 7}, nil)
		m.userService.On("FindById", uint(3)).Return(userWithRole(3, model.RoleDelegationVerificator), nil)
		m.repository.On("create", mock.AnythingOfType("*model.Response")).Return(nil)
		m.eventService.On("Transition", uint(7), event.KindVerificatorReject, "").Return(nil, errors.New("database is gone"))
		m.repository.On("find", uint(1)).Return(&model.Response{ID: 1}, nil)

		created, err := service.Create(context.Background(), CreateParams{EventID: 7, UserID: 3, ResponseText: "incomplete"})

		require.NoError(t, err)
		assert.False(t, created.StatusUpdated)
		assert.Equal(t, uint(1), created.Response.ID)
		m.assertExpectations(t)
	})

	t.Run("MalformedFileList", func(t *testing.T) {
		service, m := newService()

		_, err := service.Create(context.Background(), CreateParams{EventID: 7, UserID: 2, ResponseText: "x", ResponseFileURLs: "not-json"})

		require.Error(t, err)
		assert.True(t, errdef.IsBadRequest(err))
		m.repository.AssertNotCalled(t, "create", mock.Anything)
		m.eventService.AssertNotCalled(t, "Find", mock.Anything)
	})

	t.Run("EventNotFound", func(t *testing.T) {
		service, m := newService()
		m.eventService.On("Find", uint(404)).Return(nil, errdef.NewNotFound("event not found by id: %d", 404))

		_, err := service.Create(context.Background(), CreateParams{EventID: 404, UserID: 2, ResponseText: "x"})

		require.Error(t, err)
		assert.True(t, errdef.IsNotFound(err))
		m.repository.AssertNotCalled(t, "create", mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("AuthorNotFound", func(t *testing.T) {
		service, m := newService()
		m.eventService.On("Find", uint(7)).Return(&model.Event{ID: 7}, nil)
		m.userService.On("FindById", uint(404)).Return(nil, errdef.NewNotFound("user not found by id: %d", 404))

		_, err := service.Create(context.Background(), CreateParams{EventID: 7, UserID: 404, ResponseText: "x"})

		require.Error(t, err)
		assert.True(t, errdef.IsNotFound(err))
		m.repository.AssertNotCalled(t, "create", mock.Anything)
		m.assertExpectations(t)
	})
}
