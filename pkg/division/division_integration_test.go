package division_test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/delegasi/delegation-manager/pkg/division"
	"github.com/delegasi/delegation-manager/pkg/inttest"
	"github.com/delegasi/delegation-manager/pkg/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDivisionHandler(t *testing.T) {
	db := inttest.SetupSQLite(t)
	divisionService := division.NewService(division.NewRepository(db))

	client := inttest.SetupHTTPServer(t, nil, func(engine *gin.Engine) {
		division.Routes(engine, division.NewHandler(divisionService))
	})

	var finance model.Division
	{
		t.Log("Create")

		envelope := client.PostJSON(t, "/division", strings.NewReader(`{"name": "Finance"}`), http.StatusCreated, &finance)
		assert.Equal(t, "Division created successfully", envelope.Message)
		assert.Equal(t, "Finance", finance.Name)

		client.PostJSON(t, "/division", strings.NewReader(`{"name": "Legal"}`), http.StatusCreated, nil)
	}

	{
		t.Log("CreateInvalid")

		client.PostJSON(t, "/division", strings.NewReader(`{"name": "Finance"}`), http.StatusBadRequest, nil)
		client.PostJSON(t, "/division", strings.NewReader(`{"name": "   "}`), http.StatusBadRequest, nil)
		client.PostJSON(t, "/division", strings.NewReader(`{}`), http.StatusBadRequest, nil)
	}

	{
		t.Log("FindAll")

		var divisions []model.Division
		client.GetJSON(t, "/division", &divisions)
		require.Len(t, divisions, 2)
		assert.Equal(t, "Finance", divisions[0].Name)
		assert.Equal(t, "Legal", divisions[1].Name)
	}

	{
		t.Log("Update")

		var updated model.Division
		client.PutJSON(t, fmt.Sprintf("/division/%d", finance.ID), strings.NewReader(`{"name": "Accounting"}`), http.StatusOK, &updated)
		assert.Equal(t, finance.ID, updated.ID)
		assert.Equal(t, "Accounting", updated.Name)

		client.PutJSON(t, fmt.Sprintf("/division/%d", finance.ID), strings.NewReader(`{"name": "Legal"}`), http.StatusBadRequest, nil)
		client.PutJSON(t, "/division/999", strings.NewReader(`{"name": "Nowhere"}`), http.StatusNotFound, nil)
	}

	{
		t.Log("Delete")

		client.DoJSON(t, http.MethodDelete, fmt.Sprintf("/division/%d", finance.ID), nil, http.StatusOK, nil)
		client.DoJSON(t, http.MethodDelete, fmt.Sprintf("/division/%d", finance.ID), nil, http.StatusNotFound, nil)
	}
}

func TestService_FindOrCreate(t *testing.T) {
	db := inttest.SetupSQLite(t)
	divisionService := division.NewService(division.NewRepository(db))
	ctx := context.Background()

	created, err := divisionService.FindOrCreate(ctx, "Operations")
	require.NoError(t, err)

	found, err := divisionService.FindOrCreate(ctx, "Operations")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}
