package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/ronda-app/models"
)

type orderResult struct {
	Order        models.Order `json:"order"`
	Ronda        models.Ronda `json:"ronda"`
	Table        models.Table `json:"table"`
	RondaCreated bool         `json:"ronda_created"`
}

func orderBody(tableID uint, items ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"table_id": tableID, "items": items}
}

func line(productID uint, qty int) map[string]interface{} {
	return map[string]interface{}{"product_id": productID, "quantity": qty}
}

func TestCreateOrder(t *testing.T) {
	env := newAPIEnv(t)
	table := env.table(1, 4)
	a := env.product("Milanesa", "100")
	b := env.product("Flan", "50")

	w := env.do(http.MethodPost, "/api/orders", models.RoleMozo, orderBody(table.ID, line(a.ID, 2), line(b.ID, 1)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res orderResult
	decode(t, w, &res)
	assert.True(t, res.RondaCreated)
	assert.Equal(t, models.TableEsperando, res.Table.Status)
	assert.Equal(t, env.users[models.RoleMozo].ID, res.Order.MozoID)
	require.Len(t, res.Order.Items, 2)
	assert.True(t, res.Order.Total().Equal(decimal.NewFromInt(250)))

	w = env.do(http.MethodPost, "/api/orders", models.RoleMozo, orderBody(table.ID, line(a.ID, 1)))
	require.Equal(t, http.StatusCreated, w.Code)
	var second orderResult
	decode(t, w, &second)
	assert.False(t, second.RondaCreated)
	assert.Equal(t, res.Ronda.ID, second.Ronda.ID)

	w = env.do(http.MethodGet, fmt.Sprintf("/api/tables/%d/active-ronda", table.ID), models.RoleMozo, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary struct {
		ID    uint            `json:"id"`
		Total decimal.Decimal `json:"total"`
	}
	decode(t, w, &summary)
	assert.Equal(t, res.Ronda.ID, summary.ID)
	assert.True(t, summary.Total.Equal(decimal.NewFromInt(350)))
}

func TestCreateOrderErrors(t *testing.T) {
	env := newAPIEnv(t)
	table := env.table(1, 4)
	a := env.product("Milanesa", "100")

	w := env.do(http.MethodPost, "/api/orders", models.RoleMozo, orderBody(table.ID, line(9999, 1)))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "invalid_reference", decode(t, w, nil).Error)

	w = env.do(http.MethodPost, "/api/orders", models.RoleMozo, orderBody(table.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/orders", models.RoleMozo, orderBody(table.ID, line(a.ID, 0)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/orders", models.RoleMozo, orderBody(4242, line(a.ID, 1)))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodPost, "/api/orders", models.RoleCocinero, orderBody(table.ID, line(a.ID, 1)))
	assert.Equal(t, http.StatusForbidden, w.Code)

	var rondas int64
	require.NoError(t, env.db.Model(&models.Ronda{}).Count(&rondas).Error)
	assert.Zero(t, rondas)
}

func TestKitchenBoardAndOrderStatus(t *testing.T) {
	env := newAPIEnv(t)
	table := env.table(1, 4)
	a := env.product("Milanesa", "100")

	w := env.do(http.MethodPost, "/api/orders", models.RoleMozo, orderBody(table.ID, line(a.ID, 1)))
	require.Equal(t, http.StatusCreated, w.Code)
	var res orderResult
	decode(t, w, &res)

	w = env.do(http.MethodGet, "/api/orders?type=COCINA", models.RoleCocinero, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var board []models.Order
	decode(t, w, &board)
	require.Len(t, board, 1)
	assert.Equal(t, models.OrderPendiente, board[0].Status)

	path := fmt.Sprintf("/api/orders/%d/status", res.Order.ID)
	w = env.do(http.MethodPatch, path, models.RoleCocinero, map[string]string{"status": "LISTO"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(http.MethodPatch, path, models.RoleCocinero, map[string]string{"status": "PREPARANDO"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(http.MethodPatch, path, models.RoleMozo, map[string]string{"status": "ENTREGADO"})
	assert.Equal(t, http.StatusOK, w.Code)
}
