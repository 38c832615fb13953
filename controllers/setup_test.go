package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/ronda-app/config"
	"github.com/yeremiapane/ronda-app/database"
	"github.com/yeremiapane/ronda-app/kds"
	"github.com/yeremiapane/ronda-app/messaging"
	"github.com/yeremiapane/ronda-app/models"
	"github.com/yeremiapane/ronda-app/router"
	"github.com/yeremiapane/ronda-app/services"
	"github.com/yeremiapane/ronda-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "secret123"

type apiEnv struct {
	t      *testing.T
	db     *gorm.DB
	floor  *services.FloorService
	hub    *kds.Hub
	router *gin.Engine
	users  map[models.Role]models.User
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitLogger("error")
	utils.ConfigureJWT("test-secret", 1)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := &config.Config{
		DBDriver:     "sqlite",
		DatabaseURL:  fmt.Sprintf("file:api_%s?mode=memory&cache=shared", name),
		CORSOrigin:   "*",
		BusinessName: "Ronda Test",
	}
	db, err := config.InitDB(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	hub := kds.NewHub()
	floor := services.NewFloorService(db, services.WithPublisher(messaging.NewHubPublisher(hub)))
	env := &apiEnv{
		t:      t,
		db:     db,
		floor:  floor,
		hub:    hub,
		router: router.SetupRouter(cfg, floor, hub),
		users:  make(map[models.Role]models.User),
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	for _, role := range []models.Role{models.RoleAdmin, models.RoleMozo, models.RoleBarman, models.RoleCocinero} {
		lower := strings.ToLower(string(role))
		u := models.User{Name: lower, Email: lower + "@ronda.test", Password: string(hashed), Role: role}
		require.NoError(t, db.Create(&u).Error)
		env.users[role] = u
	}
	return env
}

func (e *apiEnv) token(role models.Role) string {
	e.t.Helper()
	u := e.users[role]
	tok, err := utils.GenerateToken(u.ID, string(u.Role))
	require.NoError(e.t, err)
	return tok
}

// do sends body as JSON with the token of role ("" for no auth).
func (e *apiEnv) do(method, path string, role models.Role, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(e.t, err)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+e.token(role))
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data), string(env.Data))
	}
	return env
}

func (e *apiEnv) table(number, capacity int) models.Table {
	e.t.Helper()
	table := models.Table{Number: number, Capacity: capacity, Status: models.TableLibre}
	require.NoError(e.t, e.db.Create(&table).Error)
	return table
}

func (e *apiEnv) product(name, price string) models.Product {
	e.t.Helper()
	p := models.Product{Name: name, Category: "Platos", Price: decimal.RequireFromString(price), Type: models.ProductCocina, IsAvailable: true}
	require.NoError(e.t, e.db.Create(&p).Error)
	return p
}
