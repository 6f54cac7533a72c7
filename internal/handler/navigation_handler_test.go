package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pm-ajay/adarsh-gram-api/internal/middleware"
	"github.com/pm-ajay/adarsh-gram-api/internal/models"
	"github.com/pm-ajay/adarsh-gram-api/internal/service"
)

func TestNavigationHandlerSectionsForRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewNavigationHandler(service.NewNavigationService())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/navigation/sections", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "2", Role: models.RoleStateAdmin})

	handler.Sections(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data []models.SectionInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 8)
	assert.Equal(t, models.SectionDashboard, envelope.Data[0].ID)
}

func TestNavigationHandlerUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewNavigationHandler(service.NewNavigationService())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/navigation/sections", nil)

	handler.Sections(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
