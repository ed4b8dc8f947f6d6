package Controllers_test

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-dashboard/controllers"
	"github.com/yeremiapane/restaurant-dashboard/models"
)

func setupTeamRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	teamCtrl := controllers.NewTeamController(db)
	router.GET("/team", teamCtrl.GetTeam)
	router.GET("/team/export", teamCtrl.ExportTeam)
	router.POST("/team", teamCtrl.CreateMember)
	router.PATCH("/team/:member_id", teamCtrl.UpdateMember)
	return router
}

func TestTeamMembers(t *testing.T) {
	db := setupTestDB(t)
	router := setupTeamRouter(db)

	w, env := doJSON(t, router, http.MethodPost, "/team", gin.H{"name": "Sam Rivera", "email": "sam@restaurant.local", "role": "host"})
	require.Equal(t, http.StatusCreated, w.Code)
	var member models.TeamMember
	decode(t, env.Data, &member)
	assert.Equal(t, "active", member.Status)

	w, _ = doJSON(t, router, http.MethodPost, "/team", gin.H{"name": "X", "email": "x@restaurant.local", "role": "sommelier"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/team", gin.H{"name": "Sam Again", "email": "sam@restaurant.local", "role": "chef"})
	assert.Equal(t, http.StatusConflict, w.Code)

	url := "/team/" + strconv.Itoa(int(member.ID))
	w, env = doJSON(t, router, http.MethodPatch, url, gin.H{"status": "inactive", "role": "server"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &member)
	assert.Equal(t, "inactive", member.Status)
	assert.Equal(t, "server", member.Role)

	w, _ = doJSON(t, router, http.MethodPatch, url, gin.H{"status": "retired"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = doJSON(t, router, http.MethodGet, "/team?status=active", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var active []models.TeamMember
	decode(t, env.Data, &active)
	assert.Empty(t, active)
}

func TestExportTeamCSV(t *testing.T) {
	db := setupTestDB(t)
	router := setupTeamRouter(db)
	require.NoError(t, db.Create(&models.TeamMember{Name: "Lee, Morgan", Email: "morgan@restaurant.local", Role: "manager", Status: "active"}).Error)

	w, _ := doJSON(t, router, http.MethodGet, "/team/export", nil)
	require.Equal(t, http.StatusOK, w.Code)

	records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"id", "name", "email", "phone", "role", "status"}, records[0])
	assert.Equal(t, "Lee, Morgan", records[1][1])
}
