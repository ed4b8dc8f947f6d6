package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-dashboard/models"
	"github.com/yeremiapane/restaurant-dashboard/utils"
	"gorm.io/gorm"
)

type TeamController struct {
	DB *gorm.DB
}

func NewTeamController(db *gorm.DB) *TeamController {
	RegisterValidators()
	return &TeamController{DB: db}
}

// GetTeam -> team members, ?status= filter
func (tc *TeamController) GetTeam(c *gin.Context) {
	query := tc.DB.Order("name ASC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	members := []models.TeamMember{}
	if err := query.Find(&members).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Team members", members)
}

func (tc *TeamController) CreateMember(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"required,email"`
		Phone string `json:"phone"`
		Role  string `json:"role" binding:"required,team_role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	member := models.TeamMember{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Role:   req.Role,
		Status: "active",
	}
	if err := tc.DB.Create(&member).Error; err != nil {
		utils.RespondError(c, http.StatusConflict, err)
		return
	}

	utils.InfoLogger.Printf("Team member added: %s (role=%s)", member.Email, member.Role)
	utils.RespondJSON(c, http.StatusCreated, "Team member added", member)
}

// UpdateMember -> role, status or contact changes
func (tc *TeamController) UpdateMember(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("member_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Name   *string `json:"name" binding:"omitempty,min=1"`
		Phone  *string `json:"phone"`
		Role   *string `json:"role" binding:"omitempty,team_role"`
		Status *string `json:"status" binding:"omitempty,oneof=active inactive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var member models.TeamMember
	if err := tc.DB.First(&member, id).Error; err != nil {
		respondLookupError(c, err)
		return
	}
	if req.Name != nil {
		member.Name = *req.Name
	}
	if req.Phone != nil {
		member.Phone = *req.Phone
	}
	if req.Role != nil {
		member.Role = *req.Role
	}
	if req.Status != nil {
		member.Status = *req.Status
	}

	if err := tc.DB.Save(&member).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Team member updated", member)
}

func (tc *TeamController) ExportTeam(c *gin.Context) {
	var members []models.TeamMember
	if err := tc.DB.Order("name ASC").Find(&members).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	header := []string{"id", "name", "email", "phone", "role", "status"}
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{strconv.Itoa(int(m.ID)), m.Name, m.Email, m.Phone, m.Role, m.Status})
	}
	if err := utils.WriteCSV(c, "team.csv", header, rows); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
