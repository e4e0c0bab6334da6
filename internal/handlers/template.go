package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive/db"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/types"
	"github.com/taskhive/taskhive/internal/utils"
	"gorm.io/gorm"
)

type TemplateRequest struct {
	Name                    string   `json:"name" binding:"required"`
	Title                   string   `json:"title" binding:"required"`
	Description             string   `json:"description"`
	Category                string   `json:"category"`
	Subcategory             string   `json:"subcategory"`
	Priority                string   `json:"priority"`
	DefaultDueOffsetMinutes int      `json:"defaultDueOffsetMinutes"`
	DefaultReminders        []int    `json:"defaultReminders"`
}

type TemplateResponse struct {
	ID                      uint            `json:"id"`
	Name                    string          `json:"name"`
	Title                   string          `json:"title"`
	Description             string          `json:"description"`
	Category                string          `json:"category"`
	Subcategory             string          `json:"subcategory"`
	Priority                string          `json:"priority"`
	DefaultDueOffsetMinutes int             `json:"defaultDueOffsetMinutes"`
	DefaultReminders        json.RawMessage `json:"defaultReminders,omitempty"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

func toTemplateResponse(tpl *models.Template) TemplateResponse {
	return TemplateResponse{
		ID:                      tpl.ID,
		Name:                    tpl.Name,
		Title:                   tpl.Title,
		Description:             tpl.Description,
		Category:                tpl.Category,
		Subcategory:             tpl.Subcategory,
		Priority:                tpl.Priority,
		DefaultDueOffsetMinutes: tpl.DefaultDueOffsetMinutes,
		DefaultReminders:        json.RawMessage(tpl.DefaultReminders),
		UpdatedAt:               tpl.UpdatedAt,
	}
}

func applyTemplateRequest(tpl *models.Template, body *TemplateRequest) error {
	if body.Priority != "" && !types.ValidPriority(body.Priority) {
		return errors.New("invalid priority")
	}

	tpl.Name = body.Name
	tpl.Title = body.Title
	tpl.Description = body.Description
	tpl.Category = body.Category
	tpl.Subcategory = body.Subcategory
	tpl.Priority = body.Priority
	tpl.DefaultDueOffsetMinutes = body.DefaultDueOffsetMinutes

	if tpl.Category == "" {
		tpl.Category = "Work"
	}
	if tpl.Priority == "" {
		tpl.Priority = types.PriorityMedium
	}

	if body.DefaultReminders != nil {
		encoded, err := json.Marshal(body.DefaultReminders)
		if err != nil {
			return err
		}
		tpl.DefaultReminders = encoded
	}

	return nil
}

func ListTemplates(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var templates []models.Template

	if err := db.DB.Where("owner_id = ?", userID).Order("updated_at DESC").Find(&templates).Error; err != nil {
		respondServiceError(ctx, err)
		return
	}

	response := make([]TemplateResponse, 0, len(templates))
	for i := range templates {
		response = append(response, toTemplateResponse(&templates[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{"templates": response})
}

func CreateTemplate(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body TemplateRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	tpl := models.Template{OwnerID: userID}
	if err := applyTemplateRequest(&tpl, &body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := db.DB.Create(&tpl).Error; err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"template": toTemplateResponse(&tpl)})
}

func UpdateTemplate(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body TemplateRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var tpl models.Template

	if err := db.DB.Where("id = ? AND owner_id = ?", ctx.Param("id"), userID).First(&tpl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		} else {
			respondServiceError(ctx, err)
		}
		return
	}

	if err := applyTemplateRequest(&tpl, &body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := db.DB.Save(&tpl).Error; err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"template": toTemplateResponse(&tpl)})
}

func DeleteTemplate(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	result := db.DB.Where("id = ? AND owner_id = ?", ctx.Param("id"), userID).Delete(&models.Template{})

	if result.Error != nil {
		respondServiceError(ctx, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
