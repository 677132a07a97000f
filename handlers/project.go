package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teknetau/gestion_backend/models"
)

func GetProjects(c *gin.Context) {
	projects, err := models.GetProjects(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func GetProject(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	project, err := models.GetProject(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// GetProjectSummary returns the budget/income/expense rollup computed from
// the project's documents.
func GetProjectSummary(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	summary, err := models.GetProjectSummary(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func CreateProject(c *gin.Context) {
	var input models.NewProject
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	project, err := models.CreateProject(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func UpdateProject(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var input models.NewProject
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	project, err := models.UpdateProject(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func DeleteProject(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	if err := models.DeleteProject(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}
