package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teknetau/gestion_backend/models"
)

func GetUsers(c *gin.Context) {
	users, err := models.GetUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func GetUser(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	user, err := models.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func CreateUser(c *gin.Context) {
	var input models.NewUser
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := models.CreateUser(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func UpdateUser(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var input models.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := models.UpdateUser(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeactivateUser soft-deletes: the account stays for audit, its sessions are
// revoked.
func DeactivateUser(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	if err := models.DeactivateUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deactivated"})
}
