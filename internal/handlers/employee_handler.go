package handlers

import (
	"net/http"

	"ironpress-terminal/internal/apiclient"

	"github.com/gin-gonic/gin"
)

// EmployeesPage lists the store's employee accounts.
func (h *Handler) EmployeesPage(c *gin.Context) {
	employees, err := h.api.Users.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"title":     "Employee Management",
		"employees": employees,
	})
}

type employeeForm struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateEmployee adds an EMPLOYEE account to the store.
func (h *Handler) CreateEmployee(c *gin.Context) {
	var input employeeForm
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, email and password are required"})
		return
	}

	err := h.api.Users.Create(c.Request.Context(), apiclient.EmployeeCreate{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Employee created"})
}

// ToggleEmployeeStatus enables or disables an employee account.
func (h *Handler) ToggleEmployeeStatus(c *gin.Context) {
	if err := h.api.Users.ToggleStatus(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee status updated"})
}

// DeleteEmployee removes an employee account.
func (h *Handler) DeleteEmployee(c *gin.Context) {
	if err := h.api.Users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee removed"})
}
