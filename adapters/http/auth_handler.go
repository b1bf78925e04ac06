package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	authUC "github.com/quangtran/folio-api/internal/application/usecase/auth"
	"github.com/quangtran/folio-api/pkg/apperror"
)

type AuthHandler struct {
	loginUseCase          *authUC.LoginUseCase
	changePasswordUseCase *authUC.ChangePasswordUseCase
}

func NewAuthHandler(loginUC *authUC.LoginUseCase, changePasswordUC *authUC.ChangePasswordUseCase) *AuthHandler {
	return &AuthHandler{
		loginUseCase:          loginUC,
		changePasswordUseCase: changePasswordUC,
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	input := authUC.LoginInput{
		Username: req.Username,
		Password: req.Password,
	}

	output, err := h.loginUseCase.Execute(c.Request.Context(), input)
	if err != nil {

		if errors.Is(err, authUC.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Username or password is incorrect"})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  output.AccessToken,
		"userId": output.UserID,
	})
}

type changePasswordRequest struct {
	Username    string `json:"username" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for password change", err))
		return
	}

	input := authUC.ChangePasswordInput{
		Username:    req.Username,
		NewPassword: req.NewPassword,
	}

	if err := h.changePasswordUseCase.Execute(c.Request.Context(), input); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
