package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c)
		return
	}

	if _, err := h.users.Register(c.Request.Context(), req.Email, req.Password); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "User created successfully")
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c)
		return
	}

	token, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.setSessionCookie(c.Writer, token)
	respond(c, http.StatusOK, "Logged in successfully")
}

func (h *Handler) refreshLogin(c *gin.Context) {
	token, err := h.users.RefreshSession(currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.setSessionCookie(c.Writer, token)
	respond(c, http.StatusOK, "Token renewed successfully")
}

func (h *Handler) logout(c *gin.Context) {
	h.clearSessionCookie(c.Writer)
	respond(c, http.StatusOK, "Logged out successfully")
}

func (h *Handler) verifyEmail(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c)
		return
	}

	if err := h.users.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Verified email successfully")
}

func (h *Handler) resendVerification(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c)
		return
	}

	if err := h.users.ResendVerification(c.Request.Context(), req.Email); err != nil {
		h.failNotFound(c, err, "User does not exist")
		return
	}
	respond(c, http.StatusOK, "Verification email resent")
}

func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, newUserResponse(currentUser(c)))
}

func (h *Handler) updateMe(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c)
		return
	}

	if _, err := h.users.UpdateAccount(c.Request.Context(), currentUser(c), req.CurrentPassword, req.NewPassword); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "User updated successfully")
}

func (h *Handler) deleteMe(c *gin.Context) {
	if err := h.users.DeleteAccount(c.Request.Context(), currentUser(c)); err != nil {
		h.fail(c, err)
		return
	}
	h.clearSessionCookie(c.Writer)
	respond(c, http.StatusOK, "User deleted successfully")
}

func (h *Handler) initiatePasswordReset(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c)
		return
	}

	if err := h.users.InitiatePasswordReset(c.Request.Context(), req.Email); err != nil {
		h.failNotFound(c, err, "User does not exist")
		return
	}
	respond(c, http.StatusOK, "Password reset initiated")
}

func (h *Handler) resetPassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c)
		return
	}

	if err := h.users.ResetPassword(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Password reset successfully")
}
