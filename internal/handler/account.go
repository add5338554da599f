package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"careerfolio/internal/account"
	"careerfolio/internal/auth"
	"careerfolio/internal/validation"
	"careerfolio/internal/view"
)

type signupRequest struct {
	First    string `json:"first"`
	Last     string `json:"last"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates an account. The visitor stays signed out.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid signup body")
		return
	}
	rec, err := h.accounts.Signup(c.Request.Context(), validation.SignupForm{
		First:    req.First,
		Last:     req.Last,
		Email:    req.Email,
		Password: req.Password,
		Confirm:  req.Confirm,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"email":  rec.Email,
		"notice": h.currentNotice(),
	})
}

// Login signs in and returns a bearer token plus the dashboard view.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid login body")
		return
	}
	st, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	tok, err := auth.Issue(st.User.Email, h.issuer, h.signingKey, h.tokenTTL)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": tok.AccessToken,
		"expires_at":   tok.ExpiresAt.Unix(),
		"view":         view.Render(st, h.currentNotice()),
	})
}

// Logout clears the session pointer. Tokens issued before are no longer accepted.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.accounts.Logout(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	v, err := h.render(c)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// View returns the screen for the current session.
func (h *Handler) View(c *gin.Context) {
	v, err := h.render(c)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// SelectTab switches the dashboard panel.
func (h *Handler) SelectTab(c *gin.Context) {
	var req struct {
		Tab string `json:"tab"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid tab body")
		return
	}
	tab, err := account.ParseTab(req.Tab)
	if err != nil {
		fail(c, err)
		return
	}
	st, err := h.accounts.SelectTab(c.Request.Context(), tab)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view.Render(st, h.currentNotice()))
}

// Notice returns the banner, or 204 once it has been dismissed or expired.
func (h *Handler) Notice(c *gin.Context) {
	n := h.currentNotice()
	if n == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, n)
}

// DismissNotice closes the banner early.
func (h *Handler) DismissNotice(c *gin.Context) {
	if h.notices != nil {
		h.notices.Dismiss()
	}
	c.Status(http.StatusNoContent)
}
