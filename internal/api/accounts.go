package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yatube/yatube/internal/account"
	"github.com/yatube/yatube/internal/models"
)

// signupForm handles GET /auth/signup/
func (r *Router) signupForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"fields": []string{"first_name", "last_name", "username", "email", "password"},
	})
}

// signup handles POST /auth/signup/ and signs the new user in
func (r *Router) signup(c *gin.Context) {
	user, err := r.accounts.Signup(c.Request.Context(), account.SignupInput{
		Username:  c.PostForm("username"),
		Password:  c.PostForm("password"),
		Email:     c.PostForm("email"),
		FirstName: c.PostForm("first_name"),
		LastName:  c.PostForm("last_name"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if err := r.startSession(c, user); err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// loginForm handles GET /auth/login/
func (r *Router) loginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"fields": []string{"username", "password"},
		"next":   c.Query("next"),
	})
}

// login handles POST /auth/login/
func (r *Router) login(c *gin.Context) {
	user, err := r.accounts.Authenticate(c.Request.Context(), c.PostForm("username"), c.PostForm("password"))
	if errors.Is(err, account.ErrInvalidCredentials) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{
			"__all__": "Please enter a correct username and password. Note that both fields may be case-sensitive.",
		}})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	if err := r.startSession(c, user); err != nil {
		respondError(c, err)
		return
	}

	next := c.PostForm("next")
	if next == "" {
		next = c.Query("next")
	}
	c.Redirect(http.StatusFound, safeNext(next))
}

// logout handles /auth/logout/
func (r *Router) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(r.cfg.Session.CookieName, "", -1, "/", "", c.Request.TLS != nil, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func (r *Router) startSession(c *gin.Context, user *models.User) error {
	token, err := r.sessions.Issue(user.ID, user.Username)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(r.cfg.Session.CookieName, token, int(r.sessions.TTL().Seconds()), "/", "", c.Request.TLS != nil, true)
	return nil
}
