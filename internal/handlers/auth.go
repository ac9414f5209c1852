package handlers

import (
	"net/http"
	"strings"

	"inkwell/internal/db"
	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	captchaService *services.CaptchaService
}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{
		captchaService: services.NewCaptchaService(),
	}
}

func (h *AuthHandler) ShowSignup(c *gin.Context) {
	question, answer := h.captchaService.MathChallenge()
	session := sessions.Default(c)
	session.Set("captcha_answer", answer)
	session.Save()
	Render(c, http.StatusOK, "auth/signup.html", gin.H{"Title": "Sign up", "Captcha": question})
}

// signupError re-renders the signup form with a fresh challenge.
func (h *AuthHandler) signupError(c *gin.Context, code int, message, username string) {
	question, answer := h.captchaService.MathChallenge()
	session := sessions.Default(c)
	session.Set("captcha_answer", answer)
	session.Save()
	Render(c, code, "auth/signup.html", gin.H{
		"Title":    "Sign up",
		"Error":    message,
		"Username": username,
		"Captcha":  question,
	})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	captchaInput := c.PostForm("captcha")

	session := sessions.Default(c)
	expectedAnswer, ok := session.Get("captcha_answer").(int)
	if !ok || utils.StringToInt(captchaInput) != expectedAnswer {
		h.signupError(c, http.StatusBadRequest, "Wrong answer to the challenge.", username)
		return
	}
	session.Delete("captcha_answer")
	session.Save()

	if username == "" {
		h.signupError(c, http.StatusBadRequest, "Username is required.", username)
		return
	}
	if len(password) < 6 {
		h.signupError(c, http.StatusBadRequest, "Password must be at least 6 characters.", username)
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		h.signupError(c, http.StatusInternalServerError, "Could not create the account.", username)
		return
	}

	user := models.User{
		Username: username,
		Password: hash,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		h.signupError(c, http.StatusConflict, "That username is taken.", username)
		return
	}

	session.Set("user_id", user.ID)
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "auth/login.html", gin.H{"Title": "Log in"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	var user models.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{"Title": "Log in", "Error": "Wrong username or password."})
		return
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{"Title": "Log in", "Error": "Wrong username or password."})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/")
}
