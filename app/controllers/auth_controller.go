package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/gilanghuda/habit-tracker-backend/app/models"
	"github.com/gilanghuda/habit-tracker-backend/app/queries"
	"github.com/gilanghuda/habit-tracker-backend/pkg/config"
	"github.com/gilanghuda/habit-tracker-backend/pkg/database"
	"github.com/gilanghuda/habit-tracker-backend/pkg/logger"
	"github.com/gilanghuda/habit-tracker-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type tokenPair struct {
	AccessToken      string      `json:"access_token"`
	ExpiresIn        int         `json:"expires_in"`
	RefreshToken     string      `json:"refresh_token"`
	RefreshExpiresAt interface{} `json:"refresh_expires_at"`
}

func issueAccessToken(user models.User, now time.Time) (string, int, error) {
	ttl := config.Cfg.AccessTokenTTL
	token, err := utils.GenerateAccessToken(config.Cfg.JWTSecret, user.ID, user.Email, ttl, now)
	if err != nil {
		return "", 0, err
	}
	return token, int(ttl / time.Second), nil
}

// issueTokens signs an access token and stores a new refresh token.
func issueTokens(user models.User) (*tokenPair, error) {
	now := utils.Now()
	access, expiresIn, err := issueAccessToken(user, now)
	if err != nil {
		return nil, err
	}

	rtStr, err := utils.GenerateRandomToken(32)
	if err != nil {
		return nil, err
	}
	rt := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     rtStr,
		Revoked:   false,
		CreatedAt: now,
	}
	var refreshExp interface{}
	if ttl := config.Cfg.RefreshTokenTTL; ttl > 0 {
		rt.ExpiresAt = now.Add(ttl)
		refreshExp = rt.ExpiresAt
	}
	rtQueries := queries.RefreshTokenQueries{DB: database.DB}
	if err := rtQueries.CreateRefreshToken(rt); err != nil {
		return nil, err
	}

	return &tokenPair{
		AccessToken:      access,
		ExpiresIn:        expiresIn,
		RefreshToken:     rtStr,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func UserSignUp(c *fiber.Ctx) error {
	signUp := &models.SignUp{}
	if err := bindBody(c, signUp); err != nil {
		return respondError(c, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(signUp.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	now := utils.Now()
	user := &models.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(signUp.Email),
		Username:     signUp.Username,
		PasswordHash: string(hashedPassword),
		Preferences:  models.DefaultPreferences(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	userQueries := queries.UserQueries{DB: database.DB}
	if err := userQueries.CreateUser(user); err != nil {
		if errors.Is(err, queries.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already registered"})
		}
		return respondError(c, err)
	}

	tokens, err := issueTokens(*user)
	if err != nil {
		return respondError(c, err)
	}
	logger.Info("user registered", "user_id", user.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered",
		"tokens":  tokens,
		"user":    user,
	})
}

func UserSignIn(c *fiber.Ctx) error {
	signIn := &models.SignIn{}
	if err := bindBody(c, signIn); err != nil {
		return respondError(c, err)
	}

	userQueries := queries.UserQueries{DB: database.DB}
	user, err := userQueries.GetUserByEmail(signIn.Email)
	if err != nil {
		if errors.Is(err, queries.ErrNotFound) {
			return unauthorized(c, "Invalid email or password")
		}
		return respondError(c, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(signIn.Password)); err != nil {
		return unauthorized(c, "Invalid email or password")
	}

	tokens, err := issueTokens(user)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Sign in successful",
		"tokens":  tokens,
		"user":    user,
	})
}

func RefreshToken(c *fiber.Ctx) error {
	payload := &models.RefreshRequest{}
	if err := bindBody(c, payload); err != nil {
		return respondError(c, err)
	}

	rtQueries := queries.RefreshTokenQueries{DB: database.DB}
	rt, err := rtQueries.GetRefreshTokenByToken(payload.RefreshToken)
	if err != nil {
		if errors.Is(err, queries.ErrNotFound) {
			return unauthorized(c, "Invalid refresh token")
		}
		return respondError(c, err)
	}
	if !rt.Usable(utils.Now()) {
		return unauthorized(c, "Refresh token expired or revoked")
	}

	userQueries := queries.UserQueries{DB: database.DB}
	user, err := userQueries.GetUserByID(rt.UserID)
	if err != nil {
		return unauthorized(c, "User not found")
	}

	access, expiresIn, err := issueAccessToken(user, utils.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate access token"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"access_token": access, "expires_in": expiresIn})
}

// UserLogout revokes the given refresh token, or every token of the user
// when the body names none.
func UserLogout(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return unauthorized(c, err.Error())
	}

	body := struct {
		RefreshToken string `json:"refresh_token"`
	}{}
	_ = c.BodyParser(&body)

	rtQueries := queries.RefreshTokenQueries{DB: database.DB}
	if body.RefreshToken != "" {
		if err := rtQueries.RevokeRefreshTokenByToken(userID, body.RefreshToken); err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Refresh token revoked"})
	}

	if err := rtQueries.RevokeRefreshTokensByUser(userID); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Logged out"})
}
