package auth

import (
	"strings"

	"opsmerge-backend/internal/config"
	"opsmerge-backend/internal/database"
	"opsmerge-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Username        string `json:"username"`
	Profile         string `json:"profile"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Profile  string `json:"profile"`
}

func RegisterHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		body.Username = strings.TrimSpace(body.Username)

		if body.Email == "" || body.Password == "" || body.Username == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Email, contraseña y nombre de usuario son obligatorios")
		}
		if body.ConfirmPassword != "" && body.Password != body.ConfirmPassword {
			return fiber.NewError(fiber.StatusBadRequest, "Las contraseñas no coinciden")
		}

		// El perfil queda fijo al crear la cuenta; solo se aceptan los conocidos.
		role := models.UserRole(body.Profile)
		if body.Profile == "" {
			role = models.RoleOperador
		}
		if !models.ValidRole(role) {
			return fiber.NewError(fiber.StatusBadRequest, "Perfil desconocido")
		}

		var exist models.User
		if err := database.DB.Where("email = ?", body.Email).First(&exist).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Este email ya está registrado")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo procesar la contraseña")
		}

		user := models.User{
			Username:     body.Username,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         role,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear el usuario")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo generar el token")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"token": token,
			"user": UserResponse{
				ID:       user.ID,
				Username: user.Username,
				Email:    user.Email,
				Profile:  string(user.Role),
			},
		})
	}
}

func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		if err := database.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email o contraseña incorrectos")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email o contraseña incorrectos")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo generar el token")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": UserResponse{
				ID:       user.ID,
				Username: user.Username,
				Email:    user.Email,
				Profile:  string(user.Role),
			},
		})
	}
}

func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userIDVal := c.Locals(CtxUserIDKey)
		userID, ok := userIDVal.(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Sesión inválida")
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			// La cuenta existe en el token pero no en la base: sesión fail-closed.
			return fiber.NewError(fiber.StatusUnauthorized, "El perfil de usuario no existe")
		}

		return c.JSON(UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Profile:  string(user.Role),
		})
	}
}

// Directorio de usuarios para los selectores de responsable y destinatario.
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users []models.User
		if err := database.DB.Order("username ASC").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los usuarios")
		}

		res := make([]UserResponse, 0, len(users))
		for _, u := range users {
			res = append(res, UserResponse{
				ID:       u.ID,
				Username: u.Username,
				Email:    u.Email,
				Profile:  string(u.Role),
			})
		}

		return c.JSON(res)
	}
}
