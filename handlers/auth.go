// handlers/auth.go
package handlers

import (
	"log"
	"os"
	"time"

	"skillup/database"
	"skillup/middleware"
	"skillup/models"
	"skillup/services"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Success      bool     `json:"success"`
	Token        string   `json:"token,omitempty"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	User         UserInfo `json:"user,omitempty"`
	Error        string   `json:"error,omitempty"`
}

type UserInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Register creates a new user account, seeds the default profile and
// achievement records, and returns a token pair.
func Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Error:   "Invalid request body",
		})
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Error:   "Name, email and password required",
		})
	}

	if len(req.Password) < 6 {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Error:   "Password must be at least 6 characters",
		})
	}

	db := database.GetDB()

	var existingUser models.User
	if err := db.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Error:   "Email already registered",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Error:   "Failed to hash password",
		})
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
	}

	if err := db.Create(&user).Error; err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Error:   "Failed to create account",
		})
	}

	// Default profile and achievement seed; a failure here should not strand
	// the already-created account.
	if err := createDefaultProfile(user); err != nil {
		log.Printf("failed to create default profile for %s: %v", user.ID, err)
	}
	if err := services.InitializeAchievements(db, user.ID); err != nil {
		log.Printf("failed to initialize achievements for %s: %v", user.ID, err)
	}

	token, refreshToken, err := generateTokenPair(user)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Error:   "Failed to generate token",
		})
	}

	return c.JSON(AuthResponse{
		Success:      true,
		Token:        token,
		RefreshToken: refreshToken,
		User: UserInfo{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		},
	})
}

// Login authenticates a registered user, records the login and advances the
// "Consistent Learning" achievement.
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Error:   "Invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Error:   "Email and password required",
		})
	}

	db := database.GetDB()

	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return c.Status(401).JSON(AuthResponse{
			Success: false,
			Error:   "Invalid credentials",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(401).JSON(AuthResponse{
			Success: false,
			Error:   "Invalid credentials",
		})
	}

	now := time.Now()
	db.Model(&user).Update("last_login", now)
	db.Create(&models.LoginEvent{UserID: user.ID})

	if err := services.CheckUserLogin(db, user.ID); err != nil {
		log.Printf("failed to update login achievement for %s: %v", user.ID, err)
	}

	token, refreshToken, err := generateTokenPair(user)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Error:   "Failed to generate token",
		})
	}

	return c.JSON(AuthResponse{
		Success:      true,
		Token:        token,
		RefreshToken: refreshToken,
		User: UserInfo{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		},
	})
}

// GetCurrentUser returns the authenticated user.
func GetCurrentUser(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user": UserInfo{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		},
	})
}

func createDefaultProfile(user models.User) error {
	profile := models.UserProfile{
		UserID:    user.ID,
		FullName:  user.Name,
		Bio:       "Learning enthusiast",
		AvatarURL: "/assets/images/default-avatar.png",
	}
	return database.GetDB().Create(&profile).Error
}

// Helper functions

func generateTokenPair(user models.User) (string, string, error) {
	token, err := signToken(user, time.Hour*24)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := signToken(user, time.Hour*24*7)
	if err != nil {
		return "", "", err
	}
	return token, refreshToken, nil
}

func signToken(user models.User, ttl time.Duration) (string, error) {
	jwtSecret := os.Getenv("JWT_SECRET")

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}
