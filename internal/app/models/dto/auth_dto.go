package dto

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// RefreshTokenRequest represents the token refresh request payload
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse represents the issued token pair
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        int    `json:"expiresIn"`        // Access token lifetime in seconds
	RefreshExpiresIn int    `json:"refreshExpiresIn"` // Refresh token lifetime in seconds
	TokenType        string `json:"tokenType" example:"Bearer"`
}

// LoginResponse represents the login response payload
type LoginResponse struct {
	TokenResponse
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Name     string `json:"name"`
	RoleType string `json:"roleType"`
}
