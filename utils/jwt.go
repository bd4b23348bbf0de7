package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carry the authenticated principal plus its tenant scope, so
// authorization downstream is a pure function of the request context.
type Claims struct {
	UserID           uint   `json:"userId"`
	Role             string `json:"role"`
	RestaurantID     uint   `json:"restaurantId,omitempty"`
	KitchenStationID uint   `json:"kitchenStationId,omitempty"`
	jwt.RegisteredClaims
}

func GenerateToken(userID uint, role string, restaurantID, stationID uint, secret string, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID:           userID,
		Role:             role,
		RestaurantID:     restaurantID,
		KitchenStationID: stationID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
