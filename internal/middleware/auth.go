package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/AssessmentIntake/pkg/utils"
)

// LocalPhoneID is the request local holding the verified phone id.
const LocalPhoneID = "phone_id"

var (
	ErrMissingPhoneToken   = errors.New("missing phone token")
	ErrMalformedAuthHeader = errors.New("malformed authorization header")
)

const msgVerifyPhoneFirst = "Por favor, verifique seu número de telefone primeiro."

// PhoneToken returns the bearer token of the request. With allowQuery the
// token query parameter is read first, for websocket upgrades.
func PhoneToken(c *fiber.Ctx, allowQuery bool) (string, error) {
	if allowQuery {
		if token := strings.TrimSpace(c.Query("token")); token != "" {
			return token, nil
		}
	}

	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if header == "" {
		return "", ErrMissingPhoneToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" || strings.Contains(token, " ") {
		return "", ErrMalformedAuthHeader
	}
	return token, nil
}

// PhoneClaims validates the phone token carried by the request.
func PhoneClaims(c *fiber.Ctx, secret string, allowQuery bool) (*utils.Claims, error) {
	token, err := PhoneToken(c, allowQuery)
	if err != nil {
		return nil, err
	}
	return utils.ValidateToken(token, secret)
}

// PhoneRequired rejects requests without a valid phone token and stores the
// phone id under LocalPhoneID.
func PhoneRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := PhoneClaims(c, secret, false)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": rejection(err)})
		}

		c.Locals(LocalPhoneID, claims.PhoneID)
		return c.Next()
	}
}

func rejection(err error) string {
	switch {
	case errors.Is(err, ErrMissingPhoneToken):
		return msgVerifyPhoneFirst
	case errors.Is(err, ErrMalformedAuthHeader):
		return "Invalid authorization header format"
	default:
		return "Invalid or expired token"
	}
}
