package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/freightworks/quotation-service/internal/models"
	"github.com/freightworks/quotation-service/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity - подтвержденная личность носителя токена. Токены выпускает
// внешний сервис авторизации; здесь они только проверяются.
type Identity struct {
	UserID string
	Role   models.UserRole
}

// IsAdmin сообщает, является ли носитель токена администратором.
func (i *Identity) IsAdmin() bool {
	return i.Role == models.AdminUser
}

// Claims - состав JWT: sub несет ID пользователя, role - его роль.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Middleware проверяет bearer-токены по общему HMAC-секрету.
type Middleware struct {
	secret []byte
}

// NewMiddleware создаёт новый экземпляр Middleware.
func NewMiddleware(secret string) *Middleware {
	return &Middleware{secret: []byte(secret)}
}

// Optional пропускает запрос в любом случае; личность кладется в контекст,
// только если предъявлен корректный токен.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity, err := m.parse(r); err == nil {
			r = r.WithContext(withIdentity(r.Context(), identity))
		}
		next.ServeHTTP(w, r)
	})
}

// Required отклоняет запросы без корректного токена.
func (m *Middleware) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.parse(r)
		if err != nil {
			utils.SendErrorResponse(w, http.StatusUnauthorized, "missing or invalid authorization token")
			return
		}
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
	})
}

// AdminOnly пускает только администраторов. Вешается после Required.
func (m *Middleware) AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := FromContext(r.Context())
		if !ok || !identity.IsAdmin() {
			utils.SendErrorResponse(w, http.StatusForbidden, "access denied, admin only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) parse(r *http.Request) (*Identity, error) {
	header := r.Header.Get("Authorization")
	tokenString, found := strings.CutPrefix(header, "Bearer ")
	if !found || tokenString == "" {
		return nil, jwt.ErrTokenMalformed
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return &Identity{UserID: claims.Subject, Role: models.UserRole(claims.Role)}, nil
}

func withIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// FromContext достает личность запроса, если она была установлена.
func FromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	return identity, ok
}
