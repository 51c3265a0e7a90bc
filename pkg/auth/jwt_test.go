package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/gomega"

	"github.com/andresv1112/taskflow-artisanal-auth/pkg/auth"
)

func TestJWT_CreateAndVerify(t *testing.T) {
	RegisterTestingT(t)

	j := auth.JWT{Secret: "test-secret"}

	token, err := j.CreateToken(42)
	Expect(err).To(BeNil())

	claims, err := j.VerifyToken(token)
	Expect(err).To(BeNil())
	Expect(claims["user_id"]).To(Equal(float64(42)))
}

func TestJWT_WrongSecret(t *testing.T) {
	RegisterTestingT(t)

	j := auth.JWT{Secret: "test-secret"}
	token, _ := j.CreateToken(42)

	other := auth.JWT{Secret: "other-secret"}
	_, err := other.VerifyToken(token)

	Expect(err).To(HaveOccurred())
}

func TestJWT_ExpiredToken(t *testing.T) {
	RegisterTestingT(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(-time.Minute).Unix(),
	})

	signed, _ := expired.SignedString([]byte("test-secret"))

	j := auth.JWT{Secret: "test-secret"}
	_, err := j.VerifyToken(signed)

	Expect(err).To(HaveOccurred())
}

func TestJWT_RejectsUnsignedToken(t *testing.T) {
	RegisterTestingT(t)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	signed, _ := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)

	j := auth.JWT{Secret: "test-secret"}
	_, err := j.VerifyToken(signed)

	Expect(err).To(HaveOccurred())
}

func middlewareRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/protected", auth.GinJwtMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt("x-user-id")})
	})

	return router
}

func TestGinJwtMiddleware_MissingHeader(t *testing.T) {
	RegisterTestingT(t)

	req, _ := http.NewRequest("GET", "/protected", nil)
	rr := httptest.NewRecorder()

	middlewareRouter().ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
	Expect(rr.Body.String()).To(ContainSubstring("Sesión requerida"))
}

func TestGinJwtMiddleware_BadFormat(t *testing.T) {
	RegisterTestingT(t)

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	rr := httptest.NewRecorder()

	middlewareRouter().ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
	Expect(rr.Body.String()).To(ContainSubstring("Formato de autorización inválido"))
}

func TestGinJwtMiddleware_ValidToken(t *testing.T) {
	RegisterTestingT(t)
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := auth.CreateTokenForUser(7)
	Expect(err).To(BeNil())

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	middlewareRouter().ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Body.String()).To(ContainSubstring(`"user_id":7`))
}
