package jwt

import (
	"context"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/employee"
)

const testSecret = "test-secret-key-for-jwt"

func TestGenerateAndDecodeAccessToken(t *testing.T) {
	svc := NewJWTService(testSecret, "1h")

	tokenString, expiresAt, err := svc.GenerateAccessToken("emp-1", "co-1", employee.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)
	assert.Greater(t, expiresAt, int64(0))

	token, err := svc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)

	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "emp-1", claims["employee_id"])
	assert.Equal(t, "co-1", claims["company_id"])
	assert.Equal(t, "ADMIN", claims["role"])
	assert.Equal(t, "access", claims["type"])
}

func TestGenerateAccessTokenRejectsBadExpiration(t *testing.T) {
	svc := NewJWTService(testSecret, "not-a-duration")

	_, _, err := svc.GenerateAccessToken("emp-1", "co-1", employee.RoleEmployee)
	assert.Error(t, err)
}

func TestSSETokenRoundTrip(t *testing.T) {
	svc := NewJWTService(testSecret, "1h")

	token, expiresIn, err := svc.GenerateSSEToken("emp-1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	employeeID, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", employeeID)
}

func TestValidateSSETokenRejectsAccessToken(t *testing.T) {
	svc := NewJWTService(testSecret, "1h")

	accessToken, _, err := svc.GenerateAccessToken("emp-1", "co-1", employee.RoleEmployee)
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(accessToken)
	assert.Error(t, err, "an access token must not open the event stream")
}

func TestClaimsFromContext(t *testing.T) {
	svc := NewJWTService(testSecret, "1h")

	tokenString, _, err := svc.GenerateAccessToken("emp-1", "co-1", employee.RoleTeamLeader)
	require.NoError(t, err)

	token, err := svc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)

	ctx := jwtauth.NewContext(context.Background(), token, nil)

	claims, err := ClaimsFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", claims.EmployeeID)
	assert.Equal(t, "co-1", claims.CompanyID)
	assert.Equal(t, employee.RoleTeamLeader, claims.Role)
}

func TestClaimsFromContextMissingToken(t *testing.T) {
	_, err := ClaimsFromContext(context.Background())
	assert.Error(t, err)
}

func TestClaimsFromContextMissingFields(t *testing.T) {
	ja := jwtauth.New("HS256", []byte(testSecret), nil)
	token, _, err := ja.Encode(map[string]interface{}{"employee_id": "emp-1"})
	require.NoError(t, err)

	ctx := jwtauth.NewContext(context.Background(), token, nil)

	_, err = ClaimsFromContext(ctx)
	assert.Error(t, err, "company_id is required")
}
