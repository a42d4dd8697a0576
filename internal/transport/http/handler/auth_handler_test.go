package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Parallel()
	env := newEnv(t)

	w := env.do(t, jsonReq(t, http.MethodPost, "/register", gin.H{
		"nama":             "Budi",
		"email":            "budi@example.com",
		"password":         "rahasia123",
		"confirm_password": "rahasia123",
	}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "User berhasil dibuat", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "budi@example.com", data["email"])
	assert.Equal(t, "user", data["role"])

	// same email again
	w = env.do(t, jsonReq(t, http.MethodPost, "/register", gin.H{
		"nama":             "Budi Lain",
		"email":            "budi@example.com",
		"password":         "rahasia123",
		"confirm_password": "rahasia123",
	}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email sudah terdaftar", decode(t, w)["message"])
}

func TestRegisterPasswordMismatch(t *testing.T) {
	t.Parallel()
	env := newEnv(t)

	w := env.do(t, jsonReq(t, http.MethodPost, "/register", gin.H{
		"nama":             "Budi",
		"email":            "budi@example.com",
		"password":         "satu",
		"confirm_password": "dua",
	}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Password tidak sama", decode(t, w)["message"])
}

func TestLogin(t *testing.T) {
	t.Parallel()
	env := newEnv(t)
	env.registerAndLogin(t, "Budi", "budi@example.com")

	t.Run("wrong password", func(t *testing.T) {
		w := env.do(t, jsonReq(t, http.MethodPost, "/login", gin.H{
			"email":    "budi@example.com",
			"password": "salah",
		}))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Password salah", decode(t, w)["message"])
	})

	t.Run("unknown email", func(t *testing.T) {
		w := env.do(t, jsonReq(t, http.MethodPost, "/login", gin.H{
			"email":    "nobody@example.com",
			"password": "rahasia123",
		}))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "User tidak ditemukan", decode(t, w)["message"])
	})

	t.Run("success sets refresh cookie", func(t *testing.T) {
		w := env.do(t, jsonReq(t, http.MethodPost, "/login", gin.H{
			"email":    "budi@example.com",
			"password": "rahasia123",
		}))
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "Login berhasil", body["message"])
		assert.NotEmpty(t, body["accessToken"])
		user := body["user"].(map[string]any)
		assert.Equal(t, "Budi", user["nama"])

		var cookie *http.Cookie
		for _, ck := range w.Result().Cookies() {
			if ck.Name == "refreshToken" {
				cookie = ck
			}
		}
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)
		assert.NotEmpty(t, cookie.Value)
	})
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()
	env := newEnv(t)
	_, refresh := env.registerAndLogin(t, "Budi", "budi@example.com")

	t.Run("no cookie", func(t *testing.T) {
		w := env.do(t, bareReq(http.MethodGet, "/token"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("stored cookie mints access token", func(t *testing.T) {
		req := bareReq(http.MethodGet, "/token")
		req.AddCookie(refresh)
		w := env.do(t, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.NotEmpty(t, decode(t, w)["accessToken"])
	})

	t.Run("unknown cookie", func(t *testing.T) {
		req := bareReq(http.MethodGet, "/token")
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "bukan-token"})
		w := env.do(t, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()
	env := newEnv(t)
	_, refresh := env.registerAndLogin(t, "Budi", "budi@example.com")

	t.Run("no cookie is a no-op", func(t *testing.T) {
		w := env.do(t, bareReq(http.MethodDelete, "/logout"))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("clears the stored token once", func(t *testing.T) {
		req := bareReq(http.MethodDelete, "/logout")
		req.AddCookie(refresh)
		w := env.do(t, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Logout berhasil", decode(t, w)["message"])

		// second logout with the same cookie finds nothing to clear
		req = bareReq(http.MethodDelete, "/logout")
		req.AddCookie(refresh)
		w = env.do(t, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()
	env := newEnv(t)

	w := env.do(t, bareReq(http.MethodGet, "/users/profile"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Akses token tidak ditemukan", decode(t, w)["message"])

	req := withBearer(bareReq(http.MethodGet, "/users/profile"), "bukan.token.valid")
	w = env.do(t, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Token tidak valid", decode(t, w)["message"])
}

func TestProfile(t *testing.T) {
	t.Parallel()
	env := newEnv(t)
	token, _ := env.registerAndLogin(t, "Budi", "budi@example.com")

	w := env.do(t, withBearer(bareReq(http.MethodGet, "/users/profile"), token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "budi@example.com", body["email"])
	assert.Equal(t, "Budi", body["nama"])
	assert.NotContains(t, body, "password")
}

func TestListUsers(t *testing.T) {
	t.Parallel()
	env := newEnv(t)
	token, _ := env.registerAndLogin(t, "Budi", "budi@example.com")

	w := env.do(t, withBearer(bareReq(http.MethodGet, "/users"), token))
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Data users berhasil diambil", body["message"])
	users := body["data"].([]any)
	require.Len(t, users, 1)
	first := users[0].(map[string]any)
	assert.Equal(t, "budi@example.com", first["email"])
	assert.NotContains(t, first, "password")
}
