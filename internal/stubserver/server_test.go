package stubserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func postJSON(t *testing.T, srv *httptest.Server, path string, body any, headers map[string]string) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, srv.URL+path, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func loginToken(t *testing.T, srv *httptest.Server, email, password string) string {
	t.Helper()

	resp := postJSON(t, srv, "/api/login", map[string]string{"email": email, "password": password}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return body.Token
}

// TestLoginAndMe tests the credential exchange and profile endpoint.
func TestLoginAndMe(t *testing.T) {
	srv := httptest.NewServer(New())
	defer srv.Close()

	token := loginToken(t, srv, SeedAdminEmail, SeedAdminPassword)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("me request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me status = %d", resp.StatusCode)
	}
	var body struct {
		User struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode me response: %v", err)
	}
	if body.User.Email != SeedAdminEmail || body.User.Role != "admin" {
		t.Errorf("me = %+v", body.User)
	}
}

// TestLoginRejectsBadCredentials tests the 401 login path.
func TestLoginRejectsBadCredentials(t *testing.T) {
	srv := httptest.NewServer(New())
	defer srv.Close()

	resp := postJSON(t, srv, "/api/login", map[string]string{"email": SeedAdminEmail, "password": "wrong"}, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

// TestMeRejectsBadTokens tests token validation on the profile endpoint.
func TestMeRejectsBadTokens(t *testing.T) {
	srv := httptest.NewServer(New())
	defer srv.Close()

	tests := []struct {
		name string
		auth string
	}{
		{name: "no header", auth: ""},
		{name: "not bearer", auth: "Basic abc"},
		{name: "garbage token", auth: "Bearer not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/me", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", resp.StatusCode)
			}
		})
	}
}

// TestRegister tests account creation, duplicate rejection, and that the
// new account can log in but starts as a member.
func TestRegister(t *testing.T) {
	srv := httptest.NewServer(New())
	defer srv.Close()

	resp := postJSON(t, srv, "/api/register", map[string]string{
		"name": "New User", "email": "new@example.com", "password": "longenough",
	}, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}

	dup := postJSON(t, srv, "/api/register", map[string]string{
		"name": "New User", "email": "new@example.com", "password": "longenough",
	}, nil)
	defer dup.Body.Close()
	if dup.StatusCode != http.StatusBadRequest {
		t.Errorf("duplicate register status = %d, want 400", dup.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(dup.Body).Decode(&body); err != nil || body.Error == "" {
		t.Errorf("duplicate register body missing error: %v", err)
	}

	token := loginToken(t, srv, "new@example.com", "longenough")
	create := postJSON(t, srv, "/api/products", map[string]any{
		"name": "X", "price": 100, "category_id": 1, "sku": "X-1",
	}, map[string]string{"Authorization": "Bearer " + token})
	create.Body.Close()
	if create.StatusCode != http.StatusForbidden {
		t.Errorf("member create status = %d, want 403", create.StatusCode)
	}
}

// TestProductLifecycle tests listing and admin-gated creation with the
// distinct rejection statuses.
func TestProductLifecycle(t *testing.T) {
	srv := httptest.NewServer(New())
	defer srv.Close()

	adminToken := loginToken(t, srv, SeedAdminEmail, SeedAdminPassword)
	auth := map[string]string{"Authorization": "Bearer " + adminToken}

	// Unknown category.
	resp := postJSON(t, srv, "/api/products", map[string]any{
		"name": "X", "price": 100, "category_id": 99, "sku": "X-1",
	}, auth)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown category status = %d, want 404", resp.StatusCode)
	}

	// Duplicate SKU (seeded).
	resp = postJSON(t, srv, "/api/products", map[string]any{
		"name": "X", "price": 100, "category_id": 1, "sku": "BEAN-001",
	}, auth)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate sku status = %d, want 409", resp.StatusCode)
	}

	// No token.
	resp = postJSON(t, srv, "/api/products", map[string]any{
		"name": "X", "price": 100, "category_id": 1, "sku": "X-1",
	}, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("anonymous create status = %d, want 401", resp.StatusCode)
	}

	// Valid create.
	resp = postJSON(t, srv, "/api/products", map[string]any{
		"name": "Drip Coffee", "price": 250, "category_id": 2, "sku": "DRINK-002", "is_available": true,
	}, auth)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var created struct {
		ID  int64  `json:"id"`
		SKU string `json:"sku"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode created product: %v", err)
	}
	resp.Body.Close()
	if created.ID == 0 || created.SKU != "DRINK-002" {
		t.Errorf("created = %+v", created)
	}

	// Listing includes the new product and needs no token.
	list, err := http.Get(srv.URL + "/api/products")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	defer list.Body.Close()
	var listBody struct {
		Products []struct {
			SKU string `json:"sku"`
		} `json:"products"`
	}
	if err := json.NewDecoder(list.Body).Decode(&listBody); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	found := false
	for _, p := range listBody.Products {
		if p.SKU == "DRINK-002" {
			found = true
		}
	}
	if !found {
		t.Errorf("created product missing from list: %+v", listBody.Products)
	}
}
